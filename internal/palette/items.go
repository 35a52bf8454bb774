package palette

import (
	"fmt"

	"github.com/1broseidon/stackwm/internal/command"
	"github.com/1broseidon/stackwm/internal/wm"
)

// Items builds the palette for the current state: one entry per workspace,
// a "send to" entry per workspace when a client is focused, then every
// command that needs no free-form argument.
func Items(st wm.Status) []Item {
	items := []Item{{Label: "Workspaces", IsHeader: true}}
	for _, ws := range st.Workspaces {
		label := fmt.Sprintf("%s  %s", ws.Name, ws.Layout)
		if n := len(ws.Clients); n > 0 {
			label += fmt.Sprintf("  (%d)", n)
		}
		items = append(items, Item{
			Label:    label,
			Action:   fmt.Sprintf("%s %d", command.FocusWorkspace, ws.Index+1),
			IsActive: ws.Index == st.FocusedWorkspace,
		})
	}

	if st.FocusedClient != 0 {
		items = append(items, Item{Label: "Send window to", IsHeader: true})
		for _, ws := range st.Workspaces {
			if ws.Index == st.FocusedWorkspace {
				continue
			}
			items = append(items, Item{
				Label:  "→ " + ws.Name,
				Action: fmt.Sprintf("%s %d", command.ClientToWorkspace, ws.Index+1),
			})
		}
	}

	items = append(items, Item{Label: "Commands", IsHeader: true})
	for _, name := range command.Names() {
		n := command.Name(name)
		kind, _ := command.KindOf(n)
		switch kind {
		case command.ArgNone:
			items = append(items, Item{Label: name, Action: name})
		case command.ArgDirection:
			items = append(items,
				Item{Label: name + " forward", Action: name + " forward"},
				Item{Label: name + " backward", Action: name + " backward"})
		case command.ArgChange:
			items = append(items,
				Item{Label: name + " more", Action: name + " more"},
				Item{Label: name + " less", Action: name + " less"})
		}
	}
	return items
}
