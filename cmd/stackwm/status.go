package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/stackwm/internal/ipc"
)

// statusStyles decorates section titles and the focused rows.
type statusStyles struct {
	title   func(string) string
	focused func(string) string
}

func plainStyles() statusStyles {
	same := func(s string) string { return s }
	return statusStyles{title: same, focused: same}
}

func terminalStyles() statusStyles {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	focusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	return statusStyles{
		title:   func(s string) string { return titleStyle.Render(s) },
		focused: func(s string) string { return focusStyle.Render(s) },
	}
}

// writeStatus renders a status snapshot for a terminal of the given width.
func writeStatus(w io.Writer, st *ipc.StatusData, width int, styles statusStyles) {
	names := make(map[int]string, len(st.Workspaces))
	for _, ws := range st.Workspaces {
		names[ws.Index] = ws.Name
	}

	fmt.Fprintf(w, "uptime: %s  bar: %v\n", time.Duration(st.UptimeSeconds)*time.Second, st.BarEnabled)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, styles.title("screens:"))
	for _, s := range st.Screens {
		marker := " "
		if s.Index == st.FocusedScreen {
			marker = "*"
		}
		fmt.Fprintf(w, " %s %d %-10s %dx%d+%d+%d  workspace %s\n",
			marker, s.Index, s.Name, s.Width, s.Height, s.X, s.Y, names[s.Workspace])
	}

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, styles.title("workspaces:"))
	for _, ws := range st.Workspaces {
		if len(ws.Clients) == 0 && ws.Screen < 0 {
			continue
		}
		marker := " "
		if ws.Index == st.FocusedWorkspace {
			marker = "*"
		}
		fmt.Fprintf(w, " %s %-4s %-8s ratio %.2f  main %d  clients %d\n",
			marker, ws.Name, ws.Layout, ws.MainRatio, ws.MaxMain, len(ws.Clients))
	}

	if len(st.Clients) == 0 {
		return
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, styles.title("clients:"))
	for _, c := range st.Clients {
		marker := " "
		if c.ID == st.FocusedClient {
			marker = "*"
		}
		flags := ""
		if c.Floating {
			flags += "F"
		}
		if c.Hidden {
			flags += "H"
		}
		prefix := fmt.Sprintf(" %s 0x%08x %-4s %-2s %-12s ", marker, c.ID, names[c.Workspace], flags, truncate(c.Class, 12))
		line := prefix + truncate(c.Name, width-len([]rune(prefix)))
		if c.ID == st.FocusedClient {
			line = styles.focused(line)
		}
		fmt.Fprintln(w, line)
	}
}

// truncate shortens s to at most n runes, marking the cut with "…".
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
