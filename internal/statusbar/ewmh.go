package statusbar

import (
	"slices"

	"github.com/1broseidon/stackwm/internal/hooks"
	"github.com/1broseidon/stackwm/internal/platform"
)

// DesktopPublisher sets the EWMH root-window properties read by external
// bars and pagers. *x11.Connection implements it.
type DesktopPublisher interface {
	SetDesktops(names []string) error
	SetCurrentDesktop(index int) error
	SetActiveWindow(windowID uint32) error
	SetClientList(windowIDs []uint32) error
}

// EWMHRenderer publishes workspaces as EWMH desktops.
type EWMHRenderer struct {
	pub   DesktopPublisher
	names []string
}

// NewEWMHRenderer returns a renderer writing through pub.
func NewEWMHRenderer(pub DesktopPublisher) *EWMHRenderer {
	return &EWMHRenderer{pub: pub}
}

func (r *EWMHRenderer) WorkspacesChanged(workspaces []hooks.WorkspaceInfo) error {
	names := make([]string, len(workspaces))
	current := -1
	for i, ws := range workspaces {
		names[i] = ws.Name
		if ws.Focused {
			current = ws.Index
		}
	}
	if !slices.Equal(names, r.names) {
		if err := r.pub.SetDesktops(names); err != nil {
			return err
		}
		r.names = names
	}
	if current < 0 {
		return nil
	}
	return r.pub.SetCurrentDesktop(current)
}

// LayoutChanged is a no-op; EWMH has no property for the layout.
func (r *EWMHRenderer) LayoutChanged(string) error {
	return nil
}

func (r *EWMHRenderer) ActiveWindowChanged(id platform.WindowID, _ string) error {
	return r.pub.SetActiveWindow(uint32(id))
}

func (r *EWMHRenderer) ClientsChanged(ids []platform.WindowID) error {
	out := make([]uint32, len(ids))
	for i, id := range ids {
		out[i] = uint32(id)
	}
	return r.pub.SetClientList(out)
}
