// Package statusbar feeds window-manager state to external status bars.
package statusbar

import (
	"errors"

	"github.com/1broseidon/stackwm/internal/client"
	"github.com/1broseidon/stackwm/internal/hooks"
	"github.com/1broseidon/stackwm/internal/platform"
)

// Renderer draws, or publishes, the bar contents. Implementations render
// independently; an error is logged by the hook pipeline and ignored.
type Renderer interface {
	WorkspacesChanged(workspaces []hooks.WorkspaceInfo) error
	LayoutChanged(symbol string) error
	ActiveWindowChanged(id platform.WindowID, name string) error
}

// ClientListRenderer is implemented by renderers that also publish the list
// of managed windows.
type ClientListRenderer interface {
	ClientsChanged(ids []platform.WindowID) error
}

// Hook translates pipeline notifications into Renderer calls.
type Hook struct {
	renderers []Renderer
}

// NewHook returns a hook driving the given renderers in order.
func NewHook(renderers ...Renderer) *Hook {
	return &Hook{renderers: renderers}
}

// Startup publishes the full state. A failing renderer does not keep the
// remaining parts from being published.
func (h *Hook) Startup(s hooks.State) error {
	return errors.Join(h.workspaces(s), h.layout(s), h.clients(s), h.active(s))
}

func (h *Hook) ClientAdded(s hooks.State, _ platform.WindowID) error {
	return errors.Join(h.workspaces(s), h.clients(s))
}

func (h *Hook) ClientRemoved(s hooks.State, _ client.Client) error {
	return errors.Join(h.workspaces(s), h.clients(s))
}

func (h *Hook) LayoutChanged(s hooks.State, workspace int, symbol string) error {
	if workspace != s.FocusedWorkspace() {
		return nil
	}
	var firstErr error
	for _, r := range h.renderers {
		if err := r.LayoutChanged(symbol); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *Hook) FocusChanged(_ hooks.State, id platform.WindowID, name string) error {
	var firstErr error
	for _, r := range h.renderers {
		if err := r.ActiveWindowChanged(id, name); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *Hook) WorkspaceChanged(s hooks.State, _, _ int) error {
	return errors.Join(h.workspaces(s), h.layout(s))
}

func (h *Hook) workspaces(s hooks.State) error {
	ws := s.Workspaces()
	var firstErr error
	for _, r := range h.renderers {
		if err := r.WorkspacesChanged(ws); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *Hook) layout(s hooks.State) error {
	focused := s.FocusedWorkspace()
	for _, w := range s.Workspaces() {
		if w.Index != focused {
			continue
		}
		var firstErr error
		for _, r := range h.renderers {
			if err := r.LayoutChanged(w.Layout); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
	return nil
}

func (h *Hook) active(s hooks.State) error {
	var (
		id   platform.WindowID
		name string
	)
	if fid, ok := s.FocusedClient(); ok {
		if c, err := s.Client(fid); err == nil {
			id, name = fid, c.Name
		}
	}
	return h.FocusChanged(s, id, name)
}

func (h *Hook) clients(s hooks.State) error {
	var ids []platform.WindowID
	for _, c := range s.Clients() {
		ids = append(ids, c.ID)
	}
	var firstErr error
	for _, r := range h.renderers {
		if cr, ok := r.(ClientListRenderer); ok {
			if err := cr.ClientsChanged(ids); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
