package wm

import (
	"fmt"

	"github.com/1broseidon/stackwm/internal/client"
	"github.com/1broseidon/stackwm/internal/hooks"
	"github.com/1broseidon/stackwm/internal/platform"
)

// Workspaces describes every workspace for hooks and the status bar.
func (m *Manager) Workspaces() []hooks.WorkspaceInfo {
	focused := m.FocusedWorkspace()
	out := make([]hooks.WorkspaceInfo, 0, m.workspaces.Len())
	for i := 0; i < m.workspaces.Len(); i++ {
		w, _ := m.workspaces.Get(i)
		out = append(out, hooks.WorkspaceInfo{
			Index:   i,
			Name:    w.Name,
			Layout:  w.Layout().Symbol,
			Clients: w.Len(),
			Screen:  m.screenOf(i),
			Focused: i == focused,
		})
	}
	return out
}

// Clients returns every managed client in registration order.
func (m *Manager) Clients() []client.Client {
	return m.clients.All()
}

// Client returns a snapshot of one client.
func (m *Manager) Client(id platform.WindowID) (client.Client, error) {
	return m.clients.Lookup(id)
}

// FindClient returns the first client matching pred in registration order.
func (m *Manager) FindClient(pred func(client.Client) bool) (platform.WindowID, bool) {
	return m.clients.Find(pred)
}

// Spawn launches a command line without waiting for it.
func (m *Manager) Spawn(commandLine string) error {
	if m.launcher == nil {
		return fmt.Errorf("spawn %q: no launcher", commandLine)
	}
	return m.launcher.Spawn(commandLine)
}

// MoveClientToWorkspace moves id to the front of workspace ws.
func (m *Manager) MoveClientToWorkspace(id platform.WindowID, ws int) error {
	if _, err := m.workspaces.Get(ws); err != nil {
		return err
	}
	from, ok := m.workspaces.WorkspaceOf(id)
	if !ok {
		return fmt.Errorf("move window %d: %w", id, ErrUnknownClient)
	}
	if from == ws {
		return nil
	}
	if err := m.workspaces.MoveClient(id, ws); err != nil {
		return err
	}
	_ = m.clients.SetWorkspace(id, ws)
	m.markDirty(from)
	m.markDirty(ws)
	return nil
}

// FocusClient focuses id, switching the focused screen or workspace when it
// is not currently visible.
func (m *Manager) FocusClient(id platform.WindowID) error {
	ws, ok := m.workspaces.WorkspaceOf(id)
	if !ok {
		return fmt.Errorf("focus window %d: %w", id, ErrUnknownClient)
	}
	if screen := m.screenOf(ws); screen >= 0 {
		m.focusedScreen = screen
	} else if err := m.FocusWorkspace(ws); err != nil {
		return err
	}
	if err := m.workspaces.Focus(ws, id); err != nil {
		return err
	}
	m.markDirty(ws)
	return nil
}

// SetClientFloating changes whether id is excluded from tiling.
func (m *Manager) SetClientFloating(id platform.WindowID, floating bool) error {
	c, err := m.clients.Lookup(id)
	if err != nil {
		return err
	}
	if err := m.clients.SetFloating(id, floating); err != nil {
		return err
	}
	m.markDirty(c.Workspace)
	return nil
}

// SetClientGeometry stores the geometry used when id is floating.
func (m *Manager) SetClientGeometry(id platform.WindowID, geometry platform.Rect) error {
	c, err := m.clients.Lookup(id)
	if err != nil {
		return err
	}
	if err := m.clients.SetGeometry(id, geometry); err != nil {
		return err
	}
	m.markDirty(c.Workspace)
	return nil
}
