package wm

import (
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/workspace"
)

// HandleEvent folds one window-system event into the state, then lays out
// and notifies hooks. Events about unknown windows are ignored; the window
// system is the source of truth and late or duplicate notifications are
// expected.
func (m *Manager) HandleEvent(ev platform.Event) {
	switch e := ev.(type) {
	case platform.MapRequest:
		m.onMapRequest(e)
	case platform.UnmapNotify:
		m.onUnmapNotify(e)
	case platform.DestroyNotify:
		m.onDestroyNotify(e)
	case platform.ConfigureRequest:
		m.onConfigureRequest(e)
	case platform.FocusIn:
		m.onFocusIn(e)
	case platform.PropertyNotify:
		m.onPropertyNotify(e)
	default:
		m.logger.Debug("ignoring event", "type", ev)
		return
	}
	m.settle()
}

func (m *Manager) onMapRequest(e platform.MapRequest) {
	if m.clients.Contains(e.ID) {
		if c, err := m.clients.Lookup(e.ID); err == nil && !c.Hidden && m.screenOf(c.Workspace) >= 0 {
			if err := m.backend.Map(e.ID); err != nil {
				m.logger.Debug("remap failed", "window", e.ID, "error", err)
			}
			m.mapped[e.ID] = true
		}
		return
	}
	m.manage(e.ID, e.Class, e.Title, e.Bounds, workspace.Front)
}

func (m *Manager) onUnmapNotify(e platform.UnmapNotify) {
	if n := m.pendingUnmaps[e.ID]; n > 0 {
		if n == 1 {
			delete(m.pendingUnmaps, e.ID)
		} else {
			m.pendingUnmaps[e.ID] = n - 1
		}
		return
	}
	if !m.clients.Contains(e.ID) {
		return
	}
	m.unmanage(e.ID)
}

func (m *Manager) onDestroyNotify(e platform.DestroyNotify) {
	delete(m.pendingUnmaps, e.ID)
	if !m.clients.Contains(e.ID) {
		return
	}
	m.unmanage(e.ID)
}

func (m *Manager) onConfigureRequest(e platform.ConfigureRequest) {
	c, err := m.clients.Lookup(e.ID)
	if err != nil {
		if err := m.backend.Configure(e); err != nil {
			m.logger.Debug("configure unmanaged window failed", "window", e.ID, "error", err)
		}
		return
	}

	if c.Floating || m.workspaceFloats(c.Workspace) {
		geometry := e.Mask.Merge(c.Geometry, e.Bounds)
		_ = m.clients.SetGeometry(e.ID, geometry)
		if m.mapped[e.ID] {
			if err := m.place(e.ID, geometry); err != nil {
				m.logger.Debug("configure floating window failed", "window", e.ID, "error", err)
			}
		}
		return
	}

	current, ok := m.applied[e.ID]
	if !ok {
		current = c.Geometry
	}
	if err := m.backend.NotifyGeometry(e.ID, current, m.settings.BorderPx); err != nil {
		m.logger.Debug("configure notify failed", "window", e.ID, "error", err)
	}
}

// onFocusIn follows focus changes made outside the window manager, such as
// a client taking focus itself. Focus is not sent back to the window
// system.
func (m *Manager) onFocusIn(e platform.FocusIn) {
	if e.ID == m.inputFocus {
		return
	}
	c, err := m.clients.Lookup(e.ID)
	if err != nil || c.Hidden {
		return
	}
	screen := m.screenOf(c.Workspace)
	if screen < 0 {
		return
	}
	if err := m.workspaces.Focus(c.Workspace, e.ID); err != nil {
		return
	}
	m.focusedScreen = screen
	m.setFocusBorders(e.ID)
	m.markFocusChanged(c.Workspace)
}

func (m *Manager) onPropertyNotify(e platform.PropertyNotify) {
	if !m.clients.Contains(e.ID) {
		return
	}
	_ = m.clients.SetName(e.ID, e.Title)
}

func (m *Manager) workspaceFloats(ws int) bool {
	w, err := m.workspaces.Get(ws)
	if err != nil {
		return false
	}
	return w.Layout().Conf.Floating
}
