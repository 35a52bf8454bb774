package wm

import (
	"fmt"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/workspace"
)

// Screen is a physical output and the workspace it displays. Workspace is
// -1 when there are more screens than workspaces.
type Screen struct {
	Index     int
	Name      string
	Geometry  platform.Rect
	Workspace int
	Previous  int
}

func (m *Manager) setScreens(displays []platform.Display) {
	m.screens = make([]Screen, len(displays))
	m.dirty = make([]bool, len(displays))
	for i, d := range displays {
		ws := -1
		if i < m.workspaces.Len() {
			ws = i
		}
		m.screens[i] = Screen{
			Index:     i,
			Name:      d.Name,
			Geometry:  d.Bounds,
			Workspace: ws,
			Previous:  ws,
		}
		m.dirty[i] = true
	}
	m.focusedScreen = 0
}

// Screens returns a copy of the screen list.
func (m *Manager) Screens() []Screen {
	out := make([]Screen, len(m.screens))
	copy(out, m.screens)
	return out
}

// FocusedScreen returns the index of the focused screen.
func (m *Manager) FocusedScreen() int {
	return m.focusedScreen
}

// FocusedWorkspace returns the workspace on the focused screen, or -1.
func (m *Manager) FocusedWorkspace() int {
	if m.focusedScreen < 0 || m.focusedScreen >= len(m.screens) {
		return -1
	}
	return m.screens[m.focusedScreen].Workspace
}

// FocusedClient returns the focused client of the focused workspace.
func (m *Manager) FocusedClient() (platform.WindowID, bool) {
	ws := m.FocusedWorkspace()
	if ws < 0 {
		return 0, false
	}
	return m.workspaces.Focused(ws)
}

// FocusedScreenGeometry returns the layout region of the focused screen.
func (m *Manager) FocusedScreenGeometry() platform.Rect {
	if m.focusedScreen < 0 || m.focusedScreen >= len(m.screens) {
		return platform.Rect{}
	}
	return m.layoutRegion(m.screens[m.focusedScreen])
}

// FocusScreen makes screen idx the focused screen.
func (m *Manager) FocusScreen(idx int) error {
	if idx < 0 || idx >= len(m.screens) {
		return fmt.Errorf("screen %d: %w", idx, ErrInvalidScreenIndex)
	}
	m.focusedScreen = idx
	return nil
}

// CycleScreen focuses the next or previous screen, wrapping.
func (m *Manager) CycleScreen(dir workspace.Direction) error {
	n := len(m.screens)
	if n == 0 {
		return ErrInvalidScreenIndex
	}
	next := m.focusedScreen + 1
	if dir == workspace.Backward {
		next = m.focusedScreen - 1
	}
	return m.FocusScreen((next + n) % n)
}

// FocusWorkspace shows workspace idx on the focused screen. If another
// screen already shows it, the two screens swap workspaces.
func (m *Manager) FocusWorkspace(idx int) error {
	if _, err := m.workspaces.Get(idx); err != nil {
		return err
	}
	if m.focusedScreen < 0 || m.focusedScreen >= len(m.screens) {
		return ErrNoFocusedWorkspace
	}

	s := &m.screens[m.focusedScreen]
	if s.Workspace == idx {
		return nil
	}

	current := s.Workspace
	if other := m.screenOf(idx); other >= 0 {
		o := &m.screens[other]
		o.Previous = idx
		o.Workspace = current
		m.dirty[other] = true
	}
	s.Previous = current
	s.Workspace = idx
	m.dirty[m.focusedScreen] = true
	return nil
}

// ToggleWorkspace switches the focused screen back to the workspace it
// showed before.
func (m *Manager) ToggleWorkspace() error {
	if m.focusedScreen < 0 || m.focusedScreen >= len(m.screens) {
		return ErrNoFocusedWorkspace
	}
	prev := m.screens[m.focusedScreen].Previous
	if prev < 0 {
		return nil
	}
	return m.FocusWorkspace(prev)
}

// CycleWorkspace focuses the next or previous workspace, wrapping.
func (m *Manager) CycleWorkspace(dir workspace.Direction) error {
	n := m.workspaces.Len()
	cur := m.FocusedWorkspace()
	if n == 0 || cur < 0 {
		return ErrNoFocusedWorkspace
	}
	next := cur + 1
	if dir == workspace.Backward {
		next = cur - 1
	}
	return m.FocusWorkspace((next + n) % n)
}

// HideClient unmaps a client without removing it from its workspace.
func (m *Manager) HideClient(id platform.WindowID) error {
	c, err := m.clients.Lookup(id)
	if err != nil {
		return err
	}
	if c.Hidden {
		return nil
	}
	if err := m.clients.SetHidden(id, true); err != nil {
		return err
	}
	if focused, ok := m.workspaces.Focused(c.Workspace); ok && focused == id {
		m.focusVisible(c.Workspace, workspace.Forward)
	}
	m.markDirty(c.Workspace)
	return nil
}

// ShowClient maps a hidden client again.
func (m *Manager) ShowClient(id platform.WindowID) error {
	c, err := m.clients.Lookup(id)
	if err != nil {
		return err
	}
	if !c.Hidden {
		return nil
	}
	if err := m.clients.SetHidden(id, false); err != nil {
		return err
	}
	m.markDirty(c.Workspace)
	return nil
}

// KillClient asks the window system to close id. The client is forgotten
// when its unmap or destroy notification arrives.
func (m *Manager) KillClient(id platform.WindowID) error {
	if !m.clients.Contains(id) {
		return fmt.Errorf("kill window %d: %w", id, ErrUnknownClient)
	}
	if err := m.backend.Close(id); err != nil {
		return fmt.Errorf("kill window %d: %w", id, err)
	}
	return nil
}

// focusVisible moves focus on ws in dir until it lands on a client that is
// not hidden. Focus is left unchanged if every client is hidden.
func (m *Manager) focusVisible(ws int, dir workspace.Direction) {
	w, err := m.workspaces.Get(ws)
	if err != nil {
		return
	}
	start, ok := w.Focused()
	if !ok {
		return
	}
	for i := 0; i < w.Len(); i++ {
		id, err := m.workspaces.CycleFocus(ws, dir)
		if err != nil {
			return
		}
		if c, err := m.clients.Lookup(id); err == nil && !c.Hidden {
			return
		}
	}
	_ = m.workspaces.Focus(ws, start)
}

// screenOf returns the screen displaying ws, or -1.
func (m *Manager) screenOf(ws int) int {
	if ws < 0 {
		return -1
	}
	for i, s := range m.screens {
		if s.Workspace == ws {
			return i
		}
	}
	return -1
}

// layoutRegion is the part of the screen available to windows.
func (m *Manager) layoutRegion(s Screen) platform.Rect {
	r := s.Geometry
	if m.barEnabled && m.settings.BarHeight > 0 {
		r.Y += m.settings.BarHeight
		r.Height -= m.settings.BarHeight
	}
	return r
}

func (m *Manager) markDirty(ws int) {
	if i := m.screenOf(ws); i >= 0 {
		m.dirty[i] = true
	}
}

// markFocusChanged re-lays out ws after a focus change when its layout
// follows focus. Input focus and borders are updated either way.
func (m *Manager) markFocusChanged(ws int) {
	w, err := m.workspaces.Get(ws)
	if err != nil || !w.Layout().Conf.FollowFocus {
		return
	}
	m.markDirty(ws)
}

func (m *Manager) markAllDirty() {
	for i := range m.dirty {
		m.dirty[i] = true
	}
}
