package wm

import "github.com/1broseidon/stackwm/internal/platform"

// Status is a serialisable snapshot of the manager state.
type Status struct {
	FocusedScreen    int               `json:"focused_screen"`
	FocusedWorkspace int               `json:"focused_workspace"`
	FocusedClient    uint32            `json:"focused_client,omitempty"`
	BarEnabled       bool              `json:"bar_enabled"`
	Screens          []ScreenStatus    `json:"screens"`
	Workspaces       []WorkspaceStatus `json:"workspaces"`
	Clients          []ClientStatus    `json:"clients"`
}

type ScreenStatus struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Workspace int    `json:"workspace"`
}

type WorkspaceStatus struct {
	Index     int      `json:"index"`
	Name      string   `json:"name"`
	Layout    string   `json:"layout"`
	MainRatio float64  `json:"main_ratio"`
	MaxMain   int      `json:"max_main"`
	Screen    int      `json:"screen"`
	Focused   uint32   `json:"focused,omitempty"`
	Clients   []uint32 `json:"clients"`
}

type ClientStatus struct {
	ID        uint32 `json:"id"`
	Name      string `json:"name"`
	Class     string `json:"class"`
	Workspace int    `json:"workspace"`
	Floating  bool   `json:"floating"`
	Hidden    bool   `json:"hidden"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Status returns a snapshot of the current state.
func (m *Manager) Status() Status {
	st := Status{
		FocusedScreen:    m.focusedScreen,
		FocusedWorkspace: m.FocusedWorkspace(),
		BarEnabled:       m.barEnabled,
	}
	if id, ok := m.FocusedClient(); ok {
		st.FocusedClient = uint32(id)
	}

	for _, s := range m.screens {
		st.Screens = append(st.Screens, ScreenStatus{
			Index:     s.Index,
			Name:      s.Name,
			X:         s.Geometry.X,
			Y:         s.Geometry.Y,
			Width:     s.Geometry.Width,
			Height:    s.Geometry.Height,
			Workspace: s.Workspace,
		})
	}

	for i := 0; i < m.workspaces.Len(); i++ {
		w, _ := m.workspaces.Get(i)
		layout := w.Layout()
		ws := WorkspaceStatus{
			Index:     i,
			Name:      w.Name,
			Layout:    layout.Symbol,
			MainRatio: layout.MainRatio,
			MaxMain:   layout.MaxMain,
			Screen:    m.screenOf(i),
			Clients:   ids(w.Stack()),
		}
		if id, ok := w.Focused(); ok {
			ws.Focused = uint32(id)
		}
		st.Workspaces = append(st.Workspaces, ws)
	}

	for _, c := range m.clients.All() {
		st.Clients = append(st.Clients, ClientStatus{
			ID:        uint32(c.ID),
			Name:      c.Name,
			Class:     c.Class,
			Workspace: c.Workspace,
			Floating:  c.Floating,
			Hidden:    c.Hidden,
			X:         c.Geometry.X,
			Y:         c.Geometry.Y,
			Width:     c.Geometry.Width,
			Height:    c.Geometry.Height,
		})
	}
	return st
}

func ids(in []platform.WindowID) []uint32 {
	out := make([]uint32, len(in))
	for i, id := range in {
		out[i] = uint32(id)
	}
	return out
}
