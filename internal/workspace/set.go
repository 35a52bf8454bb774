package workspace

import (
	"fmt"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/tiling"
)

const (
	minMainRatio = 0.05
	maxMainRatio = 0.95
)

// Set is the ordered collection of workspaces. A client ID appears in at
// most one workspace stack.
type Set struct {
	workspaces []*Workspace
	placement  map[platform.WindowID]int
}

// New creates one workspace per name, each starting with its own copy of
// layouts and the first layout selected.
func New(names []string, layouts []tiling.Layout) *Set {
	s := &Set{placement: make(map[platform.WindowID]int)}
	for _, name := range names {
		s.workspaces = append(s.workspaces, newWorkspace(name, layouts))
	}
	return s
}

// Len returns the number of workspaces.
func (s *Set) Len() int {
	return len(s.workspaces)
}

// Get returns the workspace at idx.
func (s *Set) Get(idx int) (*Workspace, error) {
	if idx < 0 || idx >= len(s.workspaces) {
		return nil, fmt.Errorf("workspace %d: %w", idx, ErrInvalidWorkspaceIndex)
	}
	return s.workspaces[idx], nil
}

// Names returns the workspace names in index order.
func (s *Set) Names() []string {
	out := make([]string, len(s.workspaces))
	for i, w := range s.workspaces {
		out[i] = w.Name
	}
	return out
}

// AddClient places id on workspace idx and focuses it.
func (s *Set) AddClient(idx int, id platform.WindowID, pos Position) error {
	w, err := s.Get(idx)
	if err != nil {
		return err
	}
	if cur, ok := s.placement[id]; ok {
		return fmt.Errorf("add window %d to workspace %d: on workspace %d: %w", id, idx, cur, ErrClientAlreadyPlaced)
	}
	w.insert(id, pos)
	s.placement[id] = idx
	return nil
}

// RemoveClient removes id from whichever workspace holds it and reports that
// workspace. Removing an unplaced client is a no-op.
func (s *Set) RemoveClient(id platform.WindowID) (int, bool) {
	idx, ok := s.placement[id]
	if !ok {
		return 0, false
	}
	w := s.workspaces[idx]
	if i := w.indexOf(id); i >= 0 {
		w.remove(i)
	}
	delete(s.placement, id)
	return idx, true
}

// MoveClient moves id to the front of workspace target.
func (s *Set) MoveClient(id platform.WindowID, target int) error {
	if _, err := s.Get(target); err != nil {
		return err
	}
	cur, ok := s.placement[id]
	if !ok {
		return fmt.Errorf("move window %d: %w", id, ErrClientNotPlaced)
	}
	if cur == target {
		return nil
	}
	s.RemoveClient(id)
	return s.AddClient(target, id, Front)
}

// Contains reports whether id is on any workspace.
func (s *Set) Contains(id platform.WindowID) bool {
	_, ok := s.placement[id]
	return ok
}

// WorkspaceOf returns the index of the workspace holding id.
func (s *Set) WorkspaceOf(id platform.WindowID) (int, bool) {
	idx, ok := s.placement[id]
	return idx, ok
}

// Focused returns the focused client of workspace idx.
func (s *Set) Focused(idx int) (platform.WindowID, bool) {
	w, err := s.Get(idx)
	if err != nil {
		return 0, false
	}
	return w.Focused()
}

// Focus makes id the focused client of workspace idx.
func (s *Set) Focus(idx int, id platform.WindowID) error {
	w, err := s.Get(idx)
	if err != nil {
		return err
	}
	i := w.indexOf(id)
	if i < 0 {
		return fmt.Errorf("focus window %d on workspace %d: %w", id, idx, ErrClientNotPlaced)
	}
	w.focus = i
	return nil
}

// CycleFocus moves focus one client in dir and returns the new focus.
func (s *Set) CycleFocus(idx int, dir Direction) (platform.WindowID, error) {
	w, err := s.Get(idx)
	if err != nil {
		return 0, err
	}
	if len(w.stack) == 0 {
		return 0, ErrNoFocusedClient
	}
	w.focus = step(w.focus, len(w.stack), dir, w.Layout().Conf.AllowWrapping)
	return w.stack[w.focus], nil
}

// DragClient swaps the focused client with its neighbour in dir, wrapping at
// the ends. Focus stays on the dragged client.
func (s *Set) DragClient(idx int, dir Direction) (platform.WindowID, error) {
	w, err := s.Get(idx)
	if err != nil {
		return 0, err
	}
	if len(w.stack) == 0 {
		return 0, ErrNoFocusedClient
	}
	from := w.focus
	to := step(from, len(w.stack), dir, true)
	w.stack[from], w.stack[to] = w.stack[to], w.stack[from]
	w.focus = to
	return w.stack[to], nil
}

// SetLayout selects the layout with the given symbol.
func (s *Set) SetLayout(idx int, symbol string) error {
	w, err := s.Get(idx)
	if err != nil {
		return err
	}
	for i, l := range w.layouts {
		if l.Symbol == symbol {
			w.current = i
			return nil
		}
	}
	return fmt.Errorf("layout %q: %w", symbol, ErrUnknownLayout)
}

// CycleLayout selects the next or previous layout, wrapping.
func (s *Set) CycleLayout(idx int, dir Direction) (tiling.Layout, error) {
	w, err := s.Get(idx)
	if err != nil {
		return tiling.Layout{}, err
	}
	if len(w.layouts) > 0 {
		w.current = step(w.current, len(w.layouts), dir, true)
	}
	return w.Layout(), nil
}

// UpdateMainRatio adjusts the active layout's main ratio by delta, clamped to
// [0.05, 0.95].
func (s *Set) UpdateMainRatio(idx int, delta float64) (float64, error) {
	w, err := s.Get(idx)
	if err != nil {
		return 0, err
	}
	if len(w.layouts) == 0 {
		return 0, nil
	}
	l := &w.layouts[w.current]
	l.MainRatio = clampRatio(l.MainRatio + delta)
	return l.MainRatio, nil
}

// UpdateMaxMain adjusts the active layout's main-area client count by delta,
// clamped to [1, max(1, stack length)].
func (s *Set) UpdateMaxMain(idx int, delta int) (int, error) {
	w, err := s.Get(idx)
	if err != nil {
		return 0, err
	}
	if len(w.layouts) == 0 {
		return 0, nil
	}
	upper := len(w.stack)
	if upper < 1 {
		upper = 1
	}
	l := &w.layouts[w.current]
	l.MaxMain = max(1, min(upper, l.MaxMain+delta))
	return l.MaxMain, nil
}

func clampRatio(r float64) float64 {
	if r < minMainRatio {
		return minMainRatio
	}
	if r > maxMainRatio {
		return maxMainRatio
	}
	return r
}
