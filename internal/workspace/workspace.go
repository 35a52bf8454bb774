// Package workspace holds the ordered client stacks of every workspace and
// the per-workspace layout state.
package workspace

import (
	"errors"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/tiling"
)

var (
	// ErrInvalidWorkspaceIndex is returned for an out-of-range workspace index.
	ErrInvalidWorkspaceIndex = errors.New("invalid workspace index")
	// ErrNoFocusedClient is returned when an operation needs a focused client
	// and the workspace is empty.
	ErrNoFocusedClient = errors.New("no focused client")
	// ErrClientAlreadyPlaced is returned when adding a client that is already
	// on a workspace.
	ErrClientAlreadyPlaced = errors.New("client already placed")
	// ErrClientNotPlaced is returned when moving or focusing a client that is
	// not on the expected workspace.
	ErrClientNotPlaced = errors.New("client not placed")
	// ErrUnknownLayout is returned when selecting a layout symbol the
	// workspace does not have.
	ErrUnknownLayout = errors.New("unknown layout")
)

// Position selects where a client enters a stack.
type Position int

const (
	Front Position = iota
	Back
)

// Direction is the argument of the cycling commands.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Workspace is a named stack of clients with its own layout state. Stack
// order decides the main and secondary roles in the layout.
type Workspace struct {
	Name string

	stack   []platform.WindowID
	focus   int
	layouts []tiling.Layout
	current int
}

func newWorkspace(name string, layouts []tiling.Layout) *Workspace {
	ls := make([]tiling.Layout, len(layouts))
	copy(ls, layouts)
	return &Workspace{Name: name, layouts: ls, focus: -1}
}

// Stack returns a copy of the client stack.
func (w *Workspace) Stack() []platform.WindowID {
	out := make([]platform.WindowID, len(w.stack))
	copy(out, w.stack)
	return out
}

// Len returns the number of clients on the workspace.
func (w *Workspace) Len() int {
	return len(w.stack)
}

// Focused returns the focused client, if any.
func (w *Workspace) Focused() (platform.WindowID, bool) {
	if w.focus < 0 || w.focus >= len(w.stack) {
		return 0, false
	}
	return w.stack[w.focus], true
}

// Layout returns the active layout with this workspace's tuning applied.
func (w *Workspace) Layout() tiling.Layout {
	if len(w.layouts) == 0 {
		return tiling.Layout{Symbol: "[----]", Kind: tiling.KindFloating, Conf: tiling.Conf{Floating: true}}
	}
	return w.layouts[w.current]
}

// LayoutSymbols lists the symbols of the available layouts in cycle order.
func (w *Workspace) LayoutSymbols() []string {
	out := make([]string, len(w.layouts))
	for i, l := range w.layouts {
		out[i] = l.Symbol
	}
	return out
}

func (w *Workspace) indexOf(id platform.WindowID) int {
	for i, s := range w.stack {
		if s == id {
			return i
		}
	}
	return -1
}

func (w *Workspace) insert(id platform.WindowID, pos Position) {
	if pos == Back {
		w.stack = append(w.stack, id)
		w.focus = len(w.stack) - 1
		return
	}
	w.stack = append([]platform.WindowID{id}, w.stack...)
	w.focus = 0
}

func (w *Workspace) remove(i int) {
	w.stack = append(w.stack[:i], w.stack[i+1:]...)
	switch {
	case len(w.stack) == 0:
		w.focus = -1
	case i < w.focus:
		w.focus--
	case w.focus >= len(w.stack):
		w.focus = len(w.stack) - 1
	}
}

// step moves i one position in dir over n items. Without wrapping the
// index stops at the ends.
func step(i, n int, dir Direction, wrap bool) int {
	next := i + 1
	if dir == Backward {
		next = i - 1
	}
	if next >= 0 && next < n {
		return next
	}
	if !wrap {
		return i
	}
	return (next + n) % n
}
