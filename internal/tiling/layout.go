package tiling

import (
	"fmt"
	"math"

	"github.com/1broseidon/stackwm/internal/platform"
)

// Kind selects the geometry strategy of a layout.
type Kind string

const (
	KindSideStack   Kind = "side_stack"
	KindBottomStack Kind = "bottom_stack"
	KindMonocle     Kind = "monocle"
	KindGrid        Kind = "grid"
	KindFloating    Kind = "floating"
)

// Valid reports whether k names a known strategy.
func (k Kind) Valid() bool {
	switch k {
	case KindSideStack, KindBottomStack, KindMonocle, KindGrid, KindFloating:
		return true
	}
	return false
}

// Conf holds the behavioural flags of a layout.
type Conf struct {
	// Floating layouts never move windows.
	Floating bool
	// Gapless layouts ignore the configured gap.
	Gapless bool
	// FollowFocus layouts are re-applied when focus moves within the
	// workspace, which raises a focused floating or monocle window.
	FollowFocus bool
	// AllowWrapping lets focus cycling wrap at the ends of the stack.
	AllowWrapping bool
}

// Layout is a value describing how a workspace's stack is arranged. The same
// value is copied into each workspace, which then tunes MaxMain and MainRatio
// independently.
type Layout struct {
	Symbol    string
	Kind      Kind
	Conf      Conf
	MaxMain   int
	MainRatio float64
}

// Tile pairs a window with a geometry. Input tiles carry the window's current
// geometry; output tiles carry its target.
type Tile struct {
	ID   platform.WindowID
	Rect platform.Rect
}

// Params are the appearance settings shared by all layouts.
type Params struct {
	GapPx    int
	BorderPx int
}

// Apply computes target geometries for tiles within screen. The output has
// the same length and order as the input and depends only on the arguments.
func Apply(layout Layout, tiles []Tile, screen platform.Rect, params Params) ([]Tile, error) {
	if len(tiles) == 0 {
		return nil, nil
	}

	var cells []platform.Rect
	switch layout.Kind {
	case KindFloating:
		out := make([]Tile, len(tiles))
		copy(out, tiles)
		return out, nil
	case KindSideStack:
		cells = sideStack(len(tiles), screen, layout.MaxMain, layout.MainRatio)
	case KindBottomStack:
		cells = bottomStack(len(tiles), screen, layout.MaxMain, layout.MainRatio)
	case KindMonocle:
		cells = make([]platform.Rect, len(tiles))
		for i := range cells {
			cells[i] = screen
		}
	case KindGrid:
		cells = grid(len(tiles), screen)
	default:
		return nil, fmt.Errorf("unsupported layout kind: %q", layout.Kind)
	}

	gap := params.GapPx
	if layout.Conf.Gapless {
		gap = 0
	}

	out := make([]Tile, len(tiles))
	for i, t := range tiles {
		out[i] = Tile{ID: t.ID, Rect: shrink(cells[i], gap, params.BorderPx)}
	}
	return out, nil
}

// CalculateGrid determines the grid dimensions for the given number of windows
func CalculateGrid(numWindows int) (rows, cols int) {
	if numWindows == 0 {
		return 0, 0
	}

	// Calculate columns first (ceiling of square root)
	cols = int(math.Ceil(math.Sqrt(float64(numWindows))))

	// Calculate rows needed
	rows = int(math.Ceil(float64(numWindows) / float64(cols)))

	return rows, cols
}

func sideStack(n int, r platform.Rect, maxMain int, ratio float64) []platform.Rect {
	if maxMain < 1 {
		maxMain = 1
	}
	if n <= maxMain {
		return rows(r, n)
	}

	split := int(math.Floor(float64(r.Width) * ratio))
	main := platform.Rect{X: r.X, Y: r.Y, Width: split, Height: r.Height}
	stack := platform.Rect{X: r.X + split, Y: r.Y, Width: r.Width - split, Height: r.Height}

	return append(rows(main, maxMain), rows(stack, n-maxMain)...)
}

func bottomStack(n int, r platform.Rect, maxMain int, ratio float64) []platform.Rect {
	if maxMain < 1 {
		maxMain = 1
	}
	if n <= maxMain {
		return columns(r, n)
	}

	split := int(math.Floor(float64(r.Height) * ratio))
	main := platform.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: split}
	stack := platform.Rect{X: r.X, Y: r.Y + split, Width: r.Width, Height: r.Height - split}

	return append(columns(main, maxMain), columns(stack, n-maxMain)...)
}

// grid lays windows out in CalculateGrid cells. A short last row expands its
// cells to fill the full width.
func grid(n int, r platform.Rect) []platform.Rect {
	numRows, cols := CalculateGrid(n)
	bands := rows(r, numRows)

	out := make([]platform.Rect, 0, n)
	for row, band := range bands {
		inRow := cols
		if remaining := n - row*cols; remaining < cols {
			inRow = remaining
		}
		out = append(out, columns(band, inRow)...)
	}
	return out
}

// rows splits r into n equal-height bands; the last absorbs the remainder.
func rows(r platform.Rect, n int) []platform.Rect {
	out := make([]platform.Rect, n)
	h := r.Height / n
	for i := range out {
		out[i] = platform.Rect{X: r.X, Y: r.Y + i*h, Width: r.Width, Height: h}
	}
	out[n-1].Height = r.Height - (n-1)*h
	return out
}

// columns splits r into n equal-width bands; the last absorbs the remainder.
func columns(r platform.Rect, n int) []platform.Rect {
	out := make([]platform.Rect, n)
	w := r.Width / n
	for i := range out {
		out[i] = platform.Rect{X: r.X + i*w, Y: r.Y, Width: w, Height: r.Height}
	}
	out[n-1].Width = r.Width - (n-1)*w
	return out
}

func shrink(r platform.Rect, gap, border int) platform.Rect {
	r.X += gap
	r.Y += gap
	r.Width -= 2*gap + 2*border
	r.Height -= 2*gap + 2*border
	if r.Width < 1 {
		r.Width = 1
	}
	if r.Height < 1 {
		r.Height = 1
	}
	return r
}
