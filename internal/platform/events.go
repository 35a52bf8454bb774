package platform

// Event is a window-system notification delivered to the event loop.
type Event interface {
	Window() WindowID
}

// MapRequest is sent when a client asks to be shown. Class and Title are read
// by the backend before the event is delivered.
type MapRequest struct {
	ID     WindowID
	Class  string
	Title  string
	Bounds Rect
}

// UnmapNotify is sent when a window is withdrawn.
type UnmapNotify struct {
	ID WindowID
}

// DestroyNotify is sent when a window is destroyed.
type DestroyNotify struct {
	ID WindowID
}

// ConfigureRequest is sent when a client asks for a new geometry. Mask
// reports which of the Bounds fields the client actually set.
type ConfigureRequest struct {
	ID          WindowID
	Bounds      Rect
	BorderWidth int
	Sibling     WindowID
	StackMode   int
	Mask        ConfigureMask
}

// FocusIn is sent when a window receives input focus.
type FocusIn struct {
	ID WindowID
}

// PropertyNotify is sent when a window's title changes.
type PropertyNotify struct {
	ID    WindowID
	Title string
}

func (e MapRequest) Window() WindowID       { return e.ID }
func (e UnmapNotify) Window() WindowID      { return e.ID }
func (e DestroyNotify) Window() WindowID    { return e.ID }
func (e ConfigureRequest) Window() WindowID { return e.ID }
func (e FocusIn) Window() WindowID          { return e.ID }
func (e PropertyNotify) Window() WindowID   { return e.ID }

// ConfigureMask mirrors the X11 ConfigWindow value mask bits.
type ConfigureMask uint16

const (
	ConfigureX ConfigureMask = 1 << iota
	ConfigureY
	ConfigureWidth
	ConfigureHeight
	ConfigureBorderWidth
	ConfigureSibling
	ConfigureStackMode
)

// Merge returns r with the fields selected by mask replaced by req's values.
func (m ConfigureMask) Merge(r Rect, req Rect) Rect {
	if m&ConfigureX != 0 {
		r.X = req.X
	}
	if m&ConfigureY != 0 {
		r.Y = req.Y
	}
	if m&ConfigureWidth != 0 {
		r.Width = req.Width
	}
	if m&ConfigureHeight != 0 {
		r.Height = req.Height
	}
	return r
}
