package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes a physical output and its geometry.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
}

// Window contains metadata and geometry for a top-level window that already
// exists when the window manager starts.
type Window struct {
	ID     WindowID
	Class  string
	Title  string
	Bounds Rect
}

// Backend abstracts the window-system operations the window manager needs.
// The core never speaks the wire protocol directly.
type Backend interface {
	Displays() ([]Display, error)
	ExistingWindows() ([]Window, error)
	Events() <-chan Event

	MoveResize(windowID WindowID, bounds Rect) error
	Raise(windowID WindowID) error
	Map(windowID WindowID) error
	Unmap(windowID WindowID) error
	Close(windowID WindowID) error
	Focus(windowID WindowID) error
	SetBorder(windowID WindowID, width int, color uint32) error
	Configure(req ConfigureRequest) error
	NotifyGeometry(windowID WindowID, bounds Rect, border int) error
}
