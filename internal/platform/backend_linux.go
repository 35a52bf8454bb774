//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/stackwm/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
)

const eventBuffer = 256

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
// X event callbacks run on xgbutil's event goroutine and only translate and
// enqueue; all state mutation happens on the consumer of Events.
type LinuxBackend struct {
	conn   *x11.Connection
	events chan Event
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackendFromDisplay opens a fresh X11 connection and takes over
// window management on its root window.
func NewLinuxBackendFromDisplay(wmName string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	if err := conn.BecomeWM(wmName); err != nil {
		conn.Close()
		return nil, err
	}

	b := &LinuxBackend{
		conn:   conn,
		events: make(chan Event, eventBuffer),
	}
	b.connectRootHandlers()
	return b, nil
}

// Disconnect stops the event loop and closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Connection exposes the X11 connection for EWMH publishing.
func (b *LinuxBackend) Connection() *x11.Connection {
	return b.conn
}

// Events returns the translated event stream.
func (b *LinuxBackend) Events() <-chan Event {
	return b.events
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}
	return displays, nil
}

// ExistingWindows lists viewable, non-override-redirect top-level windows.
func (b *LinuxBackend) ExistingWindows() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	children, err := conn.TopLevelWindows()
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(children))
	for _, win := range children {
		if !conn.IsManageable(win) {
			continue
		}
		x, y, w, h, err := conn.WindowGeometry(win)
		if err != nil {
			continue
		}
		b.watchClient(win)
		windows = append(windows, Window{
			ID:     WindowID(win),
			Class:  conn.WindowClass(win),
			Title:  conn.WindowTitle(win),
			Bounds: Rect{X: x, Y: y, Width: w, Height: h},
		})
	}
	return windows, nil
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(windowID WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveResizeWindow(xproto.Window(windowID), bounds.X, bounds.Y, bounds.Width, bounds.Height)
}

// Raise stacks a window above its siblings.
func (b *LinuxBackend) Raise(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.RaiseWindow(xproto.Window(windowID))
}

// Map shows a window.
func (b *LinuxBackend) Map(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MapWindow(xproto.Window(windowID))
}

// Unmap hides a window.
func (b *LinuxBackend) Unmap(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.UnmapWindow(xproto.Window(windowID))
}

// Close requests graceful window close, killing the client if it does not
// support WM_DELETE_WINDOW.
func (b *LinuxBackend) Close(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.CloseWindow(xproto.Window(windowID))
}

// Focus gives input focus to a window.
func (b *LinuxBackend) Focus(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetInputFocus(xproto.Window(windowID))
}

// SetBorder sets border width and colour.
func (b *LinuxBackend) SetBorder(windowID WindowID, width int, color uint32) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetBorder(xproto.Window(windowID), width, color)
}

// Configure applies a configure request. Requests that only ask for the
// window's current state are answered with a synthetic ConfigureNotify.
func (b *LinuxBackend) Configure(req ConfigureRequest) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	mask, values := uint16(0), []uint32(nil)
	if req.Mask&ConfigureX != 0 {
		mask |= xproto.ConfigWindowX
		values = append(values, uint32(int32(req.Bounds.X)))
	}
	if req.Mask&ConfigureY != 0 {
		mask |= xproto.ConfigWindowY
		values = append(values, uint32(int32(req.Bounds.Y)))
	}
	if req.Mask&ConfigureWidth != 0 {
		mask |= xproto.ConfigWindowWidth
		values = append(values, uint32(req.Bounds.Width))
	}
	if req.Mask&ConfigureHeight != 0 {
		mask |= xproto.ConfigWindowHeight
		values = append(values, uint32(req.Bounds.Height))
	}
	if req.Mask&ConfigureBorderWidth != 0 {
		mask |= xproto.ConfigWindowBorderWidth
		values = append(values, uint32(req.BorderWidth))
	}
	if req.Mask&ConfigureSibling != 0 {
		mask |= xproto.ConfigWindowSibling
		values = append(values, uint32(req.Sibling))
	}
	if req.Mask&ConfigureStackMode != 0 {
		mask |= xproto.ConfigWindowStackMode
		values = append(values, uint32(req.StackMode))
	}
	if mask == 0 {
		return conn.SendConfigureNotify(xproto.Window(req.ID), req.Bounds.X, req.Bounds.Y, req.Bounds.Width, req.Bounds.Height, req.BorderWidth)
	}
	return conn.ConfigureWindow(xproto.Window(req.ID), mask, values)
}

// NotifyGeometry answers a tiled client's configure request with its current
// geometry without moving it.
func (b *LinuxBackend) NotifyGeometry(windowID WindowID, bounds Rect, border int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SendConfigureNotify(xproto.Window(windowID), bounds.X, bounds.Y, bounds.Width, bounds.Height, border)
}

func (b *LinuxBackend) connectRootHandlers() {
	xu, root := b.conn.XUtil, b.conn.Root

	xevent.MapRequestFun(func(xu *xgbutil.XUtil, ev xevent.MapRequestEvent) {
		win := ev.Window
		x, y, w, h, _ := b.conn.WindowGeometry(win)
		b.watchClient(win)
		b.events <- MapRequest{
			ID:     WindowID(win),
			Class:  b.conn.WindowClass(win),
			Title:  b.conn.WindowTitle(win),
			Bounds: Rect{X: x, Y: y, Width: w, Height: h},
		}
	}).Connect(xu, root)

	xevent.UnmapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		b.events <- UnmapNotify{ID: WindowID(ev.Window)}
	}).Connect(xu, root)

	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		xevent.Detach(xu, ev.Window)
		b.events <- DestroyNotify{ID: WindowID(ev.Window)}
	}).Connect(xu, root)

	xevent.ConfigureRequestFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureRequestEvent) {
		b.events <- ConfigureRequest{
			ID: WindowID(ev.Window),
			Bounds: Rect{
				X:      int(ev.X),
				Y:      int(ev.Y),
				Width:  int(ev.Width),
				Height: int(ev.Height),
			},
			BorderWidth: int(ev.BorderWidth),
			Sibling:     WindowID(ev.Sibling),
			StackMode:   int(ev.StackMode),
			Mask:        ConfigureMask(ev.ValueMask),
		}
	}).Connect(xu, root)
}

// watchClient subscribes to focus and title changes on a client window.
func (b *LinuxBackend) watchClient(win xproto.Window) {
	xu := b.conn.XUtil
	if err := xproto.ChangeWindowAttributesChecked(
		xu.Conn(),
		win,
		xproto.CwEventMask,
		[]uint32{xproto.EventMaskFocusChange | xproto.EventMaskPropertyChange},
	).Check(); err != nil {
		return
	}

	xevent.FocusInFun(func(xu *xgbutil.XUtil, ev xevent.FocusInEvent) {
		if ev.Mode == xproto.NotifyModeGrab || ev.Mode == xproto.NotifyModeUngrab {
			return
		}
		if ev.Detail == xproto.NotifyDetailPointer {
			return
		}
		b.events <- FocusIn{ID: WindowID(ev.Event)}
	}).Connect(xu, win)

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err != nil || (name != "_NET_WM_NAME" && name != "WM_NAME") {
			return
		}
		b.events <- PropertyNotify{ID: WindowID(ev.Window), Title: b.conn.WindowTitle(ev.Window)}
	}).Connect(xu, win)
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func displayFromMonitor(m x11.Monitor) Display {
	return Display{
		ID:   m.ID,
		Name: m.Name,
		Bounds: Rect{
			X:      m.X,
			Y:      m.Y,
			Width:  m.Width,
			Height: m.Height,
		},
	}
}
