// Package hooks delivers window-manager state transitions to observers.
//
// A hook implements any subset of the capability interfaces below. The
// pipeline calls hooks in registration order; an error or panic in one hook
// is logged and does not stop the others.
package hooks

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/stackwm/internal/client"
	"github.com/1broseidon/stackwm/internal/platform"
)

// WorkspaceInfo describes one workspace for observers.
type WorkspaceInfo struct {
	Index   int
	Name    string
	Layout  string
	Clients int
	// Screen is the index of the screen showing the workspace, or -1.
	Screen  int
	Focused bool
}

// State is the view of the window manager handed to hooks. Mutating calls
// take effect immediately and are laid out before the next notification.
type State interface {
	FocusedWorkspace() int
	FocusedClient() (platform.WindowID, bool)
	FocusedScreenGeometry() platform.Rect
	Workspaces() []WorkspaceInfo
	Clients() []client.Client
	Client(id platform.WindowID) (client.Client, error)
	FindClient(pred func(client.Client) bool) (platform.WindowID, bool)

	Spawn(commandLine string) error
	HideClient(id platform.WindowID) error
	ShowClient(id platform.WindowID) error
	MoveClientToWorkspace(id platform.WindowID, workspace int) error
	FocusClient(id platform.WindowID) error
	SetClientFloating(id platform.WindowID, floating bool) error
	SetClientGeometry(id platform.WindowID, geometry platform.Rect) error
}

type StartupHook interface {
	Startup(s State) error
}

type ClientAddedHook interface {
	ClientAdded(s State, id platform.WindowID) error
}

type ClientRemovedHook interface {
	ClientRemoved(s State, c client.Client) error
}

type LayoutChangedHook interface {
	LayoutChanged(s State, workspace int, symbol string) error
}

// FocusChangedHook receives the newly focused client, or zero and an empty
// name when nothing is focused.
type FocusChangedHook interface {
	FocusChanged(s State, id platform.WindowID, name string) error
}

type WorkspaceChangedHook interface {
	WorkspaceChanged(s State, previous, current int) error
}

type ShutdownHook interface {
	Shutdown(s State) error
}

// Kind identifies a queued notification.
type Kind int

const (
	ClientAdded Kind = iota
	ClientRemoved
	LayoutChanged
	FocusChanged
	WorkspaceChanged
)

func (k Kind) String() string {
	switch k {
	case ClientAdded:
		return "client_added"
	case ClientRemoved:
		return "client_removed"
	case LayoutChanged:
		return "layout_changed"
	case FocusChanged:
		return "focus_changed"
	case WorkspaceChanged:
		return "workspace_changed"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Notification is a transition waiting for delivery.
type Notification struct {
	Kind      Kind
	Client    client.Client
	ID        platform.WindowID
	Name      string
	Workspace int
	Previous  int
	Symbol    string
}

// Pipeline is the ordered hook list plus the queue of undelivered
// notifications. It is owned by the event loop goroutine.
type Pipeline struct {
	hooks   []any
	queue   []Notification
	stopped bool
	logger  *slog.Logger
}

// NewPipeline creates an empty pipeline.
func NewPipeline(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{logger: logger.With("component", "hooks")}
}

// Register appends a hook. h should implement at least one capability
// interface.
func (p *Pipeline) Register(h any) {
	p.hooks = append(p.hooks, h)
}

// Len returns the number of registered hooks.
func (p *Pipeline) Len() int {
	return len(p.hooks)
}

// Queue records a notification for the next Flush. Notifications queued
// after Stop are dropped.
func (p *Pipeline) Queue(n Notification) {
	if p.stopped {
		return
	}
	p.queue = append(p.queue, n)
}

// Pending reports whether notifications are waiting.
func (p *Pipeline) Pending() bool {
	return len(p.queue) > 0
}

// Stop discards queued notifications and refuses new ones. Only Shutdown
// hooks run after Stop.
func (p *Pipeline) Stop() {
	p.stopped = true
	p.queue = nil
}

// Flush delivers the queued notifications. Hooks may mutate s, which can
// queue further notifications; those wait for the next Flush.
func (p *Pipeline) Flush(s State) {
	batch := p.queue
	p.queue = nil
	for _, n := range batch {
		if p.stopped {
			return
		}
		p.deliver(s, n)
	}
}

// Startup runs every StartupHook.
func (p *Pipeline) Startup(s State) {
	for _, h := range p.hooks {
		if sh, ok := h.(StartupHook); ok {
			p.call(h, "startup", func() error { return sh.Startup(s) })
		}
	}
}

// Shutdown runs every ShutdownHook.
func (p *Pipeline) Shutdown(s State) {
	for _, h := range p.hooks {
		if sh, ok := h.(ShutdownHook); ok {
			p.call(h, "shutdown", func() error { return sh.Shutdown(s) })
		}
	}
}

func (p *Pipeline) deliver(s State, n Notification) {
	for _, h := range p.hooks {
		switch n.Kind {
		case ClientAdded:
			if ch, ok := h.(ClientAddedHook); ok {
				p.call(h, n.Kind.String(), func() error { return ch.ClientAdded(s, n.ID) })
			}
		case ClientRemoved:
			if ch, ok := h.(ClientRemovedHook); ok {
				p.call(h, n.Kind.String(), func() error { return ch.ClientRemoved(s, n.Client) })
			}
		case LayoutChanged:
			if lh, ok := h.(LayoutChangedHook); ok {
				p.call(h, n.Kind.String(), func() error { return lh.LayoutChanged(s, n.Workspace, n.Symbol) })
			}
		case FocusChanged:
			if fh, ok := h.(FocusChangedHook); ok {
				p.call(h, n.Kind.String(), func() error { return fh.FocusChanged(s, n.ID, n.Name) })
			}
		case WorkspaceChanged:
			if wh, ok := h.(WorkspaceChangedHook); ok {
				p.call(h, n.Kind.String(), func() error { return wh.WorkspaceChanged(s, n.Previous, n.Workspace) })
			}
		}
	}
}

func (p *Pipeline) call(h any, event string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("hook panic recovered", "hook", fmt.Sprintf("%T", h), "event", event, "panic", r)
		}
	}()
	if err := fn(); err != nil {
		p.logger.Warn("hook failed", "hook", fmt.Sprintf("%T", h), "event", event, "error", err)
	}
}
