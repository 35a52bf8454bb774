// Package wm is the window manager core: it owns the client registry, the
// workspace set and the screens, reacts to window-system events, executes
// commands and keeps the on-screen layout in sync with that state.
//
// A Manager is not safe for concurrent use. All calls must come from the
// goroutine running Loop.Run.
package wm

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/stackwm/internal/client"
	"github.com/1broseidon/stackwm/internal/hooks"
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/spawn"
	"github.com/1broseidon/stackwm/internal/workspace"
)

var (
	ErrNoFocusedClient       = workspace.ErrNoFocusedClient
	ErrInvalidWorkspaceIndex = workspace.ErrInvalidWorkspaceIndex
	ErrUnknownClient         = client.ErrUnknownClient
	ErrDuplicateClient       = client.ErrDuplicateClient

	ErrNoFocusedWorkspace = errors.New("no focused workspace")
	ErrInvalidScreenIndex = errors.New("invalid screen index")
	ErrLayoutApply        = errors.New("layout apply failed")
	ErrNoScratchpad       = errors.New("no scratchpad configured")
)

// maxSettleRounds bounds how often hooks may re-dirty state in one batch.
const maxSettleRounds = 8

// Settings are the appearance and behaviour parameters that can change on
// config reload.
type Settings struct {
	GapPx           int
	BorderPx        int
	FocusedBorder   uint32
	UnfocusedBorder uint32
	MainRatioStep   float64
	FloatingClasses []string
	BarHeight       int
	// BarWindow is the class or title of an external bar window. It is
	// mapped when it asks to be but never managed.
	BarWindow string
}

// Toggler is the scratchpad capability used by the scratchpad_toggle command.
type Toggler interface {
	Toggle(s hooks.State) error
}

type published struct {
	workspace int
	layout    string
	focus     platform.WindowID
	name      string
}

// Manager holds all window-manager state.
type Manager struct {
	backend  platform.Backend
	launcher spawn.Launcher
	logger   *slog.Logger
	settings Settings

	clients    *client.Registry
	workspaces *workspace.Set
	hooks      *hooks.Pipeline
	scratchpad Toggler

	screens       []Screen
	focusedScreen int
	barEnabled    bool
	dirty         []bool

	// mapped tracks which clients are currently mapped by us; applied holds
	// the last geometry sent to the window system for each client.
	mapped        map[platform.WindowID]bool
	applied       map[platform.WindowID]platform.Rect
	pendingUnmaps map[platform.WindowID]int
	inputFocus    platform.WindowID

	published published
	exiting   bool
}

var _ hooks.State = (*Manager)(nil)

// NewManager creates a manager over the given workspaces. barEnabled is the
// initial status-bar state.
func NewManager(
	backend platform.Backend,
	launcher spawn.Launcher,
	workspaces *workspace.Set,
	settings Settings,
	barEnabled bool,
	logger *slog.Logger,
) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		backend:       backend,
		launcher:      launcher,
		logger:        logger.With("component", "wm"),
		settings:      settings,
		clients:       client.NewRegistry(settings.FloatingClasses),
		workspaces:    workspaces,
		hooks:         hooks.NewPipeline(logger),
		barEnabled:    barEnabled,
		mapped:        make(map[platform.WindowID]bool),
		applied:       make(map[platform.WindowID]platform.Rect),
		pendingUnmaps: make(map[platform.WindowID]int),
		published:     published{workspace: -1},
	}
}

// Hooks returns the pipeline so callers can register observers before Start.
func (m *Manager) Hooks() *hooks.Pipeline {
	return m.hooks
}

// SetScratchpad installs the scratchpad used by scratchpad_toggle.
func (m *Manager) SetScratchpad(t Toggler) {
	m.scratchpad = t
}

// Start reads the screens, runs Startup hooks and adopts windows that were
// already mapped.
func (m *Manager) Start() error {
	displays, err := m.backend.Displays()
	if err != nil {
		return fmt.Errorf("query displays: %w", err)
	}
	if len(displays) == 0 {
		return errors.New("no displays found")
	}
	m.setScreens(displays)

	m.hooks.Startup(m)
	m.markPublished()

	windows, err := m.backend.ExistingWindows()
	if err != nil {
		m.logger.Warn("failed to list existing windows", "error", err)
	}
	for _, w := range windows {
		m.manage(w.ID, w.Class, w.Title, w.Bounds, workspace.Back)
		if m.clients.Contains(w.ID) {
			m.mapped[w.ID] = true
		}
	}

	m.logger.Info("window manager started",
		"screens", len(m.screens),
		"workspaces", m.workspaces.Len(),
		"adopted", m.clients.Len())
	m.settle()
	return nil
}

// Exit requests a graceful shutdown. No notification other than Shutdown
// reaches hooks afterwards.
func (m *Manager) Exit() {
	m.exiting = true
	m.hooks.Stop()
}

// Exiting reports whether Exit has been called.
func (m *Manager) Exiting() bool {
	return m.exiting
}

// Shutdown runs the Shutdown hooks.
func (m *Manager) Shutdown() {
	m.hooks.Stop()
	m.hooks.Shutdown(m)
	m.logger.Info("window manager stopped")
}

// ApplySettings replaces the reloadable settings and re-lays out every
// screen.
func (m *Manager) ApplySettings(s Settings) {
	m.settings = s
	m.clients.SetFloatingClasses(s.FloatingClasses)
	for _, c := range m.clients.All() {
		m.paintBorder(c.ID, c.ID == m.inputFocus)
	}
	m.markAllDirty()
	m.settle()
}

// BarEnabled reports whether space is reserved for the status bar.
func (m *Manager) BarEnabled() bool {
	return m.barEnabled
}

// manage registers a new window and places it on the focused workspace.
func (m *Manager) manage(id platform.WindowID, class, title string, bounds platform.Rect, pos workspace.Position) {
	if m.isBarWindow(class, title) {
		if err := m.backend.Map(id); err != nil {
			m.logger.Debug("failed to map bar window", "window", id, "error", err)
		}
		return
	}

	ws := m.FocusedWorkspace()
	if ws < 0 {
		m.logger.Warn("no focused workspace for new window", "window", id)
		return
	}

	c, err := m.clients.Register(id, class, title)
	if err != nil {
		m.logger.Debug("register window", "error", err)
		return
	}
	if err := m.workspaces.AddClient(ws, id, pos); err != nil {
		m.logger.Warn("place window", "window", id, "error", err)
		_, _ = m.clients.Unregister(id)
		return
	}
	_ = m.clients.SetWorkspace(id, ws)
	_ = m.clients.SetGeometry(id, bounds)

	m.paintBorder(id, false)
	m.markDirty(ws)
	m.hooks.Queue(hooks.Notification{Kind: hooks.ClientAdded, ID: id, Client: c})
	m.logger.Debug("managing window", "window", id, "class", class, "workspace", ws, "floating", c.Floating)
}

// unmanage forgets a window that was unmapped or destroyed.
func (m *Manager) unmanage(id platform.WindowID) {
	ws, placed := m.workspaces.RemoveClient(id)
	c, err := m.clients.Unregister(id)
	if err != nil {
		return
	}
	delete(m.mapped, id)
	delete(m.applied, id)
	if m.inputFocus == id {
		m.inputFocus = 0
	}
	if placed {
		m.markDirty(ws)
	}
	m.hooks.Queue(hooks.Notification{Kind: hooks.ClientRemoved, ID: id, Client: c})
	m.logger.Debug("unmanaged window", "window", id, "class", c.Class)
}

func (m *Manager) isBarWindow(class, title string) bool {
	name := m.settings.BarWindow
	return name != "" && (class == name || title == name)
}

// settle lays out dirty screens, syncs visibility and focus, then delivers
// hook notifications. Hooks may mutate state, so this repeats until nothing
// is pending.
func (m *Manager) settle() {
	for round := 0; round < maxSettleRounds; round++ {
		for i := range m.screens {
			if !m.dirty[i] {
				continue
			}
			m.dirty[i] = false
			if err := m.RecomputeLayout(i); err != nil {
				m.logger.Warn("layout failed", "screen", i, "error", err)
			}
		}
		m.syncVisibility()
		m.applyFocus()

		if m.exiting {
			m.hooks.Stop()
			return
		}
		m.queueTransitions()
		if !m.hooks.Pending() {
			return
		}
		m.hooks.Flush(m)
	}
	m.logger.Warn("hook notifications did not settle", "rounds", maxSettleRounds)
}

// syncVisibility maps clients on displayed workspaces and unmaps the rest.
// Unmaps we cause are counted so the reactor can ignore them.
func (m *Manager) syncVisibility() {
	for _, c := range m.clients.All() {
		want := !c.Hidden && m.screenOf(c.Workspace) >= 0
		have := m.mapped[c.ID]
		switch {
		case want && !have:
			if err := m.backend.Map(c.ID); err != nil {
				m.logger.Debug("map failed", "window", c.ID, "error", err)
				continue
			}
			m.mapped[c.ID] = true
		case !want && have:
			m.pendingUnmaps[c.ID]++
			if err := m.backend.Unmap(c.ID); err != nil {
				m.pendingUnmaps[c.ID]--
				m.logger.Debug("unmap failed", "window", c.ID, "error", err)
				continue
			}
			m.mapped[c.ID] = false
		}
	}
}

// applyFocus gives input focus to the focused client when it changed.
func (m *Manager) applyFocus() {
	target, ok := m.FocusedClient()
	if ok {
		if c, err := m.clients.Lookup(target); err != nil || c.Hidden {
			ok = false
		}
	}
	if !ok {
		target = 0
	}
	if target == m.inputFocus {
		return
	}

	m.setFocusBorders(target)
	if target != 0 {
		if err := m.backend.Focus(target); err != nil {
			m.logger.Debug("focus failed", "window", target, "error", err)
		}
	}
}

func (m *Manager) setFocusBorders(target platform.WindowID) {
	old := m.inputFocus
	m.inputFocus = target
	if old != 0 && m.clients.Contains(old) {
		m.paintBorder(old, false)
	}
	if target != 0 {
		m.paintBorder(target, true)
	}
}

func (m *Manager) paintBorder(id platform.WindowID, focused bool) {
	color := m.settings.UnfocusedBorder
	if focused {
		color = m.settings.FocusedBorder
	}
	if err := m.backend.SetBorder(id, m.settings.BorderPx, color); err != nil {
		m.logger.Debug("set border failed", "window", id, "error", err)
	}
}

// queueTransitions compares the focus, workspace and layout seen by hooks
// with the current state and queues a notification for each difference.
func (m *Manager) queueTransitions() {
	ws := m.FocusedWorkspace()
	if ws != m.published.workspace {
		m.hooks.Queue(hooks.Notification{Kind: hooks.WorkspaceChanged, Previous: m.published.workspace, Workspace: ws})
		m.published.workspace = ws
	}

	if symbol := m.layoutSymbol(ws); symbol != m.published.layout {
		m.hooks.Queue(hooks.Notification{Kind: hooks.LayoutChanged, Workspace: ws, Symbol: symbol})
		m.published.layout = symbol
	}

	var name string
	if m.inputFocus != 0 {
		if c, err := m.clients.Lookup(m.inputFocus); err == nil {
			name = c.Name
		}
	}
	if m.inputFocus != m.published.focus || name != m.published.name {
		m.hooks.Queue(hooks.Notification{Kind: hooks.FocusChanged, ID: m.inputFocus, Name: name})
		m.published.focus = m.inputFocus
		m.published.name = name
	}
}

func (m *Manager) markPublished() {
	ws := m.FocusedWorkspace()
	m.published = published{workspace: ws, layout: m.layoutSymbol(ws)}
}

func (m *Manager) layoutSymbol(ws int) string {
	w, err := m.workspaces.Get(ws)
	if err != nil {
		return ""
	}
	return w.Layout().Symbol
}
