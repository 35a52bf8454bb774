package wm

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/1broseidon/stackwm/internal/command"
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/tiling"
	"github.com/1broseidon/stackwm/internal/workspace"
)

// fakeBackend records every call the manager makes.
type fakeBackend struct {
	displays []platform.Display
	existing []platform.Window
	events   chan platform.Event

	geometry   map[platform.WindowID]platform.Rect
	moveCalls  int
	mapped     map[platform.WindowID]bool
	mapCalls   int
	unmapCalls int
	focused    platform.WindowID
	focusCalls int
	closed     []platform.WindowID
	borders    map[platform.WindowID]uint32
	configured []platform.ConfigureRequest
	notified   map[platform.WindowID]platform.Rect
	raised     map[platform.WindowID]int
	failMoves  bool
}

func newFakeBackend(screens int) *fakeBackend {
	b := &fakeBackend{
		events:   make(chan platform.Event, 16),
		geometry: map[platform.WindowID]platform.Rect{},
		mapped:   map[platform.WindowID]bool{},
		borders:  map[platform.WindowID]uint32{},
		notified: map[platform.WindowID]platform.Rect{},
		raised:   map[platform.WindowID]int{},
	}
	for i := 0; i < screens; i++ {
		b.displays = append(b.displays, platform.Display{
			ID:     i,
			Name:   "screen",
			Bounds: platform.Rect{X: i * 1000, Width: 1000, Height: 800},
		})
	}
	return b
}

func (b *fakeBackend) Displays() ([]platform.Display, error)      { return b.displays, nil }
func (b *fakeBackend) ExistingWindows() ([]platform.Window, error) { return b.existing, nil }
func (b *fakeBackend) Events() <-chan platform.Event               { return b.events }

func (b *fakeBackend) MoveResize(id platform.WindowID, r platform.Rect) error {
	if b.failMoves {
		return errors.New("bad window")
	}
	b.moveCalls++
	b.geometry[id] = r
	return nil
}

func (b *fakeBackend) Raise(id platform.WindowID) error {
	b.raised[id]++
	return nil
}

func (b *fakeBackend) Map(id platform.WindowID) error {
	b.mapCalls++
	b.mapped[id] = true
	return nil
}

func (b *fakeBackend) Unmap(id platform.WindowID) error {
	b.unmapCalls++
	b.mapped[id] = false
	return nil
}

func (b *fakeBackend) Close(id platform.WindowID) error {
	b.closed = append(b.closed, id)
	return nil
}

func (b *fakeBackend) Focus(id platform.WindowID) error {
	b.focusCalls++
	b.focused = id
	return nil
}

func (b *fakeBackend) SetBorder(id platform.WindowID, _ int, color uint32) error {
	b.borders[id] = color
	return nil
}

func (b *fakeBackend) Configure(req platform.ConfigureRequest) error {
	b.configured = append(b.configured, req)
	return nil
}

func (b *fakeBackend) NotifyGeometry(id platform.WindowID, r platform.Rect, _ int) error {
	b.notified[id] = r
	return nil
}

type fakeLauncher struct {
	lines []string
}

func (l *fakeLauncher) Spawn(line string) error {
	l.lines = append(l.lines, line)
	return nil
}

const (
	focusedColor   = 0x00ff00
	unfocusedColor = 0x333333
)

func testLayouts() []tiling.Layout {
	conf := tiling.Conf{FollowFocus: true, AllowWrapping: true}
	return []tiling.Layout{
		{Symbol: "[side]", Kind: tiling.KindSideStack, Conf: conf, MaxMain: 1, MainRatio: 0.5},
		{Symbol: "[botm]", Kind: tiling.KindBottomStack, Conf: conf, MaxMain: 1, MainRatio: 0.5},
		{Symbol: "[----]", Kind: tiling.KindFloating, Conf: tiling.Conf{Floating: true, AllowWrapping: true}},
	}
}

func testSettings() Settings {
	return Settings{
		MainRatioStep:   0.05,
		FocusedBorder:   focusedColor,
		UnfocusedBorder: unfocusedColor,
		BarHeight:       20,
	}
}

func newTestManager(t *testing.T, screens int) (*Manager, *fakeBackend, *fakeLauncher) {
	t.Helper()
	return newTestManagerWithLayouts(t, screens, testLayouts())
}

func newTestManagerWithLayouts(t *testing.T, screens int, layouts []tiling.Layout) (*Manager, *fakeBackend, *fakeLauncher) {
	t.Helper()
	b := newFakeBackend(screens)
	l := &fakeLauncher{}
	set := workspace.New([]string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}, layouts)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := NewManager(b, l, set, testSettings(), false, logger)
	return m, b, l
}

func startManager(t *testing.T, m *Manager) {
	t.Helper()
	if err := m.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
}

func mapWindows(m *Manager, ids ...platform.WindowID) {
	for _, id := range ids {
		m.HandleEvent(platform.MapRequest{ID: id, Class: "st", Title: "term"})
	}
}

func mustDispatch(t *testing.T, m *Manager, line string) {
	t.Helper()
	if err := m.Dispatch(command.MustParse(line)); err != nil {
		t.Fatalf("%s: %v", line, err)
	}
}
