package wm

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/stackwm/internal/command"
	"github.com/1broseidon/stackwm/internal/hooks"
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/tiling"
)

func TestManager_SideStackLayout(t *testing.T) {
	m, b, _ := newTestManager(t, 1)
	startManager(t, m)

	// New windows go to the front, so mapping 3, 2, 1 yields the stack 1, 2, 3.
	mapWindows(m, 3, 2, 1)

	want := map[platform.WindowID]platform.Rect{
		1: {X: 0, Y: 0, Width: 500, Height: 800},
		2: {X: 500, Y: 0, Width: 500, Height: 400},
		3: {X: 500, Y: 400, Width: 500, Height: 400},
	}
	if diff := cmp.Diff(want, b.geometry); diff != "" {
		t.Fatalf("geometry mismatch (-want +got):\n%s", diff)
	}
	if b.focused != 1 {
		t.Fatalf("focused = %d, want 1", b.focused)
	}
	if b.borders[1] != focusedColor || b.borders[2] != unfocusedColor {
		t.Fatalf("borders = %v", b.borders)
	}
	for id := range want {
		if !b.mapped[id] {
			t.Fatalf("window %d not mapped", id)
		}
	}
}

func TestManager_OnlyChangedGeometryIsApplied(t *testing.T) {
	m, b, _ := newTestManager(t, 1)
	startManager(t, m)
	mapWindows(m, 3, 2, 1)

	before := b.moveCalls
	mustDispatch(t, m, "cycle_client forward")
	if b.moveCalls != before {
		t.Fatalf("focus change moved %d windows", b.moveCalls-before)
	}

	mustDispatch(t, m, "update_main_ratio more")
	if got := b.moveCalls - before; got != 3 {
		t.Fatalf("ratio change moved %d windows, want 3", got)
	}
	if got := b.geometry[1].Width; got != 550 {
		t.Fatalf("main width = %d, want 550", got)
	}
}

func TestManager_FocusWorkspaceSwapsScreens(t *testing.T) {
	m, b, _ := newTestManager(t, 2)
	startManager(t, m)
	mapWindows(m, 10)

	mustDispatch(t, m, "focus_workspace 2")

	screens := m.Screens()
	if screens[0].Workspace != 1 || screens[1].Workspace != 0 {
		t.Fatalf("workspaces = %d, %d; want 1, 0", screens[0].Workspace, screens[1].Workspace)
	}
	// Window 10 lives on workspace 0, which moved to the second screen.
	if got := b.geometry[10]; got.X != 1000 {
		t.Fatalf("window 10 at %+v, want second screen", got)
	}
	if !b.mapped[10] {
		t.Fatal("window 10 should stay mapped")
	}
}

func TestManager_FocusWorkspaceHidesPreviousWorkspace(t *testing.T) {
	m, b, _ := newTestManager(t, 1)
	startManager(t, m)
	mapWindows(m, 10)

	mustDispatch(t, m, "focus_workspace 3")
	if b.mapped[10] {
		t.Fatal("window 10 should be unmapped")
	}
	if got := m.FocusedWorkspace(); got != 2 {
		t.Fatalf("focused workspace = %d, want 2", got)
	}

	// The unmap we caused must not unmanage the window.
	m.HandleEvent(platform.UnmapNotify{ID: 10})
	if _, err := m.Client(10); err != nil {
		t.Fatalf("window 10 forgotten: %v", err)
	}

	mustDispatch(t, m, "toggle_workspace")
	if got := m.FocusedWorkspace(); got != 0 {
		t.Fatalf("focused workspace after toggle = %d, want 0", got)
	}
	if !b.mapped[10] {
		t.Fatal("window 10 should be mapped again")
	}
	if b.focused != 10 {
		t.Fatalf("focused = %d, want 10", b.focused)
	}
}

func TestManager_CycleWorkspaceWraps(t *testing.T) {
	m, _, _ := newTestManager(t, 1)
	startManager(t, m)

	mustDispatch(t, m, "cycle_workspace backward")
	if got := m.FocusedWorkspace(); got != 8 {
		t.Fatalf("focused workspace = %d, want 8", got)
	}
	mustDispatch(t, m, "cycle_workspace forward")
	if got := m.FocusedWorkspace(); got != 0 {
		t.Fatalf("focused workspace = %d, want 0", got)
	}
}

func TestManager_ClientToWorkspace(t *testing.T) {
	m, b, _ := newTestManager(t, 1)
	startManager(t, m)
	mapWindows(m, 2, 1)

	mustDispatch(t, m, "client_to_workspace 4")

	c, err := m.Client(1)
	if err != nil {
		t.Fatal(err)
	}
	if c.Workspace != 3 {
		t.Fatalf("workspace = %d, want 3", c.Workspace)
	}
	if b.mapped[1] {
		t.Fatal("moved window should be unmapped")
	}
	if b.focused != 2 {
		t.Fatalf("focused = %d, want 2", b.focused)
	}
	if got := b.geometry[2]; got != (platform.Rect{Width: 1000, Height: 800}) {
		t.Fatalf("remaining window at %+v, want full screen", got)
	}
}

func TestManager_ToggleBarReservesSpace(t *testing.T) {
	m, b, _ := newTestManager(t, 1)
	startManager(t, m)
	mapWindows(m, 1)

	mustDispatch(t, m, "toggle_bar")
	if !m.BarEnabled() {
		t.Fatal("bar should be enabled")
	}
	want := platform.Rect{X: 0, Y: 20, Width: 1000, Height: 780}
	if got := b.geometry[1]; got != want {
		t.Fatalf("geometry = %+v, want %+v", got, want)
	}
}

func TestManager_ToggleFloating(t *testing.T) {
	m, b, _ := newTestManager(t, 1)
	startManager(t, m)
	mapWindows(m, 2, 1)

	mustDispatch(t, m, "toggle_floating")
	if got := b.geometry[2]; got != (platform.Rect{Width: 1000, Height: 800}) {
		t.Fatalf("tiled window at %+v, want full screen", got)
	}
	c, _ := m.Client(1)
	if !c.Floating {
		t.Fatal("window 1 should float")
	}
}

func TestManager_CommandErrorsLeaveStateUnchanged(t *testing.T) {
	m, b, _ := newTestManager(t, 1)
	startManager(t, m)

	tests := []struct {
		name string
		cmd  command.Command
		want error
	}{
		{"cycle empty", command.MustParse("cycle_client forward"), ErrNoFocusedClient},
		{"drag empty", command.MustParse("drag_client backward"), ErrNoFocusedClient},
		{"kill empty", command.MustParse("kill_client"), ErrNoFocusedClient},
		{"move empty", command.MustParse("client_to_workspace 2"), ErrNoFocusedClient},
		{"bad workspace", command.Command{Name: command.FocusWorkspace, Index: 42}, ErrInvalidWorkspaceIndex},
		{"unknown", command.Command{Name: "bogus"}, command.ErrUnknownCommand},
		{"no scratchpad", command.MustParse("scratchpad_toggle"), ErrNoScratchpad},
	}
	before := m.Status()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.Dispatch(tt.cmd)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if diff := cmp.Diff(before, m.Status()); diff != "" {
				t.Fatalf("state changed (-before +after):\n%s", diff)
			}
		})
	}
	if b.moveCalls != 0 {
		t.Fatalf("moveCalls = %d, want 0", b.moveCalls)
	}
}

func TestManager_KillClientClosesFocused(t *testing.T) {
	m, b, _ := newTestManager(t, 1)
	startManager(t, m)
	mapWindows(m, 2, 1)

	mustDispatch(t, m, "kill_client")
	if diff := cmp.Diff([]platform.WindowID{1}, b.closed); diff != "" {
		t.Fatalf("closed mismatch (-want +got):\n%s", diff)
	}
	// The client stays managed until the window system reports it gone.
	if _, err := m.Client(1); err != nil {
		t.Fatalf("client 1: %v", err)
	}
	m.HandleEvent(platform.DestroyNotify{ID: 1})
	if _, err := m.Client(1); !errors.Is(err, ErrUnknownClient) {
		t.Fatalf("err = %v, want ErrUnknownClient", err)
	}
	if b.focused != 2 {
		t.Fatalf("focused = %d, want 2", b.focused)
	}
}

func TestManager_SpawnUsesLauncher(t *testing.T) {
	m, _, l := newTestManager(t, 1)
	startManager(t, m)

	mustDispatch(t, m, "spawn st -e htop")
	if diff := cmp.Diff([]string{"st -e htop"}, l.lines); diff != "" {
		t.Fatalf("spawned mismatch (-want +got):\n%s", diff)
	}
}

func TestManager_StartAdoptsExistingWindows(t *testing.T) {
	m, b, _ := newTestManager(t, 1)
	b.existing = []platform.Window{
		{ID: 1, Class: "st"},
		{ID: 2, Class: "st"},
	}
	startManager(t, m)

	st := m.Status()
	if diff := cmp.Diff([]uint32{1, 2}, st.Workspaces[0].Clients); diff != "" {
		t.Fatalf("stack mismatch (-want +got):\n%s", diff)
	}
	if b.mapCalls != 0 {
		t.Fatalf("adopted windows were mapped again %d times", b.mapCalls)
	}
}

func TestManager_BarWindowIsNotManaged(t *testing.T) {
	m, b, _ := newTestManager(t, 1)
	s := testSettings()
	s.BarWindow = "dzen"
	m.settings = s
	startManager(t, m)

	m.HandleEvent(platform.MapRequest{ID: 7, Class: "dzen"})
	if !b.mapped[7] {
		t.Fatal("bar window should be mapped")
	}
	if _, err := m.Client(7); err == nil {
		t.Fatal("bar window should not be managed")
	}
}

func TestManager_LayoutErrorsAreReported(t *testing.T) {
	m, b, _ := newTestManager(t, 1)
	startManager(t, m)
	mapWindows(m, 1)

	b.failMoves = true
	mapWindows(m, 2)
	if err := m.RecomputeLayout(0); !errors.Is(err, ErrLayoutApply) {
		t.Fatalf("err = %v, want ErrLayoutApply", err)
	}
	if err := m.RecomputeLayout(5); !errors.Is(err, ErrInvalidScreenIndex) {
		t.Fatalf("err = %v, want ErrInvalidScreenIndex", err)
	}
}

type recorder struct {
	calls []string
}

func (r *recorder) Startup(hooks.State) error {
	r.calls = append(r.calls, "startup")
	return nil
}

func (r *recorder) ClientAdded(hooks.State, platform.WindowID) error {
	r.calls = append(r.calls, "added")
	return nil
}

func (r *recorder) FocusChanged(hooks.State, platform.WindowID, string) error {
	r.calls = append(r.calls, "focus")
	return nil
}

func (r *recorder) WorkspaceChanged(hooks.State, int, int) error {
	r.calls = append(r.calls, "workspace")
	return nil
}

func (r *recorder) Shutdown(hooks.State) error {
	r.calls = append(r.calls, "shutdown")
	return nil
}

func TestManager_HookNotificationsFollowTransitions(t *testing.T) {
	m, _, _ := newTestManager(t, 1)
	rec := &recorder{}
	m.Hooks().Register(rec)
	startManager(t, m)

	mapWindows(m, 1)
	mustDispatch(t, m, "focus_workspace 2")
	// Repeating the command changes nothing and notifies nobody.
	mustDispatch(t, m, "focus_workspace 2")

	want := []string{"startup", "added", "focus", "workspace", "focus"}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestManager_ExitStopsNotifications(t *testing.T) {
	m, _, _ := newTestManager(t, 1)
	rec := &recorder{}
	m.Hooks().Register(rec)
	startManager(t, m)

	mustDispatch(t, m, "exit")
	if !m.Exiting() {
		t.Fatal("manager should be exiting")
	}
	mapWindows(m, 1)
	m.Shutdown()

	want := []string{"startup", "shutdown"}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestManager_ScratchpadToggle(t *testing.T) {
	m, b, l := newTestManager(t, 1)
	sp := hooks.NewScratchpad("st -c scratch", "scratch", 0, 0)
	m.Hooks().Register(sp)
	m.SetScratchpad(sp)
	startManager(t, m)

	mustDispatch(t, m, "scratchpad_toggle")
	if diff := cmp.Diff([]string{"st -c scratch"}, l.lines); diff != "" {
		t.Fatalf("spawned mismatch (-want +got):\n%s", diff)
	}
	if len(m.Clients()) != 0 {
		t.Fatal("no client should exist before the window maps")
	}

	m.HandleEvent(platform.MapRequest{ID: 50, Class: "scratch"})
	want := platform.Rect{X: 100, Y: 80, Width: 800, Height: 640}
	c, err := m.Client(50)
	if err != nil {
		t.Fatal(err)
	}
	if !c.Floating || c.Workspace != 0 {
		t.Fatalf("scratchpad client = %+v", c)
	}
	if got := b.geometry[50]; got != want {
		t.Fatalf("geometry = %+v, want %+v", got, want)
	}
	if b.focused != 50 {
		t.Fatalf("focused = %d, want 50", b.focused)
	}

	mustDispatch(t, m, "scratchpad_toggle")
	if b.mapped[50] {
		t.Fatal("scratchpad should be hidden")
	}
	m.HandleEvent(platform.UnmapNotify{ID: 50})
	if c, err := m.Client(50); err != nil || !c.Hidden {
		t.Fatalf("hidden scratchpad lost: %+v, %v", c, err)
	}

	mustDispatch(t, m, "scratchpad_toggle")
	if !b.mapped[50] {
		t.Fatal("scratchpad should be shown")
	}
	if got := b.geometry[50]; got != want {
		t.Fatalf("geometry after show = %+v, want %+v", got, want)
	}
	if b.focused != 50 {
		t.Fatalf("focused = %d, want 50", b.focused)
	}
	if len(l.lines) != 1 {
		t.Fatalf("spawned %d times, want 1", len(l.lines))
	}
}

func TestManager_CycleScreenWrapsAndMovesFocus(t *testing.T) {
	m, b, _ := newTestManager(t, 2)
	startManager(t, m)
	mapWindows(m, 1)

	mustDispatch(t, m, "cycle_screen forward")
	if m.FocusedScreen() != 1 || m.FocusedWorkspace() != 1 {
		t.Fatalf("focused screen %d workspace %d, want 1 and 1", m.FocusedScreen(), m.FocusedWorkspace())
	}
	if _, ok := m.FocusedClient(); ok {
		t.Fatal("empty workspace should have no focused client")
	}
	if b.borders[1] != unfocusedColor {
		t.Fatalf("window 1 border = %#x, want unfocused", b.borders[1])
	}

	// New windows land on the workspace of the focused screen.
	mapWindows(m, 3)
	if got := b.geometry[3]; got.X != 1000 {
		t.Fatalf("window 3 at %+v, want second screen", got)
	}

	mustDispatch(t, m, "cycle_screen forward")
	if m.FocusedScreen() != 0 || b.focused != 1 {
		t.Fatalf("after wrap: screen %d, input focus %d; want 0 and 1", m.FocusedScreen(), b.focused)
	}
	mustDispatch(t, m, "cycle_screen backward")
	if m.FocusedScreen() != 1 || b.focused != 3 {
		t.Fatalf("after backward wrap: screen %d, input focus %d; want 1 and 3", m.FocusedScreen(), b.focused)
	}
}

func TestManager_OneRecomputePerDirtyScreen(t *testing.T) {
	m, b, _ := newTestManager(t, 2)
	startManager(t, m)
	mapWindows(m, 1, 2)
	mustDispatch(t, m, "toggle_floating")
	mustDispatch(t, m, "cycle_screen forward")
	mapWindows(m, 4, 3)
	mustDispatch(t, m, "toggle_floating")
	mustDispatch(t, m, "cycle_screen forward")

	// Swapping the workspaces of both screens changes both screens and
	// every window's geometry within a single command.
	b.raised = map[platform.WindowID]int{}
	mustDispatch(t, m, "focus_workspace 2")
	afterCommand := b.raised

	// Laying out each screen once more from the settled state raises the
	// same windows the same number of times and moves nothing.
	b.raised = map[platform.WindowID]int{}
	moves := b.moveCalls
	for i := range m.Screens() {
		if err := m.RecomputeLayout(i); err != nil {
			t.Fatalf("recompute screen %d: %v", i, err)
		}
	}
	if diff := cmp.Diff(b.raised, afterCommand); diff != "" {
		t.Fatalf("raises during the command differ from one layout pass per screen (-want +got):\n%s", diff)
	}
	if len(afterCommand) == 0 {
		t.Fatal("expected floating windows to be raised")
	}
	if b.moveCalls != moves {
		t.Fatalf("settled state still moved %d windows", b.moveCalls-moves)
	}
}

func TestManager_FollowFocusControlsRelayout(t *testing.T) {
	still := []tiling.Layout{
		{Symbol: "[side]", Kind: tiling.KindSideStack, Conf: tiling.Conf{AllowWrapping: true}, MaxMain: 1, MainRatio: 0.5},
	}
	for _, tt := range []struct {
		name    string
		layouts []tiling.Layout
		raises  int
	}{
		{"follows focus", testLayouts(), 1},
		{"ignores focus", still, 0},
	} {
		t.Run(tt.name, func(t *testing.T) {
			m, b, _ := newTestManagerWithLayouts(t, 1, tt.layouts)
			startManager(t, m)
			mapWindows(m, 2, 1)
			mustDispatch(t, m, "toggle_floating")
			mustDispatch(t, m, "cycle_client forward")

			// Focus returns to the floating window 1.
			b.raised = map[platform.WindowID]int{}
			mustDispatch(t, m, "cycle_client backward")
			if b.focused != 1 {
				t.Fatalf("input focus = %d, want 1", b.focused)
			}
			if b.borders[1] != focusedColor {
				t.Fatalf("window 1 border = %#x, want focused", b.borders[1])
			}
			if got := b.raised[1]; got != tt.raises*2 {
				t.Fatalf("window 1 raised %d times, want %d", got, tt.raises*2)
			}
		})
	}
}
