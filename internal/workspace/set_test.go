package workspace

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/tiling"
	"github.com/google/go-cmp/cmp"
)

func testLayouts() []tiling.Layout {
	conf := tiling.Conf{FollowFocus: true, AllowWrapping: true}
	return []tiling.Layout{
		{Symbol: "[side]", Kind: tiling.KindSideStack, Conf: conf, MaxMain: 1, MainRatio: 0.6},
		{Symbol: "[botm]", Kind: tiling.KindBottomStack, Conf: conf, MaxMain: 1, MainRatio: 0.6},
		{Symbol: "[----]", Kind: tiling.KindFloating, Conf: tiling.Conf{Floating: true, AllowWrapping: true}},
	}
}

func newTestSet(t *testing.T, n int) *Set {
	t.Helper()
	names := make([]string, n)
	for i := range names {
		names[i] = string(rune('1' + i))
	}
	return New(names, testLayouts())
}

func mustAdd(t *testing.T, s *Set, idx int, ids ...platform.WindowID) {
	t.Helper()
	for _, id := range ids {
		if err := s.AddClient(idx, id, Back); err != nil {
			t.Fatalf("add %d to %d: %v", id, idx, err)
		}
	}
}

func checkUnique(t *testing.T, s *Set) {
	t.Helper()
	seen := map[platform.WindowID]int{}
	for i := 0; i < s.Len(); i++ {
		w, _ := s.Get(i)
		for _, id := range w.Stack() {
			if prev, ok := seen[id]; ok {
				t.Fatalf("window %d on workspaces %d and %d", id, prev, i)
			}
			seen[id] = i
			if got, ok := s.WorkspaceOf(id); !ok || got != i {
				t.Fatalf("placement index for %d is %d (ok=%v), stack says %d", id, got, ok, i)
			}
		}
	}
}

func TestSet_StackUniquenessUnderRandomMutation(t *testing.T) {
	s := newTestSet(t, 4)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 2000; i++ {
		id := platform.WindowID(rng.Intn(12) + 1)
		idx := rng.Intn(s.Len())
		switch rng.Intn(3) {
		case 0:
			err := s.AddClient(idx, id, Position(rng.Intn(2)))
			if s.Contains(id) && err != nil && !errors.Is(err, ErrClientAlreadyPlaced) {
				t.Fatalf("unexpected add error: %v", err)
			}
		case 1:
			s.RemoveClient(id)
		case 2:
			_ = s.MoveClient(id, idx)
		}
		checkUnique(t, s)
	}
}

func TestSet_AddClientRejectsSecondPlacement(t *testing.T) {
	s := newTestSet(t, 2)
	mustAdd(t, s, 0, 1)
	if err := s.AddClient(1, 1, Front); !errors.Is(err, ErrClientAlreadyPlaced) {
		t.Fatalf("expected ErrClientAlreadyPlaced, got %v", err)
	}
	if err := s.AddClient(5, 2, Front); !errors.Is(err, ErrInvalidWorkspaceIndex) {
		t.Fatalf("expected ErrInvalidWorkspaceIndex, got %v", err)
	}
}

func TestSet_AddClientFrontFocusesNewClient(t *testing.T) {
	s := newTestSet(t, 1)
	mustAdd(t, s, 0, 1, 2)
	if err := s.AddClient(0, 3, Front); err != nil {
		t.Fatalf("add: %v", err)
	}
	w, _ := s.Get(0)
	if diff := cmp.Diff([]platform.WindowID{3, 1, 2}, w.Stack()); diff != "" {
		t.Fatalf("stack mismatch (-want +got):\n%s", diff)
	}
	if id, ok := w.Focused(); !ok || id != 3 {
		t.Fatalf("expected 3 focused, got %d", id)
	}
}

func TestSet_RemoveClientKeepsFocusSensible(t *testing.T) {
	s := newTestSet(t, 1)
	mustAdd(t, s, 0, 1, 2, 3)
	if err := s.Focus(0, 3); err != nil {
		t.Fatalf("focus: %v", err)
	}

	if idx, ok := s.RemoveClient(1); !ok || idx != 0 {
		t.Fatalf("expected removal from workspace 0, got %d (ok=%v)", idx, ok)
	}
	if id, _ := s.Focused(0); id != 3 {
		t.Fatalf("removing an earlier client moved focus to %d", id)
	}

	s.RemoveClient(3)
	if id, _ := s.Focused(0); id != 2 {
		t.Fatalf("expected focus to fall back to 2, got %d", id)
	}

	s.RemoveClient(2)
	if _, ok := s.Focused(0); ok {
		t.Fatalf("expected no focus on empty workspace")
	}

	if _, ok := s.RemoveClient(42); ok {
		t.Fatalf("removing an unknown client should be a no-op")
	}
}

func TestSet_CycleFocusRoundTrip(t *testing.T) {
	for n := 1; n <= 5; n++ {
		s := newTestSet(t, 1)
		for i := 1; i <= n; i++ {
			mustAdd(t, s, 0, platform.WindowID(i))
		}
		for start := 1; start <= n; start++ {
			if err := s.Focus(0, platform.WindowID(start)); err != nil {
				t.Fatalf("focus: %v", err)
			}
			if _, err := s.CycleFocus(0, Forward); err != nil {
				t.Fatalf("forward: %v", err)
			}
			got, err := s.CycleFocus(0, Backward)
			if err != nil {
				t.Fatalf("backward: %v", err)
			}
			if got != platform.WindowID(start) {
				t.Fatalf("n=%d: round trip from %d ended on %d", n, start, got)
			}
		}
	}
}

func TestSet_CycleFocusWraps(t *testing.T) {
	s := newTestSet(t, 1)
	mustAdd(t, s, 0, 1, 2, 3)
	if got, _ := s.CycleFocus(0, Forward); got != 1 {
		t.Fatalf("expected wrap to 1, got %d", got)
	}
	if got, _ := s.CycleFocus(0, Backward); got != 3 {
		t.Fatalf("expected wrap back to 3, got %d", got)
	}
}

func TestSet_CycleFocusWithoutWrapping(t *testing.T) {
	layouts := testLayouts()
	layouts[0].Conf.AllowWrapping = false
	s := New([]string{"1"}, layouts)
	mustAdd(t, s, 0, 1, 2)

	if got, _ := s.CycleFocus(0, Forward); got != 2 {
		t.Fatalf("expected focus to stay on last client, got %d", got)
	}
}

func TestSet_EmptyWorkspaceHasNoFocusedClient(t *testing.T) {
	s := newTestSet(t, 1)
	if _, err := s.CycleFocus(0, Forward); !errors.Is(err, ErrNoFocusedClient) {
		t.Fatalf("forward: expected ErrNoFocusedClient, got %v", err)
	}
	if _, err := s.CycleFocus(0, Backward); !errors.Is(err, ErrNoFocusedClient) {
		t.Fatalf("backward: expected ErrNoFocusedClient, got %v", err)
	}
	if _, err := s.DragClient(0, Forward); !errors.Is(err, ErrNoFocusedClient) {
		t.Fatalf("drag: expected ErrNoFocusedClient, got %v", err)
	}
}

func TestSet_DragClientIsSelfInverse(t *testing.T) {
	for n := 1; n <= 4; n++ {
		for start := 0; start < n; start++ {
			s := newTestSet(t, 1)
			for i := 1; i <= n; i++ {
				mustAdd(t, s, 0, platform.WindowID(i))
			}
			w, _ := s.Get(0)
			before := w.Stack()
			focused := before[start]
			if err := s.Focus(0, focused); err != nil {
				t.Fatalf("focus: %v", err)
			}

			if _, err := s.DragClient(0, Forward); err != nil {
				t.Fatalf("drag forward: %v", err)
			}
			got, err := s.DragClient(0, Backward)
			if err != nil {
				t.Fatalf("drag backward: %v", err)
			}
			if got != focused {
				t.Fatalf("focus did not follow dragged client: got %d want %d", got, focused)
			}
			if diff := cmp.Diff(before, w.Stack()); diff != "" {
				t.Fatalf("n=%d start=%d: drag not self-inverse (-want +got):\n%s", n, start, diff)
			}
		}
	}
}

func TestSet_DragClientSwapsWithNeighbour(t *testing.T) {
	s := newTestSet(t, 1)
	mustAdd(t, s, 0, 1, 2, 3)
	if err := s.Focus(0, 2); err != nil {
		t.Fatalf("focus: %v", err)
	}
	if _, err := s.DragClient(0, Backward); err != nil {
		t.Fatalf("drag: %v", err)
	}
	w, _ := s.Get(0)
	if diff := cmp.Diff([]platform.WindowID{2, 1, 3}, w.Stack()); diff != "" {
		t.Fatalf("stack mismatch (-want +got):\n%s", diff)
	}
	if id, _ := w.Focused(); id != 2 {
		t.Fatalf("expected 2 focused, got %d", id)
	}
}

func TestSet_MoveClientGoesToFront(t *testing.T) {
	s := newTestSet(t, 2)
	mustAdd(t, s, 0, 1, 2)
	mustAdd(t, s, 1, 3)

	if err := s.MoveClient(2, 1); err != nil {
		t.Fatalf("move: %v", err)
	}
	dst, _ := s.Get(1)
	if diff := cmp.Diff([]platform.WindowID{2, 3}, dst.Stack()); diff != "" {
		t.Fatalf("target stack mismatch (-want +got):\n%s", diff)
	}
	if idx, _ := s.WorkspaceOf(2); idx != 1 {
		t.Fatalf("expected window 2 on workspace 1, got %d", idx)
	}

	if err := s.MoveClient(2, 7); !errors.Is(err, ErrInvalidWorkspaceIndex) {
		t.Fatalf("expected ErrInvalidWorkspaceIndex, got %v", err)
	}
	if err := s.MoveClient(99, 0); !errors.Is(err, ErrClientNotPlaced) {
		t.Fatalf("expected ErrClientNotPlaced, got %v", err)
	}
}

func TestSet_UpdateMainRatioClamps(t *testing.T) {
	s := newTestSet(t, 1)
	var r float64
	for i := 0; i < 50; i++ {
		r, _ = s.UpdateMainRatio(0, 0.05)
	}
	if r != 0.95 {
		t.Fatalf("expected upper clamp 0.95, got %v", r)
	}
	for i := 0; i < 50; i++ {
		r, _ = s.UpdateMainRatio(0, -0.05)
	}
	if r != 0.05 {
		t.Fatalf("expected lower clamp 0.05, got %v", r)
	}
}

func TestSet_UpdateMaxMainClamps(t *testing.T) {
	s := newTestSet(t, 1)
	mustAdd(t, s, 0, 1, 2, 3)

	var n int
	for i := 0; i < 10; i++ {
		n, _ = s.UpdateMaxMain(0, 1)
	}
	if n != 3 {
		t.Fatalf("expected upper clamp at stack length 3, got %d", n)
	}
	for i := 0; i < 10; i++ {
		n, _ = s.UpdateMaxMain(0, -1)
	}
	if n != 1 {
		t.Fatalf("expected lower clamp 1, got %d", n)
	}
}

func TestSet_LayoutTuningIsPerWorkspace(t *testing.T) {
	s := newTestSet(t, 2)
	if _, err := s.UpdateMainRatio(0, 0.2); err != nil {
		t.Fatalf("update: %v", err)
	}
	a, _ := s.Get(0)
	b, _ := s.Get(1)
	if a.Layout().MainRatio == b.Layout().MainRatio {
		t.Fatalf("ratio change leaked across workspaces: %v", b.Layout().MainRatio)
	}
}

func TestSet_CycleAndSetLayout(t *testing.T) {
	s := newTestSet(t, 1)
	l, err := s.CycleLayout(0, Backward)
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if l.Symbol != "[----]" {
		t.Fatalf("expected wrap to last layout, got %q", l.Symbol)
	}
	if err := s.SetLayout(0, "[botm]"); err != nil {
		t.Fatalf("set layout: %v", err)
	}
	w, _ := s.Get(0)
	if w.Layout().Kind != tiling.KindBottomStack {
		t.Fatalf("expected bottom stack, got %q", w.Layout().Kind)
	}
	if err := s.SetLayout(0, "[nope]"); !errors.Is(err, ErrUnknownLayout) {
		t.Fatalf("expected ErrUnknownLayout, got %v", err)
	}
}
