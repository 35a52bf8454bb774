package hooks

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/1broseidon/stackwm/internal/client"
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/google/go-cmp/cmp"
)

// fakeState is an in-memory State for hook tests.
type fakeState struct {
	focusedWS int
	screen    platform.Rect
	clients   map[platform.WindowID]*client.Client
	order     []platform.WindowID
	focused   platform.WindowID
	spawned   []string
	spawnErr  error
}

func newFakeState() *fakeState {
	return &fakeState{
		screen:  platform.Rect{Width: 1000, Height: 800},
		clients: map[platform.WindowID]*client.Client{},
	}
}

func (f *fakeState) add(id platform.WindowID, class string) {
	f.clients[id] = &client.Client{ID: id, Class: class, Workspace: f.focusedWS}
	f.order = append(f.order, id)
}

func (f *fakeState) FocusedWorkspace() int { return f.focusedWS }
func (f *fakeState) FocusedClient() (platform.WindowID, bool) {
	return f.focused, f.focused != 0
}
func (f *fakeState) FocusedScreenGeometry() platform.Rect { return f.screen }
func (f *fakeState) Workspaces() []WorkspaceInfo { return nil }
func (f *fakeState) Clients() []client.Client {
	var out []client.Client
	for _, id := range f.order {
		out = append(out, *f.clients[id])
	}
	return out
}
func (f *fakeState) Client(id platform.WindowID) (client.Client, error) {
	c, ok := f.clients[id]
	if !ok {
		return client.Client{}, client.ErrUnknownClient
	}
	return *c, nil
}
func (f *fakeState) FindClient(pred func(client.Client) bool) (platform.WindowID, bool) {
	for _, id := range f.order {
		if pred(*f.clients[id]) {
			return id, true
		}
	}
	return 0, false
}
func (f *fakeState) Spawn(line string) error {
	if f.spawnErr != nil {
		return f.spawnErr
	}
	f.spawned = append(f.spawned, line)
	return nil
}
func (f *fakeState) HideClient(id platform.WindowID) error {
	f.clients[id].Hidden = true
	return nil
}
func (f *fakeState) ShowClient(id platform.WindowID) error {
	f.clients[id].Hidden = false
	return nil
}
func (f *fakeState) MoveClientToWorkspace(id platform.WindowID, ws int) error {
	f.clients[id].Workspace = ws
	return nil
}
func (f *fakeState) FocusClient(id platform.WindowID) error {
	f.focused = id
	return nil
}
func (f *fakeState) SetClientFloating(id platform.WindowID, floating bool) error {
	f.clients[id].Floating = floating
	return nil
}
func (f *fakeState) SetClientGeometry(id platform.WindowID, r platform.Rect) error {
	f.clients[id].Geometry = r
	return nil
}

type recordingHook struct {
	name  string
	calls *[]string
}

func (h recordingHook) ClientAdded(_ State, id platform.WindowID) error {
	*h.calls = append(*h.calls, h.name+":added")
	return nil
}

func (h recordingHook) Shutdown(State) error {
	*h.calls = append(*h.calls, h.name+":shutdown")
	return nil
}

type panickingHook struct{}

func (panickingHook) ClientAdded(State, platform.WindowID) error { panic("boom") }

type failingHook struct{}

func (failingHook) ClientAdded(State, platform.WindowID) error { return errors.New("nope") }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPipeline_DeliversInRegistrationOrderAndIsolatesFailures(t *testing.T) {
	var calls []string
	p := NewPipeline(quietLogger())
	p.Register(recordingHook{name: "a", calls: &calls})
	p.Register(panickingHook{})
	p.Register(failingHook{})
	p.Register(recordingHook{name: "b", calls: &calls})

	p.Queue(Notification{Kind: ClientAdded, ID: 1})
	if !p.Pending() {
		t.Fatalf("expected pending notification")
	}
	p.Flush(newFakeState())

	if diff := cmp.Diff([]string{"a:added", "b:added"}, calls); diff != "" {
		t.Fatalf("delivery mismatch (-want +got):\n%s", diff)
	}
	if p.Pending() {
		t.Fatalf("expected queue to be drained")
	}
}

func TestPipeline_StopDropsNotificationsButRunsShutdown(t *testing.T) {
	var calls []string
	p := NewPipeline(quietLogger())
	p.Register(recordingHook{name: "a", calls: &calls})

	p.Queue(Notification{Kind: ClientAdded, ID: 1})
	p.Stop()
	p.Queue(Notification{Kind: ClientAdded, ID: 2})
	p.Flush(newFakeState())
	p.Shutdown(newFakeState())

	if diff := cmp.Diff([]string{"a:shutdown"}, calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

type requeueHook struct {
	p *Pipeline
	n *int
}

func (h requeueHook) ClientAdded(State, platform.WindowID) error {
	*h.n++
	h.p.Queue(Notification{Kind: ClientAdded, ID: 9})
	return nil
}

func TestPipeline_NotificationsQueuedDuringFlushWait(t *testing.T) {
	p := NewPipeline(quietLogger())
	n := 0
	p.Register(requeueHook{p: p, n: &n})

	p.Queue(Notification{Kind: ClientAdded, ID: 1})
	p.Flush(newFakeState())
	if n != 1 {
		t.Fatalf("expected one delivery per flush, got %d", n)
	}
	if !p.Pending() {
		t.Fatalf("expected requeued notification to wait for the next flush")
	}
}

func TestScratchpad_ToggleSequence(t *testing.T) {
	s := newFakeState()
	sp := NewScratchpad("st -c scratch", "scratch", 0.8, 0.8)

	if err := sp.Toggle(s); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if diff := cmp.Diff([]string{"st -c scratch"}, s.spawned); diff != "" {
		t.Fatalf("spawn mismatch (-want +got):\n%s", diff)
	}
	if !sp.Pending() || len(s.clients) != 0 {
		t.Fatalf("expected pending spawn and no state change")
	}

	// A second toggle while pending must not spawn again.
	if err := sp.Toggle(s); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if len(s.spawned) != 1 {
		t.Fatalf("expected one spawn, got %d", len(s.spawned))
	}

	s.add(5, "st")
	if err := sp.ClientAdded(s, 5); err != nil {
		t.Fatalf("client added: %v", err)
	}
	if _, ok := sp.Client(); ok {
		t.Fatalf("non-matching class was claimed")
	}

	s.add(7, "Scratch")
	if err := sp.ClientAdded(s, 7); err != nil {
		t.Fatalf("client added: %v", err)
	}
	id, ok := sp.Client()
	if !ok || id != 7 {
		t.Fatalf("expected scratchpad to claim 7, got %d", id)
	}
	want := platform.Rect{X: 100, Y: 80, Width: 800, Height: 640}
	if c := s.clients[7]; !c.Floating || c.Geometry != want || s.focused != 7 {
		t.Fatalf("unexpected claimed client: %+v focused=%d", c, s.focused)
	}

	// Move it by hand; the geometry must survive the hide/show cycle.
	moved := platform.Rect{X: 10, Y: 20, Width: 300, Height: 200}
	s.clients[7].Geometry = moved

	if err := sp.Toggle(s); err != nil {
		t.Fatalf("hide: %v", err)
	}
	if !s.clients[7].Hidden {
		t.Fatalf("expected scratchpad hidden")
	}
	if _, err := s.Client(7); err != nil {
		t.Fatalf("hidden scratchpad must stay registered: %v", err)
	}

	s.clients[7].Geometry = platform.Rect{}
	if err := sp.Toggle(s); err != nil {
		t.Fatalf("show: %v", err)
	}
	if c := s.clients[7]; c.Hidden || c.Geometry != moved {
		t.Fatalf("expected shown with remembered geometry, got %+v", c)
	}
}

func TestScratchpad_ShowMovesToFocusedWorkspace(t *testing.T) {
	s := newFakeState()
	sp := NewScratchpad("st", "scratch", 0.5, 0.5)
	s.add(3, "scratch")

	if err := sp.Toggle(s); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if len(s.spawned) != 0 {
		t.Fatalf("existing client should be claimed without spawning")
	}

	s.focusedWS = 4
	if err := sp.Toggle(s); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if s.clients[3].Workspace != 4 || s.clients[3].Hidden {
		t.Fatalf("expected client moved to workspace 4 and shown, got %+v", s.clients[3])
	}
}

func TestScratchpad_ForgetsRemovedClient(t *testing.T) {
	s := newFakeState()
	sp := NewScratchpad("st", "scratch", 0.5, 0.5)
	s.add(3, "scratch")
	if err := sp.Toggle(s); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	c := *s.clients[3]
	delete(s.clients, 3)
	s.order = nil
	if err := sp.ClientRemoved(s, c); err != nil {
		t.Fatalf("client removed: %v", err)
	}
	if _, ok := sp.Client(); ok {
		t.Fatalf("expected scratchpad to forget removed client")
	}

	if err := sp.Toggle(s); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if len(s.spawned) != 1 {
		t.Fatalf("expected respawn after removal")
	}
}

func TestScratchpad_SpawnFailureLeavesNothingPending(t *testing.T) {
	s := newFakeState()
	s.spawnErr = errors.New("no shell")
	sp := NewScratchpad("st", "scratch", 0.5, 0.5)
	if err := sp.Toggle(s); err == nil {
		t.Fatalf("expected spawn error")
	}
	if sp.Pending() {
		t.Fatalf("failed spawn must not leave the scratchpad pending")
	}
}
