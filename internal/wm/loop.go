package wm

import (
	"context"
	"errors"

	"github.com/1broseidon/stackwm/internal/command"
	"github.com/1broseidon/stackwm/internal/platform"
)

// ErrStopped is returned by Do and Post once the loop has exited.
var ErrStopped = errors.New("event loop stopped")

// Loop serialises window-system events and posted tasks onto one goroutine,
// which is the only one allowed to touch the Manager.
type Loop struct {
	m      *Manager
	events <-chan platform.Event
	tasks  chan func(*Manager)
	done   chan struct{}
}

// NewLoop creates a loop feeding events and tasks to m.
func NewLoop(m *Manager, events <-chan platform.Event) *Loop {
	return &Loop{
		m:      m,
		events: events,
		tasks:  make(chan func(*Manager), 64),
		done:   make(chan struct{}),
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Run starts the manager and processes input until exit is requested, ctx is
// cancelled or the event channel closes. Shutdown hooks run before it
// returns.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	if err := l.m.Start(); err != nil {
		return err
	}

	for !l.m.Exiting() {
		select {
		case <-ctx.Done():
			l.m.Exit()
		case ev, ok := <-l.events:
			if !ok {
				l.m.Exit()
				continue
			}
			l.m.HandleEvent(ev)
		case task := <-l.tasks:
			task(l.m)
		}
	}

	l.m.Shutdown()
	return nil
}

// Post queues fn to run on the loop goroutine without waiting for it.
func (l *Loop) Post(fn func(*Manager)) error {
	select {
	case <-l.done:
		return ErrStopped
	default:
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrStopped
	}
}

// Do runs fn on the loop goroutine and waits for its result.
func (l *Loop) Do(fn func(*Manager) error) error {
	reply := make(chan error, 1)
	if err := l.Post(func(m *Manager) { reply <- fn(m) }); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-l.done:
		select {
		case err := <-reply:
			return err
		default:
			return ErrStopped
		}
	}
}

// Dispatch runs cmd on the loop goroutine and waits for its result.
func (l *Loop) Dispatch(cmd command.Command) error {
	return l.Do(func(m *Manager) error { return m.Dispatch(cmd) })
}

// Submit queues cmd without waiting for it. Failures are logged by Dispatch.
func (l *Loop) Submit(cmd command.Command) error {
	return l.Post(func(m *Manager) { _ = m.Dispatch(cmd) })
}
