// Package client tracks the windows under management.
package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/1broseidon/stackwm/internal/platform"
)

var (
	// ErrUnknownClient is returned for operations on an unregistered window.
	ErrUnknownClient = errors.New("unknown client")
	// ErrDuplicateClient is returned when registering a window twice.
	ErrDuplicateClient = errors.New("duplicate client")
)

// Client is a snapshot of a managed window.
type Client struct {
	ID        platform.WindowID
	Name      string
	Class     string
	Floating  bool
	Hidden    bool
	Geometry  platform.Rect
	Workspace int
}

// Registry owns all client records. Iteration follows registration order.
type Registry struct {
	clients         map[platform.WindowID]*Client
	order           []platform.WindowID
	floatingClasses map[string]bool
}

// NewRegistry creates an empty registry. Clients whose class matches one of
// floatingClasses (case-insensitive) start floating.
func NewRegistry(floatingClasses []string) *Registry {
	r := &Registry{clients: make(map[platform.WindowID]*Client)}
	r.SetFloatingClasses(floatingClasses)
	return r
}

// SetFloatingClasses replaces the set of classes that start floating. Already
// registered clients are not affected.
func (r *Registry) SetFloatingClasses(classes []string) {
	r.floatingClasses = make(map[string]bool, len(classes))
	for _, c := range classes {
		r.floatingClasses[strings.ToLower(c)] = true
	}
}

// Register adds a window. The new client is not yet on any workspace.
func (r *Registry) Register(id platform.WindowID, class, name string) (Client, error) {
	if _, ok := r.clients[id]; ok {
		return Client{}, fmt.Errorf("register window %d: %w", id, ErrDuplicateClient)
	}
	c := &Client{
		ID:        id,
		Name:      name,
		Class:     class,
		Floating:  r.floatingClasses[strings.ToLower(class)],
		Workspace: -1,
	}
	r.clients[id] = c
	r.order = append(r.order, id)
	return *c, nil
}

// Unregister removes a window and returns its final snapshot.
func (r *Registry) Unregister(id platform.WindowID) (Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return Client{}, fmt.Errorf("unregister window %d: %w", id, ErrUnknownClient)
	}
	delete(r.clients, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return *c, nil
}

// Lookup returns a snapshot of the client.
func (r *Registry) Lookup(id platform.WindowID) (Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return Client{}, fmt.Errorf("lookup window %d: %w", id, ErrUnknownClient)
	}
	return *c, nil
}

// Contains reports whether id is registered.
func (r *Registry) Contains(id platform.WindowID) bool {
	_, ok := r.clients[id]
	return ok
}

// Find returns the first client, in registration order, that matches pred.
func (r *Registry) Find(pred func(Client) bool) (platform.WindowID, bool) {
	for _, id := range r.order {
		if pred(*r.clients[id]) {
			return id, true
		}
	}
	return 0, false
}

// All returns snapshots of every client in registration order.
func (r *Registry) All() []Client {
	out := make([]Client, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.clients[id])
	}
	return out
}

// Len returns the number of registered clients.
func (r *Registry) Len() int {
	return len(r.order)
}

func (r *Registry) SetFloating(id platform.WindowID, floating bool) error {
	return r.update(id, func(c *Client) { c.Floating = floating })
}

func (r *Registry) SetHidden(id platform.WindowID, hidden bool) error {
	return r.update(id, func(c *Client) { c.Hidden = hidden })
}

func (r *Registry) SetGeometry(id platform.WindowID, geometry platform.Rect) error {
	return r.update(id, func(c *Client) { c.Geometry = geometry })
}

func (r *Registry) SetWorkspace(id platform.WindowID, workspace int) error {
	return r.update(id, func(c *Client) { c.Workspace = workspace })
}

func (r *Registry) SetName(id platform.WindowID, name string) error {
	return r.update(id, func(c *Client) { c.Name = name })
}

func (r *Registry) update(id platform.WindowID, fn func(*Client)) error {
	c, ok := r.clients[id]
	if !ok {
		return fmt.Errorf("update window %d: %w", id, ErrUnknownClient)
	}
	fn(c)
	return nil
}
