package hooks

import (
	"fmt"
	"strings"

	"github.com/1broseidon/stackwm/internal/client"
	"github.com/1broseidon/stackwm/internal/platform"
)

// Scratchpad is a floating client that is spawned on first use and then
// toggled between hidden and shown on the focused workspace.
type Scratchpad struct {
	Command     string
	Class       string
	WidthRatio  float64
	HeightRatio float64

	id       platform.WindowID
	pending  bool
	geometry platform.Rect
}

// NewScratchpad creates a scratchpad that runs command and claims the first
// new client whose class matches class.
func NewScratchpad(command, class string, widthRatio, heightRatio float64) *Scratchpad {
	return &Scratchpad{
		Command:     command,
		Class:       class,
		WidthRatio:  widthRatio,
		HeightRatio: heightRatio,
	}
}

// Client returns the claimed client, if any.
func (sp *Scratchpad) Client() (platform.WindowID, bool) {
	return sp.id, sp.id != 0
}

// Pending reports whether a spawned program has not mapped yet.
func (sp *Scratchpad) Pending() bool {
	return sp.pending
}

// Toggle spawns, hides or shows the scratchpad client.
func (sp *Scratchpad) Toggle(s State) error {
	if sp.id == 0 {
		if sp.pending {
			return nil
		}
		if id, ok := s.FindClient(sp.matches); ok {
			return sp.claim(s, id)
		}
		if err := s.Spawn(sp.Command); err != nil {
			return fmt.Errorf("scratchpad: %w", err)
		}
		sp.pending = true
		return nil
	}

	c, err := s.Client(sp.id)
	if err != nil {
		sp.id = 0
		return fmt.Errorf("scratchpad: %w", err)
	}

	focused := s.FocusedWorkspace()
	if !c.Hidden && c.Workspace == focused {
		sp.geometry = c.Geometry
		return s.HideClient(sp.id)
	}

	if c.Workspace != focused {
		if err := s.MoveClientToWorkspace(sp.id, focused); err != nil {
			return fmt.Errorf("scratchpad: %w", err)
		}
	}
	if err := s.SetClientGeometry(sp.id, sp.geometry); err != nil {
		return err
	}
	if err := s.ShowClient(sp.id); err != nil {
		return err
	}
	return s.FocusClient(sp.id)
}

// ClientAdded claims the first matching client while a spawn is pending.
func (sp *Scratchpad) ClientAdded(s State, id platform.WindowID) error {
	if !sp.pending {
		return nil
	}
	c, err := s.Client(id)
	if err != nil {
		return err
	}
	if !sp.matches(c) {
		return nil
	}
	return sp.claim(s, id)
}

// ClientRemoved forgets the scratchpad client when its window goes away.
func (sp *Scratchpad) ClientRemoved(_ State, c client.Client) error {
	if c.ID == sp.id {
		sp.id = 0
		sp.pending = false
	}
	return nil
}

func (sp *Scratchpad) matches(c client.Client) bool {
	return c.ID != sp.id && strings.EqualFold(c.Class, sp.Class)
}

func (sp *Scratchpad) claim(s State, id platform.WindowID) error {
	sp.pending = false
	sp.id = id
	sp.geometry = centered(s.FocusedScreenGeometry(), sp.WidthRatio, sp.HeightRatio)

	if err := s.SetClientFloating(id, true); err != nil {
		return err
	}
	if err := s.SetClientGeometry(id, sp.geometry); err != nil {
		return err
	}
	return s.FocusClient(id)
}

func centered(screen platform.Rect, wr, hr float64) platform.Rect {
	if wr <= 0 || wr > 1 {
		wr = 0.8
	}
	if hr <= 0 || hr > 1 {
		hr = 0.8
	}
	w := int(float64(screen.Width) * wr)
	h := int(float64(screen.Height) * hr)
	return platform.Rect{
		X:      screen.X + (screen.Width-w)/2,
		Y:      screen.Y + (screen.Height-h)/2,
		Width:  w,
		Height: h,
	}
}
