package wm

import (
	"errors"
	"fmt"

	"github.com/1broseidon/stackwm/internal/client"
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/tiling"
)

// RecomputeLayout lays out the workspace shown on screen idx. Only windows
// whose target geometry differs from the last applied one are moved.
func (m *Manager) RecomputeLayout(idx int) error {
	if idx < 0 || idx >= len(m.screens) {
		return fmt.Errorf("screen %d: %w", idx, ErrInvalidScreenIndex)
	}
	s := m.screens[idx]
	if s.Workspace < 0 {
		return nil
	}
	w, err := m.workspaces.Get(s.Workspace)
	if err != nil {
		return err
	}
	layout := w.Layout()

	var (
		tiles    []tiling.Tile
		floating []client.Client
	)
	for _, id := range w.Stack() {
		c, err := m.clients.Lookup(id)
		if err != nil || c.Hidden {
			continue
		}
		if c.Floating {
			floating = append(floating, c)
			continue
		}
		tiles = append(tiles, tiling.Tile{ID: id, Rect: c.Geometry})
	}

	out, err := tiling.Apply(layout, tiles, m.layoutRegion(s), tiling.Params{
		GapPx:    m.settings.GapPx,
		BorderPx: m.settings.BorderPx,
	})
	if err != nil {
		return fmt.Errorf("%w: workspace %d: %v", ErrLayoutApply, s.Workspace, err)
	}

	var errs []error
	for _, t := range out {
		_ = m.clients.SetGeometry(t.ID, t.Rect)
		if err := m.place(t.ID, t.Rect); err != nil {
			errs = append(errs, err)
		}
	}

	// Floating windows keep their own geometry and stay above the tiles.
	for _, c := range floating {
		if c.Geometry.Width > 0 && c.Geometry.Height > 0 {
			if err := m.place(c.ID, c.Geometry); err != nil {
				errs = append(errs, err)
			}
		}
		if err := m.backend.Raise(c.ID); err != nil {
			m.logger.Debug("raise failed", "window", c.ID, "error", err)
		}
	}

	if focused, ok := w.Focused(); ok && (layout.Kind == tiling.KindMonocle || m.isFloating(focused)) {
		if err := m.backend.Raise(focused); err != nil {
			m.logger.Debug("raise failed", "window", focused, "error", err)
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) place(id platform.WindowID, r platform.Rect) error {
	if prev, ok := m.applied[id]; ok && prev == r {
		return nil
	}
	if err := m.backend.MoveResize(id, r); err != nil {
		return fmt.Errorf("%w: window %d: %v", ErrLayoutApply, id, err)
	}
	m.applied[id] = r
	return nil
}

func (m *Manager) isFloating(id platform.WindowID) bool {
	c, err := m.clients.Lookup(id)
	return err == nil && c.Floating
}
