package statusbar

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/1broseidon/stackwm/internal/hooks"
	"github.com/1broseidon/stackwm/internal/platform"
)

// TextRenderer writes one status line per change, suitable for piping into
// lemonbar, dzen2 or a similar bar.
//
// Workspaces are rendered as "[name]" when focused, "<name>" when shown on
// another screen, "name*" when occupied and "name" otherwise.
type TextRenderer struct {
	mu         sync.Mutex
	w          io.Writer
	workspaces []hooks.WorkspaceInfo
	layout     string
	title      string
	last       string
}

// NewTextRenderer writes status lines to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) WorkspacesChanged(workspaces []hooks.WorkspaceInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workspaces = append(r.workspaces[:0], workspaces...)
	return r.renderLocked()
}

func (r *TextRenderer) LayoutChanged(symbol string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layout = symbol
	return r.renderLocked()
}

func (r *TextRenderer) ActiveWindowChanged(_ platform.WindowID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.title = name
	return r.renderLocked()
}

// Line returns the most recently rendered line.
func (r *TextRenderer) Line() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *TextRenderer) renderLocked() error {
	line := formatLine(r.workspaces, r.layout, r.title)
	if line == r.last {
		return nil
	}
	r.last = line
	if _, err := fmt.Fprintln(r.w, line); err != nil {
		return fmt.Errorf("write status line: %w", err)
	}
	return nil
}

func formatLine(workspaces []hooks.WorkspaceInfo, layout, title string) string {
	tags := make([]string, 0, len(workspaces))
	for _, ws := range workspaces {
		switch {
		case ws.Focused:
			tags = append(tags, "["+ws.Name+"]")
		case ws.Screen >= 0:
			tags = append(tags, "<"+ws.Name+">")
		case ws.Clients > 0:
			tags = append(tags, ws.Name+"*")
		default:
			tags = append(tags, ws.Name)
		}
	}

	var parts []string
	if len(tags) > 0 {
		parts = append(parts, strings.Join(tags, " "))
	}
	if layout != "" {
		parts = append(parts, layout)
	}
	if title != "" {
		parts = append(parts, title)
	}
	return strings.Join(parts, " | ")
}
