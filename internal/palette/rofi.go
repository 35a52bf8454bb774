package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

type backendKind int

const (
	kindRofi backendKind = iota
	kindFuzzel
	kindDmenu
)

// runFunc runs a picker with input on stdin and returns its stdout.
type runFunc func(command string, args []string, input string) (string, error)

type dmenuLikeBackend struct {
	command string
	kind    backendKind
	// indexOutput backends print the selected row number instead of its text.
	indexOutput bool
	markup      bool
	run         runFunc
}

func newRofiBackend() *dmenuLikeBackend {
	return &dmenuLikeBackend{command: "rofi", kind: kindRofi, indexOutput: true, markup: true, run: runPicker}
}

func newFuzzelBackend() *dmenuLikeBackend {
	return &dmenuLikeBackend{command: "fuzzel", kind: kindFuzzel, indexOutput: true, run: runPicker}
}

func newDmenuBackend() *dmenuLikeBackend {
	return &dmenuLikeBackend{command: "dmenu", kind: kindDmenu, run: runPicker}
}

func (b *dmenuLikeBackend) Show(prompt string, items []Item) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("palette: no items to show")
	}

	displayItems := make([]Item, len(items))
	copy(displayItems, items)

	input, active := b.formatInput(displayItems)
	selection, err := b.run(b.command, b.buildArgs(prompt, active), input)
	if err != nil {
		return Item{}, err
	}
	if selection == "" {
		return Item{}, ErrCancelled
	}

	item, err := b.parseSelection(selection, displayItems)
	if err != nil {
		return Item{}, err
	}
	// Some backends can't enforce non-selectable rows.
	if item.IsHeader {
		return Item{}, ErrCancelled
	}
	return item, nil
}

func runPicker(command string, args []string, input string) (string, error) {
	cmd := exec.Command(command, args...)
	cmd.Stdin = strings.NewReader(input)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))
	if err != nil {
		if selection == "" && isCancelExit(err) {
			return "", ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s failed: %s", command, msg)
		}
		return "", fmt.Errorf("%s failed: %w", command, err)
	}
	return selection, nil
}

func (b *dmenuLikeBackend) buildArgs(prompt string, active int) []string {
	var args []string

	switch b.kind {
	case kindRofi:
		args = []string{"-dmenu", "-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		// Output only the index; labels may contain markup.
		args = append(args, "-format", "i", "-no-custom", "-markup-rows")
		if active >= 0 {
			args = append(args, "-a", strconv.Itoa(active), "-selected-row", strconv.Itoa(active))
		}

	case kindFuzzel:
		args = []string{"--dmenu", "--index"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}

	case kindDmenu:
		args = []string{"-i", "-l", "20"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
	}

	return args
}

// formatInput renders one line per item and returns the first active row,
// or -1.
func (b *dmenuLikeBackend) formatInput(items []Item) (string, int) {
	// Backends that match by visible text need unique labels.
	if !b.indexOutput {
		seen := make(map[string]int)
		for i := range items {
			key := sanitizeLabel(items[i].Label)
			if items[i].IsHeader || key == "" {
				continue
			}
			if count := seen[key]; count > 0 {
				items[i].Label = fmt.Sprintf("%s (%d)", key, count+1)
			}
			seen[key]++
		}
	}

	active := -1
	lines := make([]string, 0, len(items))
	for i, item := range items {
		lines = append(lines, b.formatItem(item))
		if item.IsActive && !item.IsHeader && active == -1 {
			active = i
		}
	}
	return strings.Join(lines, "\n"), active
}

func (b *dmenuLikeBackend) formatItem(item Item) string {
	display := sanitizeLabel(item.Label)
	if b.markup {
		display = html.EscapeString(display)
		if item.IsHeader {
			display = fmt.Sprintf("<b>%s</b>", display)
		}
	} else if item.IsHeader {
		display = "-- " + display + " --"
	}

	// Rofi row properties: a single NUL, then \x1f-delimited key/value pairs.
	if b.kind == kindRofi && item.IsHeader {
		return display + "\x00nonselectable\x1ftrue"
	}
	return display
}

func (b *dmenuLikeBackend) parseSelection(selection string, items []Item) (Item, error) {
	if b.indexOutput {
		idx, err := strconv.Atoi(selection)
		if err != nil {
			return b.findByLabel(selection, items)
		}
		if idx < 0 || idx >= len(items) {
			return Item{}, fmt.Errorf("palette: index %d out of range", idx)
		}
		return items[idx], nil
	}
	return b.findByLabel(selection, items)
}

func (b *dmenuLikeBackend) findByLabel(selection string, items []Item) (Item, error) {
	for _, item := range items {
		if b.formatItem(item) == selection || sanitizeLabel(item.Label) == selection {
			return item, nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	label = strings.ReplaceAll(label, "\x00", " ")
	return strings.TrimSpace(label)
}

func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	// Rofi and dmenu use 1 for "no selection" and 130 for Ctrl+C.
	switch exitErr.ExitCode() {
	case 1, 130:
		return true
	default:
		return false
	}
}
