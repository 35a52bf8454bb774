package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidChord = errors.New("invalid chord")

// Modifiers in the order they are rendered.
var modifierOrder = []string{"Control", "Mod1", "Shift", "Mod4"}

var modifierAliases = map[string]string{
	"m":       "Mod4",
	"mod4":    "Mod4",
	"super":   "Mod4",
	"a":       "Mod1",
	"mod1":    "Mod1",
	"alt":     "Mod1",
	"c":       "Control",
	"ctrl":    "Control",
	"control": "Control",
	"s":       "Shift",
	"shift":   "Shift",
}

// Chord is a key combination such as "M-S-Return": modifiers then a key
// name, separated by dashes.
type Chord struct {
	Mods []string
	Key  string
}

// String renders the chord in xgbutil keybind syntax, e.g. "Mod4-Shift-Return".
func (c Chord) String() string {
	return strings.Join(append(append([]string{}, c.Mods...), c.Key), "-")
}

func ParseChord(s string) (Chord, error) {
	mods, key, err := splitChord(s)
	if err != nil {
		return Chord{}, err
	}
	return Chord{Mods: mods, Key: key}, nil
}

var mouseButtons = map[string]int{
	"left":       1,
	"middle":     2,
	"right":      3,
	"scrollup":   4,
	"scrolldown": 5,
}

// MouseChord is a modifier set plus a pointer button, written "M-Right" or
// "M-3".
type MouseChord struct {
	Mods   []string
	Button int
}

// String renders the chord in xgbutil mousebind syntax, e.g. "Mod4-3".
func (c MouseChord) String() string {
	return strings.Join(append(append([]string{}, c.Mods...), strconv.Itoa(c.Button)), "-")
}

func ParseMouseChord(s string) (MouseChord, error) {
	mods, name, err := splitChord(s)
	if err != nil {
		return MouseChord{}, err
	}
	button, ok := mouseButtons[strings.ToLower(name)]
	if !ok {
		n, err := strconv.Atoi(name)
		if err != nil || n < 1 || n > 5 {
			return MouseChord{}, fmt.Errorf("%q: unknown button %q: %w", s, name, ErrInvalidChord)
		}
		button = n
	}
	return MouseChord{Mods: mods, Button: button}, nil
}

// splitChord separates the modifiers from the final key and puts them in
// canonical order.
func splitChord(s string) ([]string, string, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	key := parts[len(parts)-1]
	if key == "" {
		return nil, "", fmt.Errorf("%q: missing key: %w", s, ErrInvalidChord)
	}

	present := make(map[string]bool)
	for _, p := range parts[:len(parts)-1] {
		mod, ok := modifierAliases[strings.ToLower(p)]
		if !ok {
			return nil, "", fmt.Errorf("%q: unknown modifier %q: %w", s, p, ErrInvalidChord)
		}
		if present[mod] {
			return nil, "", fmt.Errorf("%q: repeated modifier %q: %w", s, p, ErrInvalidChord)
		}
		present[mod] = true
	}

	var mods []string
	for _, m := range modifierOrder {
		if present[m] {
			mods = append(mods, m)
		}
	}
	return mods, key, nil
}

// ParseColor reads "#rrggbb" or "0xrrggbb" into a pixel value.
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(hex, "#"):
		hex = hex[1:]
	case strings.HasPrefix(hex, "0x"), strings.HasPrefix(hex, "0X"):
		hex = hex[2:]
	default:
		return 0, fmt.Errorf("color %q must start with # or 0x", s)
	}
	if len(hex) != 6 {
		return 0, fmt.Errorf("color %q must have six hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return uint32(v), nil
}
