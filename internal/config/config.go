package config

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/stackwm/internal/command"
	"github.com/1broseidon/stackwm/internal/tiling"
)

// LayoutConfig describes one entry of a workspace's layout cycle.
type LayoutConfig struct {
	Symbol        string  `yaml:"symbol"`
	Kind          string  `yaml:"kind"`
	MaxMain       int     `yaml:"max_main"`
	MainRatio     float64 `yaml:"main_ratio"`
	Floating      bool    `yaml:"floating,omitempty"`
	Gapless       bool    `yaml:"gapless,omitempty"`
	FollowFocus   bool    `yaml:"follow_focus"`
	AllowWrapping bool    `yaml:"allow_wrapping"`
}

// Layout defaults for entries that leave the fields out, and the bounds
// main_ratio is kept within.
const (
	DefaultMaxMain   = 1
	DefaultMainRatio = 0.5
	MinMainRatio     = 0.05
	MaxMainRatio     = 0.95
)

// BarOutput selects where the status bar renders.
type BarOutput string

const (
	BarOutputText BarOutput = "text" // one status line per change on stdout
	BarOutputEWMH BarOutput = "ewmh" // root window properties for external bars
	BarOutputBoth BarOutput = "both"
	BarOutputNone BarOutput = "none"
)

// BarConfig configures the space reserved for a status bar.
type BarConfig struct {
	Enabled bool      `yaml:"enabled"`
	Height  int       `yaml:"height"`
	Window  string    `yaml:"window,omitempty"` // class or title of an external bar window
	Output  BarOutput `yaml:"output"`
}

// ScratchpadConfig configures the toggled floating client.
type ScratchpadConfig struct {
	Command string  `yaml:"command"`
	Class   string  `yaml:"class"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
}

// Config holds the application configuration.
type Config struct {
	LogLevel        string            `yaml:"log_level"`
	Display         string            `yaml:"display,omitempty"`
	Workspaces      []string          `yaml:"workspaces"`
	FloatingClasses []string          `yaml:"floating_classes"`
	GapPx           int               `yaml:"gap_px"`
	BorderPx        int               `yaml:"border_px"`
	FocusedBorder   string            `yaml:"focused_border"`
	UnfocusedBorder string            `yaml:"unfocused_border"`
	MainRatioStep   float64           `yaml:"main_ratio_step"`
	Layouts         []LayoutConfig    `yaml:"layouts"`
	Bar             BarConfig         `yaml:"bar"`
	Scratchpad      ScratchpadConfig  `yaml:"scratchpad"`
	Terminal        string            `yaml:"terminal"`
	Launcher        string            `yaml:"launcher"`
	Bindings        map[string]string `yaml:"bindings"`
	MouseBindings   map[string]string `yaml:"mouse_bindings"`
}

// Unbind is the binding value that removes an inherited binding.
const Unbind = "none"

func DefaultConfig() *Config {
	cfg := &Config{
		LogLevel:        "info",
		Workspaces:      []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
		FloatingClasses: []string{"dmenu", "polybar"},
		GapPx:           0,
		BorderPx:        5,
		FocusedBorder:   "#0055ff",
		UnfocusedBorder: "#3c3836",
		MainRatioStep:   0.05,
		Layouts: []LayoutConfig{
			{Symbol: "[side]", Kind: string(tiling.KindSideStack), MaxMain: 1, MainRatio: 0.5, FollowFocus: true, AllowWrapping: true},
			{Symbol: "[botm]", Kind: string(tiling.KindBottomStack), MaxMain: 1, MainRatio: 0.5, FollowFocus: true, AllowWrapping: true},
			{Symbol: "[----]", Kind: string(tiling.KindFloating), Floating: true, AllowWrapping: true},
		},
		Bar: BarConfig{
			Enabled: true,
			Height:  28,
			Output:  BarOutputText,
		},
		Scratchpad: ScratchpadConfig{
			Command: "$terminal -c scratchpad",
			Class:   "scratchpad",
			Width:   0.8,
			Height:  0.8,
		},
		Terminal: "st",
		Launcher: "dmenu_run",
		Bindings: map[string]string{
			"M-d":            "spawn $launcher",
			"M-p":            "spawn stackwm menu",
			"M-Return":       "spawn $terminal",
			"M-S-Return":     "scratchpad_toggle",
			"M-k":            "cycle_client backward",
			"M-j":            "cycle_client forward",
			"M-o":            "update_max_main more",
			"M-S-o":          "update_max_main less",
			"M-l":            "update_main_ratio more",
			"M-h":            "update_main_ratio less",
			"M-S-j":          "drag_client forward",
			"M-S-k":          "drag_client backward",
			"M-q":            "kill_client",
			"M-Tab":          "toggle_workspace",
			"M-bracketright": "cycle_screen forward",
			"M-bracketleft":  "cycle_screen backward",
			"M-S-q":          "exit",
			"M-t":            "cycle_layout forward",
			"M-b":            "toggle_bar",
			"M-f":            "toggle_floating",
		},
		MouseBindings: map[string]string{
			"M-Right": "cycle_workspace forward",
			"M-Left":  "cycle_workspace backward",
		},
	}
	for i := range cfg.Workspaces {
		n := fmt.Sprint(i + 1)
		cfg.Bindings["M-"+n] = "focus_workspace " + n
		cfg.Bindings["M-S-"+n] = "client_to_workspace " + n
	}
	return cfg
}

var logLevels = []string{"debug", "info", "warn", "error"}

var barOutputs = []BarOutput{BarOutputText, BarOutputEWMH, BarOutputBoth, BarOutputNone}

func (c *Config) Validate() error {
	if !slices.Contains(logLevels, c.LogLevel) {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: %s", strings.Join(logLevels, ", "))}
	}
	if len(c.Workspaces) == 0 {
		return &ValidationError{Path: "workspaces", Err: fmt.Errorf("at least one workspace is required")}
	}
	seen := make(map[string]struct{}, len(c.Workspaces))
	for i, name := range c.Workspaces {
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Path: fmt.Sprintf("workspaces.%d", i), Err: fmt.Errorf("workspace name must not be empty")}
		}
		if _, dup := seen[name]; dup {
			return &ValidationError{Path: fmt.Sprintf("workspaces.%d", i), Err: fmt.Errorf("duplicate workspace name %q", name)}
		}
		seen[name] = struct{}{}
	}
	if c.GapPx < 0 {
		return &ValidationError{Path: "gap_px", Err: fmt.Errorf("gap_px must be >= 0")}
	}
	if c.BorderPx < 0 {
		return &ValidationError{Path: "border_px", Err: fmt.Errorf("border_px must be >= 0")}
	}
	if _, err := ParseColor(c.FocusedBorder); err != nil {
		return &ValidationError{Path: "focused_border", Err: err}
	}
	if _, err := ParseColor(c.UnfocusedBorder); err != nil {
		return &ValidationError{Path: "unfocused_border", Err: err}
	}
	if c.MainRatioStep <= 0 || c.MainRatioStep >= 1 {
		return &ValidationError{Path: "main_ratio_step", Err: fmt.Errorf("main_ratio_step must be between 0 and 1")}
	}

	if len(c.Layouts) == 0 {
		return &ValidationError{Path: "layouts", Err: fmt.Errorf("layouts must not be empty")}
	}
	symbols := make(map[string]struct{}, len(c.Layouts))
	for i, l := range c.Layouts {
		path := fmt.Sprintf("layouts.%d", i)
		if err := validateLayout(l); err != nil {
			return &ValidationError{Path: path, Err: err}
		}
		if _, dup := symbols[l.Symbol]; dup {
			return &ValidationError{Path: path + ".symbol", Err: fmt.Errorf("duplicate layout symbol %q", l.Symbol)}
		}
		symbols[l.Symbol] = struct{}{}
	}

	if c.Bar.Height < 0 {
		return &ValidationError{Path: "bar.height", Err: fmt.Errorf("bar.height must be >= 0")}
	}
	if !slices.Contains(barOutputs, c.Bar.Output) {
		return &ValidationError{Path: "bar.output", Err: fmt.Errorf("bar.output must be one of: text, ewmh, both, none")}
	}
	if c.Scratchpad.Width < 0 || c.Scratchpad.Width > 1 || c.Scratchpad.Height < 0 || c.Scratchpad.Height > 1 {
		return &ValidationError{Path: "scratchpad", Err: fmt.Errorf("scratchpad width and height must be fractions between 0 and 1")}
	}

	if err := validateBindings("bindings", c.Bindings, ParseChord, len(c.Workspaces)); err != nil {
		return err
	}
	return validateBindings("mouse_bindings", c.MouseBindings, ParseMouseChord, len(c.Workspaces))
}

func validateLayout(l LayoutConfig) error {
	if strings.TrimSpace(l.Symbol) == "" {
		return fmt.Errorf("symbol is required")
	}
	kind := tiling.Kind(l.Kind)
	if !kind.Valid() {
		return fmt.Errorf("unknown kind %q", l.Kind)
	}
	if kind != tiling.KindFloating {
		if l.MaxMain < 0 {
			return fmt.Errorf("max_main must be >= 0")
		}
		if l.MainRatio < MinMainRatio || l.MainRatio > MaxMainRatio {
			return fmt.Errorf("main_ratio must be between %.2f and %.2f", MinMainRatio, MaxMainRatio)
		}
	}
	return nil
}

// validateBindings parses every chord and command. Two spellings of the same
// chord, such as "M-S-j" and "S-M-j", are rejected as duplicates.
func validateBindings[C fmt.Stringer](section string, bindings map[string]string, parse func(string) (C, error), workspaces int) error {
	chords := make(map[string]string, len(bindings))
	for _, key := range sortedKeys(bindings) {
		path := section + "." + key
		chord, err := parse(key)
		if err != nil {
			return &ValidationError{Path: path, Err: err}
		}
		if prev, dup := chords[chord.String()]; dup {
			return &ValidationError{Path: path, Err: fmt.Errorf("duplicate binding: same chord as %q", prev)}
		}
		chords[chord.String()] = key

		line := bindings[key]
		if line == Unbind {
			continue
		}
		cmd, err := command.Parse(line)
		if err != nil {
			return &ValidationError{Path: path, Err: err}
		}
		if kind, _ := command.KindOf(cmd.Name); kind == command.ArgIndex && cmd.Index >= workspaces {
			return &ValidationError{Path: path, Err: fmt.Errorf("workspace %d does not exist", cmd.Index+1)}
		}
	}
	return nil
}

// ResolveCommand substitutes $terminal and $launcher in a command line.
func (c *Config) ResolveCommand(line string) string {
	return strings.NewReplacer("$terminal", c.Terminal, "$launcher", c.Launcher).Replace(line)
}

// TilingLayouts converts the layout list for the workspace set.
func (c *Config) TilingLayouts() []tiling.Layout {
	out := make([]tiling.Layout, 0, len(c.Layouts))
	for _, l := range c.Layouts {
		out = append(out, tiling.Layout{
			Symbol: l.Symbol,
			Kind:   tiling.Kind(l.Kind),
			Conf: tiling.Conf{
				Floating:      l.Floating || tiling.Kind(l.Kind) == tiling.KindFloating,
				Gapless:       l.Gapless,
				FollowFocus:   l.FollowFocus,
				AllowWrapping: l.AllowWrapping,
			},
			MaxMain:   max(1, l.MaxMain),
			MainRatio: l.MainRatio,
		})
	}
	return out
}

// KeyBindings returns the parsed key bindings, skipping unbound entries.
// The config must have been validated.
func (c *Config) KeyBindings() ([]Binding[Chord], error) {
	return collectBindings(c, c.Bindings, ParseChord)
}

// MouseBindingList returns the parsed mouse bindings, skipping unbound
// entries. The config must have been validated.
func (c *Config) MouseBindingList() ([]Binding[MouseChord], error) {
	return collectBindings(c, c.MouseBindings, ParseMouseChord)
}

// Binding pairs a parsed chord with the command it runs.
type Binding[C any] struct {
	Chord   C
	Command command.Command
}

func collectBindings[C any](c *Config, bindings map[string]string, parse func(string) (C, error)) ([]Binding[C], error) {
	out := make([]Binding[C], 0, len(bindings))
	for _, key := range sortedKeys(bindings) {
		line := bindings[key]
		if line == Unbind {
			continue
		}
		chord, err := parse(key)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		cmd, err := command.Parse(c.ResolveCommand(line))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out = append(out, Binding[C]{Chord: chord, Command: cmd})
	}
	return out, nil
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
