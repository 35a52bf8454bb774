package config

import (
	"fmt"
	"sort"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies raw on top of DefaultConfig. Bindings are
// merged per chord; a binding set to Unbind removes the default.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.Workspaces != nil {
		cfg.Workspaces = raw.Workspaces
		// The default workspace bindings follow the workspace count.
		for n := len(cfg.Workspaces) + 1; n <= 9; n++ {
			delete(cfg.Bindings, fmt.Sprintf("M-%d", n))
			delete(cfg.Bindings, fmt.Sprintf("M-S-%d", n))
		}
	}
	if raw.FloatingClasses != nil {
		cfg.FloatingClasses = raw.FloatingClasses
	}
	if raw.GapPx != nil {
		cfg.GapPx = *raw.GapPx
	}
	if raw.BorderPx != nil {
		cfg.BorderPx = *raw.BorderPx
	}
	if raw.FocusedBorder != nil {
		cfg.FocusedBorder = *raw.FocusedBorder
	}
	if raw.UnfocusedBorder != nil {
		cfg.UnfocusedBorder = *raw.UnfocusedBorder
	}
	if raw.MainRatioStep != nil {
		cfg.MainRatioStep = *raw.MainRatioStep
	}
	if raw.Layouts != nil {
		cfg.Layouts = make([]LayoutConfig, 0, len(raw.Layouts))
		for _, l := range raw.Layouts {
			cfg.Layouts = append(cfg.Layouts, l.effective())
		}
	}
	if raw.Bar != nil {
		if raw.Bar.Enabled != nil {
			cfg.Bar.Enabled = *raw.Bar.Enabled
		}
		if raw.Bar.Height != nil {
			cfg.Bar.Height = *raw.Bar.Height
		}
		if raw.Bar.Window != nil {
			cfg.Bar.Window = *raw.Bar.Window
		}
		if raw.Bar.Output != nil {
			cfg.Bar.Output = *raw.Bar.Output
		}
	}
	if raw.Scratchpad != nil {
		if raw.Scratchpad.Command != nil {
			cfg.Scratchpad.Command = *raw.Scratchpad.Command
		}
		if raw.Scratchpad.Class != nil {
			cfg.Scratchpad.Class = *raw.Scratchpad.Class
		}
		if raw.Scratchpad.Width != nil {
			cfg.Scratchpad.Width = *raw.Scratchpad.Width
		}
		if raw.Scratchpad.Height != nil {
			cfg.Scratchpad.Height = *raw.Scratchpad.Height
		}
	}
	if raw.Terminal != nil {
		cfg.Terminal = *raw.Terminal
	}
	if raw.Launcher != nil {
		cfg.Launcher = *raw.Launcher
	}
	cfg.Bindings = applyBindings(cfg.Bindings, raw.Bindings)
	cfg.MouseBindings = applyBindings(cfg.MouseBindings, raw.MouseBindings)

	return cfg
}

// applyBindings overlays user bindings. A user chord replaces any default
// spelled differently but meaning the same keys.
func applyBindings(defaults map[string]string, user map[string]string) map[string]string {
	if len(user) == 0 {
		return defaults
	}
	canonical := func(key string) string {
		mods, k, err := splitChord(key)
		if err != nil {
			return key
		}
		return fmt.Sprint(mods, k)
	}

	overridden := make(map[string]struct{}, len(user))
	for key := range user {
		overridden[canonical(key)] = struct{}{}
	}
	out := make(map[string]string, len(defaults)+len(user))
	for key, line := range defaults {
		if _, ok := overridden[canonical(key)]; ok {
			continue
		}
		out[key] = line
	}
	for key, line := range user {
		out[key] = line
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (l RawLayoutConfig) effective() LayoutConfig {
	out := LayoutConfig{
		Symbol:        l.Symbol,
		Kind:          l.Kind,
		MaxMain:       DefaultMaxMain,
		MainRatio:     DefaultMainRatio,
		FollowFocus:   true,
		AllowWrapping: true,
	}
	if l.MaxMain != nil {
		out.MaxMain = *l.MaxMain
	}
	if l.MainRatio != nil {
		out.MainRatio = *l.MainRatio
	}
	if l.Floating != nil {
		out.Floating = *l.Floating
	}
	if l.Gapless != nil {
		out.Gapless = *l.Gapless
	}
	if l.FollowFocus != nil {
		out.FollowFocus = *l.FollowFocus
	}
	if l.AllowWrapping != nil {
		out.AllowWrapping = *l.AllowWrapping
	}
	return out
}
