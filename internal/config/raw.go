package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawBarConfig struct {
	Enabled *bool      `yaml:"enabled"`
	Height  *int       `yaml:"height"`
	Window  *string    `yaml:"window"`
	Output  *BarOutput `yaml:"output"`
}

// RawLayoutConfig is a layout entry as written. Omitted numeric and flag
// fields take the defaults of a tiled layout.
type RawLayoutConfig struct {
	Symbol        string   `yaml:"symbol"`
	Kind          string   `yaml:"kind"`
	MaxMain       *int     `yaml:"max_main"`
	MainRatio     *float64 `yaml:"main_ratio"`
	Floating      *bool    `yaml:"floating"`
	Gapless       *bool    `yaml:"gapless"`
	FollowFocus   *bool    `yaml:"follow_focus"`
	AllowWrapping *bool    `yaml:"allow_wrapping"`
}

type RawScratchpadConfig struct {
	Command *string  `yaml:"command"`
	Class   *string  `yaml:"class"`
	Width   *float64 `yaml:"width"`
	Height  *float64 `yaml:"height"`
}

// RawConfig is one YAML file as written. Unset fields are nil so files can
// be layered through include.
type RawConfig struct {
	Include         IncludeList          `yaml:"include"`
	LogLevel        *string              `yaml:"log_level"`
	Display         *string              `yaml:"display"`
	Workspaces      []string             `yaml:"workspaces"`
	FloatingClasses []string             `yaml:"floating_classes"`
	GapPx           *int                 `yaml:"gap_px"`
	BorderPx        *int                 `yaml:"border_px"`
	FocusedBorder   *string              `yaml:"focused_border"`
	UnfocusedBorder *string              `yaml:"unfocused_border"`
	MainRatioStep   *float64             `yaml:"main_ratio_step"`
	Layouts         []RawLayoutConfig    `yaml:"layouts"`
	Bar             *RawBarConfig        `yaml:"bar"`
	Scratchpad      *RawScratchpadConfig `yaml:"scratchpad"`
	Terminal        *string              `yaml:"terminal"`
	Launcher        *string              `yaml:"launcher"`
	Bindings        map[string]string    `yaml:"bindings"`
	MouseBindings   map[string]string    `yaml:"mouse_bindings"`
}

// merge returns c overridden by overlay. Lists are replaced; binding maps are
// merged per chord.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.Workspaces != nil {
		out.Workspaces = overlay.Workspaces
	}
	if overlay.FloatingClasses != nil {
		out.FloatingClasses = overlay.FloatingClasses
	}
	if overlay.GapPx != nil {
		out.GapPx = overlay.GapPx
	}
	if overlay.BorderPx != nil {
		out.BorderPx = overlay.BorderPx
	}
	if overlay.FocusedBorder != nil {
		out.FocusedBorder = overlay.FocusedBorder
	}
	if overlay.UnfocusedBorder != nil {
		out.UnfocusedBorder = overlay.UnfocusedBorder
	}
	if overlay.MainRatioStep != nil {
		out.MainRatioStep = overlay.MainRatioStep
	}
	if overlay.Layouts != nil {
		out.Layouts = overlay.Layouts
	}
	if overlay.Bar != nil {
		merged := mergeRawBar(derefBar(out.Bar), *overlay.Bar)
		out.Bar = &merged
	}
	if overlay.Scratchpad != nil {
		merged := mergeRawScratchpad(derefScratchpad(out.Scratchpad), *overlay.Scratchpad)
		out.Scratchpad = &merged
	}
	if overlay.Terminal != nil {
		out.Terminal = overlay.Terminal
	}
	if overlay.Launcher != nil {
		out.Launcher = overlay.Launcher
	}
	out.Bindings = applyBindings(out.Bindings, overlay.Bindings)
	out.MouseBindings = applyBindings(out.MouseBindings, overlay.MouseBindings)

	return out
}

func derefBar(p *RawBarConfig) RawBarConfig {
	if p == nil {
		return RawBarConfig{}
	}
	return *p
}

func derefScratchpad(p *RawScratchpadConfig) RawScratchpadConfig {
	if p == nil {
		return RawScratchpadConfig{}
	}
	return *p
}

func mergeRawBar(base RawBarConfig, overlay RawBarConfig) RawBarConfig {
	if overlay.Enabled != nil {
		base.Enabled = overlay.Enabled
	}
	if overlay.Height != nil {
		base.Height = overlay.Height
	}
	if overlay.Window != nil {
		base.Window = overlay.Window
	}
	if overlay.Output != nil {
		base.Output = overlay.Output
	}
	return base
}

func mergeRawScratchpad(base RawScratchpadConfig, overlay RawScratchpadConfig) RawScratchpadConfig {
	if overlay.Command != nil {
		base.Command = overlay.Command
	}
	if overlay.Class != nil {
		base.Class = overlay.Class
	}
	if overlay.Width != nil {
		base.Width = overlay.Width
	}
	if overlay.Height != nil {
		base.Height = overlay.Height
	}
	return base
}
