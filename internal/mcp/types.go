package mcp

import "github.com/1broseidon/stackwm/internal/wm"

// GetStateInput is the input for the get_state tool.
type GetStateInput struct {
	Workspace int `json:"workspace,omitempty" jsonschema:"Only report this workspace (1-based). Omit for every workspace."`
}

// GetStateOutput is the output for the get_state tool.
type GetStateOutput struct {
	FocusedScreen    int                  `json:"focused_screen"`
	FocusedWorkspace int                  `json:"focused_workspace"`
	FocusedClient    uint32               `json:"focused_client,omitempty"`
	BarEnabled       bool                 `json:"bar_enabled"`
	Screens          []wm.ScreenStatus    `json:"screens"`
	Workspaces       []wm.WorkspaceStatus `json:"workspaces"`
	Clients          []wm.ClientStatus    `json:"clients"`
	UptimeSeconds    int64                `json:"uptime_seconds"`
}

// RunCommandInput is the input for the run_command tool.
type RunCommandInput struct {
	Command string `json:"command" jsonschema:"required,Command line such as 'focus_workspace 3' or 'cycle_client forward'. Workspace numbers start at 1."`
}

// RunCommandOutput is the output for the run_command tool.
type RunCommandOutput struct {
	Command          string `json:"command"`
	FocusedWorkspace int    `json:"focused_workspace"`
	FocusedClient    uint32 `json:"focused_client,omitempty"`
}

// ListCommandsInput is the input for the list_commands tool.
type ListCommandsInput struct{}

// ListCommandsOutput is the output for the list_commands tool.
type ListCommandsOutput struct {
	Commands []string `json:"commands"`
}

// ReloadConfigInput is the input for the reload_config tool.
type ReloadConfigInput struct{}

// ReloadConfigOutput is the output for the reload_config tool.
type ReloadConfigOutput struct {
	Reloaded bool `json:"reloaded"`
}
