package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/stackwm/internal/command"
	"github.com/1broseidon/stackwm/internal/wm"
)

func (s *Server) handleGetState(_ context.Context, _ *mcpsdk.CallToolRequest, args GetStateInput) (*mcpsdk.CallToolResult, GetStateOutput, error) {
	st, err := s.ctl.GetStatus()
	if err != nil {
		return nil, GetStateOutput{}, err
	}

	out := GetStateOutput{
		FocusedScreen:    st.FocusedScreen,
		FocusedWorkspace: st.FocusedWorkspace,
		FocusedClient:    st.FocusedClient,
		BarEnabled:       st.BarEnabled,
		Screens:          st.Screens,
		Workspaces:       st.Workspaces,
		Clients:          st.Clients,
		UptimeSeconds:    st.UptimeSeconds,
	}
	if args.Workspace == 0 {
		return nil, out, nil
	}

	idx := args.Workspace - 1
	if idx < 0 || idx >= len(st.Workspaces) {
		return nil, GetStateOutput{}, fmt.Errorf("workspace %d out of range (1-%d)", args.Workspace, len(st.Workspaces))
	}
	out.Workspaces = []wm.WorkspaceStatus{st.Workspaces[idx]}
	out.Clients = nil
	for _, c := range st.Clients {
		if c.Workspace == idx {
			out.Clients = append(out.Clients, c)
		}
	}
	return nil, out, nil
}

func (s *Server) handleRunCommand(_ context.Context, _ *mcpsdk.CallToolRequest, args RunCommandInput) (*mcpsdk.CallToolResult, RunCommandOutput, error) {
	line := strings.TrimSpace(args.Command)
	// Parse locally so a typo is reported without a round trip.
	cmd, err := command.Parse(line)
	if err != nil {
		return nil, RunCommandOutput{}, err
	}
	if cmd.Name == command.Exit {
		return nil, RunCommandOutput{}, fmt.Errorf("%s is not available over MCP", command.Exit)
	}

	if err := s.ctl.RunCommand(cmd.String()); err != nil {
		s.logger.Warn("command failed", "command", cmd.String(), "error", err)
		return nil, RunCommandOutput{}, err
	}
	s.logger.Info("command run", "command", cmd.String())

	st, err := s.ctl.GetStatus()
	if err != nil {
		return nil, RunCommandOutput{}, err
	}
	return nil, RunCommandOutput{
		Command:          cmd.String(),
		FocusedWorkspace: st.FocusedWorkspace,
		FocusedClient:    st.FocusedClient,
	}, nil
}

func (s *Server) handleListCommands(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListCommandsInput) (*mcpsdk.CallToolResult, ListCommandsOutput, error) {
	names, err := s.ctl.ListCommands()
	if err != nil {
		return nil, ListCommandsOutput{}, err
	}
	return nil, ListCommandsOutput{Commands: names}, nil
}

func (s *Server) handleReloadConfig(_ context.Context, _ *mcpsdk.CallToolRequest, _ ReloadConfigInput) (*mcpsdk.CallToolResult, ReloadConfigOutput, error) {
	if err := s.ctl.Reload(); err != nil {
		return nil, ReloadConfigOutput{}, err
	}
	return nil, ReloadConfigOutput{Reloaded: true}, nil
}
