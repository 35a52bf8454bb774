// Package mcp exposes the running window manager to MCP clients over stdio.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/stackwm/internal/ipc"
)

const (
	ServerName    = "stackwm"
	ServerVersion = "0.1.0"
)

// Controller is the subset of the IPC client the tools need.
type Controller interface {
	GetStatus() (*ipc.StatusData, error)
	RunCommand(line string) error
	ListCommands() ([]string, error)
	Reload() error
}

// Server is the MCP server that forwards tool calls to the window manager.
type Server struct {
	mcpServer *mcpsdk.Server
	ctl       Controller
	logger    *slog.Logger
}

// NewServer creates an MCP server backed by ctl.
func NewServer(ctl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		ctl:    ctl,
		logger: logger.With("component", "mcp"),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_state",
		Description: "Report screens, workspaces (with layout symbol, main ratio and client stack) and managed clients. Workspace numbers in the output are 0-based indices; pass a 1-based workspace to filter.",
	}, s.handleGetState)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_command",
		Description: "Run one window manager command, exactly as a key binding would. Use list_commands for the accepted names. Returns the focus after the command settles.",
	}, s.handleRunCommand)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_commands",
		Description: "List the command names run_command accepts.",
	}, s.handleListCommands)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reload_config",
		Description: "Re-read the configuration file and apply colours, layout settings and bar options to the running window manager.",
	}, s.handleReloadConfig)
}
