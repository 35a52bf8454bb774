package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/1broseidon/stackwm/internal/command"
	"github.com/1broseidon/stackwm/internal/config"
	"github.com/1broseidon/stackwm/internal/hooks"
	"github.com/1broseidon/stackwm/internal/hotkeys"
	"github.com/1broseidon/stackwm/internal/ipc"
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/runtimepath"
	"github.com/1broseidon/stackwm/internal/spawn"
	"github.com/1broseidon/stackwm/internal/statusbar"
	"github.com/1broseidon/stackwm/internal/wm"
	"github.com/1broseidon/stackwm/internal/workspace"
)

const wmName = "stackwm"

// app ties the running loop to the control surfaces: IPC, config reloads and
// SIGHUP all go through it.
type app struct {
	loop       *wm.Loop
	configPath string
	bindings   *hotkeys.Handler
	level      *slog.LevelVar
	logger     *slog.Logger

	reloadMu sync.Mutex
}

var _ ipc.Executor = (*app)(nil)

func (a *app) Status() (wm.Status, error) {
	var st wm.Status
	err := a.loop.Do(func(m *wm.Manager) error {
		st = m.Status()
		return nil
	})
	return st, err
}

func (a *app) RunCommand(cmd command.Command) error {
	return a.loop.Dispatch(cmd)
}

// Reload re-reads the config file and applies what can change at runtime:
// appearance, floating classes, bar height, bindings and log level.
// Workspaces and layouts keep their startup values.
func (a *app) Reload() error {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()

	res, err := config.LoadFromPath(a.configPath)
	if err != nil {
		return err
	}
	cfg := res.Config

	settings, err := settingsFromConfig(cfg)
	if err != nil {
		return err
	}
	if err := a.loop.Do(func(m *wm.Manager) error {
		m.ApplySettings(settings)
		return nil
	}); err != nil {
		return err
	}

	setLevel(a.level, cfg.LogLevel)
	if a.bindings != nil {
		a.bindings.Reset()
		if err := registerBindings(a.bindings, cfg); err != nil {
			a.logger.Warn("some bindings could not be grabbed", "error", err)
		}
	}
	a.logger.Info("config reloaded", "path", a.configPath, "files", len(res.Files))
	return nil
}

// settingsFromConfig converts the reloadable part of cfg.
func settingsFromConfig(cfg *config.Config) (wm.Settings, error) {
	focused, err := config.ParseColor(cfg.FocusedBorder)
	if err != nil {
		return wm.Settings{}, fmt.Errorf("focused_border: %w", err)
	}
	unfocused, err := config.ParseColor(cfg.UnfocusedBorder)
	if err != nil {
		return wm.Settings{}, fmt.Errorf("unfocused_border: %w", err)
	}
	return wm.Settings{
		GapPx:           cfg.GapPx,
		BorderPx:        cfg.BorderPx,
		FocusedBorder:   focused,
		UnfocusedBorder: unfocused,
		MainRatioStep:   cfg.MainRatioStep,
		FloatingClasses: cfg.FloatingClasses,
		BarHeight:       cfg.Bar.Height,
		BarWindow:       cfg.Bar.Window,
	}, nil
}

// barRenderers picks the status outputs configured by bar.output.
func barRenderers(cfg *config.Config, pub statusbar.DesktopPublisher) []statusbar.Renderer {
	var out []statusbar.Renderer
	switch cfg.Bar.Output {
	case config.BarOutputText:
		out = append(out, statusbar.NewTextRenderer(os.Stdout))
	case config.BarOutputEWMH:
		out = append(out, statusbar.NewEWMHRenderer(pub))
	case config.BarOutputBoth:
		out = append(out, statusbar.NewTextRenderer(os.Stdout), statusbar.NewEWMHRenderer(pub))
	}
	return out
}

func registerBindings(h *hotkeys.Handler, cfg *config.Config) error {
	keys, err := cfg.KeyBindings()
	if err != nil {
		return err
	}
	mouse, err := cfg.MouseBindingList()
	if err != nil {
		return err
	}
	return errors.Join(h.RegisterKeys(keys), h.RegisterMouse(mouse))
}

func setLevel(level *slog.LevelVar, name string) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		l = slog.LevelInfo
	}
	level.Set(l)
}

func runWM(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: stackwm run [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Take over the X display named by $DISPLAY (or the config's display) and manage windows.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "Config file path (default: ~/.config/stackwm/config.yaml)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	if *configPath == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		*configPath = p
	}

	res, err := config.LoadFromPath(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	cfg := res.Config

	level := new(slog.LevelVar)
	setLevel(level, cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	settings, err := settingsFromConfig(cfg)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return 1
	}

	if cfg.Display != "" {
		os.Setenv("DISPLAY", cfg.Display)
	}
	backend, err := platform.NewLinuxBackendFromDisplay(wmName)
	if err != nil {
		logger.Error("failed to connect to display", "error", err)
		return 1
	}
	defer backend.Disconnect()

	workspaces := workspace.New(cfg.Workspaces, cfg.TilingLayouts())
	m := wm.NewManager(backend, spawn.NewExecLauncher(logger), workspaces, settings, cfg.Bar.Enabled, logger)

	if cfg.Scratchpad.Command != "" {
		sp := hooks.NewScratchpad(
			cfg.ResolveCommand(cfg.Scratchpad.Command),
			cfg.Scratchpad.Class,
			cfg.Scratchpad.Width,
			cfg.Scratchpad.Height,
		)
		m.Hooks().Register(sp)
		m.SetScratchpad(sp)
	}
	if renderers := barRenderers(cfg, backend.Connection()); len(renderers) > 0 {
		m.Hooks().Register(statusbar.NewHook(renderers...))
	}

	loop := wm.NewLoop(m, backend.Events())

	bindings, err := hotkeys.NewHandler(backend, loop, logger)
	if err != nil {
		logger.Error("failed to set up bindings", "error", err)
		return 1
	}
	if err := registerBindings(bindings, cfg); err != nil {
		logger.Warn("some bindings could not be grabbed", "error", err)
	}

	a := &app{
		loop:       loop,
		configPath: *configPath,
		bindings:   bindings,
		level:      level,
		logger:     logger,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		logger.Error("failed to resolve socket path", "error", err)
		return 1
	}
	server := ipc.NewServer(socketPath, a, logger)
	if err := server.Start(); err != nil {
		logger.Error("failed to start IPC server", "error", err)
		return 1
	}
	defer server.Stop()

	reload := func() {
		if err := a.Reload(); err != nil {
			logger.Warn("config reload failed", "error", err)
		}
	}

	if watcher, err := config.NewWatcher(*configPath, logger); err != nil {
		logger.Warn("config watching disabled", "error", err)
	} else {
		go watcher.Run(ctx, reload)
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-hup:
				logger.Info("received SIGHUP, reloading config")
				reload()
			case <-loop.Done():
				return
			}
		}
	}()

	go backend.EventLoop()

	if err := loop.Run(ctx); err != nil {
		logger.Error("window manager failed", "error", err)
		return 1
	}
	return 0
}
