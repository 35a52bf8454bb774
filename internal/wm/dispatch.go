package wm

import (
	"fmt"

	"github.com/1broseidon/stackwm/internal/command"
)

// Dispatch executes a command, then lays out and notifies hooks once for the
// whole command. A failing command leaves state unchanged; the error is
// logged and returned but never fatal.
func (m *Manager) Dispatch(cmd command.Command) error {
	err := m.dispatch(cmd)
	if err != nil {
		m.logger.Warn("command failed", "command", cmd.String(), "error", err)
	} else {
		m.logger.Debug("command", "command", cmd.String())
	}
	m.settle()
	return err
}

func (m *Manager) dispatch(cmd command.Command) error {
	switch cmd.Name {
	case command.CycleClient:
		ws, err := m.focusedWorkspace()
		if err != nil {
			return err
		}
		if _, err := m.workspaces.CycleFocus(ws, cmd.Direction); err != nil {
			return err
		}
		m.skipHidden(ws, cmd)
		m.markFocusChanged(ws)
		return nil

	case command.DragClient:
		ws, err := m.focusedWorkspace()
		if err != nil {
			return err
		}
		if _, err := m.workspaces.DragClient(ws, cmd.Direction); err != nil {
			return err
		}
		m.markDirty(ws)
		return nil

	case command.UpdateMaxMain:
		ws, err := m.focusedWorkspace()
		if err != nil {
			return err
		}
		if _, err := m.workspaces.UpdateMaxMain(ws, cmd.Change.Sign()); err != nil {
			return err
		}
		m.markDirty(ws)
		return nil

	case command.UpdateMainRatio:
		ws, err := m.focusedWorkspace()
		if err != nil {
			return err
		}
		delta := m.settings.MainRatioStep * float64(cmd.Change.Sign())
		if _, err := m.workspaces.UpdateMainRatio(ws, delta); err != nil {
			return err
		}
		m.markDirty(ws)
		return nil

	case command.KillClient:
		id, ok := m.FocusedClient()
		if !ok {
			return ErrNoFocusedClient
		}
		return m.KillClient(id)

	case command.ToggleWorkspace:
		return m.ToggleWorkspace()

	case command.CycleScreen:
		return m.CycleScreen(cmd.Direction)

	case command.CycleWorkspace:
		return m.CycleWorkspace(cmd.Direction)

	case command.CycleLayout:
		ws, err := m.focusedWorkspace()
		if err != nil {
			return err
		}
		if _, err := m.workspaces.CycleLayout(ws, cmd.Direction); err != nil {
			return err
		}
		m.markDirty(ws)
		return nil

	case command.FocusWorkspace:
		return m.FocusWorkspace(cmd.Index)

	case command.ClientToWorkspace:
		if _, err := m.workspaces.Get(cmd.Index); err != nil {
			return err
		}
		id, ok := m.FocusedClient()
		if !ok {
			return ErrNoFocusedClient
		}
		return m.MoveClientToWorkspace(id, cmd.Index)

	case command.ToggleFloating:
		id, ok := m.FocusedClient()
		if !ok {
			return ErrNoFocusedClient
		}
		return m.SetClientFloating(id, !m.isFloating(id))

	case command.ToggleBar:
		m.barEnabled = !m.barEnabled
		m.markAllDirty()
		return nil

	case command.Spawn:
		return m.Spawn(cmd.Text)

	case command.ScratchpadToggle:
		if m.scratchpad == nil {
			return ErrNoScratchpad
		}
		return m.scratchpad.Toggle(m)

	case command.Exit:
		m.logger.Info("exit requested")
		m.Exit()
		return nil
	}
	return fmt.Errorf("%q: %w", cmd.Name, command.ErrUnknownCommand)
}

func (m *Manager) focusedWorkspace() (int, error) {
	ws := m.FocusedWorkspace()
	if ws < 0 {
		return 0, ErrNoFocusedWorkspace
	}
	return ws, nil
}

// skipHidden continues a cycle_client past hidden clients.
func (m *Manager) skipHidden(ws int, cmd command.Command) {
	id, ok := m.workspaces.Focused(ws)
	if !ok {
		return
	}
	if c, err := m.clients.Lookup(id); err == nil && c.Hidden {
		m.focusVisible(ws, cmd.Direction)
	}
}
