package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// SetDesktops publishes _NET_NUMBER_OF_DESKTOPS and _NET_DESKTOP_NAMES.
func (c *Connection) SetDesktops(names []string) error {
	if err := ewmh.NumberOfDesktopsSet(c.XUtil, uint(len(names))); err != nil {
		return fmt.Errorf("failed to set _NET_NUMBER_OF_DESKTOPS: %w", err)
	}
	if err := ewmh.DesktopNamesSet(c.XUtil, names); err != nil {
		return fmt.Errorf("failed to set _NET_DESKTOP_NAMES: %w", err)
	}
	return nil
}

// SetCurrentDesktop publishes _NET_CURRENT_DESKTOP (0-indexed).
func (c *Connection) SetCurrentDesktop(index int) error {
	if err := ewmh.CurrentDesktopSet(c.XUtil, uint(index)); err != nil {
		return fmt.Errorf("failed to set _NET_CURRENT_DESKTOP: %w", err)
	}
	return nil
}

// SetActiveWindow publishes _NET_ACTIVE_WINDOW. Zero clears it.
func (c *Connection) SetActiveWindow(windowID uint32) error {
	if err := ewmh.ActiveWindowSet(c.XUtil, xproto.Window(windowID)); err != nil {
		return fmt.Errorf("failed to set _NET_ACTIVE_WINDOW: %w", err)
	}
	return nil
}

// SetClientList publishes _NET_CLIENT_LIST in mapping order.
func (c *Connection) SetClientList(windowIDs []uint32) error {
	wins := make([]xproto.Window, len(windowIDs))
	for i, id := range windowIDs {
		wins[i] = xproto.Window(id)
	}
	if err := ewmh.ClientListSet(c.XUtil, wins); err != nil {
		return fmt.Errorf("failed to set _NET_CLIENT_LIST: %w", err)
	}
	return nil
}
