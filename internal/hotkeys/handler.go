package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/stackwm/internal/command"
	"github.com/1broseidon/stackwm/internal/config"
	"github.com/1broseidon/stackwm/internal/platform"
)

// Dispatcher queues a command for the window manager loop. Bindings fire on
// the X event goroutine, so Submit must not wait for the command to run.
type Dispatcher interface {
	Submit(cmd command.Command) error
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler grabs the configured key and mouse chords on the root window.
type Handler struct {
	xu         *xgbutil.XUtil
	root       xproto.Window
	dispatcher Dispatcher
	logger     *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a binding handler for an X11 backend.
func NewHandler(backend platform.Backend, d Dispatcher, logger *slog.Logger) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok {
		return nil, errors.New("bindings require an X11 backend")
	}
	if logger == nil {
		logger = slog.Default()
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:         xu,
		root:       accessor.RootWindow(),
		dispatcher: d,
		logger:     logger.With("component", "bindings"),
	}, nil
}

// RegisterKeys grabs every key chord. All bindings are attempted; the
// returned error joins the ones that could not be grabbed.
func (h *Handler) RegisterKeys(bindings []config.Binding[config.Chord]) error {
	var errs []error
	for _, b := range bindings {
		cmd := b.Command
		err := keybind.KeyPressFun(func(*xgbutil.XUtil, xevent.KeyPressEvent) {
			h.trigger(cmd)
		}).Connect(h.xu, h.root, b.Chord.String(), true)
		if err != nil {
			errs = append(errs, fmt.Errorf("grab %s: %w", b.Chord, err))
		}
	}
	return errors.Join(errs...)
}

// RegisterMouse grabs every pointer chord.
func (h *Handler) RegisterMouse(bindings []config.Binding[config.MouseChord]) error {
	var errs []error
	for _, b := range bindings {
		cmd := b.Command
		err := mousebind.ButtonPressFun(func(*xgbutil.XUtil, xevent.ButtonPressEvent) {
			h.trigger(cmd)
		}).Connect(h.xu, h.root, b.Chord.String(), false, true)
		if err != nil {
			errs = append(errs, fmt.Errorf("grab %s: %w", b.Chord, err))
		}
	}
	return errors.Join(errs...)
}

// Reset releases every grab made through this handler so a reloaded binding
// table can be registered from scratch.
func (h *Handler) Reset() {
	keybind.Detach(h.xu, h.root)
	mousebind.Detach(h.xu, h.root)
}

func (h *Handler) trigger(cmd command.Command) {
	h.logger.Debug("binding triggered", "command", cmd.String())
	if err := h.dispatcher.Submit(cmd); err != nil {
		h.logger.Warn("failed to queue command", "command", cmd.String(), "error", err)
	}
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}
	xevent.IgnoreMods = lockCombinations(base)
}

// lockCombinations returns every subset of the lock masks, including the
// empty one, so a binding fires whatever locks are on.
func lockCombinations(base []uint16) []uint16 {
	unique := map[uint16]struct{}{0: {}}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		unique[mask] = struct{}{}
	}

	out := make([]uint16, 0, len(unique))
	for mask := range unique {
		out = append(out, mask)
	}
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
