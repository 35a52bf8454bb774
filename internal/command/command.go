// Package command parses the textual commands used by key bindings, mouse
// bindings and the control socket.
package command

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/1broseidon/stackwm/internal/workspace"
)

var (
	// ErrUnknownCommand is returned for a command name that is not built in.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidArgument is returned when a command's argument is missing or
	// malformed.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Name identifies a built-in command.
type Name string

const (
	CycleClient       Name = "cycle_client"
	DragClient        Name = "drag_client"
	UpdateMaxMain     Name = "update_max_main"
	UpdateMainRatio   Name = "update_main_ratio"
	KillClient        Name = "kill_client"
	ToggleWorkspace   Name = "toggle_workspace"
	CycleScreen       Name = "cycle_screen"
	CycleWorkspace    Name = "cycle_workspace"
	CycleLayout       Name = "cycle_layout"
	FocusWorkspace    Name = "focus_workspace"
	ClientToWorkspace Name = "client_to_workspace"
	ToggleFloating    Name = "toggle_floating"
	ToggleBar         Name = "toggle_bar"
	Spawn             Name = "spawn"
	ScratchpadToggle  Name = "scratchpad_toggle"
	Exit              Name = "exit"
)

// ArgKind describes the argument a command takes.
type ArgKind int

const (
	ArgNone ArgKind = iota
	ArgDirection
	ArgChange
	ArgIndex
	ArgString
)

// Change is the argument of the update commands.
type Change int

const (
	More Change = iota
	Less
)

func (c Change) String() string {
	if c == Less {
		return "less"
	}
	return "more"
}

// Sign returns +1 for More and -1 for Less.
func (c Change) Sign() int {
	if c == Less {
		return -1
	}
	return 1
}

var argKinds = map[Name]ArgKind{
	CycleClient:       ArgDirection,
	DragClient:        ArgDirection,
	UpdateMaxMain:     ArgChange,
	UpdateMainRatio:   ArgChange,
	KillClient:        ArgNone,
	ToggleWorkspace:   ArgNone,
	CycleScreen:       ArgDirection,
	CycleWorkspace:    ArgDirection,
	CycleLayout:       ArgDirection,
	FocusWorkspace:    ArgIndex,
	ClientToWorkspace: ArgIndex,
	ToggleFloating:    ArgNone,
	ToggleBar:         ArgNone,
	Spawn:             ArgString,
	ScratchpadToggle:  ArgNone,
	Exit:              ArgNone,
}

// Command is a parsed command. Only the field matching the command's
// ArgKind is meaningful. Index is 0-based.
type Command struct {
	Name      Name
	Direction workspace.Direction
	Change    Change
	Index     int
	Text      string
}

// Names lists the built-in command names in sorted order.
func Names() []string {
	out := make([]string, 0, len(argKinds))
	for n := range argKinds {
		out = append(out, string(n))
	}
	sort.Strings(out)
	return out
}

// KindOf returns the argument kind of a built-in command.
func KindOf(name Name) (ArgKind, bool) {
	k, ok := argKinds[name]
	return k, ok
}

// Parse reads a command line such as "focus_workspace 3" or
// "spawn st -e htop". Workspace indices are 1-based in text.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	cmd := Command{Name: Name(name)}
	kind, ok := argKinds[cmd.Name]
	if !ok {
		return Command{}, fmt.Errorf("%q: %w", name, ErrUnknownCommand)
	}

	switch kind {
	case ArgNone:
		if rest != "" {
			return Command{}, fmt.Errorf("%s takes no argument, got %q: %w", name, rest, ErrInvalidArgument)
		}
	case ArgDirection:
		switch rest {
		case "forward":
			cmd.Direction = workspace.Forward
		case "backward":
			cmd.Direction = workspace.Backward
		default:
			return Command{}, fmt.Errorf("%s expects forward|backward, got %q: %w", name, rest, ErrInvalidArgument)
		}
	case ArgChange:
		switch rest {
		case "more":
			cmd.Change = More
		case "less":
			cmd.Change = Less
		default:
			return Command{}, fmt.Errorf("%s expects more|less, got %q: %w", name, rest, ErrInvalidArgument)
		}
	case ArgIndex:
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			return Command{}, fmt.Errorf("%s expects a workspace number starting at 1, got %q: %w", name, rest, ErrInvalidArgument)
		}
		cmd.Index = n - 1
	case ArgString:
		if rest == "" {
			return Command{}, fmt.Errorf("%s expects a command line: %w", name, ErrInvalidArgument)
		}
		cmd.Text = rest
	}
	return cmd, nil
}

// MustParse is Parse for built-in tables; it panics on error.
func MustParse(line string) Command {
	cmd, err := Parse(line)
	if err != nil {
		panic(err)
	}
	return cmd
}

// String renders the command in the form Parse accepts.
func (c Command) String() string {
	switch argKinds[c.Name] {
	case ArgDirection:
		return string(c.Name) + " " + c.Direction.String()
	case ArgChange:
		return string(c.Name) + " " + c.Change.String()
	case ArgIndex:
		return string(c.Name) + " " + strconv.Itoa(c.Index+1)
	case ArgString:
		return string(c.Name) + " " + c.Text
	}
	return string(c.Name)
}
