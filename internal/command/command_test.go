package command

import (
	"errors"
	"testing"

	"github.com/1broseidon/stackwm/internal/workspace"
	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"cycle_client forward", Command{Name: CycleClient, Direction: workspace.Forward}},
		{"drag_client backward", Command{Name: DragClient, Direction: workspace.Backward}},
		{"update_main_ratio less", Command{Name: UpdateMainRatio, Change: Less}},
		{"update_max_main more", Command{Name: UpdateMaxMain, Change: More}},
		{"focus_workspace 1", Command{Name: FocusWorkspace, Index: 0}},
		{"  client_to_workspace   9 ", Command{Name: ClientToWorkspace, Index: 8}},
		{"spawn st -e htop", Command{Name: Spawn, Text: "st -e htop"}},
		{"kill_client", Command{Name: KillClient}},
		{"exit", Command{Name: Exit}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.line)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.line, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("Parse(%q) mismatch (-want +got):\n%s", tt.line, diff)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{"frobnicate", ErrUnknownCommand},
		{"", ErrUnknownCommand},
		{"cycle_client sideways", ErrInvalidArgument},
		{"cycle_client", ErrInvalidArgument},
		{"update_main_ratio 5", ErrInvalidArgument},
		{"focus_workspace 0", ErrInvalidArgument},
		{"focus_workspace two", ErrInvalidArgument},
		{"spawn", ErrInvalidArgument},
		{"exit now", ErrInvalidArgument},
	}
	for _, tt := range tests {
		if _, err := Parse(tt.line); !errors.Is(err, tt.want) {
			t.Fatalf("Parse(%q): expected %v, got %v", tt.line, tt.want, err)
		}
	}
}

func TestCommand_StringRoundTrips(t *testing.T) {
	for _, line := range []string{
		"cycle_layout backward",
		"update_max_main less",
		"focus_workspace 4",
		"spawn dmenu_run",
		"toggle_bar",
	} {
		cmd, err := Parse(line)
		if err != nil {
			t.Fatalf("Parse(%q): %v", line, err)
		}
		if cmd.String() != line {
			t.Fatalf("String() = %q, want %q", cmd.String(), line)
		}
	}
}

func TestNamesCoversEveryKind(t *testing.T) {
	for _, n := range Names() {
		if _, ok := KindOf(Name(n)); !ok {
			t.Fatalf("name %q has no argument kind", n)
		}
	}
	if len(Names()) != 16 {
		t.Fatalf("expected 16 built-in commands, got %d", len(Names()))
	}
}
