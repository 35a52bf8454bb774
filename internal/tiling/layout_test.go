package tiling

import (
	"testing"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/google/go-cmp/cmp"
)

func tilesFor(ids ...platform.WindowID) []Tile {
	tiles := make([]Tile, len(ids))
	for i, id := range ids {
		tiles[i] = Tile{ID: id}
	}
	return tiles
}

func TestApply_SideStackMainAndStack(t *testing.T) {
	layout := Layout{Symbol: "[side]", Kind: KindSideStack, MaxMain: 1, MainRatio: 0.5}
	screen := platform.Rect{Width: 1000, Height: 800}

	got, err := Apply(layout, tilesFor(1, 2, 3), screen, Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Tile{
		{ID: 1, Rect: platform.Rect{X: 0, Y: 0, Width: 500, Height: 800}},
		{ID: 2, Rect: platform.Rect{X: 500, Y: 0, Width: 500, Height: 400}},
		{ID: 3, Rect: platform.Rect{X: 500, Y: 400, Width: 500, Height: 400}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("side stack mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_SideStackFewerThanMaxMainUsesFullWidth(t *testing.T) {
	layout := Layout{Kind: KindSideStack, MaxMain: 2, MainRatio: 0.6}
	screen := platform.Rect{X: 100, Y: 20, Width: 1000, Height: 801}

	got, err := Apply(layout, tilesFor(1, 2), screen, Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Tile{
		{ID: 1, Rect: platform.Rect{X: 100, Y: 20, Width: 1000, Height: 400}},
		{ID: 2, Rect: platform.Rect{X: 100, Y: 420, Width: 1000, Height: 401}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_BottomStack(t *testing.T) {
	layout := Layout{Kind: KindBottomStack, MaxMain: 1, MainRatio: 0.75}
	screen := platform.Rect{Width: 900, Height: 800}

	got, err := Apply(layout, tilesFor(1, 2, 3), screen, Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Tile{
		{ID: 1, Rect: platform.Rect{X: 0, Y: 0, Width: 900, Height: 600}},
		{ID: 2, Rect: platform.Rect{X: 0, Y: 600, Width: 450, Height: 200}},
		{ID: 3, Rect: platform.Rect{X: 450, Y: 600, Width: 450, Height: 200}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("bottom stack mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_GapAndBorderShrinkEachCell(t *testing.T) {
	layout := Layout{Kind: KindSideStack, MaxMain: 1, MainRatio: 0.5}
	screen := platform.Rect{Width: 1000, Height: 800}

	got, err := Apply(layout, tilesFor(1, 2), screen, Params{GapPx: 5, BorderPx: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Each 500x800 cell loses 2*5 for the gap and 2*2 for the border.
	want := []Tile{
		{ID: 1, Rect: platform.Rect{X: 5, Y: 5, Width: 486, Height: 786}},
		{ID: 2, Rect: platform.Rect{X: 505, Y: 5, Width: 486, Height: 786}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("gap mismatch (-want +got):\n%s", diff)
	}

	layout.Conf.Gapless = true
	got, err = Apply(layout, tilesFor(1, 2), screen, Params{GapPx: 5, BorderPx: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Rect != (platform.Rect{X: 0, Y: 0, Width: 496, Height: 796}) {
		t.Fatalf("gapless layout should ignore gap, got %+v", got[0].Rect)
	}
}

func TestApply_ClampsToMinimumSize(t *testing.T) {
	layout := Layout{Kind: KindMonocle}
	screen := platform.Rect{Width: 10, Height: 10}

	got, err := Apply(layout, tilesFor(1), screen, Params{GapPx: 20, BorderPx: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Rect.Width != 1 || got[0].Rect.Height != 1 {
		t.Fatalf("expected 1x1, got %dx%d", got[0].Rect.Width, got[0].Rect.Height)
	}
}

func TestApply_MonocleGivesEveryTileTheScreen(t *testing.T) {
	screen := platform.Rect{X: 1920, Width: 1280, Height: 1024}
	got, err := Apply(Layout{Kind: KindMonocle}, tilesFor(1, 2, 3), screen, Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tile := range got {
		if tile.Rect != screen {
			t.Fatalf("expected %+v for window %d, got %+v", screen, tile.ID, tile.Rect)
		}
	}
}

func TestApply_GridExpandsShortLastRow(t *testing.T) {
	screen := platform.Rect{Width: 900, Height: 600}
	got, err := Apply(Layout{Kind: KindGrid}, tilesFor(1, 2, 3), screen, Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Tile{
		{ID: 1, Rect: platform.Rect{X: 0, Y: 0, Width: 450, Height: 300}},
		{ID: 2, Rect: platform.Rect{X: 450, Y: 0, Width: 450, Height: 300}},
		{ID: 3, Rect: platform.Rect{X: 0, Y: 300, Width: 900, Height: 300}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_FloatingReturnsInputGeometry(t *testing.T) {
	in := []Tile{
		{ID: 7, Rect: platform.Rect{X: 13, Y: 17, Width: 300, Height: 200}},
		{ID: 9, Rect: platform.Rect{X: 400, Y: 10, Width: 640, Height: 480}},
	}
	layout := Layout{Kind: KindFloating, Conf: Conf{Floating: true}}

	got, err := Apply(layout, in, platform.Rect{Width: 1000, Height: 800}, Params{GapPx: 4, BorderPx: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("floating layout moved windows (-want +got):\n%s", diff)
	}
}

func TestApply_IsDeterministic(t *testing.T) {
	screen := platform.Rect{X: 3, Y: 7, Width: 1366, Height: 768}
	for _, kind := range []Kind{KindSideStack, KindBottomStack, KindMonocle, KindGrid, KindFloating} {
		layout := Layout{Kind: kind, MaxMain: 2, MainRatio: 0.55}
		first, err := Apply(layout, tilesFor(5, 4, 3, 2, 1), screen, Params{GapPx: 3, BorderPx: 1})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", kind, err)
		}
		second, err := Apply(layout, tilesFor(5, 4, 3, 2, 1), screen, Params{GapPx: 3, BorderPx: 1})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", kind, err)
		}
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("%s: results differ between runs:\n%s", kind, diff)
		}
		for i, tile := range first {
			if tile.ID != platform.WindowID(5-i) {
				t.Fatalf("%s: output order changed at %d: got window %d", kind, i, tile.ID)
			}
		}
	}
}

func TestApply_UnknownKind(t *testing.T) {
	_, err := Apply(Layout{Kind: "spiral"}, tilesFor(1), platform.Rect{Width: 10, Height: 10}, Params{})
	if err == nil {
		t.Fatalf("expected error for unknown layout kind")
	}
}

func TestCalculateGrid(t *testing.T) {
	tests := []struct {
		n, rows, cols int
	}{
		{0, 0, 0},
		{1, 1, 1},
		{2, 1, 2},
		{4, 2, 2},
		{5, 2, 3},
		{10, 3, 4},
	}
	for _, tt := range tests {
		rows, cols := CalculateGrid(tt.n)
		if rows != tt.rows || cols != tt.cols {
			t.Fatalf("CalculateGrid(%d) = %dx%d, want %dx%d", tt.n, rows, cols, tt.rows, tt.cols)
		}
	}
}
