package tetris

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vovakirdan/blockfall/internal/engine"
)

func TestApplyLayout(t *testing.T) {
	b, err := engine.NewBoard(4, 6, 4)
	if err != nil {
		t.Fatal(err)
	}
	if err := ApplyLayout(b, []string{
		"#..x",
		"xX.#",
	}); err != nil {
		t.Fatalf("ApplyLayout: %v", err)
	}

	got := map[engine.Vec]engine.Cell{}
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			if c := b.At(x, y); c.Filled {
				got[engine.Vec{X: x, Y: y}] = c
			}
		}
	}
	want := map[engine.Vec]engine.Cell{
		{X: 0, Y: 1}: {Filled: true, Fixed: true},
		{X: 3, Y: 1}: {Filled: true, Shape: engine.Garbage},
		{X: 0, Y: 0}: {Filled: true, Shape: engine.Garbage},
		{X: 1, Y: 0}: {Filled: true, Shape: engine.Garbage},
		{X: 3, Y: 0}: {Filled: true, Fixed: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("layout cells (-want +got):\n%s", diff)
	}
}

func TestApplyLayoutRejectsBadShapes(t *testing.T) {
	b, err := engine.NewBoard(4, 6, 4)
	if err != nil {
		t.Fatal(err)
	}
	if err := ApplyLayout(b, []string{"..."}); !errors.Is(err, engine.ErrInvalidConfig) {
		t.Errorf("narrow row: got %v", err)
	}
	if err := ApplyLayout(b, []string{"....", "....", "....", "....", "...."}); !errors.Is(err, engine.ErrInvalidConfig) {
		t.Errorf("too many rows: got %v", err)
	}
}
