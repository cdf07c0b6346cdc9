package lattice

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/san-kum/rubix/internal/geom"
)

var allAxes = []geom.Axis{geom.AxisX, geom.AxisY, geom.AxisZ}

func TestNewCoversNonCenterCells(t *testing.T) {
	l := New()
	if l.Len() != Size {
		t.Fatalf("expected %d cubelets, got %d", Size, l.Len())
	}
	if err := l.Validate(); err != nil {
		t.Fatalf("fresh lattice invalid: %v", err)
	}
}

func TestRandomPolicyStaysInPalette(t *testing.T) {
	l := New(WithPolicy(Random), WithPaletteSize(4), WithRand(rand.New(rand.NewSource(7))))
	for _, c := range l.Cubelets() {
		for f, col := range c.Colors {
			if int(col) >= 4 {
				t.Fatalf("cubelet %+v face %d has color %d outside palette", c, f, col)
			}
		}
	}
}

func TestRandomPolicyIsSeeded(t *testing.T) {
	a := New(WithRand(rand.New(rand.NewSource(99))))
	b := New(WithRand(rand.New(rand.NewSource(99))))
	if !equal(a, b) {
		t.Error("same seed should give the same lattice")
	}
}

func TestSolvedPolicy(t *testing.T) {
	l := New(WithPolicy(Solved))
	for _, c := range l.Cubelets() {
		for f, col := range c.Colors {
			if int(col) != f {
				t.Fatalf("face %d has color %d", f, col)
			}
		}
	}
}

func TestForEachInLayer(t *testing.T) {
	l := New()
	for _, axis := range allAxes {
		for layer := 0; layer < 3; layer++ {
			n := 0
			l.ForEachInLayer(axis, layer, func(c *Cubelet) {
				if c.Coord(axis) != layer {
					t.Errorf("%s%d visited %+v", axis, layer, *c)
				}
				n++
			})
			want := 9
			if layer == 1 {
				want = 8
			}
			if n != want {
				t.Errorf("%s layer %d: expected %d cubelets, got %d", axis, layer, want, n)
			}
		}
	}
}

func TestCommitTurnOrderFour(t *testing.T) {
	for _, axis := range allAxes {
		for layer := 0; layer < 3; layer++ {
			l := New(WithRand(rand.New(rand.NewSource(int64(layer) + 3))))
			before := New(WithRand(rand.New(rand.NewSource(int64(layer) + 3))))
			for i := 0; i < 4; i++ {
				l.CommitTurn(axis, layer)
				if i < 3 && equal(l, before) {
					t.Errorf("%s%d: restored after only %d turns", axis, layer, i+1)
				}
			}
			if !equal(l, before) {
				t.Errorf("%s%d: four turns did not restore the lattice", axis, layer)
			}
		}
	}
}

func TestCommitTurnKeepsBijection(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	l := New(WithRand(rng))
	for i := 0; i < 500; i++ {
		l.CommitTurn(allAxes[rng.Intn(3)], rng.Intn(3))
		if err := l.Validate(); err != nil {
			t.Fatalf("after %d turns: %v", i+1, err)
		}
	}
}

func TestCommitTurnZMiddleLayer(t *testing.T) {
	l := New(WithPolicy(Solved))
	before := snapshotLayer(l, geom.AxisZ, 1)
	l.CommitTurn(geom.AxisZ, 1)

	moves := map[[2]int][2]int{
		{0, 0}: {0, 2},
		{2, 0}: {0, 0},
		{2, 2}: {2, 0},
		{0, 2}: {2, 2},
		{1, 0}: {0, 1},
	}
	after := snapshotLayer(l, geom.AxisZ, 1)
	for from, to := range moves {
		c, ok := before[from]
		if !ok {
			t.Fatalf("no cubelet at %v before turn", from)
		}
		got, ok := after[to]
		if !ok {
			t.Fatalf("no cubelet at %v after turn", to)
		}
		if got.Colors[Front] != c.Colors[Front] || got.Colors[Back] != c.Colors[Back] {
			t.Errorf("%v -> %v: front/back changed", from, to)
		}
		if got.Colors[Right] != c.Colors[Top] ||
			got.Colors[Bottom] != c.Colors[Right] ||
			got.Colors[Left] != c.Colors[Bottom] ||
			got.Colors[Top] != c.Colors[Left] {
			t.Errorf("%v -> %v: side colors did not cycle: %v -> %v", from, to, c.Colors, got.Colors)
		}
	}
}

func TestCommitTurnLeavesOtherLayers(t *testing.T) {
	l := New(WithRand(rand.New(rand.NewSource(5))))
	before := l.Cubelets()
	l.CommitTurn(geom.AxisY, 0)
	for i, c := range l.Cubelets() {
		if before[i].Y != 0 && c != before[i] {
			t.Errorf("cubelet %d outside the layer changed: %+v -> %+v", i, before[i], c)
		}
	}
}

func TestDoubleTurnIsHalfTurn(t *testing.T) {
	for _, axis := range allAxes {
		orig := New().Cubelets()
		l := New()
		l.CommitTurn(axis, 2)
		l.CommitTurn(axis, 2)
		for i, c := range l.Cubelets() {
			o := orig[i]
			if o.Coord(axis) != 2 {
				if c != o {
					t.Errorf("%s: cubelet %d outside the layer moved", axis, i)
				}
				continue
			}
			if cell(c) != halfTurned(o, axis) {
				t.Errorf("%s: cubelet %d at %v, want %v", axis, i, cell(c), halfTurned(o, axis))
			}
		}
	}
}

func TestFaceTrackingOff(t *testing.T) {
	l := New(WithFaceTracking(false), WithRand(rand.New(rand.NewSource(11))))
	before := l.Cubelets()
	l.CommitTurn(geom.AxisX, 0)
	after := l.Cubelets()
	for i := range before {
		if before[i].Colors != after[i].Colors {
			t.Errorf("cubelet %d colors changed with tracking off", i)
		}
	}
	if err := l.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestValidateDetectsDuplicates(t *testing.T) {
	l := New()
	l.cubelets[0] = l.cubelets[1]
	if err := l.Validate(); !errors.Is(err, ErrNotBijective) {
		t.Errorf("expected ErrNotBijective, got %v", err)
	}

	l = New()
	l.cubelets[3].X, l.cubelets[3].Y, l.cubelets[3].Z = 1, 1, 1
	if err := l.Validate(); !errors.Is(err, ErrNotBijective) {
		t.Errorf("expected ErrNotBijective for center cell, got %v", err)
	}
}

func TestParseColorPolicy(t *testing.T) {
	tests := []struct {
		in   string
		want ColorPolicy
		ok   bool
	}{
		{"random", Random, true},
		{"solved", Solved, true},
		{"uniform", Fixed, true},
		{"plaid", Random, false},
	}
	for _, tt := range tests {
		got, ok := ParseColorPolicy(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseColorPolicy(%q) = %v, %v", tt.in, got, ok)
		}
	}
}

func equal(a, b *Lattice) bool {
	return a.cubelets == b.cubelets
}

func cell(c Cubelet) [3]int { return [3]int{c.X, c.Y, c.Z} }

func halfTurned(c Cubelet, axis geom.Axis) [3]int {
	switch axis {
	case geom.AxisX:
		return [3]int{c.X, 2 - c.Y, 2 - c.Z}
	case geom.AxisY:
		return [3]int{2 - c.X, c.Y, 2 - c.Z}
	default:
		return [3]int{2 - c.X, 2 - c.Y, c.Z}
	}
}

func snapshotLayer(l *Lattice, axis geom.Axis, layer int) map[[2]int]Cubelet {
	out := make(map[[2]int]Cubelet)
	l.ForEachInLayer(axis, layer, func(c *Cubelet) {
		out[[2]int{c.X, c.Y}] = *c
	})
	return out
}
