package voxel

import (
	"testing"

	"github.com/Faultbox/voxel-viewer/pkg/formats"
)

func TestNewGrid(t *testing.T) {
	g := NewGrid(3, 4, 5)
	if len(g.Cells) != 60 {
		t.Fatalf("expected 60 cells, got %d", len(g.Cells))
	}
	if g.Dimensions() != [3]int{3, 4, 5} {
		t.Errorf("unexpected dimensions %v", g.Dimensions())
	}
	if g.Count() != 0 {
		t.Errorf("expected empty grid, got %d filled", g.Count())
	}

	empty := NewGrid(-1, 2, 2)
	if len(empty.Cells) != 0 || empty.SizeX != 0 {
		t.Errorf("expected negative size clamped to 0, got %+v", empty)
	}
}

func TestGrid_IndexIsUnique(t *testing.T) {
	g := NewGrid(2, 3, 4)
	seen := make(map[int]bool)
	prev := -1
	for x := 0; x < 2; x++ {
		for y := 0; y < 3; y++ {
			for z := 0; z < 4; z++ {
				i := g.Index(x, y, z)
				if seen[i] {
					t.Fatalf("index %d reused at (%d,%d,%d)", i, x, y, z)
				}
				if i != prev+1 {
					t.Fatalf("expected ascending (x,y,z) to be contiguous, got %d after %d", i, prev)
				}
				seen[i] = true
				prev = i
			}
		}
	}
}

func TestGrid_SetAndAt(t *testing.T) {
	g := NewGrid(2, 2, 2)

	if !g.Set(1, 0, 1, 9) {
		t.Fatal("Set inside bounds returned false")
	}
	if g.At(1, 0, 1) != 9 {
		t.Errorf("At(1,0,1) = %d, want 9", g.At(1, 0, 1))
	}
	if !g.Filled(1, 0, 1) || g.Filled(0, 0, 0) {
		t.Error("Filled reports wrong occupancy")
	}

	outside := [][3]int{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}, {-1, 0, 0}}
	for _, c := range outside {
		if g.Set(c[0], c[1], c[2], 1) {
			t.Errorf("Set(%v) outside bounds returned true", c)
		}
		if g.At(c[0], c[1], c[2]) != 0 || g.Filled(c[0], c[1], c[2]) {
			t.Errorf("At(%v) outside bounds must read as empty", c)
		}
	}
}

func TestBuildGrid(t *testing.T) {
	voxels := []formats.Voxel{
		{X: 0, Y: 0, Z: 0, ColorIndex: 1},
		{X: 1, Y: 2, Z: 3, ColorIndex: 7},
		{X: 2, Y: 0, Z: 0, ColorIndex: 5}, // X out of bounds
		{X: 0, Y: 0, Z: 4, ColorIndex: 5}, // Z out of bounds
	}

	g, warnings := BuildGrid([3]int32{2, 3, 4}, voxels)

	if g.Dimensions() != [3]int{2, 3, 4} {
		t.Errorf("expected dimensions (2,3,4), got %v", g.Dimensions())
	}
	if g.Count() != 2 {
		t.Errorf("expected 2 filled cells, got %d", g.Count())
	}
	if g.At(1, 2, 3) != 7 {
		t.Errorf("At(1,2,3) = %d, want 7", g.At(1, 2, 3))
	}
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(warnings))
	}
	for _, w := range warnings {
		if w.Kind != formats.WarnVoxelOutOfBounds {
			t.Errorf("expected out of bounds warning, got %s", w.Kind)
		}
	}

	usage := g.ColorUsage()
	if usage[1] != 1 || usage[7] != 1 || len(usage) != 2 {
		t.Errorf("unexpected color usage %v", usage)
	}
}

func TestBuildGrid_LastRecordWins(t *testing.T) {
	voxels := []formats.Voxel{
		{X: 0, Y: 0, Z: 0, ColorIndex: 1},
		{X: 0, Y: 0, Z: 0, ColorIndex: 2},
	}
	g, _ := BuildGrid([3]int32{1, 1, 1}, voxels)
	if g.At(0, 0, 0) != 2 {
		t.Errorf("expected later record to overwrite, got %d", g.At(0, 0, 0))
	}
}
