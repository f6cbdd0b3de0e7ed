// Package voxel provides the dense voxel grid and its face-culled mesh builder.
package voxel

import (
	"fmt"

	"github.com/Faultbox/voxel-viewer/pkg/formats"
)

// Grid is a dense 3D array of palette indices stored in one flat buffer.
// Cell (x, y, z) lives at (x*SizeY+y)*SizeZ+z, so ascending (x, y, z)
// iteration walks the buffer in order. Index 0 means empty.
type Grid struct {
	SizeX, SizeY, SizeZ int
	Cells               []uint8
}

// NewGrid allocates an empty grid. Negative sizes are treated as 0.
func NewGrid(x, y, z int) *Grid {
	x, y, z = max(x, 0), max(y, 0), max(z, 0)
	return &Grid{
		SizeX: x,
		SizeY: y,
		SizeZ: z,
		Cells: make([]uint8, x*y*z),
	}
}

// BuildGrid allocates a grid of the given size and places every voxel
// record inside it. Records outside the box are dropped with a warning.
func BuildGrid(size [3]int32, voxels []formats.Voxel) (*Grid, []formats.Warning) {
	g := NewGrid(int(size[0]), int(size[1]), int(size[2]))

	var warnings []formats.Warning
	for _, v := range voxels {
		if !g.Set(int(v.X), int(v.Y), int(v.Z), v.ColorIndex) {
			warnings = append(warnings, formats.Warning{
				Kind:    formats.WarnVoxelOutOfBounds,
				Offset:  -1,
				Message: fmt.Sprintf("voxel (%d, %d, %d) outside %dx%dx%d model", v.X, v.Y, v.Z, g.SizeX, g.SizeY, g.SizeZ),
			})
		}
	}
	return g, warnings
}

// Dimensions returns the grid shape as (X, Y, Z).
func (g *Grid) Dimensions() [3]int {
	return [3]int{g.SizeX, g.SizeY, g.SizeZ}
}

// InBounds reports whether (x, y, z) is a cell of the grid.
func (g *Grid) InBounds(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < g.SizeX && y < g.SizeY && z < g.SizeZ
}

// Index returns the flat buffer offset of (x, y, z). The caller checks bounds.
func (g *Grid) Index(x, y, z int) int {
	return (x*g.SizeY+y)*g.SizeZ + z
}

// At returns the palette index at (x, y, z), or 0 outside the grid.
func (g *Grid) At(x, y, z int) uint8 {
	if !g.InBounds(x, y, z) {
		return 0
	}
	return g.Cells[g.Index(x, y, z)]
}

// Filled reports whether (x, y, z) is inside the grid and non-empty.
func (g *Grid) Filled(x, y, z int) bool {
	return g.At(x, y, z) != 0
}

// Set writes idx at (x, y, z). It returns false if the cell is outside the grid.
func (g *Grid) Set(x, y, z int, idx uint8) bool {
	if !g.InBounds(x, y, z) {
		return false
	}
	g.Cells[g.Index(x, y, z)] = idx
	return true
}

// Count returns the number of non-empty cells.
func (g *Grid) Count() int {
	n := 0
	for _, c := range g.Cells {
		if c != 0 {
			n++
		}
	}
	return n
}

// ColorUsage returns how many cells use each palette index (index 0 excluded).
func (g *Grid) ColorUsage() map[uint8]int {
	usage := make(map[uint8]int)
	for _, c := range g.Cells {
		if c != 0 {
			usage[c]++
		}
	}
	return usage
}
