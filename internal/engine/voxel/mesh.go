package voxel

import (
	"github.com/Faultbox/voxel-viewer/pkg/formats"
)

// faceSpec describes one side of the unit cube at (x, y, z).
// The cube spans [x, x+1] × [y, y+1] × [z-1, z].
type faceSpec struct {
	face     Face
	neighbor [3]int
	corners  [4][3]int
}

// cubeFaces lists the sides in emission order. Corner order fixes the
// winding: triangles are (c0, c1, c2) and (c0, c2, c3).
var cubeFaces = [6]faceSpec{
	{FaceUp, [3]int{0, 1, 0}, [4][3]int{{0, 1, 0}, {1, 1, 0}, {1, 1, -1}, {0, 1, -1}}},
	{FaceDown, [3]int{0, -1, 0}, [4][3]int{{0, 0, 0}, {1, 0, 0}, {1, 0, -1}, {0, 0, -1}}},
	{FaceRight, [3]int{1, 0, 0}, [4][3]int{{1, 0, 0}, {1, 0, -1}, {1, 1, -1}, {1, 1, 0}}},
	{FaceLeft, [3]int{-1, 0, 0}, [4][3]int{{0, 0, 0}, {0, 0, -1}, {0, 1, -1}, {0, 1, 0}}},
	{FaceBack, [3]int{0, 0, 1}, [4][3]int{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}},
	{FaceFront, [3]int{0, 0, -1}, [4][3]int{{0, 0, -1}, {1, 0, -1}, {1, 1, -1}, {0, 1, -1}}},
}

// BuildMesh triangulates every non-empty cell of g. A face is emitted only
// when the neighbouring cell in that direction is empty or outside the grid.
// Coplanar quads are never merged. The result is a fresh mesh; nothing is
// carried over from earlier builds.
func BuildMesh(g *Grid, pal *formats.Palette) *Mesh {
	m := &Mesh{}

	first := true
	for x := 0; x < g.SizeX; x++ {
		for y := 0; y < g.SizeY; y++ {
			for z := 0; z < g.SizeZ; z++ {
				idx := g.Cells[g.Index(x, y, z)]
				if idx == 0 {
					continue
				}
				color := pal.RGB(idx)

				for i := range cubeFaces {
					f := &cubeFaces[i]
					if g.Filled(x+f.neighbor[0], y+f.neighbor[1], z+f.neighbor[2]) {
						continue
					}
					m.pushFace(x, y, z, f, color)
				}

				// Bounds cover whole cells.
				lo := [3]float32{float32(x), float32(y), float32(z - 1)}
				hi := [3]float32{float32(x + 1), float32(y + 1), float32(z)}
				if first {
					m.Bounds = Bounds{Min: lo, Max: hi}
					first = false
				} else {
					expandBounds(&m.Bounds, lo, hi)
				}
			}
		}
	}

	return m
}

// pushFace appends the 4 corners and 6 indices of one quad.
func (m *Mesh) pushFace(x, y, z int, f *faceSpec, color [3]float32) {
	base := uint32(m.VertexCount())
	for _, c := range f.corners {
		m.Vertices = append(m.Vertices,
			float32(x+c[0]), float32(y+c[1]), float32(z+c[2]),
			color[0], color[1], color[2],
			float32(f.face),
		)
	}
	m.Indices = append(m.Indices,
		base, base+1, base+2,
		base, base+2, base+3,
	)
}

func expandBounds(b *Bounds, lo, hi [3]float32) {
	for i := 0; i < 3; i++ {
		if lo[i] < b.Min[i] {
			b.Min[i] = lo[i]
		}
		if hi[i] > b.Max[i] {
			b.Max[i] = hi[i]
		}
	}
}

// Center returns the midpoint of the bounds, useful for framing a camera.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Extent returns the size of the bounds along each axis.
func (b Bounds) Extent() [3]float32 {
	return [3]float32{
		b.Max[0] - b.Min[0],
		b.Max[1] - b.Min[1],
		b.Max[2] - b.Min[2],
	}
}
