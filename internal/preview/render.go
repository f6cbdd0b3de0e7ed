// Package preview renders flat orthographic images of voxel grids.
package preview

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/Faultbox/voxel-viewer/internal/engine/voxel"
	"github.com/Faultbox/voxel-viewer/pkg/formats"
)

// View selects the axis a preview looks along.
type View int

const (
	ViewFront View = iota // Looking along +Z at the front (-Z) faces
	ViewTop               // Looking down -Y
	ViewSide              // Looking along -X at the right (+X) faces
)

// String returns the config name of the view.
func (v View) String() string {
	switch v {
	case ViewFront:
		return "front"
	case ViewTop:
		return "top"
	case ViewSide:
		return "side"
	default:
		return fmt.Sprintf("Unknown(%d)", int(v))
	}
}

// ParseView converts a config name to a View.
func ParseView(s string) (View, error) {
	switch s {
	case "front":
		return ViewFront, nil
	case "top":
		return ViewTop, nil
	case "side":
		return ViewSide, nil
	default:
		return 0, fmt.Errorf("preview: unknown view %q", s)
	}
}

// depthShade is how much darker the farthest layer is than the nearest.
const depthShade = 0.6

// projection maps an image pixel and a ray step to a grid cell.
type projection struct {
	width, height, depth int
	cell                 func(px, py, d int) (x, y, z int)
}

func project(g *voxel.Grid, view View) projection {
	sx, sy, sz := g.SizeX, g.SizeY, g.SizeZ
	switch view {
	case ViewTop:
		// Screen up is +Z, screen right is -X.
		return projection{sx, sz, sy, func(px, py, d int) (int, int, int) {
			return sx - 1 - px, sy - 1 - d, sz - 1 - py
		}}
	case ViewSide:
		// Screen up is +Y, screen right is -Z.
		return projection{sz, sy, sx, func(px, py, d int) (int, int, int) {
			return sx - 1 - d, sy - 1 - py, sz - 1 - px
		}}
	default:
		// Screen up is +Y, screen right is -X.
		return projection{sx, sy, sz, func(px, py, d int) (int, int, int) {
			return sx - 1 - px, sy - 1 - py, d
		}}
	}
}

// Render projects g along view. Each pixel takes the palette color of the
// first solid cell along its ray, darkened by depth. Voxels are drawn
// opaque; pixels whose ray hits nothing are transparent.
func Render(g *voxel.Grid, pal *formats.Palette, view View) *image.NRGBA {
	p := project(g, view)
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))

	for py := 0; py < p.height; py++ {
		for px := 0; px < p.width; px++ {
			for d := 0; d < p.depth; d++ {
				idx := g.At(p.cell(px, py, d))
				if idx == 0 {
					continue
				}
				img.SetNRGBA(px, py, shade(pal[idx], d, p.depth))
				break
			}
		}
	}
	return img
}

func shade(c color.RGBA, d, depth int) color.NRGBA {
	f := 1.0
	if depth > 1 {
		f -= depthShade * float64(d) / float64(depth-1)
	}
	return color.NRGBA{
		R: uint8(float64(c.R)*f + 0.5),
		G: uint8(float64(c.G)*f + 0.5),
		B: uint8(float64(c.B)*f + 0.5),
		A: 255,
	}
}

// Upscale enlarges img by an integer factor with nearest-neighbour sampling.
func Upscale(img *image.NRGBA, scale int) *image.NRGBA {
	if scale <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// PaletteImage returns a 256x1 strip with pixel i holding palette index i.
func PaletteImage(pal *formats.Palette) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, formats.PaletteSize, 1))
	for i, c := range pal {
		img.SetNRGBA(i, 0, color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A})
	}
	return img
}
