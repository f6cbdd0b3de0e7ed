package formats

import (
	"fmt"
	"image"
	"image/color"
)

// PaletteSize is the number of entries in a VOX palette.
const PaletteSize = 256

// Palette maps a voxel color index to an RGBA color.
// Index 0 means "empty" and is conventionally unused.
type Palette [PaletteSize]color.RGBA

// At returns the color at index, rejecting indices outside 0..255.
func (p *Palette) At(index int) (color.RGBA, error) {
	if index < 0 || index >= PaletteSize {
		return color.RGBA{}, fmt.Errorf("%w: %d", ErrPaletteIndex, index)
	}
	return p[index], nil
}

// RGB returns the color at idx with each channel divided by 255. Alpha is dropped.
func (p *Palette) RGB(idx uint8) [3]float32 {
	c := p[idx]
	return [3]float32{
		float32(c.R) / 255.0,
		float32(c.G) / 255.0,
		float32(c.B) / 255.0,
	}
}

// PaletteFromImage builds a palette from the first 256 pixels of img,
// scanned row by row. Images with fewer pixels leave the tail zeroed.
// Channels are stored unpremultiplied, as they appear in an RGBA chunk.
func PaletteFromImage(img image.Image) Palette {
	var p Palette
	b := img.Bounds()
	i := 0
	for y := b.Min.Y; y < b.Max.Y && i < PaletteSize; y++ {
		for x := b.Min.X; x < b.Max.X && i < PaletteSize; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			p[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
			i++
		}
	}
	return p
}
