package preview

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	_ "github.com/ftrvxmtrx/tga"

	"github.com/Faultbox/voxel-viewer/pkg/formats"
)

// ErrUnknownFormat is returned for an output format other than webp or png.
var ErrUnknownFormat = errors.New("preview: unknown image format")

// Encode writes img to w as "webp" or "png".
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "webp":
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("WebP encode: %w", err)
		}
		return nil
	case "png":
		return png.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// FormatForPath picks the format from the file extension, or fallback.
func FormatForPath(path, fallback string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		return "webp"
	case ".png":
		return "png"
	default:
		return fallback
	}
}

// WriteFile encodes img into path, creating parent directories.
func WriteFile(path string, img image.Image, format string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// LoadPalette reads a palette strip image (PNG or TGA) and returns
// its first 256 pixels as a palette.
func LoadPalette(path string) (formats.Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return formats.Palette{}, fmt.Errorf("palette: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return formats.Palette{}, fmt.Errorf("palette: decode %s: %w", path, err)
	}
	return formats.PaletteFromImage(img), nil
}
