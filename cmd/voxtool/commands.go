package main

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/voxel-viewer/internal/asset"
	"github.com/Faultbox/voxel-viewer/internal/config"
	"github.com/Faultbox/voxel-viewer/internal/logger"
	"github.com/Faultbox/voxel-viewer/internal/preview"
	"github.com/Faultbox/voxel-viewer/pkg/math"
)

func cmdInfo(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	showChunks := fs.Bool("chunks", false, "List every sub-chunk")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: voxtool info <file.vox>...")
	}

	lib := asset.NewLibrary(logger.Named("asset"))
	results := lib.LoadAll(fs.Args(), cfg.Library.Workers)

	failed := 0
	for i, r := range results {
		if i > 0 {
			fmt.Println()
		}
		if r.Err != nil {
			failed++
			fmt.Printf("Model:    %s\n", r.Path)
			fmt.Printf("Error:    %v\n", r.Err)
			continue
		}
		printInfo(r.Asset, *showChunks)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d models failed to load", failed, len(results))
	}
	return nil
}

func printInfo(a *asset.ModelAsset, showChunks bool) {
	dims := a.Dimensions()
	grid := a.Grid()

	fmt.Printf("Model:    %s\n", a.Path())
	fmt.Printf("Size:     %d x %d x %d\n", dims[0], dims[1], dims[2])
	fmt.Printf("Voxels:   %d\n", grid.Count())
	fmt.Printf("Faces:    %d\n", a.Mesh().FaceCount())
	fmt.Printf("Name:     %s\n", a.Properties.Name)

	counts := make(map[string]int)
	for _, c := range a.Chunks() {
		counts[c.Tag]++
	}
	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		parts = append(parts, fmt.Sprintf("%s=%d", tag, counts[tag]))
	}
	fmt.Printf("Chunks:   %s\n", strings.Join(parts, " "))

	if showChunks {
		for _, c := range a.Chunks() {
			fmt.Printf("  %-6s @%-8d content=%-6d children=%d\n", c.Tag, c.Offset, c.ContentSize, c.ChildrenSize)
		}
	}

	// Most used colors first
	type colorStat struct {
		index uint8
		count int
	}
	var stats []colorStat
	for idx, n := range grid.ColorUsage() {
		stats = append(stats, colorStat{idx, n})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].count != stats[j].count {
			return stats[i].count > stats[j].count
		}
		return stats[i].index < stats[j].index
	})

	pal := a.Palette()
	fmt.Printf("Colors:   %d\n", len(stats))
	for i, s := range stats {
		if i == 8 {
			fmt.Printf("  ... %d more\n", len(stats)-i)
			break
		}
		c, _ := pal.At(int(s.index))
		fmt.Printf("  %3d  #%02x%02x%02x  %d\n", s.index, c.R, c.G, c.B, s.count)
	}

	if ws := a.Warnings(); len(ws) > 0 {
		fmt.Printf("Warnings: %d\n", len(ws))
		for _, w := range ws {
			fmt.Printf("  %s\n", w)
		}
	}
}

func cmdMesh(args []string) error {
	fs := flag.NewFlagSet("mesh", flag.ExitOnError)
	dump := fs.Int("n", 0, "Print the first N vertices")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: voxtool mesh <file.vox>")
	}

	a := asset.New(logger.Named("asset"))
	if err := a.Load(fs.Arg(0)); err != nil {
		return err
	}
	if err := a.Triangulate(); err != nil {
		return err
	}
	m := a.Mesh()

	fmt.Printf("Model:     %s\n", a.Path())
	fmt.Printf("Faces:     %d\n", m.FaceCount())
	fmt.Printf("Triangles: %d\n", m.TriangleCount())
	fmt.Printf("Vertices:  %d (%d floats)\n", m.VertexCount(), len(m.Vertices))
	fmt.Printf("Indices:   %d\n", len(m.Indices))
	if m.FaceCount() > 0 {
		fmt.Printf("Bounds:    %v .. %v\n", m.Bounds.Min, m.Bounds.Max)
		fmt.Printf("Center:    %v\n", m.Bounds.Center())
	}

	for i := 0; i < *dump && i < m.VertexCount(); i++ {
		v := m.Vertex(i)
		fmt.Printf("  %4d  pos=%v  color=%.3f  face=%s\n", i, v.Position, v.Color, v.Face)
	}
	return nil
}

func cmdPreview(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	viewName := fs.String("view", cfg.Preview.View, "View axis: front, top or side")
	scale := fs.Int("scale", cfg.Preview.Scale, "Integer upscale factor")
	format := fs.String("format", cfg.Preview.Format, "Output format: webp or png")
	palettePath := fs.String("palette", cfg.Preview.Palette, "Palette strip image (PNG or TGA) replacing the model's colors")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: voxtool preview <file.vox> [output]")
	}
	view, err := preview.ParseView(*viewName)
	if err != nil {
		return err
	}
	if *scale < 1 {
		return fmt.Errorf("scale must be at least 1, got %d", *scale)
	}

	a := asset.New(logger.Named("asset"))
	if err := a.Load(fs.Arg(0)); err != nil {
		return err
	}

	pal := a.Palette()
	if *palettePath != "" {
		if pal, err = preview.LoadPalette(*palettePath); err != nil {
			return err
		}
	}

	out := outputPath(fs.Arg(0), fs.Arg(1), view.String(), *format)
	outFormat := preview.FormatForPath(out, *format)

	img := preview.Upscale(preview.Render(a.Grid(), &pal, view), *scale)
	if err := preview.WriteFile(out, img, outFormat); err != nil {
		return err
	}

	logger.Info("wrote preview", zap.String("path", out), zap.String("view", view.String()), zap.Int("scale", *scale))
	fmt.Printf("Wrote %s (%dx%d %s)\n", out, img.Bounds().Dx(), img.Bounds().Dy(), outFormat)
	return nil
}

func cmdPalette(args []string) error {
	fs := flag.NewFlagSet("palette", flag.ExitOnError)
	scale := fs.Int("scale", 1, "Integer upscale factor")
	format := fs.String("format", "png", "Output format: webp or png")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: voxtool palette <file.vox> [output]")
	}

	a := asset.New(logger.Named("asset"))
	if err := a.Load(fs.Arg(0)); err != nil {
		return err
	}

	out := outputPath(fs.Arg(0), fs.Arg(1), "palette", *format)
	outFormat := preview.FormatForPath(out, *format)

	pal := a.Palette()
	img := preview.Upscale(preview.PaletteImage(&pal), *scale)
	if err := preview.WriteFile(out, img, outFormat); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}

func cmdProps(args []string) error {
	fs := flag.NewFlagSet("props", flag.ExitOnError)
	name := fs.String("name", "", "Set the model name")
	offset := fs.String("offset", "", "Set the position offset as x,y,z")
	rotation := fs.String("rotation", "", "Set the rotation as x,y,z quarter turns")
	position := fs.String("position", "0,0,0", "World position used for the printed model matrix")
	save := fs.Bool("save", false, "Write the properties next to the model")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: voxtool props <file.vox>")
	}

	a := asset.New(logger.Named("asset"))
	if err := a.LoadForSetup(fs.Arg(0)); err != nil {
		return err
	}

	if *name != "" {
		a.Properties.Name = *name
	}
	if *offset != "" {
		v, err := parseFloats(*offset)
		if err != nil {
			return fmt.Errorf("offset: %w", err)
		}
		a.Properties.PositionOffset = asset.Offset{X: v[0], Y: v[1], Z: v[2]}
	}
	if *rotation != "" {
		v, err := parseInts(*rotation)
		if err != nil {
			return fmt.Errorf("rotation: %w", err)
		}
		a.Properties.Rotation = asset.Rotation{X: v[0], Y: v[1], Z: v[2]}
	}
	pos, err := parseFloats(*position)
	if err != nil {
		return fmt.Errorf("position: %w", err)
	}

	p := a.Properties
	fmt.Printf("Name:     %s\n", p.Name)
	fmt.Printf("Model:    %s\n", p.Model)
	fmt.Printf("Offset:   %.2f, %.2f, %.2f\n", p.PositionOffset.X, p.PositionOffset.Y, p.PositionOffset.Z)
	fmt.Printf("Rotation: %d, %d, %d\n", p.Rotation.X, p.Rotation.Y, p.Rotation.Z)

	m := p.ModelMatrix(math.Vec3{X: pos[0], Y: pos[1], Z: pos[2]})
	fmt.Println("Matrix:")
	for row := 0; row < 4; row++ {
		fmt.Printf("  %6.2f %6.2f %6.2f %6.2f\n", m[row], m[4+row], m[8+row], m[12+row])
	}

	if *save {
		path, err := a.SaveProperties()
		if err != nil {
			return err
		}
		fmt.Printf("Saved %s\n", path)
	}
	return nil
}

// outputPath returns explicit if set, otherwise "<model>_<suffix>.<format>"
// next to the model.
func outputPath(model, explicit, suffix, format string) string {
	if explicit != "" {
		return explicit
	}
	base := strings.TrimSuffix(model, filepath.Ext(model))
	return base + "_" + suffix + "." + format
}

func splitTriple(s string) ([]string, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("expected x,y,z, got %q", s)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

func parseFloats(s string) ([3]float32, error) {
	var out [3]float32
	parts, err := splitTriple(s)
	if err != nil {
		return out, err
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 32)
		if err != nil {
			return out, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

func parseInts(s string) ([3]int, error) {
	var out [3]int
	parts, err := splitTriple(s)
	if err != nil {
		return out, err
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return out, err
		}
		out[i] = n
	}
	return out, nil
}
