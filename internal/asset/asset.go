// Package asset owns a decoded voxel model: palette, grid and mesh buffers.
package asset

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/voxel-viewer/internal/engine/voxel"
	"github.com/Faultbox/voxel-viewer/pkg/formats"
)

// ErrNotDecoded is returned when meshing is requested before a successful load.
var ErrNotDecoded = errors.New("asset: no decoded model")

// State is the lifecycle stage of a ModelAsset.
type State int

const (
	StateUnloaded State = iota // Nothing loaded yet
	StateDecoded               // Palette and grid populated, mesh empty
	StateMeshed                // Vertex and index buffers populated
	StateFailed                // Last load hit a structural error; contents are empty
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "Unloaded"
	case StateDecoded:
		return "Decoded"
	case StateMeshed:
		return "Meshed"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// ModelAsset holds one voxel model. It is not safe for concurrent use;
// hand a finished asset to another goroutine instead of sharing it.
type ModelAsset struct {
	log *zap.Logger

	state    State
	path     string
	palette  formats.Palette
	grid     *voxel.Grid
	mesh     *voxel.Mesh
	chunks   []formats.ChunkHeader
	warnings []formats.Warning
	err      error

	// Properties are persisted next to the model and not interpreted
	// by decoding or meshing.
	Properties Properties
}

// New creates an unloaded asset. A nil logger discards output.
func New(log *zap.Logger) *ModelAsset {
	if log == nil {
		log = zap.NewNop()
	}
	return &ModelAsset{log: log}
}

// Load decodes the VOX file at path and builds its grid. Any previous
// model is replaced in full. On a structural error the asset is left
// empty in StateFailed and the error is returned.
func (a *ModelAsset) Load(path string) error {
	return a.load(path, func() (*formats.VOX, error) {
		return formats.ParseVOXFile(path)
	})
}

// LoadBytes is Load for an in-memory file; name is used for logging and Path.
func (a *ModelAsset) LoadBytes(name string, data []byte) error {
	return a.load(name, func() (*formats.VOX, error) {
		return formats.ParseVOX(data)
	})
}

func (a *ModelAsset) load(path string, decode func() (*formats.VOX, error)) error {
	vox, err := decode()
	if err != nil {
		a.reset()
		a.state = StateFailed
		a.path = path
		a.err = err
		a.log.Error("failed to load model", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("loading %s: %w", path, err)
	}

	grid, gridWarnings := voxel.BuildGrid(vox.Size, vox.Voxels)

	warnings := make([]formats.Warning, 0, len(vox.Warnings)+len(gridWarnings))
	warnings = append(warnings, vox.Warnings...)
	warnings = append(warnings, gridWarnings...)

	// Commit only once everything decoded.
	a.reset()
	a.state = StateDecoded
	a.path = path
	a.palette = vox.Palette
	a.grid = grid
	a.chunks = vox.Chunks
	a.warnings = warnings

	for _, w := range warnings {
		a.log.Warn(w.Message,
			zap.String("path", path),
			zap.String("kind", w.Kind.String()),
			zap.Int("offset", w.Offset),
		)
	}
	dims := grid.Dimensions()
	a.log.Info("loaded model",
		zap.String("path", path),
		zap.Ints("size", dims[:]),
		zap.Int("voxels", grid.Count()),
		zap.Int("warnings", len(warnings)),
	)
	return nil
}

// Triangulate discards any existing buffers and rebuilds them from the grid.
func (a *ModelAsset) Triangulate() error {
	if a.state != StateDecoded && a.state != StateMeshed {
		return fmt.Errorf("%w (state %s)", ErrNotDecoded, a.state)
	}
	a.mesh = voxel.BuildMesh(a.grid, &a.palette)
	a.state = StateMeshed
	a.log.Debug("triangulated model",
		zap.String("path", a.path),
		zap.Int("faces", a.mesh.FaceCount()),
		zap.Int("vertices", a.mesh.VertexCount()),
	)
	return nil
}

// LoadForSetup loads and triangulates path, then picks up its property
// sidecar if one exists. Without a sidecar the properties are reset to
// DefaultProperties.
func (a *ModelAsset) LoadForSetup(path string) error {
	if err := a.Load(path); err != nil {
		return err
	}
	if err := a.Triangulate(); err != nil {
		return err
	}

	props, err := LoadProperties(SidecarPath(path))
	switch {
	case err == nil:
		a.Properties = props
	case errors.Is(err, ErrNoProperties):
		a.Properties = DefaultProperties(path)
	default:
		a.log.Warn("ignoring unreadable properties", zap.String("path", SidecarPath(path)), zap.Error(err))
		a.Properties = DefaultProperties(path)
	}
	return nil
}

// SaveProperties writes Properties to the model's sidecar file and returns its path.
func (a *ModelAsset) SaveProperties() (string, error) {
	if a.path == "" || a.state == StateFailed || a.state == StateUnloaded {
		return "", ErrNotDecoded
	}
	path := SidecarPath(a.path)
	if err := a.Properties.SaveTo(path); err != nil {
		return "", fmt.Errorf("saving properties: %w", err)
	}
	a.log.Info("saved model properties", zap.String("name", a.Properties.Name), zap.String("path", path))
	return path, nil
}

func (a *ModelAsset) reset() {
	a.path = ""
	a.palette = formats.Palette{}
	a.grid = nil
	a.mesh = nil
	a.chunks = nil
	a.warnings = nil
	a.err = nil
}

// State returns the lifecycle stage.
func (a *ModelAsset) State() State { return a.state }

// Loaded reports whether a model is decoded. A failed load is not loaded.
func (a *ModelAsset) Loaded() bool {
	return a.state == StateDecoded || a.state == StateMeshed
}

// Path returns the path of the last load attempt.
func (a *ModelAsset) Path() string { return a.path }

// Err returns the structural error of a failed load.
func (a *ModelAsset) Err() error { return a.err }

// Palette returns the model's palette (all zero when none was loaded).
func (a *ModelAsset) Palette() formats.Palette { return a.palette }

// Grid returns the voxel grid, or nil before a successful load.
func (a *ModelAsset) Grid() *voxel.Grid { return a.grid }

// Mesh returns the triangulated mesh, or nil before Triangulate.
func (a *ModelAsset) Mesh() *voxel.Mesh { return a.mesh }

// Warnings returns the content warnings of the last successful load.
func (a *ModelAsset) Warnings() []formats.Warning { return a.warnings }

// Chunks returns the sub-chunk headers of the last successful load.
func (a *ModelAsset) Chunks() []formats.ChunkHeader { return a.chunks }

// Dimensions returns the declared model size, or zeros when nothing is loaded.
func (a *ModelAsset) Dimensions() [3]int {
	if a.grid == nil {
		return [3]int{}
	}
	return a.grid.Dimensions()
}

// Vertices returns the flat vertex buffer (7 floats per vertex).
func (a *ModelAsset) Vertices() []float32 {
	if a.mesh == nil {
		return nil
	}
	return a.mesh.Vertices
}

// Indices returns the index buffer (6 per face).
func (a *ModelAsset) Indices() []uint32 {
	if a.mesh == nil {
		return nil
	}
	return a.mesh.Indices
}
