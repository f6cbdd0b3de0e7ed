package asset

import (
	"errors"
	"fmt"
	gomath "math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/voxel-viewer/pkg/math"
)

// ErrNoProperties is returned when a model has no sidecar file.
var ErrNoProperties = errors.New("asset: no properties file")

// Offset is a position offset in model units.
type Offset struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

// Rotation is a per-axis rotation in 90 degree steps.
type Rotation struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	Z int `yaml:"z"`
}

// Properties are the user-edited settings stored next to a model.
type Properties struct {
	Name           string   `yaml:"name"`
	Model          string   `yaml:"model"`
	PositionOffset Offset   `yaml:"position_offset"`
	Rotation       Rotation `yaml:"rotation"`
}

// DefaultProperties returns the properties of a model that was never saved.
func DefaultProperties(modelPath string) Properties {
	return Properties{
		Name:  "Undefined",
		Model: modelPath,
	}
}

// SidecarPath returns the properties path for a model: the ".vox"
// suffix becomes ".yml", any other name gets ".yml" appended.
func SidecarPath(modelPath string) string {
	if strings.EqualFold(filepath.Ext(modelPath), ".vox") {
		return modelPath[:len(modelPath)-len(".vox")] + ".yml"
	}
	return modelPath + ".yml"
}

// LoadProperties reads a properties file. Missing keys stay zero.
func LoadProperties(path string) (Properties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Properties{}, fmt.Errorf("%w: %s", ErrNoProperties, path)
		}
		return Properties{}, err
	}
	var p Properties
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Properties{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return p, nil
}

// SaveTo writes the properties as YAML. Offsets are rounded up to 2 decimals.
func (p Properties) SaveTo(path string) error {
	out := p
	out.PositionOffset = Offset{
		X: ceil2(p.PositionOffset.X),
		Y: ceil2(p.PositionOffset.Y),
		Z: ceil2(p.PositionOffset.Z),
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ceil2 rounds v up to two decimals. The small bias keeps values that are
// already on a 0.01 step (but not exactly representable) from moving up.
func ceil2(v float32) float32 {
	return float32(gomath.Ceil(float64(v)*100-1e-4) / 100)
}

// RotationMatrix returns the model rotation as Rz * Ry * Rx quarter turns.
func (p Properties) RotationMatrix() math.Mat4 {
	return math.QuarterTurns(p.Rotation.X, p.Rotation.Y, p.Rotation.Z)
}

// ModelMatrix places the model at position: the offset is rotated with
// the model, then the rotated model is translated.
func (p Properties) ModelMatrix(position math.Vec3) math.Mat4 {
	rot := p.RotationMatrix()
	offset := rot.TransformVec3(math.Vec3{X: p.PositionOffset.X, Y: p.PositionOffset.Y, Z: p.PositionOffset.Z})
	t := position.Add(offset)
	return math.Translate(t.X, t.Y, t.Z).Mul(rot)
}
