package asset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/voxel-viewer/pkg/math"
)

func TestSidecarPath(t *testing.T) {
	tests := map[string]string{
		"models/chair.vox": "models/chair.yml",
		"models/CHAIR.VOX": "models/CHAIR.yml",
		"models/chair":     "models/chair.yml",
		"models/chair.bin": "models/chair.bin.yml",
	}
	for in, want := range tests {
		if got := SidecarPath(in); got != want {
			t.Errorf("SidecarPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDefaultProperties(t *testing.T) {
	p := DefaultProperties("chair.vox")
	if p.Name != "Undefined" {
		t.Errorf("expected name Undefined, got %s", p.Name)
	}
	if p.Model != "chair.vox" {
		t.Errorf("expected model path, got %s", p.Model)
	}
	if p.PositionOffset != (Offset{}) || p.Rotation != (Rotation{}) {
		t.Errorf("expected zero offset and rotation, got %+v", p)
	}
}

func TestPropertiesSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "props", "chair.yml")

	p := Properties{
		Name:           "Chair",
		Model:          "chair.vox",
		PositionOffset: Offset{X: 0.123, Y: -0.5, Z: 2.1},
		Rotation:       Rotation{X: 1, Y: 0, Z: 3},
	}
	if err := p.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}
	for _, key := range []string{"name: Chair", "model: chair.vox", "position_offset:", "rotation:"} {
		if !strings.Contains(string(content), key) {
			t.Errorf("expected %q in saved YAML:\n%s", key, content)
		}
	}

	got, err := LoadProperties(path)
	if err != nil {
		t.Fatalf("LoadProperties failed: %v", err)
	}
	if got.Name != "Chair" || got.Model != "chair.vox" {
		t.Errorf("unexpected identity %+v", got)
	}
	if got.Rotation != (Rotation{X: 1, Z: 3}) {
		t.Errorf("unexpected rotation %+v", got.Rotation)
	}

	// Offsets round up to two decimals.
	want := Offset{X: 0.13, Y: -0.5, Z: 2.1}
	if !near(got.PositionOffset.X, want.X) || !near(got.PositionOffset.Y, want.Y) || !near(got.PositionOffset.Z, want.Z) {
		t.Errorf("expected offset %+v, got %+v", want, got.PositionOffset)
	}
}

func TestLoadPropertiesMissing(t *testing.T) {
	_, err := LoadProperties(filepath.Join(t.TempDir(), "none.yml"))
	if !errors.Is(err, ErrNoProperties) {
		t.Errorf("expected ErrNoProperties, got %v", err)
	}
}

func TestLoadPropertiesPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yml")
	if err := os.WriteFile(path, []byte("name: Lamp\nrotation:\n  z: 2\n"), 0644); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	p, err := LoadProperties(path)
	if err != nil {
		t.Fatalf("LoadProperties failed: %v", err)
	}
	if p.Name != "Lamp" || p.Rotation.Z != 2 || p.Rotation.X != 0 {
		t.Errorf("unexpected properties %+v", p)
	}
}

func TestCeil2(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{0.1, 0.1},
		{0.101, 0.11},
		{1.999, 2},
		{-0.129, -0.12},
	}
	for _, tt := range tests {
		if got := ceil2(tt.in); !near(got, tt.want) {
			t.Errorf("ceil2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestModelMatrix(t *testing.T) {
	p := Properties{
		PositionOffset: Offset{X: 1},
		Rotation:       Rotation{Z: 1},
	}
	m := p.ModelMatrix(math.Vec3{X: 10})

	// Origin lands on position plus the rotated offset.
	if got := m.TransformPoint([3]float32{0, 0, 0}); !nearVec(got, [3]float32{10, 1, 0}) {
		t.Errorf("origin mapped to %v", got)
	}
	// +X is turned onto +Y, then translated.
	if got := m.TransformPoint([3]float32{1, 0, 0}); !nearVec(got, [3]float32{10, 2, 0}) {
		t.Errorf("unit X mapped to %v", got)
	}
}

func TestModelMatrixIdentity(t *testing.T) {
	m := DefaultProperties("x.vox").ModelMatrix(math.Vec3{})
	if m != math.Identity() {
		t.Errorf("expected identity, got %v", m)
	}
}

func near(a, b float32) bool {
	d := a - b
	return d < 1e-5 && d > -1e-5
}

func nearVec(a, b [3]float32) bool {
	return near(a[0], b[0]) && near(a[1], b[1]) && near(a[2], b[2])
}
