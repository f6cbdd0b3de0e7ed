package asset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/voxel-viewer/internal/voxtest"
	"github.com/Faultbox/voxel-viewer/pkg/formats"
)

func observed(level zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core), logs
}

func TestNewIsUnloaded(t *testing.T) {
	a := New(nil)

	if a.State() != StateUnloaded || a.Loaded() {
		t.Errorf("expected Unloaded, got %s", a.State())
	}
	if a.Grid() != nil || a.Mesh() != nil {
		t.Error("expected no grid or mesh before load")
	}
	if a.Dimensions() != [3]int{} {
		t.Errorf("expected zero dimensions, got %v", a.Dimensions())
	}
	if a.Vertices() != nil || a.Indices() != nil {
		t.Error("expected nil buffers before load")
	}
}

func TestLoadSingleVoxel(t *testing.T) {
	path := voxtest.New().
		Size(1, 1, 1).
		XYZI([4]uint8{0, 0, 0, 1}).
		RGBA(voxtest.Red()).
		WriteFile(t, "one.vox")

	log, logs := observed(zapcore.DebugLevel)
	a := New(log)
	if err := a.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if a.State() != StateDecoded || !a.Loaded() {
		t.Errorf("expected Decoded, got %s", a.State())
	}
	if a.Path() != path {
		t.Errorf("expected path %s, got %s", path, a.Path())
	}
	if a.Dimensions() != [3]int{1, 1, 1} {
		t.Errorf("expected 1x1x1, got %v", a.Dimensions())
	}
	if a.Grid().At(0, 0, 0) != 1 {
		t.Errorf("expected index 1 at origin, got %d", a.Grid().At(0, 0, 0))
	}
	pal := a.Palette()
	if c, _ := pal.At(1); c.R != 255 || c.A != 255 {
		t.Errorf("expected red at palette index 1, got %v", c)
	}
	if a.Mesh() != nil {
		t.Error("expected no mesh before Triangulate")
	}
	if len(a.Chunks()) != 3 {
		t.Errorf("expected 3 chunks, got %d", len(a.Chunks()))
	}

	if err := a.Triangulate(); err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}
	if a.State() != StateMeshed {
		t.Errorf("expected Meshed, got %s", a.State())
	}
	if len(a.Vertices()) != 168 {
		t.Errorf("expected 168 floats, got %d", len(a.Vertices()))
	}
	if len(a.Indices()) != 36 {
		t.Errorf("expected 36 indices, got %d", len(a.Indices()))
	}

	if logs.FilterMessage("loaded model").Len() != 1 {
		t.Error("expected one 'loaded model' entry")
	}
	if logs.FilterMessage("triangulated model").Len() != 1 {
		t.Error("expected one 'triangulated model' entry")
	}
}

func TestTriangulateIsIdempotent(t *testing.T) {
	data := voxtest.New().
		Size(2, 1, 1).
		XYZI([4]uint8{0, 0, 0, 1}, [4]uint8{1, 0, 0, 1}).
		Bytes()

	a := New(nil)
	if err := a.LoadBytes("pair.vox", data); err != nil {
		t.Fatalf("LoadBytes failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := a.Triangulate(); err != nil {
			t.Fatalf("Triangulate #%d failed: %v", i, err)
		}
		if a.Mesh().FaceCount() != 10 {
			t.Errorf("run %d: expected 10 faces, got %d", i, a.Mesh().FaceCount())
		}
		if len(a.Vertices()) != 40*7 || len(a.Indices()) != 60 {
			t.Errorf("run %d: unexpected buffer sizes %d/%d", i, len(a.Vertices()), len(a.Indices()))
		}
	}
}

func TestTriangulateBeforeLoad(t *testing.T) {
	a := New(nil)
	if err := a.Triangulate(); !errors.Is(err, ErrNotDecoded) {
		t.Errorf("expected ErrNotDecoded, got %v", err)
	}
}

func TestLoadWarningsAreLogged(t *testing.T) {
	data := voxtest.New().
		Pack(2).
		Size(2, 2, 2).
		XYZI([4]uint8{0, 0, 0, 1}, [4]uint8{5, 0, 0, 1}).
		Chunk("nTRN", []byte{1, 2, 3, 4}, 0).
		Bytes()

	log, logs := observed(zapcore.WarnLevel)
	a := New(log)
	if err := a.LoadBytes("warned.vox", data); err != nil {
		t.Fatalf("LoadBytes failed: %v", err)
	}

	kinds := map[formats.WarningKind]int{}
	for _, w := range a.Warnings() {
		kinds[w.Kind]++
	}
	if kinds[formats.WarnPackCount] != 1 || kinds[formats.WarnUnknownChunk] != 1 || kinds[formats.WarnVoxelOutOfBounds] != 1 {
		t.Errorf("unexpected warning kinds %v", kinds)
	}
	if a.Grid().Count() != 1 {
		t.Errorf("expected 1 voxel kept, got %d", a.Grid().Count())
	}

	if logs.Len() != 3 {
		t.Fatalf("expected 3 warn entries, got %d", logs.Len())
	}
	for _, entry := range logs.All() {
		fields := entry.ContextMap()
		if fields["path"] != "warned.vox" {
			t.Errorf("expected path field, got %v", fields["path"])
		}
		if _, ok := fields["kind"]; !ok {
			t.Errorf("expected kind field on %q", entry.Message)
		}
		if _, ok := fields["offset"]; !ok {
			t.Errorf("expected offset field on %q", entry.Message)
		}
	}
	oob := logs.FilterField(zap.String("kind", "voxel_out_of_bounds")).All()
	if len(oob) != 1 || oob[0].ContextMap()["offset"] != int64(-1) {
		t.Errorf("expected out-of-bounds warning with offset -1, got %v", oob)
	}
}

func TestFailedLoadClearsPreviousModel(t *testing.T) {
	good := voxtest.New().Size(1, 1, 1).XYZI([4]uint8{0, 0, 0, 1}).RGBA(voxtest.Red()).Bytes()
	bad := voxtest.New()
	bad.Version = 150

	log, logs := observed(zapcore.ErrorLevel)
	a := New(log)
	if err := a.LoadBytes("good.vox", good); err != nil {
		t.Fatalf("LoadBytes failed: %v", err)
	}
	if err := a.Triangulate(); err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}

	err := a.LoadBytes("bad.vox", bad.Bytes())
	if !errors.Is(err, formats.ErrUnsupportedVOXVersion) {
		t.Fatalf("expected ErrUnsupportedVOXVersion, got %v", err)
	}
	if !formats.IsStructural(err) {
		t.Error("expected a structural error")
	}

	if a.State() != StateFailed || a.Loaded() {
		t.Errorf("expected Failed and not loaded, got %s", a.State())
	}
	if a.Grid() != nil || a.Mesh() != nil || a.Vertices() != nil {
		t.Error("expected contents cleared after failed load")
	}
	if a.Palette() != (formats.Palette{}) {
		t.Error("expected palette cleared after failed load")
	}
	if a.Warnings() != nil || a.Chunks() != nil {
		t.Error("expected warnings and chunks cleared")
	}
	if !errors.Is(a.Err(), formats.ErrUnsupportedVOXVersion) {
		t.Errorf("expected Err to hold the cause, got %v", a.Err())
	}
	if a.Path() != "bad.vox" {
		t.Errorf("expected path of failed load, got %s", a.Path())
	}
	if err := a.Triangulate(); !errors.Is(err, ErrNotDecoded) {
		t.Errorf("expected ErrNotDecoded after failure, got %v", err)
	}
	if logs.FilterMessage("failed to load model").Len() != 1 {
		t.Error("expected the failure to be logged")
	}

	// A later good load recovers.
	if err := a.LoadBytes("good.vox", good); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if a.State() != StateDecoded || a.Err() != nil {
		t.Errorf("expected clean Decoded state, got %s / %v", a.State(), a.Err())
	}
}

func TestLoadMissingFile(t *testing.T) {
	a := New(nil)
	err := a.Load(filepath.Join(t.TempDir(), "missing.vox"))
	if !errors.Is(err, formats.ErrUnreadableFile) {
		t.Errorf("expected ErrUnreadableFile, got %v", err)
	}
	if a.State() != StateFailed {
		t.Errorf("expected Failed, got %s", a.State())
	}
}

func TestReloadReplacesModel(t *testing.T) {
	a := New(nil)
	big := voxtest.New().Size(3, 3, 3).XYZI(voxtest.Solid(3, 3, 3, 2)...).Bytes()
	small := voxtest.New().Size(1, 2, 1).XYZI([4]uint8{0, 1, 0, 4}).Bytes()

	if err := a.LoadBytes("big.vox", big); err != nil {
		t.Fatalf("LoadBytes failed: %v", err)
	}
	if err := a.Triangulate(); err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}
	if err := a.LoadBytes("small.vox", small); err != nil {
		t.Fatalf("LoadBytes failed: %v", err)
	}

	if a.Dimensions() != [3]int{1, 2, 1} {
		t.Errorf("expected 1x2x1, got %v", a.Dimensions())
	}
	if a.Grid().Count() != 1 {
		t.Errorf("expected 1 voxel, got %d", a.Grid().Count())
	}
	if a.Mesh() != nil || a.State() != StateDecoded {
		t.Error("expected reload to drop the old mesh")
	}
}

func TestLoadForSetup(t *testing.T) {
	path := voxtest.New().Size(1, 1, 1).XYZI([4]uint8{0, 0, 0, 1}).WriteFile(t, "chair.vox")

	a := New(nil)
	if err := a.LoadForSetup(path); err != nil {
		t.Fatalf("LoadForSetup failed: %v", err)
	}
	if a.State() != StateMeshed {
		t.Errorf("expected Meshed, got %s", a.State())
	}
	if a.Properties.Name != "Undefined" || a.Properties.Model != path {
		t.Errorf("expected default properties, got %+v", a.Properties)
	}

	a.Properties.Name = "Chair"
	a.Properties.Rotation.Y = 1
	saved, err := a.SaveProperties()
	if err != nil {
		t.Fatalf("SaveProperties failed: %v", err)
	}
	if saved != filepath.Join(filepath.Dir(path), "chair.yml") {
		t.Errorf("unexpected sidecar path %s", saved)
	}

	b := New(nil)
	if err := b.LoadForSetup(path); err != nil {
		t.Fatalf("second LoadForSetup failed: %v", err)
	}
	if b.Properties.Name != "Chair" || b.Properties.Rotation.Y != 1 {
		t.Errorf("expected saved properties, got %+v", b.Properties)
	}
}

func TestLoadForSetupUnreadableSidecar(t *testing.T) {
	path := voxtest.New().Size(1, 1, 1).WriteFile(t, "broken.vox")
	if err := os.WriteFile(SidecarPath(path), []byte("name: [unterminated"), 0644); err != nil {
		t.Fatalf("failed to write sidecar: %v", err)
	}

	log, logs := observed(zapcore.WarnLevel)
	a := New(log)
	if err := a.LoadForSetup(path); err != nil {
		t.Fatalf("LoadForSetup failed: %v", err)
	}
	if a.Properties.Name != "Undefined" {
		t.Errorf("expected defaults, got %+v", a.Properties)
	}
	if logs.FilterMessage("ignoring unreadable properties").Len() != 1 {
		t.Error("expected a warning about the sidecar")
	}
}

func TestSavePropertiesWithoutModel(t *testing.T) {
	a := New(nil)
	if _, err := a.SaveProperties(); !errors.Is(err, ErrNotDecoded) {
		t.Errorf("expected ErrNotDecoded, got %v", err)
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateUnloaded: "Unloaded",
		StateDecoded:  "Decoded",
		StateMeshed:   "Meshed",
		StateFailed:   "Failed",
		State(9):      "Unknown(9)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
