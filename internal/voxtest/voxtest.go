// Package voxtest builds VOX byte streams for tests.
package voxtest

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// Builder assembles a VOX file chunk by chunk. The MAIN children
// size is computed from the appended chunks unless overridden.
type Builder struct {
	Magic        string
	Version      int32
	MainTag      string
	MainContent  int32
	MainChildren int32 // Used only when OverrideChildren is set
	// OverrideChildren writes MainChildren instead of the real size.
	OverrideChildren bool

	chunks bytes.Buffer
}

// New returns a builder with a valid header.
func New() *Builder {
	return &Builder{Magic: "VOX ", Version: 200, MainTag: "MAIN"}
}

// Chunk appends a raw chunk with the given tag, content and declared children size.
func (b *Builder) Chunk(tag string, content []byte, children int32) *Builder {
	return b.ChunkSized(tag, int32(len(content)), children, content)
}

// ChunkSized appends a chunk whose declared content size may differ from len(content).
func (b *Builder) ChunkSized(tag string, contentSize, children int32, content []byte) *Builder {
	b.chunks.WriteString(tag)
	binary.Write(&b.chunks, binary.LittleEndian, contentSize)
	binary.Write(&b.chunks, binary.LittleEndian, children)
	b.chunks.Write(content)
	return b
}

// Size appends a SIZE chunk.
func (b *Builder) Size(x, y, z int32) *Builder {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, x)
	binary.Write(buf, binary.LittleEndian, y)
	binary.Write(buf, binary.LittleEndian, z)
	return b.Chunk("SIZE", buf.Bytes(), 0)
}

// Pack appends a PACK chunk.
func (b *Builder) Pack(n int32) *Builder {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, n)
	return b.Chunk("PACK", buf.Bytes(), 0)
}

// RGBA appends an RGBA chunk. Indices missing from colors are zero.
func (b *Builder) RGBA(colors map[int][4]uint8) *Builder {
	content := make([]byte, 1024)
	for i, c := range colors {
		copy(content[i*4:], c[:])
	}
	return b.Chunk("RGBA", content, 0)
}

// XYZI appends an XYZI chunk. Each voxel is {x, y, z, colorIndex}.
func (b *Builder) XYZI(voxels ...[4]uint8) *Builder {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, int32(len(voxels)))
	for _, v := range voxels {
		buf.Write(v[:])
	}
	return b.Chunk("XYZI", buf.Bytes(), 0)
}

// Bytes returns the finished file.
func (b *Builder) Bytes() []byte {
	buf := new(bytes.Buffer)
	buf.WriteString(b.Magic)
	binary.Write(buf, binary.LittleEndian, b.Version)
	buf.WriteString(b.MainTag)
	binary.Write(buf, binary.LittleEndian, b.MainContent)
	children := int32(b.chunks.Len())
	if b.OverrideChildren {
		children = b.MainChildren
	}
	binary.Write(buf, binary.LittleEndian, children)
	buf.Write(b.chunks.Bytes())
	return buf.Bytes()
}

// WriteFile writes the finished file into a fresh temp dir and returns its path.
func (b *Builder) WriteFile(t testing.TB, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, b.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write test VOX: %v", err)
	}
	return path
}

// Red is a palette with index 1 mapped to opaque red.
func Red() map[int][4]uint8 {
	return map[int][4]uint8{1: {255, 0, 0, 255}}
}

// Solid returns voxel records filling an x*y*z box with color index idx.
func Solid(x, y, z int, idx uint8) [][4]uint8 {
	var out [][4]uint8
	for i := 0; i < x; i++ {
		for j := 0; j < y; j++ {
			for k := 0; k < z; k++ {
				out = append(out, [4]uint8{uint8(i), uint8(j), uint8(k), idx})
			}
		}
	}
	return out
}
