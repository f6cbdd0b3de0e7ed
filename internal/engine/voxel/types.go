package voxel

import "fmt"

// Vertex buffer layout: position (3), color (3), face id (1).
const (
	VertexStride    = 7
	VerticesPerFace = 4
	IndicesPerFace  = 6
)

// Face identifies one side of a voxel. The numeric value is stored as the
// 7th vertex attribute so shaders can derive a normal from it.
type Face uint8

const (
	FaceUp    Face = 1 // +Y
	FaceDown  Face = 2 // -Y
	FaceLeft  Face = 3 // -X
	FaceRight Face = 4 // +X
	FaceFront Face = 5 // -Z
	FaceBack  Face = 6 // +Z
)

// String returns a human-readable face name.
func (f Face) String() string {
	switch f {
	case FaceUp:
		return "Up"
	case FaceDown:
		return "Down"
	case FaceLeft:
		return "Left"
	case FaceRight:
		return "Right"
	case FaceFront:
		return "Front"
	case FaceBack:
		return "Back"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(f))
	}
}

// Normal returns the outward unit normal of the face.
func (f Face) Normal() [3]float32 {
	switch f {
	case FaceUp:
		return [3]float32{0, 1, 0}
	case FaceDown:
		return [3]float32{0, -1, 0}
	case FaceLeft:
		return [3]float32{-1, 0, 0}
	case FaceRight:
		return [3]float32{1, 0, 0}
	case FaceFront:
		return [3]float32{0, 0, -1}
	case FaceBack:
		return [3]float32{0, 0, 1}
	default:
		return [3]float32{}
	}
}

// Vertex is one decoded record of the flat vertex buffer.
type Vertex struct {
	Position [3]float32
	Color    [3]float32
	Face     Face
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Mesh holds the flat vertex and index buffers ready for GPU upload.
// Every face owns its four corner vertices; nothing is shared.
type Mesh struct {
	Vertices []float32
	Indices  []uint32
	Bounds   Bounds
}

// VertexCount returns the number of vertices in the buffer.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / VertexStride
}

// FaceCount returns the number of emitted quads.
func (m *Mesh) FaceCount() int {
	return len(m.Indices) / IndicesPerFace
}

// TriangleCount returns the number of triangles in the index buffer.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Vertex decodes vertex i. It panics if i is out of range, like a slice index.
func (m *Mesh) Vertex(i int) Vertex {
	v := m.Vertices[i*VertexStride : (i+1)*VertexStride]
	return Vertex{
		Position: [3]float32{v[0], v[1], v[2]},
		Color:    [3]float32{v[3], v[4], v[5]},
		Face:     Face(v[6]),
	}
}
