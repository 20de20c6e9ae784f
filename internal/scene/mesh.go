package scene

import (
	"encoding/binary"
	"math"
)

// VertexSize is the packed size of one Vertex in bytes.
const VertexSize = 20

type Vertex struct {
	Position [3]float32 // offset  0
	UV       [2]float32 // offset 12
}

func (v *Vertex) Size() int {
	return VertexSize
}

func (v *Vertex) Marshal() []byte {
	buf := make([]byte, VertexSize)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(v.UV[0]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(v.UV[1]))
	return buf
}

// Mesh is vertex data plus optional indices. A nil Indices slice draws the
// vertices directly.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint16
}

// Quad is an axis-aligned rectangle in the xy plane centred on the origin,
// drawn as two indexed triangles.
func Quad(width, height float32) Mesh {
	ex, ey := width/2, height/2
	return Mesh{
		Vertices: []Vertex{
			{Position: [3]float32{-ex, -ey, 0}, UV: [2]float32{0, 1}},
			{Position: [3]float32{-ex, ey, 0}, UV: [2]float32{0, 0}},
			{Position: [3]float32{ex, ey, 0}, UV: [2]float32{1, 0}},
			{Position: [3]float32{ex, -ey, 0}, UV: [2]float32{1, 1}},
		},
		Indices: []uint16{0, 2, 1, 0, 3, 2},
	}
}

// Tri is a single non-indexed triangle of unit size.
func Tri() Mesh {
	return Mesh{
		Vertices: []Vertex{
			{Position: [3]float32{0, 0.5, 0}, UV: [2]float32{0.5, 0}},
			{Position: [3]float32{-0.5, -0.5, 0}, UV: [2]float32{0, 1}},
			{Position: [3]float32{0.5, -0.5, 0}, UV: [2]float32{1, 1}},
		},
	}
}

// DrawKind reports how the mesh must be drawn.
func (m Mesh) DrawKind() DrawKind {
	if m.Indices != nil {
		return Indexed{IndexCount: uint32(len(m.Indices)), VertexCount: uint32(len(m.Vertices))}
	}
	return NonIndexed{VertexCount: uint32(len(m.Vertices))}
}

// VertexBytes packs the vertices back to back.
func (m Mesh) VertexBytes() []byte {
	buf := make([]byte, 0, len(m.Vertices)*VertexSize)
	for i := range m.Vertices {
		buf = append(buf, m.Vertices[i].Marshal()...)
	}
	return buf
}

// Extent returns the half width and half height of the mesh's bounding box.
func (m Mesh) Extent() (float32, float32) {
	var ex, ey float32
	for _, v := range m.Vertices {
		ex = max(ex, abs32(v.Position[0]))
		ey = max(ey, abs32(v.Position[1]))
	}
	return ex, ey
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
