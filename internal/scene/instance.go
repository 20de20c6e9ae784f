package scene

import (
	"encoding/binary"
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// InstanceRawSize is the packed size of one InstanceRaw in bytes.
const InstanceRawSize = 76

// Instance is the CPU-side transform and colour of one drawn copy of a mesh.
type Instance struct {
	Position [3]float32
	Rotation quat.Number
	Color    [3]float32
}

// Identity is the rotation that leaves a mesh unrotated.
var Identity = quat.Number{Real: 1}

func NewInstance(position [3]float32, rotation quat.Number, color [3]float32) Instance {
	return Instance{Position: position, Rotation: rotation, Color: color}
}

// RotationZ is the rotation by theta radians about the z axis.
func RotationZ(theta float64) quat.Number {
	s, c := math.Sincos(theta / 2)
	return quat.Number{Real: c, Kmag: s}
}

// InstanceRaw is the GPU layout of an Instance.
// Size: 76 bytes (no padding).
type InstanceRaw struct {
	Model [16]float32 // offset  0: column-major model matrix (64 bytes)
	Color [3]float32  // offset 64: linear RGB (12 bytes)
}

// Raw builds the model matrix translation * rotation. A zero rotation is
// treated as the identity; any other rotation is normalised first.
func (i Instance) Raw() InstanceRaw {
	q := i.Rotation
	if n := quat.Abs(q); n == 0 {
		q = Identity
	} else if n != 1 {
		q = quat.Scale(1/n, q)
	}
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag

	var raw InstanceRaw
	raw.Model = [16]float32{
		float32(1 - 2*(y*y+z*z)), float32(2 * (x*y + w*z)), float32(2 * (x*z - w*y)), 0,
		float32(2 * (x*y - w*z)), float32(1 - 2*(x*x+z*z)), float32(2 * (y*z + w*x)), 0,
		float32(2 * (x*z + w*y)), float32(2 * (y*z - w*x)), float32(1 - 2*(x*x+y*y)), 0,
		i.Position[0], i.Position[1], i.Position[2], 1,
	}
	raw.Color = i.Color
	return raw
}

func (r *InstanceRaw) Size() int {
	return InstanceRawSize
}

// Marshal serializes the record into a 76-byte little-endian buffer.
func (r *InstanceRaw) Marshal() []byte {
	buf := make([]byte, InstanceRawSize)
	r.put(buf)
	return buf
}

func (r *InstanceRaw) put(buf []byte) {
	for k, f := range r.Model {
		binary.LittleEndian.PutUint32(buf[4*k:], math.Float32bits(f))
	}
	for k, f := range r.Color {
		binary.LittleEndian.PutUint32(buf[64+4*k:], math.Float32bits(f))
	}
}

// UnmarshalInstanceRaw decodes one record written by Marshal.
func UnmarshalInstanceRaw(buf []byte) (InstanceRaw, bool) {
	var r InstanceRaw
	if len(buf) < InstanceRawSize {
		return r, false
	}
	for k := range r.Model {
		r.Model[k] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*k:]))
	}
	for k := range r.Color {
		r.Color[k] = math.Float32frombits(binary.LittleEndian.Uint32(buf[64+4*k:]))
	}
	return r, true
}

// Translation returns the position encoded in the model matrix.
func (r InstanceRaw) Translation() [3]float32 {
	return [3]float32{r.Model[12], r.Model[13], r.Model[14]}
}

// MarshalInstances packs instances back to back in one buffer.
func MarshalInstances(instances []Instance) []byte {
	buf := make([]byte, len(instances)*InstanceRawSize)
	for k, inst := range instances {
		raw := inst.Raw()
		raw.put(buf[k*InstanceRawSize:])
	}
	return buf
}

// UnmarshalInstances decodes a buffer produced by MarshalInstances. Trailing
// bytes that do not form a whole record are ignored.
func UnmarshalInstances(buf []byte) []InstanceRaw {
	out := make([]InstanceRaw, 0, len(buf)/InstanceRawSize)
	for off := 0; off+InstanceRawSize <= len(buf); off += InstanceRawSize {
		r, _ := UnmarshalInstanceRaw(buf[off:])
		out = append(out, r)
	}
	return out
}
