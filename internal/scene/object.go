package scene

// Key identifies an Object within one Scene. The zero Key is never issued.
type Key uint64

// DrawKind is either Indexed or NonIndexed.
type DrawKind interface {
	isDrawKind()
}

type NonIndexed struct {
	VertexCount uint32
}

type Indexed struct {
	IndexCount  uint32
	VertexCount uint32
}

func (NonIndexed) isDrawKind() {}
func (Indexed) isDrawKind()    {}

// Object is a mesh drawn once per instance.
type Object struct {
	Mesh      Mesh
	Instances []Instance
}

func NewObject(mesh Mesh, instances []Instance) *Object {
	return &Object{Mesh: mesh, Instances: instances}
}

func (o *Object) InstanceBytes() []byte {
	return MarshalInstances(o.Instances)
}

// DrawCall is everything a renderer needs to draw one object after its
// instances have been uploaded.
type DrawCall struct {
	Key       Key
	Kind      DrawKind
	Instances uint32
	Vertices  []byte
	Indices   []uint16
}
