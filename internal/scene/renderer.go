package scene

import "fmt"

// Renderer is the drawing side of the scene boundary. UploadInstances
// replaces the instance buffer held for key; Draw issues one draw of the
// object using the most recent upload.
type Renderer interface {
	UploadInstances(key Key, data []byte) error
	Draw(call DrawCall) error
}

// Render uploads every object's instances and then draws it, in key order.
func (s *Scene) Render(r Renderer) error {
	for _, key := range s.Objects() {
		obj := s.objects[key]
		if err := r.UploadInstances(key, obj.InstanceBytes()); err != nil {
			return fmt.Errorf("scene: upload object %d: %w", key, err)
		}
		if err := r.Draw(drawCall(key, obj)); err != nil {
			return fmt.Errorf("scene: draw object %d: %w", key, err)
		}
	}
	return nil
}

func drawCall(key Key, obj *Object) DrawCall {
	call := DrawCall{
		Key:       key,
		Kind:      obj.Mesh.DrawKind(),
		Instances: uint32(len(obj.Instances)),
		Vertices:  obj.Mesh.VertexBytes(),
	}
	if _, ok := call.Kind.(Indexed); ok {
		call.Indices = obj.Mesh.Indices
	}
	return call
}

// Describe renders a draw kind for logs and frame dumps.
func Describe(kind DrawKind) string {
	switch k := kind.(type) {
	case Indexed:
		return fmt.Sprintf("indexed(%d indices, %d vertices)", k.IndexCount, k.VertexCount)
	case NonIndexed:
		return fmt.Sprintf("non-indexed(%d vertices)", k.VertexCount)
	default:
		return "unknown"
	}
}
