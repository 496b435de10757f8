package ofbx

import "fmt"

// ObjectKind is the closed set of scene object types.
type ObjectKind int

const (
	KindRoot ObjectKind = iota
	KindGeometry
	KindMesh
	KindMaterial
	KindSkin
	KindAnimationStack
)

// Object is implemented by every scene object kind.
type Object interface {
	Kind() ObjectKind
}

// Root marks the top of the object graph.
type Root struct{}

func (Root) Kind() ObjectKind { return KindRoot }

// Skin is the deformer a geometry may reference. Decoding the deformer
// itself lives with the scene layer; the geometry core only carries the
// link through.
type Skin struct {
	Indices []int32
	Weights []float64
}

func (*Skin) Kind() ObjectKind { return KindSkin }

// Scene holds the element tree of one parse and the geometries extracted
// from it. The tree is read-only for the scene's whole lifetime, so
// independent geometries may be extracted concurrently; appending them to
// one Scene is the caller's to serialize.
type Scene struct {
	RootElement *Element

	geometries []*Geometry
}

func NewScene(root *Element) *Scene {
	return &Scene{RootElement: root}
}

// ExtractGeometry runs the renderable-geometry extraction for one element
// and keeps the result on the scene. A failed element leaves the scene
// untouched; the caller decides whether one failed mesh aborts the import.
func (s *Scene) ExtractGeometry(element *Element) (*Geometry, error) {
	geom, err := ParseGeometryForRendering(element)
	if err != nil {
		return nil, fmt.Errorf("geometry %s: %w", element.ID, err)
	}
	s.geometries = append(s.geometries, geom)
	return geom, nil
}

func (s *Scene) GeometryCount() int {
	return len(s.geometries)
}

func (s *Scene) GetGeometry(idx int) *Geometry {
	if idx < 0 || idx >= len(s.geometries) {
		return nil
	}
	return s.geometries[idx]
}
