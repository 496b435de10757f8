package ofbx

import (
	"fmt"
	"math"

	vec2d "github.com/flywave/go3d/float64/vec2"
	vec3d "github.com/flywave/go3d/float64/vec3"
	vec4d "github.com/flywave/go3d/float64/vec4"
)

// Geometry is the renderable form of one geometry element. After extraction
// every present attribute slice has exactly len(Vertices) entries and every
// triangle index addresses that shared vertex space. Materials, when
// present, carries one material id per triangle. The value is immutable
// once returned.
type Geometry struct {
	Vertices []vec3d.T
	Normals  []vec3d.T
	UVs      []vec2d.T
	Colors   []vec4d.T
	Tangents []vec3d.T

	Triangles []int32
	Materials []int32
	Skin      *Skin

	// per polygon-vertex occurrence index arrays, rewritten during expansion
	vertexIndices  []int32
	normalIndices  []int32
	tangentIndices []int32
	colorIndices   []int32
	uvIndices      []int32
}

func (g *Geometry) Kind() ObjectKind { return KindGeometry }

func (g *Geometry) TriangleCount() int { return len(g.Triangles) / 3 }

// BoundingBox returns the axis-aligned bounds of the final vertex set.
func (g *Geometry) BoundingBox() vec3d.Box {
	if len(g.Vertices) == 0 {
		return vec3d.Box{}
	}
	min := vec3d.T{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}
	max := vec3d.T{-math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64}
	for i := range g.Vertices {
		for c := 0; c < 3; c++ {
			min[c] = math.Min(min[c], g.Vertices[i][c])
			max[c] = math.Max(max[c], g.Vertices[i][c])
		}
	}
	return vec3d.Box{Min: min, Max: max}
}

// ParseGeometryForRendering turns one geometry element into a Geometry.
// The first failure aborts the whole extraction; no partial geometry is
// returned. Sibling elements are unaffected, so the caller may keep going
// after a failed mesh.
func ParseGeometryForRendering(element *Element) (*Geometry, error) {
	verticesElement := element.FindChild("Vertices")
	if verticesElement == nil || verticesElement.FirstProperty() == nil {
		return nil, fmt.Errorf("%w: Vertices", ErrMissingRequiredNode)
	}
	polysElement := element.FindChild("PolygonVertexIndex")
	if polysElement == nil || polysElement.FirstProperty() == nil {
		return nil, fmt.Errorf("%w: PolygonVertexIndex", ErrMissingRequiredNode)
	}

	geom := &Geometry{}
	var err error
	if geom.Vertices, err = parseVec3Array(verticesElement.FirstProperty()); err != nil {
		return nil, fmt.Errorf("decode Vertices: %w", err)
	}
	rawIndices, err := parseInt32Array(polysElement.FirstProperty())
	if err != nil {
		return nil, fmt.Errorf("decode PolygonVertexIndex: %w", err)
	}

	var toOld []int32
	geom.Triangles, toOld, geom.vertexIndices = triangulate(rawIndices)

	if layer := element.FindChild("LayerElementMaterial"); layer != nil {
		if err := geom.parseMaterialLayer(layer, rawIndices); err != nil {
			return nil, err
		}
	}

	if layer := element.FindChild("LayerElementUV"); layer != nil {
		var mapping VertexDataMapping
		geom.UVs, geom.uvIndices, mapping, err = parseVertexData(layer, "UV", "UVIndex", parseVec2Array)
		if err != nil {
			return nil, fmt.Errorf("LayerElementUV: %w", err)
		}
		geom.uvIndices = generateIndices(geom.uvIndices, mapping, geom.vertexIndices)
	}

	tangentLayer := element.FindChild("LayerElementTangents")
	if tangentLayer == nil {
		tangentLayer = element.FindChild("LayerElementTangent")
	}
	if tangentLayer != nil {
		// node naming varies between plural and singular exports
		name, indexName := "Tangents", "TangentsIndex"
		if tangentLayer.FindChild(name) == nil {
			name, indexName = "Tangent", "TangentIndex"
		}
		var mapping VertexDataMapping
		geom.Tangents, geom.tangentIndices, mapping, err = parseVertexData(tangentLayer, name, indexName, parseVec3Array)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tangentLayer.ID, err)
		}
		geom.tangentIndices = generateIndices(geom.tangentIndices, mapping, geom.vertexIndices)
	}

	if layer := element.FindChild("LayerElementColor"); layer != nil {
		var mapping VertexDataMapping
		geom.Colors, geom.colorIndices, mapping, err = parseVertexData(layer, "Colors", "ColorIndex", parseVec4Array)
		if err != nil {
			return nil, fmt.Errorf("LayerElementColor: %w", err)
		}
		geom.colorIndices = generateIndices(geom.colorIndices, mapping, geom.vertexIndices)
	}

	if layer := element.FindChild("LayerElementNormal"); layer != nil {
		var mapping VertexDataMapping
		geom.Normals, geom.normalIndices, mapping, err = parseVertexData(layer, "Normals", "NormalsIndex", parseVec3Array)
		if err != nil {
			return nil, fmt.Errorf("LayerElementNormal: %w", err)
		}
		geom.normalIndices = generateIndices(geom.normalIndices, mapping, geom.vertexIndices)
	}

	// Split shared positions whose attribute tuples diverge, then lay every
	// attribute out in the final position-index order. Positions go first:
	// the later passes key on the rewritten position indices.
	geom.Vertices = expand(geom.Vertices, geom.vertexIndices, geom, excludePosition)

	if len(geom.Normals) > 0 {
		geom.Normals = expand(geom.Normals, geom.normalIndices, geom, excludeNormal)
		geom.Normals = remapForRendering(geom.Normals, geom.normalIndices, geom.vertexIndices, len(geom.Vertices))
	}
	if len(geom.Tangents) > 0 {
		geom.Tangents = expand(geom.Tangents, geom.tangentIndices, geom, excludeTangent)
		geom.Tangents = remapForRendering(geom.Tangents, geom.tangentIndices, geom.vertexIndices, len(geom.Vertices))
	}
	if len(geom.Colors) > 0 {
		geom.Colors = expand(geom.Colors, geom.colorIndices, geom, excludeColor)
		geom.Colors = remapForRendering(geom.Colors, geom.colorIndices, geom.vertexIndices, len(geom.Vertices))
	}
	if len(geom.UVs) > 0 {
		geom.UVs = expand(geom.UVs, geom.uvIndices, geom, excludeUV)
		geom.UVs = remapForRendering(geom.UVs, geom.uvIndices, geom.vertexIndices, len(geom.Vertices))
	}

	// translate each emitted triangle index from "which occurrence" to
	// "which final shared-vertex slot"
	for i, occurrence := range toOld {
		geom.Triangles[i] = geom.vertexIndices[occurrence]
	}

	return geom, nil
}

// parseMaterialLayer fills the per-triangle material list. ByPolygon +
// IndexToDirect broadcasts one id per polygon across every triangle the fan
// made of it; a polygon beyond the end of the decoded id array gets
// material 0. AllSame leaves Materials nil, which means every triangle uses
// material 0. rawIndices is the polygon-vertex stream with its sentinels
// still in place.
func (g *Geometry) parseMaterialLayer(layer *Element, rawIndices []int32) error {
	mappingElement := layer.FindChild("MappingInformationType")
	referenceElement := layer.FindChild("ReferenceInformationType")
	if mappingElement == nil || mappingElement.FirstProperty() == nil ||
		referenceElement == nil || referenceElement.FirstProperty() == nil {
		return fmt.Errorf("%w: LayerElementMaterial mapping info", ErrMissingRequiredNode)
	}
	mapping := mappingElement.FirstProperty().String()
	reference := referenceElement.FirstProperty().String()

	if mapping == MappingAllSame {
		return nil
	}
	if mapping != MappingByPolygon || reference != ReferenceIndexToDirect {
		return fmt.Errorf("%w: material layer %s/%s", ErrUnsupportedMapping, mapping, reference)
	}

	materialsElement := layer.FindChild("Materials")
	if materialsElement == nil || materialsElement.FirstProperty() == nil {
		return fmt.Errorf("%w: Materials", ErrMissingRequiredNode)
	}
	perPolygon, err := parseInt32Array(materialsElement.FirstProperty())
	if err != nil {
		return fmt.Errorf("decode Materials: %w", err)
	}

	cursor := 0
	for polygon := 0; cursor < len(rawIndices); polygon++ {
		triCount := triCountFromPoly(rawIndices, &cursor)
		id := int32(0)
		if polygon < len(perPolygon) {
			id = perPolygon[polygon]
		}
		for i := 0; i < triCount; i++ {
			g.Materials = append(g.Materials, id)
		}
	}
	return nil
}
