package ofbx

import "fmt"

// parseVertexData resolves one attribute layer: its values, its index array
// when the layer references values indirectly, and its mapping convention.
// decode is the typed reader for the layer's value property (parseVec2Array
// for UV layers, parseVec3Array for normals and tangents, parseVec4Array
// for colors). The index array is returned as stored; stretching it to
// polygon-vertex length is the expander's job.
func parseVertexData[T any](element *Element, name, indexName string, decode func(*Property) ([]T, error)) ([]T, []int32, VertexDataMapping, error) {
	mapping := ByPolygonVertex

	dataElement := element.FindChild(name)
	if dataElement == nil || dataElement.FirstProperty() == nil {
		return nil, nil, mapping, fmt.Errorf("%w: %s has no %s data", ErrMissingRequiredNode, element.ID, name)
	}

	if m := element.FindChild("MappingInformationType"); m != nil && m.FirstProperty() != nil {
		switch s := m.FirstProperty().String(); s {
		case MappingByPolygonVertex:
			mapping = ByPolygonVertex
		case MappingByPolygon:
			mapping = ByPolygon
		case MappingByVertice, MappingByVertex:
			mapping = ByVertex
		default:
			return nil, nil, mapping, fmt.Errorf("%w: %q in %s", ErrUnsupportedMapping, s, element.ID)
		}
	}

	var indices []int32
	if r := element.FindChild("ReferenceInformationType"); r != nil && r.FirstProperty() != nil {
		switch s := r.FirstProperty().String(); s {
		case ReferenceIndexToDirect:
			if ie := element.FindChild(indexName); ie != nil && ie.FirstProperty() != nil {
				var err error
				if indices, err = parseInt32Array(ie.FirstProperty()); err != nil {
					return nil, nil, mapping, fmt.Errorf("decode %s: %w", indexName, err)
				}
			}
		case ReferenceDirect:
		default:
			return nil, nil, mapping, fmt.Errorf("%w: %q in %s", ErrUnsupportedReference, s, element.ID)
		}
	}

	values, err := decode(dataElement.FirstProperty())
	if err != nil {
		return nil, nil, mapping, fmt.Errorf("decode %s: %w", name, err)
	}
	return values, indices, mapping, nil
}
