package ofbx

import (
	"bytes"
	"encoding/binary"

	"github.com/klauspost/compress/zlib"
)

// buildArrayProperty assembles the count|encoding|length header plus payload
// the way the writer side of the format lays it out.
func buildArrayProperty(typ byte, count int, elemBytes []byte, compressed bool) *Property {
	payload := elemBytes
	encoding := EncodingRaw
	if compressed {
		var zb bytes.Buffer
		zw := zlib.NewWriter(&zb)
		zw.Write(elemBytes)
		zw.Close()
		payload = zb.Bytes()
		encoding = EncodingDeflate
	}
	buf := bytes.NewBuffer(nil)
	binary.Write(buf, binary.LittleEndian, uint32(count))
	binary.Write(buf, binary.LittleEndian, encoding)
	binary.Write(buf, binary.LittleEndian, uint32(len(payload)))
	buf.Write(payload)
	return NewProperty(typ, buf.Bytes())
}

func littleBytes(v interface{}) []byte {
	buf := bytes.NewBuffer(nil)
	binary.Write(buf, binary.LittleEndian, v)
	return buf.Bytes()
}

func int32Property(values []int32, compressed bool) *Property {
	return buildArrayProperty(TypeArrayInt32, len(values), littleBytes(values), compressed)
}

func int64Property(values []int64, compressed bool) *Property {
	return buildArrayProperty(TypeArrayInt64, len(values), littleBytes(values), compressed)
}

func float32Property(values []float32, compressed bool) *Property {
	return buildArrayProperty(TypeArrayFloat32, len(values), littleBytes(values), compressed)
}

func float64Property(values []float64, compressed bool) *Property {
	return buildArrayProperty(TypeArrayFloat64, len(values), littleBytes(values), compressed)
}

func stringProperty(s string) *Property {
	return NewProperty(TypeString, []byte(s))
}

func childWithString(id, value string) *Element {
	return &Element{ID: id, Properties: []*Property{stringProperty(value)}}
}

// layerElement builds an attribute layer element the way the tokenizer
// hands it over. Empty mapping or reference strings leave that child out.
func layerElement(id, mapping, reference, dataName string, data *Property, indexName string, indices []int32) *Element {
	layer := &Element{ID: id}
	layer.Children = append(layer.Children, &Element{ID: dataName, Properties: []*Property{data}})
	if mapping != "" {
		layer.Children = append(layer.Children, childWithString("MappingInformationType", mapping))
	}
	if reference != "" {
		layer.Children = append(layer.Children, childWithString("ReferenceInformationType", reference))
	}
	if indices != nil {
		layer.Children = append(layer.Children, &Element{ID: indexName, Properties: []*Property{int32Property(indices, false)}})
	}
	return layer
}

func geometryElement(positions []float64, polygonIndices []int32, layers ...*Element) *Element {
	e := &Element{ID: "Geometry"}
	e.Children = append(e.Children,
		&Element{ID: "Vertices", Properties: []*Property{float64Property(positions, true)}},
		&Element{ID: "PolygonVertexIndex", Properties: []*Property{int32Property(polygonIndices, false)}},
	)
	e.Children = append(e.Children, layers...)
	return e
}
