package ofbx

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/qmuntal/gltf"
)

const glTFVersion = "2.0"

// CreateDoc returns an empty single-scene document with the shared buffer
// the geometry writers append to.
func CreateDoc() *gltf.Document {
	doc := &gltf.Document{}
	doc.Asset.Version = glTFVersion
	sceneIndex := uint32(0)
	doc.Scene = &sceneIndex
	doc.Scenes = append(doc.Scenes, &gltf.Scene{})
	doc.Buffers = append(doc.Buffers, &gltf.Buffer{})
	return doc
}

// ExportGltf converts extracted geometries into one glTF 2.0 document.
func ExportGltf(geoms []*Geometry) (*gltf.Document, error) {
	doc := CreateDoc()
	for _, g := range geoms {
		if err := BuildGltf(doc, g); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// BuildGltf appends one geometry to doc as a mesh node with one primitive
// per material id. Positions, normals, UVs and colors are written as
// float32; tangents have no lossless glTF slot (VEC4 with handedness) and
// stay behind.
func BuildGltf(doc *gltf.Document, g *Geometry) error {
	buffer := doc.Buffers[0]
	buf := bytes.NewBuffer(nil)
	startLen := buffer.ByteLength

	ids, buckets := materialBuckets(g)

	indicesView := &gltf.BufferView{Buffer: 0, ByteOffset: startLen}
	for _, id := range ids {
		for _, tri := range buckets[id] {
			binary.Write(buf, binary.LittleEndian, [3]uint32{
				uint32(g.Triangles[tri*3]),
				uint32(g.Triangles[tri*3+1]),
				uint32(g.Triangles[tri*3+2]),
			})
		}
	}
	indicesView.ByteLength = uint32(buf.Len())
	bvIndices := uint32(len(doc.BufferViews))
	doc.BufferViews = append(doc.BufferViews, indicesView)

	positionsView := &gltf.BufferView{Buffer: 0, ByteOffset: startLen + uint32(buf.Len())}
	for _, v := range g.Vertices {
		binary.Write(buf, binary.LittleEndian, [3]float32{float32(v[0]), float32(v[1]), float32(v[2])})
	}
	positionsView.ByteLength = startLen + uint32(buf.Len()) - positionsView.ByteOffset
	bvPositions := uint32(len(doc.BufferViews))
	doc.BufferViews = append(doc.BufferViews, positionsView)

	var bvNormals uint32
	if len(g.Normals) > 0 {
		view := &gltf.BufferView{Buffer: 0, ByteOffset: startLen + uint32(buf.Len())}
		for _, v := range g.Normals {
			binary.Write(buf, binary.LittleEndian, [3]float32{float32(v[0]), float32(v[1]), float32(v[2])})
		}
		view.ByteLength = startLen + uint32(buf.Len()) - view.ByteOffset
		bvNormals = uint32(len(doc.BufferViews))
		doc.BufferViews = append(doc.BufferViews, view)
	}

	var bvUVs uint32
	if len(g.UVs) > 0 {
		view := &gltf.BufferView{Buffer: 0, ByteOffset: startLen + uint32(buf.Len())}
		for _, v := range g.UVs {
			binary.Write(buf, binary.LittleEndian, [2]float32{float32(v[0]), float32(v[1])})
		}
		view.ByteLength = startLen + uint32(buf.Len()) - view.ByteOffset
		bvUVs = uint32(len(doc.BufferViews))
		doc.BufferViews = append(doc.BufferViews, view)
	}

	var bvColors uint32
	if len(g.Colors) > 0 {
		view := &gltf.BufferView{Buffer: 0, ByteOffset: startLen + uint32(buf.Len())}
		for _, v := range g.Colors {
			binary.Write(buf, binary.LittleEndian, [4]float32{float32(v[0]), float32(v[1]), float32(v[2]), float32(v[3])})
		}
		view.ByteLength = startLen + uint32(buf.Len()) - view.ByteOffset
		bvColors = uint32(len(doc.BufferViews))
		doc.BufferViews = append(doc.BufferViews, view)
	}

	buffer.ByteLength += uint32(buf.Len())
	buffer.Data = append(buffer.Data, buf.Bytes()...)

	positionAccessor := &gltf.Accessor{
		ComponentType: gltf.ComponentFloat,
		Type:          gltf.AccessorVec3,
		Count:         uint32(len(g.Vertices)),
		BufferView:    &bvPositions,
	}
	box := g.BoundingBox()
	positionAccessor.Min = []float32{float32(box.Min[0]), float32(box.Min[1]), float32(box.Min[2])}
	positionAccessor.Max = []float32{float32(box.Max[0]), float32(box.Max[1]), float32(box.Max[2])}
	accPositions := uint32(len(doc.Accessors))
	doc.Accessors = append(doc.Accessors, positionAccessor)

	attributes := gltf.Attribute{"POSITION": accPositions}
	if len(g.Normals) > 0 {
		acc := uint32(len(doc.Accessors))
		doc.Accessors = append(doc.Accessors, &gltf.Accessor{
			ComponentType: gltf.ComponentFloat,
			Type:          gltf.AccessorVec3,
			Count:         uint32(len(g.Normals)),
			BufferView:    &bvNormals,
		})
		attributes["NORMAL"] = acc
	}
	if len(g.UVs) > 0 {
		acc := uint32(len(doc.Accessors))
		doc.Accessors = append(doc.Accessors, &gltf.Accessor{
			ComponentType: gltf.ComponentFloat,
			Type:          gltf.AccessorVec2,
			Count:         uint32(len(g.UVs)),
			BufferView:    &bvUVs,
		})
		attributes["TEXCOORD_0"] = acc
	}
	if len(g.Colors) > 0 {
		acc := uint32(len(doc.Accessors))
		doc.Accessors = append(doc.Accessors, &gltf.Accessor{
			ComponentType: gltf.ComponentFloat,
			Type:          gltf.AccessorVec4,
			Count:         uint32(len(g.Colors)),
			BufferView:    &bvColors,
		})
		attributes["COLOR_0"] = acc
	}

	mesh := &gltf.Mesh{}
	mtlMap := make(map[int32]uint32)
	var start uint32
	for _, id := range ids {
		accIndices := uint32(len(doc.Accessors))
		doc.Accessors = append(doc.Accessors, &gltf.Accessor{
			ComponentType: gltf.ComponentUint,
			Count:         uint32(len(buckets[id])) * 3,
			ByteOffset:    start * 12,
			BufferView:    &bvIndices,
		})
		start += uint32(len(buckets[id]))

		mtl, ok := mtlMap[id]
		if !ok {
			mtl = appendDefaultMaterial(doc)
			mtlMap[id] = mtl
		}
		index := accIndices
		material := mtl
		mesh.Primitives = append(mesh.Primitives, &gltf.Primitive{
			Indices:    &index,
			Material:   &material,
			Mode:       gltf.PrimitiveTriangles,
			Attributes: attributes,
		})
	}

	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)))
	meshIndex := uint32(len(doc.Meshes))
	doc.Nodes = append(doc.Nodes, &gltf.Node{Mesh: &meshIndex})
	doc.Meshes = append(doc.Meshes, mesh)
	return nil
}

// materialBuckets groups triangle ordinals by material id, ids in first-use
// order. A geometry without a material list is one bucket of material 0.
func materialBuckets(g *Geometry) ([]int32, map[int32][]int) {
	buckets := make(map[int32][]int)
	var ids []int32
	for tri := 0; tri < g.TriangleCount(); tri++ {
		id := int32(0)
		if tri < len(g.Materials) {
			id = g.Materials[tri]
		}
		if _, ok := buckets[id]; !ok {
			ids = append(ids, id)
		}
		buckets[id] = append(buckets[id], tri)
	}
	return ids, buckets
}

func appendDefaultMaterial(doc *gltf.Document) uint32 {
	index := uint32(len(doc.Materials))
	doc.Materials = append(doc.Materials, &gltf.Material{
		DoubleSided:          true,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float32{1, 1, 1, 1}},
	})
	return index
}

type calcSizeWriter struct {
	writer io.Writer
	Size   int
}

func (w *calcSizeWriter) Write(p []byte) (int, error) {
	w.writer.Write(p)
	w.Size += len(p)
	return len(p), nil
}

func (w *calcSizeWriter) Bytes() []byte {
	return w.writer.(*bytes.Buffer).Bytes()
}

func newSizeWriter() calcSizeWriter {
	return calcSizeWriter{writer: bytes.NewBuffer(nil)}
}

func calcPadding(offset, paddingUnit int) int {
	padding := offset % paddingUnit
	if padding != 0 {
		padding = paddingUnit - padding
	}
	return padding
}

// GetGltfBinary encodes doc as GLB, padded to paddingUnit bytes.
func GetGltfBinary(doc *gltf.Document, paddingUnit int) ([]byte, error) {
	w := newSizeWriter()
	enc := gltf.NewEncoder(w.writer)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	padding := calcPadding(w.Size, paddingUnit)
	if padding == 0 {
		return w.Bytes(), nil
	}
	pad := make([]byte, padding)
	for i := range pad {
		pad[i] = 0x20
	}
	w.Write(pad)
	return w.Bytes(), nil
}
