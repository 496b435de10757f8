package ofbx

// Attribute bits excluded from a vertex key. Each expansion pass excludes
// the attribute it is currently splitting, so the split is driven by the
// other attributes that occurrence resolves to.
const (
	excludePosition = 1 << iota
	excludeNormal
	excludeTangent
	excludeColor
	excludeUV
)

// vertexKey is the tuple of source indices one polygon-vertex occurrence
// resolves to. -1 marks an attribute that is absent or excluded. Two
// occurrences may share a final vertex slot only when their keys are equal.
type vertexKey struct {
	pos, nrm, tan, clr, uv int32
}

// An index array shorter than the occurrence stream can come straight off
// a malformed file; occurrences past its end read as absent rather than
// failing the extraction.
func (g *Geometry) vertexKeyAt(i int, mask int) vertexKey {
	pick := func(indices []int32, bit int) int32 {
		if mask&bit != 0 || i >= len(indices) {
			return -1
		}
		return indices[i]
	}
	return vertexKey{
		pos: pick(g.vertexIndices, excludePosition),
		nrm: pick(g.normalIndices, excludeNormal),
		tan: pick(g.tangentIndices, excludeTangent),
		clr: pick(g.colorIndices, excludeColor),
		uv:  pick(g.uvIndices, excludeUV),
	}
}

// generateIndices gives an attribute layer an index array spanning every
// polygon-vertex occurrence when the layer did not carry one. ByPolygonVertex
// entries are the running occurrence position itself; ByVertex entries are
// copied from the sign-corrected position index array. An array the layer
// did carry is trusted to already be occurrence-length.
func generateIndices(indices []int32, mapping VertexDataMapping, vertexIndices []int32) []int32 {
	if len(indices) != 0 {
		return indices
	}
	out := make([]int32, len(vertexIndices))
	switch mapping {
	case ByVertex:
		copy(out, vertexIndices)
	default:
		// ByPolygon never reaches this stage; fall back to the identity
		for i := range out {
			out[i] = int32(i)
		}
	}
	return out
}

// expand walks every polygon-vertex occurrence and splits a shared slot of
// data whenever a later occurrence disagrees with the key on file for that
// slot: the diverging occurrence gets a fresh slot holding a copy of the
// value, and its entry in indices is rewritten to point there. data and
// indices are the attribute being expanded and its occurrence-length index
// array. The index rewrites feed the key lookups of later passes, so the
// passes for one geometry must run sequentially.
func expand[T any](data []T, indices []int32, g *Geometry, mask int) []T {
	if len(data) == 0 || len(indices) == 0 {
		return data
	}
	seen := make(map[int32]vertexKey, len(indices))
	seen[indices[0]] = g.vertexKeyAt(0, mask)

	for i := 1; i < len(indices); i++ {
		idx := indices[i]
		if int(idx) < 0 || int(idx) >= len(data) {
			continue // inconsistent input shape, leave the occurrence alone
		}
		key := g.vertexKeyAt(i, mask)
		prev, ok := seen[idx]
		if !ok {
			seen[idx] = key
		} else if prev != key {
			newIdx := int32(len(data))
			data = append(data, data[idx])
			indices[i] = newIdx
			seen[newIdx] = key
		}
	}
	return data
}

// remapForRendering re-lays an expanded attribute into position-index order:
// the returned slice has exactly slots entries and entry i is the value the
// i-th final position slot resolves to through the attribute's own index
// array.
func remapForRendering[T any](data []T, indices, vertexIndices []int32, slots int) []T {
	if len(data) == 0 {
		return data
	}
	out := make([]T, slots)
	copy(out, data)
	for i := range indices {
		if i >= len(vertexIndices) {
			break
		}
		dst := vertexIndices[i]
		src := indices[i]
		if int(dst) >= slots || int(src) < 0 || int(src) >= len(data) {
			continue
		}
		out[dst] = data[src]
	}
	return out
}
