package ofbx

// triangulate converts the signed polygon-vertex stream into a triangle-fan
// index stream. The last index of each polygon arrives bitwise-negated
// (-idx-1) as the end-of-polygon sentinel. It returns the emitted triangle
// indices, a parallel slice mapping each emitted index back to the
// polygon-vertex occurrence it came from, and a sign-corrected copy of the
// stream. The input is left untouched so its sentinels stay available for
// the per-polygon material walk.
func triangulate(raw []int32) (indices, toOld, corrected []int32) {
	corrected = make([]int32, len(raw))
	indices = make([]int32, 0, len(raw))
	toOld = make([]int32, 0, len(raw))

	inPolygon := 0
	for i, stored := range raw {
		idx := stored
		if idx < 0 {
			idx = -idx - 1
		}
		corrected[i] = idx
		if inPolygon <= 2 {
			indices = append(indices, idx)
			toOld = append(toOld, int32(i))
		} else {
			first := i - inPolygon
			indices = append(indices, corrected[first], corrected[i-1], idx)
			toOld = append(toOld, int32(first), int32(i-1), int32(i))
		}
		inPolygon++
		if stored < 0 {
			inPolygon = 0
		}
	}
	return indices, toOld, corrected
}

// triCountFromPoly returns how many triangles the fan makes of the polygon
// starting at *cursor and advances the cursor past that polygon. raw must
// still carry its end-of-polygon sentinels. A polygon of fewer than three
// vertices makes no triangles.
func triCountFromPoly(raw []int32, cursor *int) int {
	vertices := 0
	for *cursor < len(raw) {
		stored := raw[*cursor]
		*cursor++
		vertices++
		if stored < 0 {
			break
		}
	}
	if vertices < 3 {
		return 0
	}
	return vertices - 2
}
