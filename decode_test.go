package ofbx

import (
	"errors"
	"testing"
)

func TestInt32ArrayRoundTrip(t *testing.T) {
	values := []int32{0, 1, -3, 2, 2147483647, -2147483648}
	for _, compressed := range []bool{false, true} {
		name := "raw"
		if compressed {
			name = "compressed"
		}
		t.Run(name, func(t *testing.T) {
			got, err := parseInt32Array(int32Property(values, compressed))
			if err != nil {
				t.Fatalf("parseInt32Array failed: %v", err)
			}
			if len(got) != len(values) {
				t.Fatalf("got %d values, want %d", len(got), len(values))
			}
			for i := range values {
				if got[i] != values[i] {
					t.Errorf("value %d: got %d, want %d", i, got[i], values[i])
				}
			}
		})
	}
}

func TestInt64ArrayRoundTrip(t *testing.T) {
	values := []int64{1, -1, 1 << 40, -(1 << 40)}
	for _, compressed := range []bool{false, true} {
		got, err := parseInt64Array(int64Property(values, compressed))
		if err != nil {
			t.Fatalf("parseInt64Array(compressed=%v) failed: %v", compressed, err)
		}
		for i := range values {
			if got[i] != values[i] {
				t.Errorf("compressed=%v value %d: got %d, want %d", compressed, i, got[i], values[i])
			}
		}
	}
}

func TestDoubleArrayRoundTrip(t *testing.T) {
	values := []float64{0, 1.5, -2.25, 1e300, -1e-300}
	for _, compressed := range []bool{false, true} {
		got, err := parseDoubleArray(float64Property(values, compressed))
		if err != nil {
			t.Fatalf("parseDoubleArray(compressed=%v) failed: %v", compressed, err)
		}
		for i := range values {
			if got[i] != values[i] {
				t.Errorf("compressed=%v value %d: got %v, want %v", compressed, i, got[i], values[i])
			}
		}
	}
}

func TestDoubleArrayWidensFloat32(t *testing.T) {
	values := []float32{0.5, -1.25, 3}
	got, err := parseDoubleArray(float32Property(values, true))
	if err != nil {
		t.Fatalf("parseDoubleArray failed: %v", err)
	}
	if len(got) != len(values) {
		t.Fatalf("got %d values, want %d", len(got), len(values))
	}
	for i := range values {
		if got[i] != float64(values[i]) {
			t.Errorf("value %d: got %v, want %v", i, got[i], float64(values[i]))
		}
	}
}

func TestVecReadersGroupWholeElements(t *testing.T) {
	flat := []float64{1, 2, 3, 4, 5, 6, 7}

	v2, err := parseVec2Array(float64Property(flat, false))
	if err != nil {
		t.Fatalf("parseVec2Array failed: %v", err)
	}
	if len(v2) != 3 || v2[2][0] != 5 || v2[2][1] != 6 {
		t.Errorf("vec2 grouping wrong: %v", v2)
	}

	v3, err := parseVec3Array(float64Property(flat, false))
	if err != nil {
		t.Fatalf("parseVec3Array failed: %v", err)
	}
	if len(v3) != 2 || v3[1][0] != 4 || v3[1][2] != 6 {
		t.Errorf("vec3 grouping wrong: %v", v3)
	}

	v4, err := parseVec4Array(float64Property(flat, false))
	if err != nil {
		t.Fatalf("parseVec4Array failed: %v", err)
	}
	if len(v4) != 1 || v4[0][3] != 4 {
		t.Errorf("vec4 grouping wrong: %v", v4)
	}
}

func TestDecodeCapacitySafety(t *testing.T) {
	t.Run("raw", func(t *testing.T) {
		p := int32Property([]int32{1, 2, 3, 4}, false)
		dst := make([]byte, 8) // room for two elements only
		if err := decodeArrayRaw(p, dst); !errors.Is(err, ErrMalformedArray) {
			t.Errorf("got %v, want ErrMalformedArray", err)
		}
	})
	t.Run("compressed", func(t *testing.T) {
		p := int32Property([]int32{1, 2, 3, 4}, true)
		dst := make([]byte, 8)
		if err := decodeArrayRaw(p, dst); !errors.Is(err, ErrMalformedArray) {
			t.Errorf("got %v, want ErrMalformedArray", err)
		}
	})
}

func TestDecodeRawPayloadPastViewEnd(t *testing.T) {
	// header says 16 bytes follow, view carries only 8
	p := int32Property([]int32{1, 2, 3, 4}, false)
	truncated := NewProperty(TypeArrayInt32, p.value[:arrayHeaderSize+8])
	if _, err := parseInt32Array(truncated); !errors.Is(err, ErrMalformedArray) {
		t.Errorf("got %v, want ErrMalformedArray", err)
	}
}

func TestDecodeTruncatedHeader(t *testing.T) {
	p := NewProperty(TypeArrayInt32, []byte{1, 2, 3})
	if err := decodeArrayRaw(p, make([]byte, 16)); !errors.Is(err, ErrMalformedArray) {
		t.Errorf("got %v, want ErrMalformedArray", err)
	}
}

func TestDecodeUnknownEncoding(t *testing.T) {
	p := int32Property([]int32{1, 2}, false)
	p.value[4] = 7 // stomp the encoding word
	if _, err := parseInt32Array(p); !errors.Is(err, ErrMalformedArray) {
		t.Errorf("got %v, want ErrMalformedArray", err)
	}
}

func TestDecodeCompressedSizeMismatch(t *testing.T) {
	t.Run("shorter than declared", func(t *testing.T) {
		// payload inflates to 8 bytes but the header promises 4 elements
		p := int32Property([]int32{1, 2}, true)
		p.value[0] = 4
		if err := decodeArrayRaw(p, make([]byte, 16)); !errors.Is(err, ErrDecompression) {
			t.Errorf("got %v, want ErrDecompression", err)
		}
	})
	t.Run("longer than declared", func(t *testing.T) {
		p := int32Property([]int32{1, 2, 3, 4}, true)
		p.value[0] = 2
		if err := decodeArrayRaw(p, make([]byte, 8)); !errors.Is(err, ErrDecompression) {
			t.Errorf("got %v, want ErrDecompression", err)
		}
	})
}

func TestTypedReadersRejectWrongType(t *testing.T) {
	intProp := int32Property([]int32{1}, false)
	floatProp := float64Property([]float64{1}, false)

	if _, err := parseInt32Array(floatProp); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("parseInt32Array on float property: got %v, want ErrTypeMismatch", err)
	}
	if _, err := parseInt64Array(intProp); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("parseInt64Array on int32 property: got %v, want ErrTypeMismatch", err)
	}
	if _, err := parseDoubleArray(intProp); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("parseDoubleArray on int32 property: got %v, want ErrTypeMismatch", err)
	}
	if err := decodeArrayRaw(stringProperty("abc"), make([]byte, 8)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("decodeArrayRaw on string property: got %v, want ErrTypeMismatch", err)
	}
}
