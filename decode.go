package ofbx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	vec2d "github.com/flywave/go3d/float64/vec2"
	vec3d "github.com/flywave/go3d/float64/vec3"
	vec4d "github.com/flywave/go3d/float64/vec4"
	"github.com/klauspost/compress/zlib"
)

func arrayElemSize(typ byte) int {
	switch typ {
	case TypeArrayInt32, TypeArrayFloat32:
		return 4
	case TypeArrayInt64, TypeArrayFloat64:
		return 8
	}
	return 0
}

// decodeArrayRaw fills dst with the element bytes of an array property,
// inflating the payload when the header's encoding word says so. dst caps
// the write: a payload needing more bytes than len(dst) fails, and nothing
// beyond the property's view is ever read.
func decodeArrayRaw(p *Property, dst []byte) error {
	elemSize := arrayElemSize(p.Type)
	if elemSize == 0 {
		return fmt.Errorf("%w: %q is not a numeric array type", ErrTypeMismatch, p.Type)
	}
	if len(p.value) < arrayHeaderSize {
		return fmt.Errorf("%w: array header truncated", ErrMalformedArray)
	}
	count := binary.LittleEndian.Uint32(p.value)
	encoding := binary.LittleEndian.Uint32(p.value[4:])
	length := binary.LittleEndian.Uint32(p.value[8:])
	data := p.value[arrayHeaderSize:]

	switch encoding {
	case EncodingRaw:
		// for raw arrays the length word is the byte count to copy
		if int(length) > len(dst) {
			return fmt.Errorf("%w: raw payload of %d bytes exceeds destination of %d", ErrMalformedArray, length, len(dst))
		}
		if int(length) > len(data) {
			return fmt.Errorf("%w: raw payload of %d bytes runs past property end", ErrMalformedArray, length)
		}
		copy(dst, data[:length])
		return nil
	case EncodingDeflate:
		need := elemSize * int(count)
		if need > len(dst) {
			return fmt.Errorf("%w: %d elements need %d bytes, destination has %d", ErrMalformedArray, count, need, len(dst))
		}
		if int(length) > len(data) {
			return fmt.Errorf("%w: compressed payload of %d bytes runs past property end", ErrMalformedArray, length)
		}
		return inflate(data[:length], dst[:need])
	}
	return fmt.Errorf("%w: unknown encoding %d", ErrMalformedArray, encoding)
}

// inflate decompresses src into dst, which must be filled exactly.
func inflate(src, dst []byte) error {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	defer r.Close()
	if _, err := io.ReadFull(r, dst); err != nil {
		return fmt.Errorf("%w: payload shorter than declared count: %v", ErrDecompression, err)
	}
	var tail [1]byte
	if n, _ := r.Read(tail[:]); n != 0 {
		return fmt.Errorf("%w: payload longer than declared count", ErrDecompression)
	}
	return nil
}

func parseInt32Array(p *Property) ([]int32, error) {
	if p.Type != TypeArrayInt32 {
		return nil, fmt.Errorf("%w: want int32 array, property holds %q", ErrTypeMismatch, p.Type)
	}
	buf := make([]byte, 4*p.ArrayCount())
	if err := decodeArrayRaw(p, buf); err != nil {
		return nil, err
	}
	out := make([]int32, len(buf)/4)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return out, nil
}

func parseInt64Array(p *Property) ([]int64, error) {
	if p.Type != TypeArrayInt64 {
		return nil, fmt.Errorf("%w: want int64 array, property holds %q", ErrTypeMismatch, p.Type)
	}
	buf := make([]byte, 8*p.ArrayCount())
	if err := decodeArrayRaw(p, buf); err != nil {
		return nil, err
	}
	out := make([]int64, len(buf)/8)
	for i := range out {
		out[i] = int64(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return out, nil
}

// parseDoubleArray decodes a float64 array property. float32 storage is
// accepted and widened, so attribute readers always see double precision
// regardless of on-disk precision.
func parseDoubleArray(p *Property) ([]float64, error) {
	switch p.Type {
	case TypeArrayFloat64:
		buf := make([]byte, 8*p.ArrayCount())
		if err := decodeArrayRaw(p, buf); err != nil {
			return nil, err
		}
		out := make([]float64, len(buf)/8)
		for i := range out {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
		}
		return out, nil
	case TypeArrayFloat32:
		buf := make([]byte, 4*p.ArrayCount())
		if err := decodeArrayRaw(p, buf); err != nil {
			return nil, err
		}
		out := make([]float64, len(buf)/4)
		for i := range out {
			out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])))
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: want float array, property holds %q", ErrTypeMismatch, p.Type)
}

// The vector readers group the flat double stream into as many whole
// vectors as fit; a trailing partial vector is dropped.

func parseVec2Array(p *Property) ([]vec2d.T, error) {
	flat, err := parseDoubleArray(p)
	if err != nil {
		return nil, err
	}
	out := make([]vec2d.T, len(flat)/2)
	for i := range out {
		out[i] = vec2d.T{flat[i*2], flat[i*2+1]}
	}
	return out, nil
}

func parseVec3Array(p *Property) ([]vec3d.T, error) {
	flat, err := parseDoubleArray(p)
	if err != nil {
		return nil, err
	}
	out := make([]vec3d.T, len(flat)/3)
	for i := range out {
		out[i] = vec3d.T{flat[i*3], flat[i*3+1], flat[i*3+2]}
	}
	return out, nil
}

func parseVec4Array(p *Property) ([]vec4d.T, error) {
	flat, err := parseDoubleArray(p)
	if err != nil {
		return nil, err
	}
	out := make([]vec4d.T, len(flat)/4)
	for i := range out {
		out[i] = vec4d.T{flat[i*4], flat[i*4+1], flat[i*4+2], flat[i*4+3]}
	}
	return out, nil
}
