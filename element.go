package ofbx

import (
	"encoding/binary"
	"math"
)

// Property is one tagged value inside an Element. Its payload is a view
// into the source file buffer and is never copied or mutated here; the
// tokenizer that built the tree owns the backing array.
type Property struct {
	Type  byte
	value []byte
}

// NewProperty wraps a payload view produced by the tokenizer.
func NewProperty(typ byte, view []byte) *Property {
	return &Property{Type: typ, value: view}
}

// IsArray reports whether the property holds a count-prefixed array payload.
func (p *Property) IsArray() bool {
	switch p.Type {
	case TypeArrayInt32, TypeArrayInt64, TypeArrayFloat32, TypeArrayFloat64:
		return true
	}
	return false
}

// ArrayCount returns the element count declared in an array property's
// header, 0 for non-array or truncated payloads.
func (p *Property) ArrayCount() int {
	if !p.IsArray() || len(p.value) < 4 {
		return 0
	}
	return int(binary.LittleEndian.Uint32(p.value))
}

func (p *Property) Int16() int16 {
	if p.Type != TypeInt16 || len(p.value) < 2 {
		return 0
	}
	return int16(binary.LittleEndian.Uint16(p.value))
}

func (p *Property) Int32() int32 {
	if p.Type != TypeInt32 || len(p.value) < 4 {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(p.value))
}

func (p *Property) Int64() int64 {
	if p.Type != TypeInt64 || len(p.value) < 8 {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(p.value))
}

func (p *Property) Float32() float32 {
	if p.Type != TypeFloat32 || len(p.value) < 4 {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(p.value))
}

func (p *Property) Float64() float64 {
	if p.Type != TypeFloat64 || len(p.value) < 8 {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(p.value))
}

// String returns the payload of a string property, "" for any other type.
func (p *Property) String() string {
	if p.Type != TypeString {
		return ""
	}
	return string(p.value)
}

// Element is one node of the parsed tree. Children and properties keep
// stream order; the whole tree is read-only during extraction.
type Element struct {
	ID         string
	Properties []*Property
	Children   []*Element
}

// FindChild returns the first child whose ID matches exactly, or nil.
func (e *Element) FindChild(id string) *Element {
	for _, c := range e.Children {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// FirstProperty returns the element's first property, or nil.
func (e *Element) FirstProperty() *Property {
	if len(e.Properties) == 0 {
		return nil
	}
	return e.Properties[0]
}

// GetProperty returns the idx-th property, or nil when out of range.
func (e *Element) GetProperty(idx int) *Property {
	if idx < 0 || idx >= len(e.Properties) {
		return nil
	}
	return e.Properties[idx]
}
