package ofbx

import "testing"

func TestFindChild(t *testing.T) {
	root := &Element{
		ID: "Geometry",
		Children: []*Element{
			{ID: "Vertices"},
			{ID: "LayerElementNormal"},
			{ID: "LayerElementNormal", Properties: []*Property{stringProperty("second")}},
		},
	}

	if got := root.FindChild("LayerElementNormal"); got == nil || len(got.Properties) != 0 {
		t.Error("FindChild did not return the first matching child")
	}
	if root.FindChild("layerelementnormal") != nil {
		t.Error("FindChild must match case-sensitively")
	}
	if root.FindChild("Missing") != nil {
		t.Error("FindChild returned a node for an absent id")
	}
}

func TestPropertyAccess(t *testing.T) {
	e := &Element{ID: "Node", Properties: []*Property{
		stringProperty("first"),
		stringProperty("second"),
	}}

	if e.FirstProperty().String() != "first" {
		t.Errorf("FirstProperty: got %q", e.FirstProperty().String())
	}
	if e.GetProperty(1).String() != "second" {
		t.Errorf("GetProperty(1): got %q", e.GetProperty(1).String())
	}
	if e.GetProperty(2) != nil || e.GetProperty(-1) != nil {
		t.Error("GetProperty out of range must return nil")
	}
	if (&Element{}).FirstProperty() != nil {
		t.Error("FirstProperty on empty element must return nil")
	}
}

func TestScalarAccessors(t *testing.T) {
	if got := NewProperty(TypeInt16, littleBytes(int16(-7))).Int16(); got != -7 {
		t.Errorf("Int16: got %d", got)
	}
	if got := NewProperty(TypeInt32, littleBytes(int32(123456))).Int32(); got != 123456 {
		t.Errorf("Int32: got %d", got)
	}
	if got := NewProperty(TypeInt64, littleBytes(int64(-1<<40))).Int64(); got != -1<<40 {
		t.Errorf("Int64: got %d", got)
	}
	if got := NewProperty(TypeFloat32, littleBytes(float32(1.5))).Float32(); got != 1.5 {
		t.Errorf("Float32: got %v", got)
	}
	if got := NewProperty(TypeFloat64, littleBytes(2.25)).Float64(); got != 2.25 {
		t.Errorf("Float64: got %v", got)
	}

	// wrong-type access yields the zero value, never a reinterpretation
	p := stringProperty("ByPolygon")
	if p.Int32() != 0 || p.Float64() != 0 {
		t.Error("scalar accessors on a string property must return 0")
	}
	if int32Property([]int32{1}, false).String() != "" {
		t.Error("String on an array property must return empty")
	}
}

func TestArrayCount(t *testing.T) {
	p := int32Property([]int32{1, 2, 3}, false)
	if !p.IsArray() {
		t.Error("int32 array property not recognized as array")
	}
	if p.ArrayCount() != 3 {
		t.Errorf("ArrayCount: got %d, want 3", p.ArrayCount())
	}
	if stringProperty("x").ArrayCount() != 0 {
		t.Error("ArrayCount on non-array property must be 0")
	}
}
