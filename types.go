package ofbx

// Property type tags as stored in the binary stream.
const (
	TypeInt16        byte = 'Y'
	TypeInt32        byte = 'I'
	TypeInt64        byte = 'L'
	TypeFloat32      byte = 'F'
	TypeFloat64      byte = 'D'
	TypeString       byte = 'S'
	TypeArrayInt32   byte = 'i'
	TypeArrayInt64   byte = 'l'
	TypeArrayFloat32 byte = 'f'
	TypeArrayFloat64 byte = 'd'
)

// Array payload encodings, second word of the 12-byte array header.
const (
	EncodingRaw     uint32 = 0
	EncodingDeflate uint32 = 1
)

const arrayHeaderSize = 12

// VertexDataMapping tells how many attribute entries a layer carries
// relative to the polygon stream.
type VertexDataMapping int

const (
	ByPolygonVertex VertexDataMapping = iota
	ByPolygon
	ByVertex
)

// Layer strings recognized inside geometry elements.
const (
	MappingByPolygonVertex = "ByPolygonVertex"
	MappingByPolygon       = "ByPolygon"
	MappingByVertice       = "ByVertice"
	MappingByVertex        = "ByVertex"
	MappingAllSame         = "AllSame"

	ReferenceDirect        = "Direct"
	ReferenceIndexToDirect = "IndexToDirect"
)
