package ofbx

import "errors"

// Extraction failures are reported as one of these sentinels wrapped with
// node or layer context. Match with errors.Is.
var (
	ErrMissingRequiredNode  = errors.New("missing required node")
	ErrMalformedArray       = errors.New("malformed array payload")
	ErrUnsupportedMapping   = errors.New("unsupported mapping type")
	ErrUnsupportedReference = errors.New("unsupported reference type")
	ErrDecompression        = errors.New("decompression failed")
	ErrTypeMismatch         = errors.New("property type mismatch")
)
