// Package packstream implements Bolt's PackStream binary codec: a tagged
// value model (Null, Bool, Int, Float, String, List, Map, Struct) encoded
// with marker-byte driven size classes, plus the chunked message framing
// layered on top of it.
//
// Validates map-key uniqueness/string-ness and surfaces the typed
// error values in errors.go instead of bare fmt.Errorf.
package packstream

const (
	// NilMarker represents the encoding marker byte for a nil object.
	NilMarker = 0xC0

	// TrueMarker represents the encoding marker byte for a true boolean object.
	TrueMarker = 0xC3
	// FalseMarker represents the encoding marker byte for a false boolean object.
	FalseMarker = 0xC2

	// Int8Marker represents the encoding marker byte for an int8 object.
	Int8Marker = 0xC8
	// Int16Marker represents the encoding marker byte for an int16 object.
	Int16Marker = 0xC9
	// Int32Marker represents the encoding marker byte for an int32 object.
	Int32Marker = 0xCA
	// Int64Marker represents the encoding marker byte for an int64 object.
	Int64Marker = 0xCB

	// FloatMarker represents the encoding marker byte for a float64 object.
	FloatMarker = 0xC1

	// TinyStringMarker is the base marker for strings of length 0-15.
	TinyStringMarker = 0x80
	// String8Marker represents the encoding marker byte for a string with an 8-bit size.
	String8Marker = 0xD0
	// String16Marker represents the encoding marker byte for a string with a 16-bit size.
	String16Marker = 0xD1
	// String32Marker represents the encoding marker byte for a string with a 32-bit size.
	String32Marker = 0xD2

	// TinyListMarker is the base marker for lists of length 0-15.
	TinyListMarker = 0x90
	// List8Marker represents the encoding marker byte for a list with an 8-bit size.
	List8Marker = 0xD4
	// List16Marker represents the encoding marker byte for a list with a 16-bit size.
	List16Marker = 0xD5
	// List32Marker represents the encoding marker byte for a list with a 32-bit size.
	List32Marker = 0xD6

	// TinyMapMarker is the base marker for maps of length 0-15.
	TinyMapMarker = 0xA0
	// Map8Marker represents the encoding marker byte for a map with an 8-bit size.
	Map8Marker = 0xD8
	// Map16Marker represents the encoding marker byte for a map with a 16-bit size.
	Map16Marker = 0xD9
	// Map32Marker represents the encoding marker byte for a map with a 32-bit size.
	Map32Marker = 0xDA

	// TinyStructMarker is the base marker for structs of field-count 0-15.
	TinyStructMarker = 0xB0
	// Struct8Marker represents the encoding marker byte for a struct with an 8-bit field count.
	Struct8Marker = 0xDC
	// Struct16Marker represents the encoding marker byte for a struct with a 16-bit field count.
	Struct16Marker = 0xDD
)

// Structure is implemented by any value PackStream can encode as a
// tagged struct: a 1-byte signature plus an ordered field list. Domain
// types (graph.Node, message request/response types) implement this
// structurally without importing this package, avoiding an import cycle
// between packstream and its callers.
type Structure interface {
	Signature() byte
	Fields() []interface{}
}
