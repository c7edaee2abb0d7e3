package packstream

import (
	bolterrors "github.com/corebolt/neobolt/errors"
)

// TruncatedInput is returned when the stream ends before a complete value
// (or chunk) could be read.
func TruncatedInput(err error) *bolterrors.Error {
	return bolterrors.WrapKind(bolterrors.KindConnection, err, "truncated PackStream input")
}

// UnknownMarker is returned when a marker byte doesn't match any known
// PackStream type tag.
func UnknownMarker(marker byte) *bolterrors.Error {
	return bolterrors.New(bolterrors.KindProtocol, "unknown PackStream marker byte: 0x%x", marker)
}

// BadUtf8 is returned when a string's bytes are not valid UTF-8.
func BadUtf8(raw []byte) *bolterrors.Error {
	return bolterrors.New(bolterrors.KindProtocol, "string is not valid UTF-8: %q", raw)
}

// NonStringMapKey is returned when a decoded map key is not a string.
// The encoder never returns it: a map whose type is not
// map[string]interface{} is rejected as an unsupported type.
func NonStringMapKey(key interface{}) *bolterrors.Error {
	return bolterrors.New(bolterrors.KindProtocol, "map key must be a string, got %T: %+v", key, key)
}

// DuplicateMapKey is returned by the decoder when a map on the wire
// contains the same key more than once; PackStream requires unique keys.
func DuplicateMapKey(key string) *bolterrors.Error {
	return bolterrors.New(bolterrors.KindInvalidInput, "duplicate map key: %q", key)
}

// UnknownStructSignature is returned when a decoded struct's signature
// byte does not match any recognized domain or message type.
func UnknownStructSignature(signature byte) *bolterrors.Error {
	return bolterrors.New(bolterrors.KindProtocol, "unknown struct signature: 0x%x", signature)
}

// ChunkOverflow is returned when a single chunk declares a length greater
// than the 65535-byte maximum a u16 length prefix can represent.
func ChunkOverflow(length int) *bolterrors.Error {
	return bolterrors.New(bolterrors.KindProtocol, "chunk length %d exceeds the 65535-byte maximum", length)
}

// unsupportedType is returned when Encode is asked to marshal a Go value
// with no PackStream representation.
func unsupportedType(val interface{}) *bolterrors.Error {
	return bolterrors.New(bolterrors.KindInvalidInput, "unrecognized type for PackStream encoding: %T %+v", val, val)
}
