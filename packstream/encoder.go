package packstream

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"sort"

	bolterrors "github.com/corebolt/neobolt/errors"
)

// Encoder encodes Go values as PackStream, chunking the output into
// chunkSize-byte frames terminated by the end-of-message marker on Flush.
//
// Supported Go types: nil, bool, all signed/unsigned integer kinds (the
// smallest PackStream integer encoding that fits is always chosen),
// float32/float64, string, []interface{}, map[string]interface{}, and any
// Structure. Maps with non-string keys are a caller bug and rejected by
// the type switch before they reach the wire.
type Encoder struct {
	w    io.Writer
	buf  []byte
	n    int
	size int
}

// NewEncoder initializes a new Encoder that chunks at the given size
// (a size outside [1, MaxChunkSize] falls back to MaxChunkSize).
func NewEncoder(w io.Writer, size int) *Encoder {
	if size <= 0 || size > MaxChunkSize {
		size = MaxChunkSize
	}
	return &Encoder{w: w, buf: make([]byte, size), size: size}
}

// Marshal encodes a single value to a fully framed PackStream message.
func Marshal(v interface{}) ([]byte, error) {
	var b bytes.Buffer
	if err := NewEncoder(&b, MaxChunkSize).Encode(v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Write implements io.Writer, buffering until a chunk fills and flushing
// it to the underlying writer as a length-prefixed chunk.
func (e *Encoder) Write(p []byte) (n int, err error) {
	var m int
	for n < len(p) {
		m = copy(e.buf[e.n:], p[n:])
		e.n += m
		n += m
		if e.n == e.size {
			if err = e.writeChunk(); err != nil {
				return n, err
			}
		}
	}
	return n, nil
}

func (e *Encoder) writeMarker(marker byte) error {
	e.buf[e.n] = marker
	e.n++
	if e.n == e.size {
		return e.writeChunk()
	}
	return nil
}

func (e *Encoder) write(v interface{}) error {
	return binary.Write(e, binary.BigEndian, v)
}

// Flush writes any buffered bytes as a final chunk, then the end marker.
func (e *Encoder) Flush() error {
	if err := e.writeChunk(); err != nil {
		return err
	}
	_, err := e.w.Write(EndMarker)
	return err
}

func (e *Encoder) writeChunk() error {
	if e.n == 0 {
		return nil
	}
	if err := binary.Write(e.w, binary.BigEndian, uint16(e.n)); err != nil {
		return err
	}
	_, err := e.w.Write(e.buf[:e.n])
	e.n = 0
	return err
}

// Encode encodes val and flushes the chunked frame, including the end marker.
func (e *Encoder) Encode(val interface{}) error {
	if err := e.encode(val); err != nil {
		return err
	}
	return e.Flush()
}

func (e *Encoder) encode(val interface{}) error {
	switch v := val.(type) {
	case nil:
		return e.encodeNil()
	case bool:
		return e.encodeBool(v)
	case int:
		return e.encodeInt(int64(v))
	case int8:
		return e.encodeInt(int64(v))
	case int16:
		return e.encodeInt(int64(v))
	case int32:
		return e.encodeInt(int64(v))
	case int64:
		return e.encodeInt(v)
	case uint:
		return e.encodeInt(int64(v))
	case uint8:
		return e.encodeInt(int64(v))
	case uint16:
		return e.encodeInt(int64(v))
	case uint32:
		return e.encodeInt(int64(v))
	case uint64:
		if v > math.MaxInt64 {
			return bolterrors.New(bolterrors.KindInvalidInput, "integer too big: %d. max integer supported: %d", v, int64(math.MaxInt64))
		}
		return e.encodeInt(int64(v))
	case float32:
		return e.encodeFloat(float64(v))
	case float64:
		return e.encodeFloat(v)
	case string:
		return e.encodeString(v)
	case []interface{}:
		return e.encodeList(v)
	case map[string]interface{}:
		return e.encodeMap(v)
	case Structure:
		return e.encodeStructure(v)
	default:
		return unsupportedType(val)
	}
}

func (e *Encoder) encodeNil() error {
	return e.writeMarker(NilMarker)
}

func (e *Encoder) encodeBool(val bool) error {
	if val {
		return e.writeMarker(TrueMarker)
	}
	return e.writeMarker(FalseMarker)
}

func (e *Encoder) encodeInt(val int64) error {
	switch {
	case val >= math.MinInt64 && val < math.MinInt32:
		if err := e.writeMarker(Int64Marker); err != nil {
			return err
		}
		return e.write(val)
	case val >= math.MinInt32 && val < math.MinInt16:
		if err := e.writeMarker(Int32Marker); err != nil {
			return err
		}
		return e.write(int32(val))
	case val >= math.MinInt16 && val < math.MinInt8:
		if err := e.writeMarker(Int16Marker); err != nil {
			return err
		}
		return e.write(int16(val))
	case val >= math.MinInt8 && val < -16:
		if err := e.writeMarker(Int8Marker); err != nil {
			return err
		}
		return e.write(int8(val))
	case val >= -16 && val <= math.MaxInt8:
		return e.write(int8(val))
	case val > math.MaxInt8 && val <= math.MaxInt16:
		if err := e.writeMarker(Int16Marker); err != nil {
			return err
		}
		return e.write(int16(val))
	case val > math.MaxInt16 && val <= math.MaxInt32:
		if err := e.writeMarker(Int32Marker); err != nil {
			return err
		}
		return e.write(int32(val))
	default:
		if err := e.writeMarker(Int64Marker); err != nil {
			return err
		}
		return e.write(val)
	}
}

func (e *Encoder) encodeFloat(val float64) error {
	if err := e.writeMarker(FloatMarker); err != nil {
		return err
	}
	return e.write(val)
}

func (e *Encoder) encodeString(val string) error {
	b := []byte(val)
	length := len(b)
	switch {
	case length <= 15:
		if err := e.writeMarker(byte(TinyStringMarker + length)); err != nil {
			return err
		}
	case length <= math.MaxUint8:
		if err := e.writeMarker(String8Marker); err != nil {
			return err
		}
		if err := e.write(uint8(length)); err != nil {
			return err
		}
	case length <= math.MaxUint16:
		if err := e.writeMarker(String16Marker); err != nil {
			return err
		}
		if err := e.write(uint16(length)); err != nil {
			return err
		}
	case int64(length) <= math.MaxUint32:
		if err := e.writeMarker(String32Marker); err != nil {
			return err
		}
		if err := e.write(uint32(length)); err != nil {
			return err
		}
	default:
		return bolterrors.New(bolterrors.KindInvalidInput, "string too long to encode: %d bytes", length)
	}
	_, err := e.Write(b)
	return err
}

func (e *Encoder) encodeList(val []interface{}) error {
	length := len(val)
	if err := e.writeSizedMarker(TinyListMarker, List8Marker, List16Marker, List32Marker, length); err != nil {
		return err
	}
	for _, item := range val {
		if err := e.encode(item); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeMap(val map[string]interface{}) error {
	length := len(val)
	if err := e.writeSizedMarker(TinyMapMarker, Map8Marker, Map16Marker, Map32Marker, length); err != nil {
		return err
	}

	// Go map keys are unique by construction; sort them so wire output is
	// deterministic, which keeps recorder fixtures and tests reproducible.
	keys := make([]string, 0, length)
	for k := range val {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := e.encodeString(k); err != nil {
			return err
		}
		if err := e.encode(val[k]); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeStructure(val Structure) error {
	fields := val.Fields()
	length := len(fields)
	if err := e.writeSizedMarker(TinyStructMarker, Struct8Marker, Struct16Marker, 0, length); err != nil {
		return err
	}
	if err := e.writeMarker(val.Signature()); err != nil {
		return err
	}
	for _, field := range fields {
		if err := e.encode(field); err != nil {
			return err
		}
	}
	return nil
}

// writeSizedMarker writes the tiny/8/16/32-bit size-class marker (plus
// any size bytes) for lists, maps, and structs. m32 is 0 for structs,
// which have no 32-bit size class (max 65535 fields via Struct16).
func (e *Encoder) writeSizedMarker(tiny, m8, m16, m32 byte, length int) error {
	switch {
	case length <= 15:
		return e.writeMarker(byte(int(tiny) + length))
	case length <= math.MaxUint8:
		if err := e.writeMarker(m8); err != nil {
			return err
		}
		return e.write(uint8(length))
	case length <= math.MaxUint16:
		if err := e.writeMarker(m16); err != nil {
			return err
		}
		return e.write(uint16(length))
	case m32 != 0 && int64(length) <= math.MaxUint32:
		if err := e.writeMarker(m32); err != nil {
			return err
		}
		return e.write(uint32(length))
	default:
		return bolterrors.New(bolterrors.KindInvalidInput, "collection too large to encode: %d items", length)
	}
}
