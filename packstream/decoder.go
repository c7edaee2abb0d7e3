package packstream

import (
	"bytes"
	"encoding/binary"
	"unicode/utf8"

	"github.com/corebolt/neobolt/graph"
	"github.com/corebolt/neobolt/message"
)

// Decoder decodes a single PackStream message (one complete, reassembled
// chunk sequence) read from r. Domain structs (graph.Node and friends)
// and response messages (message.Success and friends) are recognized by
// their struct signature and decoded into their typed Go shape; any
// other signature fails with UnknownStructSignature.
type Decoder struct {
	r chunkReader
}

// chunkReader is satisfied by anything Unframe can read a message from.
type chunkReader interface {
	Read(p []byte) (int, error)
}

// NewDecoder creates a Decoder reading reassembled messages from r.
func NewDecoder(r chunkReader) Decoder {
	return Decoder{r: r}
}

// Unmarshal decodes a single already-unframed PackStream payload.
func Unmarshal(payload []byte) (interface{}, error) {
	return Decoder{}.decode(bytes.NewBuffer(payload))
}

// Decode reads one full chunked message from the stream and decodes it.
func (d Decoder) Decode() (interface{}, error) {
	payload, err := Unframe(d.r)
	if err != nil {
		return nil, err
	}
	return d.decode(bytes.NewBuffer(payload))
}

func (d Decoder) decode(buffer *bytes.Buffer) (interface{}, error) {
	marker, err := buffer.ReadByte()
	if err != nil {
		return nil, TruncatedInput(err)
	}

	switch {
	case marker == NilMarker:
		return nil, nil
	case marker == TrueMarker:
		return true, nil
	case marker == FalseMarker:
		return false, nil

	case int8(marker) >= -16 && int8(marker) <= 127:
		return int64(int8(marker)), nil
	case marker == Int8Marker:
		var out int8
		err := binary.Read(buffer, binary.BigEndian, &out)
		return int64(out), wrapRead(err)
	case marker == Int16Marker:
		var out int16
		err := binary.Read(buffer, binary.BigEndian, &out)
		return int64(out), wrapRead(err)
	case marker == Int32Marker:
		var out int32
		err := binary.Read(buffer, binary.BigEndian, &out)
		return int64(out), wrapRead(err)
	case marker == Int64Marker:
		var out int64
		err := binary.Read(buffer, binary.BigEndian, &out)
		return out, wrapRead(err)

	case marker == FloatMarker:
		var out float64
		err := binary.Read(buffer, binary.BigEndian, &out)
		return out, wrapRead(err)

	case marker >= TinyStringMarker && marker <= TinyStringMarker+0x0F:
		return d.decodeString(buffer, int(marker)-TinyStringMarker)
	case marker == String8Marker:
		size, err := d.readSize8(buffer)
		if err != nil {
			return nil, err
		}
		return d.decodeString(buffer, size)
	case marker == String16Marker:
		size, err := d.readSize16(buffer)
		if err != nil {
			return nil, err
		}
		return d.decodeString(buffer, size)
	case marker == String32Marker:
		size, err := d.readSize32(buffer)
		if err != nil {
			return nil, err
		}
		return d.decodeString(buffer, size)

	case marker >= TinyListMarker && marker <= TinyListMarker+0x0F:
		return d.decodeList(buffer, int(marker)-TinyListMarker)
	case marker == List8Marker:
		size, err := d.readSize8(buffer)
		if err != nil {
			return nil, err
		}
		return d.decodeList(buffer, size)
	case marker == List16Marker:
		size, err := d.readSize16(buffer)
		if err != nil {
			return nil, err
		}
		return d.decodeList(buffer, size)
	case marker == List32Marker:
		size, err := d.readSize32(buffer)
		if err != nil {
			return nil, err
		}
		return d.decodeList(buffer, size)

	case marker >= TinyMapMarker && marker <= TinyMapMarker+0x0F:
		return d.decodeMap(buffer, int(marker)-TinyMapMarker)
	case marker == Map8Marker:
		size, err := d.readSize8(buffer)
		if err != nil {
			return nil, err
		}
		return d.decodeMap(buffer, size)
	case marker == Map16Marker:
		size, err := d.readSize16(buffer)
		if err != nil {
			return nil, err
		}
		return d.decodeMap(buffer, size)
	case marker == Map32Marker:
		size, err := d.readSize32(buffer)
		if err != nil {
			return nil, err
		}
		return d.decodeMap(buffer, size)

	case marker >= TinyStructMarker && marker <= TinyStructMarker+0x0F:
		return d.decodeStruct(buffer, int(marker)-TinyStructMarker)
	case marker == Struct8Marker:
		size, err := d.readSize8(buffer)
		if err != nil {
			return nil, err
		}
		return d.decodeStruct(buffer, size)
	case marker == Struct16Marker:
		size, err := d.readSize16(buffer)
		if err != nil {
			return nil, err
		}
		return d.decodeStruct(buffer, size)

	default:
		return nil, UnknownMarker(marker)
	}
}

func wrapRead(err error) error {
	if err == nil {
		return nil
	}
	return TruncatedInput(err)
}

func (d Decoder) readSize8(buffer *bytes.Buffer) (int, error) {
	var size uint8
	if err := binary.Read(buffer, binary.BigEndian, &size); err != nil {
		return 0, TruncatedInput(err)
	}
	return int(size), nil
}

func (d Decoder) readSize16(buffer *bytes.Buffer) (int, error) {
	var size uint16
	if err := binary.Read(buffer, binary.BigEndian, &size); err != nil {
		return 0, TruncatedInput(err)
	}
	return int(size), nil
}

func (d Decoder) readSize32(buffer *bytes.Buffer) (int, error) {
	var size uint32
	if err := binary.Read(buffer, binary.BigEndian, &size); err != nil {
		return 0, TruncatedInput(err)
	}
	return int(size), nil
}

func (d Decoder) decodeString(buffer *bytes.Buffer, size int) (string, error) {
	if buffer.Len() < size {
		return "", TruncatedInput(bytes.ErrTooLarge)
	}
	raw := buffer.Next(size)
	if !utf8.Valid(raw) {
		return "", BadUtf8(raw)
	}
	return string(raw), nil
}

func (d Decoder) decodeList(buffer *bytes.Buffer, size int) ([]interface{}, error) {
	items := make([]interface{}, size)
	for i := 0; i < size; i++ {
		item, err := d.decode(buffer)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}

func (d Decoder) decodeMap(buffer *bytes.Buffer, size int) (map[string]interface{}, error) {
	out := make(map[string]interface{}, size)
	for i := 0; i < size; i++ {
		keyVal, err := d.decode(buffer)
		if err != nil {
			return nil, err
		}
		key, ok := keyVal.(string)
		if !ok {
			return nil, NonStringMapKey(keyVal)
		}
		val, err := d.decode(buffer)
		if err != nil {
			return nil, err
		}
		if _, exists := out[key]; exists {
			return nil, DuplicateMapKey(key)
		}
		out[key] = val
	}
	return out, nil
}

func (d Decoder) decodeStruct(buffer *bytes.Buffer, fieldCount int) (interface{}, error) {
	signature, err := buffer.ReadByte()
	if err != nil {
		return nil, TruncatedInput(err)
	}

	fields, err := d.decodeList(buffer, fieldCount)
	if err != nil {
		return nil, err
	}

	switch signature {
	case graph.NodeSignature:
		return graph.DecodeNode(fields)
	case graph.RelationshipSignature:
		return graph.DecodeRelationship(fields)
	case graph.UnboundRelationshipSignature:
		return graph.DecodeUnboundRelationship(fields)
	case graph.PathSignature:
		return graph.DecodePath(fields)
	case message.RecordSignature:
		return message.DecodeRecord(fields)
	case message.SuccessSignature:
		return message.DecodeSuccess(fields)
	case message.FailureSignature:
		return message.DecodeFailure(fields)
	case message.IgnoredSignature:
		return message.DecodeIgnored(fields)
	default:
		return nil, UnknownStructSignature(signature)
	}
}
