package packstream

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebolt/neobolt/graph"
	"github.com/corebolt/neobolt/message"
)

func TestNodeLegacyShapeRoundtrip(t *testing.T) {
	n := graph.Node{ID: 1, Labels: []string{"Person"}, Properties: map[string]interface{}{"name": "Ann"}}
	got := roundtrip(t, n)
	assert.Equal(t, n, got)
}

func TestNodeBolt5ShapeRoundtrip(t *testing.T) {
	n := graph.Node{ID: 1, Labels: []string{"Person"}, Properties: map[string]interface{}{"name": "Ann"}, ElementID: "4:abc:1"}
	got := roundtrip(t, n)
	assert.Equal(t, n, got)
}

func TestRelationshipBothShapesRoundtrip(t *testing.T) {
	legacy := graph.Relationship{ID: 1, StartNodeID: 2, EndNodeID: 3, Type: "KNOWS", Properties: map[string]interface{}{}}
	assert.Equal(t, legacy, roundtrip(t, legacy))

	bolt5 := graph.Relationship{
		ID: 1, StartNodeID: 2, EndNodeID: 3, Type: "KNOWS", Properties: map[string]interface{}{},
		ElementID: "5:r:1", StartNodeElementID: "5:n:2", EndNodeElementID: "5:n:3",
	}
	assert.Equal(t, bolt5, roundtrip(t, bolt5))
}

func TestPathRoundtrip(t *testing.T) {
	p := graph.Path{
		Nodes:         []graph.Node{{ID: 1, Labels: []string{"A"}, Properties: map[string]interface{}{}}},
		Relationships: []graph.UnboundRelationship{{ID: 9, Type: "R", Properties: map[string]interface{}{}}},
		Sequence:      []int64{1, 1},
	}
	got := roundtrip(t, p)
	assert.Equal(t, p, got)
}

func TestSuccessFailureIgnoredRecordRoundtrip(t *testing.T) {
	s := message.Success{Metadata: map[string]interface{}{"bookmark": "b1"}}
	assert.Equal(t, s, roundtrip(t, s))

	f := message.Failure{Metadata: map[string]interface{}{"code": "Neo.ClientError.Foo", "message": "bad"}}
	assert.Equal(t, f, roundtrip(t, f))

	i := message.Ignored{}
	assert.Equal(t, i, roundtrip(t, i))

	r := message.Record{Values: []interface{}{int64(1), "a"}}
	assert.Equal(t, r, roundtrip(t, r))
}

func TestUnknownMarkerFails(t *testing.T) {
	// 0xC4 is a reserved marker; 0xF0-0xFF would decode as tiny negative ints.
	_, err := Unmarshal([]byte{0xC4})
	require.Error(t, err)
}

func TestUnknownStructSignatureFails(t *testing.T) {
	raw, err := Marshal(message.Record{Values: nil})
	require.NoError(t, err)

	payload, err := Unframe(bytes.NewReader(raw))
	require.NoError(t, err)
	// Corrupt the signature byte (first byte after the tiny-struct marker).
	payload[1] = 0xAA

	_, err = Unmarshal(payload)
	require.Error(t, err)
}

func TestTruncatedInputFails(t *testing.T) {
	_, err := Unmarshal([]byte{Int64Marker, 0x01})
	require.Error(t, err)
}

func TestNonStringMapKeyRejectedOnDecode(t *testing.T) {
	// A map with a single int key (0xA1) whose value is itself an int.
	_, err := Unmarshal([]byte{byte(TinyMapMarker + 1), 0x01, 0x01})
	require.Error(t, err)
}
