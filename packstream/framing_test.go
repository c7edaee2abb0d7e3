package packstream

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameSingleChunk(t *testing.T) {
	payload := []byte{1, 2, 3}
	framed, err := Frame(payload, MaxChunkSize)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x03, 1, 2, 3, 0x00, 0x00}, framed)
}

func TestFrameSplitsAcrossChunkSize(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 5)
	framed, err := Frame(payload, 2)
	require.NoError(t, err)

	unframed, err := Unframe(bytes.NewReader(framed))
	require.NoError(t, err)
	assert.Equal(t, payload, unframed)
}

func TestUnframeStopsAtEndMarker(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x02, 0xCA, 0xFE})
	buf.Write(EndMarker)
	buf.Write([]byte{0x00, 0x01, 0xFF}) // a second message that must not be consumed

	got, err := Unframe(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xCA, 0xFE}, got)
	assert.Equal(t, 3, buf.Len(), "second message must remain unread")
}

func TestUnframeRejectsMaxLengthChunkWithoutPayload(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFF}) // declares the max length but supplies no payload

	_, err := Unframe(&buf)
	require.Error(t, err)
}

func TestUnframeTruncatedStreamFails(t *testing.T) {
	_, err := Unframe(bytes.NewReader([]byte{0x00}))
	require.Error(t, err)
}

func TestLargeMessageSplitsAndReassembles(t *testing.T) {
	payload := bytes.Repeat([]byte{0x42}, MaxChunkSize+100)
	framed, err := Frame(payload, MaxChunkSize)
	require.NoError(t, err)

	unframed, err := Unframe(bytes.NewReader(framed))
	require.NoError(t, err)
	assert.Equal(t, payload, unframed)
}
