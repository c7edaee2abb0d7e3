package message

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNegotiationRoundtrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeHandshake(&buf))

	magic := make([]byte, 4)
	_, err := buf.Read(magic)
	require.NoError(t, err)
	assert.Equal(t, Magic, magic)
}

func TestDecodeHandshakeResponseVectors(t *testing.T) {
	cases := []struct {
		name    string
		wire    []byte
		version Version
		wantErr bool
	}{
		{"legacy v3", []byte{0, 0, 0, 3}, Version{Major: 3}, false},
		{"v4.4", []byte{0, 0, 4, 4}, Version{Major: 4, Minor: 4}, false},
		{"v5.6", []byte{0, 4, 6, 5}, Version{Major: 5, Minor: 6}, false},
		{"rejected", []byte{0, 0, 0, 0}, Version{}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := DecodeHandshakeResponse(bytes.NewReader(tc.wire))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.version, v)
		})
	}
}

func TestVersionAtLeast(t *testing.T) {
	assert.True(t, Version{Major: 5, Minor: 1}.AtLeast(5, 1))
	assert.True(t, Version{Major: 5, Minor: 2}.AtLeast(5, 1))
	assert.True(t, Version{Major: 6, Minor: 0}.AtLeast(5, 1))
	assert.False(t, Version{Major: 5, Minor: 0}.AtLeast(5, 1))
	assert.False(t, Version{Major: 4, Minor: 9}.AtLeast(5, 1))
}
