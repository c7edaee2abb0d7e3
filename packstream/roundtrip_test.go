package packstream

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// roundtrip marshals v, reframes it through Unframe, and decodes it back,
// mirroring exactly what a real connection does with one message.
func roundtrip(t *testing.T, v interface{}) interface{} {
	t.Helper()
	raw, err := Marshal(v)
	require.NoError(t, err)

	payload, err := Unframe(bytes.NewReader(raw))
	require.NoError(t, err)

	got, err := Unmarshal(payload)
	require.NoError(t, err)
	return got
}
