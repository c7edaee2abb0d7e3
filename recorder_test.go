package neobolt

import (
	"net"
	"testing"
	"time"

	"github.com/corebolt/neobolt/message"
	"github.com/corebolt/neobolt/packstream"
	"github.com/stretchr/testify/require"
)

type fakeNetConn struct {
	net.Conn
	reads  [][]byte
	writes [][]byte
}

func (c *fakeNetConn) Read(p []byte) (int, error) {
	if len(c.reads) == 0 {
		return 0, net.ErrClosed
	}
	n := copy(p, c.reads[0])
	c.reads[0] = c.reads[0][n:]
	if len(c.reads[0]) == 0 {
		c.reads = c.reads[1:]
	}
	return n, nil
}

func (c *fakeNetConn) Write(p []byte) (int, error) {
	c.writes = append(c.writes, append([]byte(nil), p...))
	return len(p), nil
}

func (c *fakeNetConn) Close() error                       { return nil }
func (c *fakeNetConn) SetDeadline(t time.Time) error       { return nil }
func (c *fakeNetConn) SetReadDeadline(t time.Time) error   { return nil }
func (c *fakeNetConn) SetWriteDeadline(t time.Time) error  { return nil }

func TestRecorderCapturesASessionAndReplayNeedsAFixture(t *testing.T) {
	raw, err := packstream.Marshal(message.Success{Metadata: map[string]interface{}{"fields": []interface{}{"n"}}})
	require.NoError(t, err)

	underlying := &fakeNetConn{reads: [][]byte{raw}}
	rec, err := newRecorder("session", underlying)
	require.NoError(t, err)

	enc := packstream.NewEncoder(rec, 4096)
	require.NoError(t, enc.Encode(message.Run{Statement: "RETURN 1", Parameters: map[string]interface{}{}, Extra: map[string]interface{}{}}))

	dec := packstream.NewDecoder(rec)
	resp, err := dec.Decode()
	require.NoError(t, err)
	success, ok := resp.(message.Success)
	require.True(t, ok)
	require.Equal(t, []interface{}{"n"}, success.Metadata["fields"])

	require.NoError(t, rec.Close())
	require.Len(t, rec.events, 2)
	require.False(t, rec.events[0].IsWrite == rec.events[1].IsWrite)

	replay, err := newRecorder("session", nil)
	require.Error(t, err) // no recordings/session.json fixture on disk in this test
	require.Nil(t, replay)
}
