package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCarriesKind(t *testing.T) {
	err := New(KindProtocol, "unexpected %s", "marker")
	assert.Equal(t, KindProtocol, err.Kind())
	assert.Contains(t, err.Error(), "unexpected marker")
	assert.Contains(t, err.Error(), "Protocol")
}

func TestWrapPreservesKind(t *testing.T) {
	base := New(KindCypher, "syntax error")
	wrapped := Wrap(base, "running statement failed")
	assert.Equal(t, KindCypher, wrapped.Kind())
}

func TestWrapDefaultsToConnection(t *testing.T) {
	wrapped := Wrap(assertErr{}, "dial failed")
	assert.Equal(t, KindConnection, wrapped.Kind())
}

func TestWrapNilIsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "anything"))
}

func TestWithWireAttachesMetadata(t *testing.T) {
	err := New(KindCypher, "boom").WithWire(map[string]interface{}{"code": "Neo.ClientError.Statement.SyntaxError"})
	assert.Contains(t, err.Error(), "Neo.ClientError")
}

func TestIsTransientOnlyForConnection(t *testing.T) {
	assert.True(t, IsTransient(New(KindConnection, "reset")))
	assert.False(t, IsTransient(New(KindCypher, "bad query")))
	assert.False(t, IsTransient(assertErr{}))
}

func TestIsMatchesKind(t *testing.T) {
	err := New(KindAuth, "bad credentials")
	assert.True(t, Is(err, KindAuth))
	assert.False(t, Is(err, KindProtocol))
}

func TestInnerMostUnwindsToCause(t *testing.T) {
	inner := assertErr{}
	wrapped := Wrap(inner, "outer context")
	assert.Equal(t, inner, wrapped.InnerMost())
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
