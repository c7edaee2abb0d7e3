package packstream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntegerBoundariesRoundtrip(t *testing.T) {
	boundaries := []int64{
		-9223372036854775808, -2147483649, -2147483648, -32769, -32768,
		-129, -17, -16, 0, 127, 128, 255, 65535, 65536,
		2147483647, 2147483648, 9223372036854775807,
	}
	for _, v := range boundaries {
		got := roundtrip(t, v)
		assert.Equal(t, v, got, "boundary %d", v)
	}
}

func TestFloatRoundtrip(t *testing.T) {
	for _, v := range []float64{0, -1.5, 3.14159, 1e300, -1e-300} {
		got := roundtrip(t, v)
		assert.Equal(t, v, got)
	}
}

func TestBoolAndNilRoundtrip(t *testing.T) {
	assert.Equal(t, true, roundtrip(t, true))
	assert.Equal(t, false, roundtrip(t, false))
	assert.Nil(t, roundtrip(t, nil))
}

func TestStringSizeClassBoundariesRoundtrip(t *testing.T) {
	for _, size := range []int{0, 15, 16, 255, 256, 65535, 65536} {
		s := strings.Repeat("a", size)
		got := roundtrip(t, s)
		assert.Equal(t, s, got, "string size %d", size)
	}
}

func TestListRoundtrip(t *testing.T) {
	for _, size := range []int{0, 15, 16, 255, 256} {
		list := make([]interface{}, size)
		for i := range list {
			list[i] = int64(i)
		}
		got := roundtrip(t, list)
		assert.Equal(t, list, got, "list size %d", size)
	}
}

func TestMapRoundtrip(t *testing.T) {
	m := map[string]interface{}{
		"a": int64(1),
		"b": "two",
		"c": true,
		"d": nil,
	}
	got := roundtrip(t, m)
	assert.Equal(t, m, got)
}

func TestUint64TooLargeRejected(t *testing.T) {
	_, err := Marshal(uint64(1) << 63)
	assert.Error(t, err)
}

func TestUnsupportedTypeRejected(t *testing.T) {
	_, err := Marshal(struct{ X int }{1})
	assert.Error(t, err)
}
