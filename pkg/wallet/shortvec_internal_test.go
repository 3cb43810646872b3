package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCompactU16RoundTrip encodes and decodes the boundary values of
// the one-, two- and three-byte forms.
func TestCompactU16RoundTrip(t *testing.T) {
	for _, v := range []uint16{0, 1, 0x7f, 0x80, 0x3fff, 0x4000, 0xffff} {
		encoded := appendCompactU16(nil, v)

		decoded, n, err := decodeCompactU16(encoded)
		require.NoError(t, err, "value %d", v)
		assert.Equal(t, v, decoded)
		assert.Equal(t, len(encoded), n)
	}
}

// TestCompactU16Encoding pins the wire form of a few known values.
func TestCompactU16Encoding(t *testing.T) {
	assert.Equal(t, []byte{0x00}, appendCompactU16(nil, 0))
	assert.Equal(t, []byte{0x01}, appendCompactU16(nil, 1))
	assert.Equal(t, []byte{0x80, 0x01}, appendCompactU16(nil, 0x80))
	assert.Equal(t, []byte{0xff, 0xff, 0x03}, appendCompactU16(nil, 0xffff))
}

// TestCompactU16DecodeErrors covers truncated, oversized and overlong
// inputs.
func TestCompactU16DecodeErrors(t *testing.T) {
	_, _, err := decodeCompactU16(nil)
	assert.Error(t, err)

	_, _, err = decodeCompactU16([]byte{0x80})
	assert.Error(t, err)

	_, _, err = decodeCompactU16([]byte{0xff, 0xff, 0x7f})
	assert.Error(t, err, "value beyond uint16 range")

	_, _, err = decodeCompactU16([]byte{0xff, 0xff, 0xff})
	assert.Error(t, err, "continuation past three bytes")
}

// TestCompactU16DecodeTrailingBytes verifies only the length prefix is
// consumed.
func TestCompactU16DecodeTrailingBytes(t *testing.T) {
	v, n, err := decodeCompactU16([]byte{0x02, 0xde, 0xad})
	require.NoError(t, err)
	assert.Equal(t, uint16(2), v)
	assert.Equal(t, 1, n)
}
