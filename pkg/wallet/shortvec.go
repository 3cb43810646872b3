package wallet

import (
	"errors"
	"math"
)

// Compact-u16 length encoding used by the SVM wire format: little-endian
// base-128 with a continuation bit, at most three bytes, capped at 65535.

// appendCompactU16 appends the encoding of v to dst.
func appendCompactU16(dst []byte, v uint16) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// decodeCompactU16 decodes a value from the front of b, returning the
// value and the number of bytes consumed.
func decodeCompactU16(b []byte) (uint16, int, error) {
	var value uint32
	for i := 0; i < 3; i++ {
		if i >= len(b) {
			return 0, 0, errors.New("compact-u16: truncated")
		}
		c := b[i]
		value |= uint32(c&0x7f) << (7 * i)
		if c&0x80 == 0 {
			if value > math.MaxUint16 {
				return 0, 0, errors.New("compact-u16: value out of range")
			}
			return uint16(value), i + 1, nil
		}
	}
	return 0, 0, errors.New("compact-u16: encoding longer than three bytes")
}
