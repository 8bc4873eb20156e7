// Package varint implements LEB128 variable-length unsigned integers as used
// by the Protobuf wire format: little-endian groups of 7 value bits, the high
// bit of each byte flagging that another byte follows. A 64-bit value needs
// at most 10 bytes, and the 10th byte may only carry the final single bit.
package varint

import "errors"

// MaxLen is the worst-case encoded width of a 64-bit value.
const MaxLen = 10

// ErrOverflow reports a varint that does not terminate within 10 bytes or
// whose final byte overflows 64 bits. Such input is corrupt.
var ErrOverflow = errors.New("varint overflows 64 bits")

// Consume decodes one varint from the head of b, returning the value and the
// number of bytes read. It returns n == 0 with a nil error when b ends before
// the varint terminates; callers that buffered MaxLen or more bytes, or whose
// last buffered byte has the continuation bit clear, always get a decode or
// an error.
func Consume(b []byte) (uint64, int, error) {
	var v uint64
	for i := 0; i < len(b) && i < MaxLen; i++ {
		c := b[i]
		if c < 0x80 {
			// The 10th byte holds bits 63.. and may only be 0 or 1.
			if i == MaxLen-1 && c > 1 {
				return 0, 0, ErrOverflow
			}
			return v | uint64(c)<<(7*i), i + 1, nil
		}
		v |= uint64(c&0x7f) << (7 * i)
	}
	if len(b) >= MaxLen {
		return 0, 0, ErrOverflow
	}
	return 0, 0, nil
}

// Append encodes v and appends it to dst, returning the extended slice.
func Append(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}
