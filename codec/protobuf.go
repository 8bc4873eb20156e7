package codec

import (
	"math"

	"github.com/streamkit/httpstream/codec/internal/varint"
	"github.com/streamkit/httpstream/errors"
)

// LenPrefixDecoder frames length-prefixed Protobuf messages: a LEB128 varint
// length header followed by that many payload bytes. The decoder alternates
// between awaiting the length and awaiting the payload, and never buffers
// more than the declared length.
type LenPrefixDecoder struct {
	maxLen  int
	pending int
	// A zero-length payload is a valid (empty) message, so the awaiting
	// state needs its own flag rather than a zero sentinel in pending.
	havePending bool
}

// NewLenPrefixDecoder returns a decoder that rejects messages whose declared
// length exceeds maxFrameLen, before the payload is buffered.
func NewLenPrefixDecoder(maxFrameLen int) *LenPrefixDecoder {
	return &LenPrefixDecoder{maxLen: maxFrameLen}
}

// Decode implements FrameDecoder.
func (d *LenPrefixDecoder) Decode(buf *Buffer) ([]byte, error) {
	if !d.havePending {
		window := buf.Bytes()
		if len(window) == 0 {
			return nil, nil
		}

		var declared uint64
		if c := window[0]; c < 0x80 {
			declared = uint64(c)
			buf.Advance(1)
		} else if len(window) >= varint.MaxLen || window[len(window)-1] < 0x80 {
			v, n, err := varint.Consume(window)
			if err != nil {
				return nil, errors.Codec(errors.FormatProtobuf, err, "invalid length prefix")
			}
			declared = v
			buf.Advance(n)
		} else {
			// Cannot yet tell whether the varint terminated.
			return nil, nil
		}

		if declared > uint64(d.maxLen) {
			size := math.MaxInt
			if declared <= uint64(math.MaxInt) {
				size = int(declared)
			}
			return nil, errors.MaxLen(errors.FormatProtobuf, size, d.maxLen)
		}
		d.pending = int(declared)
		d.havePending = true
	}

	if buf.Len() < d.pending {
		return nil, nil
	}
	frame := make([]byte, d.pending)
	copy(frame, buf.Bytes()[:d.pending])
	buf.Advance(d.pending)
	d.pending = 0
	d.havePending = false
	return frame, nil
}

// DecodeEOF implements FrameDecoder. Protobuf frames have no implicit
// terminator, so any leftover bytes mean the stream was cut mid-message:
// either a payload shorter than its declared length or a length prefix that
// never terminated.
func (d *LenPrefixDecoder) DecodeEOF(buf *Buffer) ([]byte, error) {
	frame, err := d.Decode(buf)
	if frame != nil || err != nil {
		return frame, err
	}
	if d.havePending || buf.Len() > 0 {
		return nil, errors.Truncated(errors.FormatProtobuf, buf.Len())
	}
	return nil, nil
}
