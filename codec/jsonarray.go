package codec

import (
	"github.com/streamkit/httpstream/errors"
)

// JSONArrayDecoder extracts successive top-level JSON objects from a byte
// stream carrying one JSON array ("[ {...}, {...}, ... ]") without ever
// holding the whole array in memory.
//
// The scan tracks just enough lexical state to find object boundaries:
// quoted-string and backslash-escape state (so braces and commas inside
// string values are never mistaken for structure) and the brace depth. A '{'
// at depth zero starts a candidate frame, the '}' that returns the depth to
// zero ends it. Bytes outside objects other than '[', ',' and '"' are
// ignored, which tolerates whitespace and the closing ']'.
type JSONArrayDecoder struct {
	maxLen int

	// scan state, relative to the unconsumed buffer window
	offset       int
	objStart     int
	depth        int
	arrayOpened  bool
	wantDelim    bool
	insideQuotes bool
	escaped      bool
}

// NewJSONArrayDecoder returns a decoder that rejects any object longer than
// maxFrameLen bytes. The bound also counts bytes scanned toward a not yet
// complete object, so an oversized object fails incrementally instead of
// after being fully buffered.
func NewJSONArrayDecoder(maxFrameLen int) *JSONArrayDecoder {
	return &JSONArrayDecoder{maxLen: maxFrameLen}
}

// Decode implements FrameDecoder.
func (d *JSONArrayDecoder) Decode(buf *Buffer) ([]byte, error) {
	window := buf.Bytes()

	for ; d.offset < len(window); d.offset++ {
		if d.offset >= d.maxLen {
			return nil, errors.MaxLenScanned(errors.FormatJSONArray, d.offset+1, d.maxLen)
		}

		c := window[d.offset]
		switch {
		case c == '"' && !d.escaped:
			d.insideQuotes = !d.insideQuotes

		case c == '\\' && d.insideQuotes:
			// An escaped backslash does not escape the byte after it.
			d.escaped = !d.escaped
			continue

		case d.insideQuotes:
			// Everything else inside a string is payload.

		case c == '[' && d.depth == 0:
			if d.arrayOpened {
				return nil, errors.Codec(errors.FormatJSONArray, nil,
					"unexpected array begin, the array is already open")
			}
			d.arrayOpened = true

		case c == '{':
			if d.depth == 0 {
				d.objStart = d.offset
			}
			d.depth++

		case c == '}':
			if d.depth == 0 {
				return nil, errors.Codec(errors.FormatJSONArray, nil,
					"unexpected object end without matching begin")
			}
			d.depth--
			if d.depth == 0 {
				d.wantDelim = true
				end := d.offset + 1
				frame := make([]byte, end-d.objStart)
				copy(frame, window[d.objStart:end])
				buf.Advance(end)
				d.offset = 0
				d.objStart = 0
				return frame, nil
			}

		case c == ',' && d.depth == 0:
			if !d.wantDelim {
				return nil, errors.Codec(errors.FormatJSONArray, nil, "unexpected delimiter")
			}
			d.wantDelim = false
		}
		d.escaped = false
	}

	return nil, nil
}

// DecodeEOF implements FrameDecoder. A stream that ends inside an object or
// an unterminated string is reported as truncated; trailing whitespace and
// the closing ']' are consumed silently, as is a missing ']'.
func (d *JSONArrayDecoder) DecodeEOF(buf *Buffer) ([]byte, error) {
	frame, err := d.Decode(buf)
	if frame != nil || err != nil {
		return frame, err
	}
	if d.depth > 0 || d.insideQuotes {
		return nil, errors.Truncated(errors.FormatJSONArray, buf.Len())
	}
	return nil, nil
}
