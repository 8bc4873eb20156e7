package codec

import (
	"bytes"

	"github.com/streamkit/httpstream/errors"
)

// LineDecoder frames newline-delimited records: JSON Lines and CSV rows.
// It splits on LF and strips one trailing CR, leaving the payload format to
// the materializer.
type LineDecoder struct {
	format errors.Format
	maxLen int
	offset int // scan position, relative to the unconsumed buffer window
}

// NewLineDecoder returns a decoder for the given format label that rejects
// lines longer than maxFrameLen bytes, including lines that never terminate.
func NewLineDecoder(format errors.Format, maxFrameLen int) *LineDecoder {
	return &LineDecoder{format: format, maxLen: maxFrameLen}
}

// Decode implements FrameDecoder.
func (d *LineDecoder) Decode(buf *Buffer) ([]byte, error) {
	window := buf.Bytes()

	if i := bytes.IndexByte(window[d.offset:], '\n'); i >= 0 {
		end := d.offset + i
		return d.emit(buf, window, end, end+1)
	}

	d.offset = len(window)
	// A trailing CR may be the first half of a CRLF terminator, so it does
	// not count against the bound until the next byte decides.
	scanned := d.offset
	if scanned > 0 && window[scanned-1] == '\r' {
		scanned--
	}
	if scanned > d.maxLen {
		return nil, errors.MaxLenScanned(d.format, scanned, d.maxLen)
	}
	return nil, nil
}

// DecodeEOF implements FrameDecoder. A final line with no trailing newline
// is still emitted once the stream ends.
func (d *LineDecoder) DecodeEOF(buf *Buffer) ([]byte, error) {
	frame, err := d.Decode(buf)
	if frame != nil || err != nil {
		return frame, err
	}
	if buf.Len() == 0 {
		return nil, nil
	}
	window := buf.Bytes()
	return d.emit(buf, window, len(window), len(window))
}

// emit copies window[:end] (minus one trailing CR) as a frame and consumes
// the line plus its terminator.
func (d *LineDecoder) emit(buf *Buffer, window []byte, end, consume int) ([]byte, error) {
	line := end
	if line > 0 && window[line-1] == '\r' {
		line--
	}
	if line > d.maxLen {
		return nil, errors.MaxLen(d.format, line, d.maxLen)
	}
	frame := make([]byte, line)
	copy(frame, window[:line])
	buf.Advance(consume)
	d.offset = 0
	return frame, nil
}
