package httpstream

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/jszwec/csvutil"

	"github.com/streamkit/httpstream/codec"
	"github.com/streamkit/httpstream/errors"
)

// CSV streams a response body of newline-delimited CSV rows, mapping each
// data row onto a value of type T via csvutil struct tags.
//
// Column names come from the header row when WithHeader is set; without a
// header they are derived from T's field order. Empty lines are skipped. A
// data row that fails to map onto T surfaces as an error item and the stream
// continues at the next row, since newline framing stays valid past a
// malformed row. Framing errors, including maxFrameLen violations, remain
// terminal.
func CSV[T any](body io.ReadCloser, maxFrameLen int, opts ...Option) *Stream[T] {
	cfg := newConfig(opts)
	m := &csvRows[T]{delimiter: cfg.delimiter, expectHeader: cfg.header}
	return newFrameStream(body, cfg, errors.FormatCSV,
		codec.NewLineDecoder(errors.FormatCSV, maxFrameLen), m.decode, false)
}

// CSVRecords streams CSV rows as raw field slices, without struct mapping.
// With WithHeader set the header row is skipped.
func CSVRecords(body io.ReadCloser, maxFrameLen int, opts ...Option) *Stream[[]string] {
	cfg := newConfig(opts)
	skipHeader := cfg.header
	mat := func(frame []byte) ([]string, bool, error) {
		if skipHeader {
			skipHeader = false
			return nil, false, nil
		}
		if len(frame) == 0 {
			return nil, false, nil
		}
		fields, err := splitRow(frame, cfg.delimiter)
		return fields, err == nil, err
	}
	return newFrameStream(body, cfg, errors.FormatCSV,
		codec.NewLineDecoder(errors.FormatCSV, maxFrameLen), mat, false)
}

// csvRows materializes one framed row at a time, tracking whether the header
// has been consumed across the whole stream.
type csvRows[T any] struct {
	header       []string
	delimiter    byte
	expectHeader bool
	headerDone   bool
}

func (m *csvRows[T]) decode(frame []byte) (T, bool, error) {
	var v T

	// An empty line is not a row.
	if len(frame) == 0 {
		return v, false, nil
	}

	if m.expectHeader && !m.headerDone {
		m.headerDone = true
		fields, err := splitRow(frame, m.delimiter)
		if err != nil {
			return v, false, err
		}
		m.header = fields
		return v, false, nil
	}

	if m.header == nil {
		header, err := csvutil.Header(v, "csv")
		if err != nil {
			return v, false, err
		}
		m.header = header
	}

	r := csv.NewReader(bytes.NewReader(frame))
	r.Comma = rune(m.delimiter)
	dec, err := csvutil.NewDecoder(r, m.header...)
	if err != nil {
		return v, false, err
	}
	if err := dec.Decode(&v); err != nil {
		return v, false, err
	}
	return v, true, nil
}

// splitRow parses a single framed line as one CSV record.
func splitRow(frame []byte, delimiter byte) ([]string, error) {
	r := csv.NewReader(bytes.NewReader(frame))
	r.Comma = rune(delimiter)
	fields, err := r.Read()
	if err == io.EOF {
		// An empty line frames to an empty record.
		return nil, nil
	}
	return fields, err
}
