package httpstream

import (
	stderrors "errors"
	"io"

	"github.com/apache/arrow/go/v15/arrow"
	"github.com/apache/arrow/go/v15/arrow/ipc"
	"go.uber.org/zap"

	"github.com/streamkit/httpstream/errors"
)

// ArrowIPC streams a response body in the Arrow IPC streaming format,
// emitting one arrow.Record per record batch. Returned records are retained
// for the caller, who must Release them.
//
// Unlike the other formats this decoder does not identify frame boundaries
// itself: the Arrow stream reader is the incremental state machine
// (continuation markers, flatbuffer metadata, message bodies), and this
// layer only accounts for bytes it consumes. maxFrameLen bounds the bytes
// read since the last decoded record batch, covering the schema and any
// dictionary messages that precede it.
func ArrowIPC(body io.ReadCloser, maxFrameLen int, opts ...Option) *Stream[arrow.Record] {
	cfg := newConfig(opts)
	cfg.logger.Debug("stream opened", zap.String("format", string(errors.FormatArrowIPC)))

	src := &arrowSource{
		bounded: &boundedReader{r: body, limit: maxFrameLen},
		logger:  cfg.logger,
	}
	return &Stream[arrow.Record]{
		src: src,
		release: func() error {
			if src.rd != nil {
				src.rd.Release()
			}
			return body.Close()
		},
	}
}

type arrowSource struct {
	bounded *boundedReader
	rd      *ipc.Reader
	logger  *zap.Logger
	records int
	failed  bool
}

func (s *arrowSource) next() (arrow.Record, error, bool) {
	if s.failed {
		return nil, nil, false
	}

	if s.rd == nil {
		// The schema message is read here; its bytes count against the
		// first record's max-length bound.
		rd, err := ipc.NewReader(s.bounded)
		if err != nil {
			// End of input before a single schema byte is an empty stream,
			// not an error. Truncation mid-schema still fails below.
			if stderrors.Is(err, io.EOF) && s.bounded.n == 0 {
				s.failed = true
				s.logger.Debug("stream exhausted",
					zap.String("format", string(errors.FormatArrowIPC)),
					zap.Int("records", 0))
				return nil, nil, false
			}
			return nil, s.fail(err), true
		}
		s.rd = rd
	}

	if s.rd.Next() {
		rec := s.rd.Record()
		rec.Retain()
		s.records++
		s.bounded.reset()
		return rec, nil, true
	}

	s.failed = true
	if err := s.rd.Err(); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, s.fail(err), true
	}
	s.logger.Debug("stream exhausted",
		zap.String("format", string(errors.FormatArrowIPC)),
		zap.Int("records", s.records))
	return nil, nil, false
}

// fail classifies a reader error: max-length and io errors surface from the
// bounded reader already tagged and pass through, a short read means the
// stream was cut mid-message, anything else came from the Arrow decoder and
// is a codec error.
func (s *arrowSource) fail(err error) error {
	s.failed = true

	var streamErr *errors.Error
	switch {
	case stderrors.As(err, &streamErr):
		err = streamErr
	case stderrors.Is(err, io.ErrUnexpectedEOF):
		err = errors.Truncated(errors.FormatArrowIPC, s.bounded.n)
	default:
		err = errors.Codec(errors.FormatArrowIPC, err, "decode arrow ipc message")
	}

	s.logger.Debug("stream terminated",
		zap.String("format", string(errors.FormatArrowIPC)),
		zap.Int("records", s.records),
		zap.Error(err))
	return err
}

// boundedReader counts bytes handed to the Arrow reader and refuses to read
// past the max-length bound. The count resets after every decoded record, so
// the bound applies to the undecoded bytes of the message(s) in flight.
// Transport errors are tagged as io errors here, before the Arrow reader can
// swallow their identity.
type boundedReader struct {
	r     io.Reader
	limit int
	n     int
}

func (b *boundedReader) Read(p []byte) (int, error) {
	if b.n >= b.limit {
		return 0, errors.MaxLenScanned(errors.FormatArrowIPC, b.n, b.limit)
	}
	if rest := b.limit - b.n; len(p) > rest {
		p = p[:rest]
	}
	n, err := b.r.Read(p)
	b.n += n
	if err != nil && err != io.EOF {
		err = errors.IO(errors.FormatArrowIPC, err)
	}
	return n, err
}

func (b *boundedReader) reset() {
	b.n = 0
}
