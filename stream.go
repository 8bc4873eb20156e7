package httpstream

import (
	"io"
	"iter"

	"go.uber.org/zap"

	"github.com/streamkit/httpstream/codec"
	"github.com/streamkit/httpstream/errors"
)

const (
	defaultBufferCapacity = 8 * 1024
	defaultChunkSize      = 8 * 1024
	defaultDelimiter      = ','
)

type config struct {
	logger      *zap.Logger
	bufCapacity int
	delimiter   byte
	header      bool
}

// Option configures a stream constructor.
type Option func(*config)

// WithBufferCapacity sets the initial capacity of the decode buffer.
// Useful as an allocation hint for the JSON formats.
func WithBufferCapacity(n int) Option {
	return func(c *config) { c.bufCapacity = n }
}

// WithHeader declares that the first CSV row is a header. The header row is
// consumed as field names and never emitted as data.
func WithHeader() Option {
	return func(c *config) { c.header = true }
}

// WithDelimiter sets the CSV field delimiter. The default is a comma.
func WithDelimiter(d byte) Option {
	return func(c *config) { c.delimiter = d }
}

// WithLogger sets the logger for this stream, overriding the package logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.logger = l }
}

func newConfig(opts []Option) config {
	cfg := config{
		bufCapacity: defaultBufferCapacity,
		delimiter:   defaultDelimiter,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = Logger()
	}
	return cfg
}

// source produces the next item of a stream. ok is false once the stream is
// exhausted; an item with a non-nil error is an error result, which may or
// may not be terminal depending on the format's policy.
type source[T any] interface {
	next() (item T, err error, ok bool)
}

// Stream is an ordered, lazily-produced, single-pass sequence of decoded
// records. Each item is a result: after Next reports true, Err returns nil
// and Item the record, or Err returns the error for this position.
//
// Transport and framing errors terminate the stream (Next then reports
// false). A CSV row that fails struct mapping is the one recoverable case:
// it surfaces as an error item and the stream continues at the next row.
//
// Streams are not safe for concurrent use.
type Stream[T any] struct {
	src     source[T]
	release func() error
	item    T
	err     error
	done    bool
	closed  bool
}

// Next advances to the next result. It returns false once the stream is
// exhausted, terminally failed, or closed.
func (s *Stream[T]) Next() bool {
	if s.done || s.closed {
		return false
	}
	item, err, ok := s.src.next()
	if !ok {
		var zero T
		s.item, s.err = zero, nil
		s.done = true
		return false
	}
	s.item, s.err = item, err
	return true
}

// Item returns the record at the current position. It is only meaningful
// after Next reported true with a nil Err.
func (s *Stream[T]) Item() T {
	return s.item
}

// Err returns the error at the current position, if any.
func (s *Stream[T]) Err() error {
	return s.err
}

// Close releases the underlying transport. It is safe to call multiple
// times; only the first call closes the body. Abandoning a stream before
// exhaustion without calling Close leaks the transport.
func (s *Stream[T]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.release()
}

// All returns a single-use iterator over the stream's results and closes
// the stream when the loop ends, including early breaks.
func (s *Stream[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		defer s.Close()
		for s.Next() {
			if !yield(s.item, s.err) {
				return
			}
		}
	}
}

// Collect drains the stream into a slice, stopping at the first error.
// The stream is closed either way.
func (s *Stream[T]) Collect() ([]T, error) {
	defer s.Close()
	var items []T
	for s.Next() {
		if s.err != nil {
			return items, s.err
		}
		items = append(items, s.item)
	}
	return items, nil
}

// materializer turns one complete frame into a typed value. emit is false
// for frames that are consumed without producing an item, such as a CSV
// header row.
type materializer[T any] func(frame []byte) (item T, emit bool, err error)

// frameSource drives a framing decoder against the transport: attempt a
// decode, refill the buffer with one chunk when the decoder needs more
// bytes, and materialize each extracted frame. After end of input the
// decoder's EOF path drains what remains.
type frameSource[T any] struct {
	format   errors.Format
	body     io.Reader
	buf      *codec.Buffer
	dec      codec.FrameDecoder
	mat      materializer[T]
	logger   *zap.Logger
	chunk    []byte
	frames   int
	eof      bool
	failed   bool
	matFatal bool
}

func (s *frameSource[T]) next() (T, error, bool) {
	var zero T
	if s.failed {
		return zero, nil, false
	}

	for {
		var frame []byte
		var err error
		if s.eof {
			frame, err = s.dec.DecodeEOF(s.buf)
		} else {
			frame, err = s.dec.Decode(s.buf)
		}
		if err != nil {
			return zero, s.fail(err), true
		}

		if frame != nil {
			s.frames++
			item, emit, merr := s.mat(frame)
			if merr != nil {
				cerr := errors.Codec(s.format, merr, "materialize frame of %d bytes", len(frame))
				if s.matFatal {
					return zero, s.fail(cerr), true
				}
				return zero, cerr, true
			}
			if !emit {
				continue
			}
			return item, nil, true
		}

		if s.eof {
			s.failed = true
			s.logger.Debug("stream exhausted",
				zap.String("format", string(s.format)),
				zap.Int("frames", s.frames))
			return zero, nil, false
		}

		n, rerr := s.body.Read(s.chunk)
		if n > 0 {
			s.buf.Write(s.chunk[:n])
		}
		if rerr == io.EOF {
			s.eof = true
			continue
		}
		if rerr != nil {
			return zero, s.fail(errors.IO(s.format, rerr)), true
		}
	}
}

func (s *frameSource[T]) fail(err error) error {
	s.failed = true
	s.logger.Debug("stream terminated",
		zap.String("format", string(s.format)),
		zap.Int("frames", s.frames),
		zap.Error(err))
	return err
}

// newFrameStream wires a framing decoder and a materializer into a Stream.
func newFrameStream[T any](body io.ReadCloser, cfg config, format errors.Format,
	dec codec.FrameDecoder, mat materializer[T], matFatal bool) *Stream[T] {

	cfg.logger.Debug("stream opened", zap.String("format", string(format)))
	return &Stream[T]{
		src: &frameSource[T]{
			format:   format,
			body:     body,
			buf:      codec.NewBuffer(cfg.bufCapacity),
			dec:      dec,
			mat:      mat,
			logger:   cfg.logger,
			chunk:    make([]byte, defaultChunkSize),
			matFatal: matFatal,
		},
		release: body.Close,
	}
}
