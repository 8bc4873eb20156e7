package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Format labels the stream format that was being decoded when the error occurred
type Format string

const (
	FormatJSONArray Format = "json_array"
	FormatJSONLines Format = "json_lines"
	FormatCSV       Format = "csv"
	FormatProtobuf  Format = "protobuf"
	FormatArrowIPC  Format = "arrow_ipc"
)

// Kind categorizes the error
type Kind string

const (
	// KindCodec indicates a malformed frame: bad JSON punctuation or nesting,
	// a CSV row that does not match the target shape, an overflowing varint,
	// or a payload the format materializer rejected.
	KindCodec Kind = "codec"

	// KindIO indicates a failure reading the next chunk from the transport.
	KindIO Kind = "io"

	// KindMaxLen indicates the configured maximum frame length was exceeded,
	// either by a declared length header or by accumulated unframed bytes.
	// The oversized frame is never materialized.
	KindMaxLen Kind = "max_length"
)

// Error is the structured error type emitted by every stream in this library
type Error struct {
	Cause  error
	Format Format
	Kind   Kind
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Format))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Two Errors match when their
// Kinds match and their Formats match or the target leaves Format empty, so
// errors.Is(err, &Error{Kind: KindMaxLen}) matches any format.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind && (t.Format == "" || e.Format == t.Format)
	}
	return false
}

// Convenience constructors for common error patterns

// Codec creates a malformed-frame error
func Codec(format Format, cause error, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Format: format,
		Kind:   KindCodec,
		Detail: detail,
		Cause:  cause,
	}
}

// MaxLen creates a max-frame-length error for a frame whose size is known
func MaxLen(format Format, size, limit int) *Error {
	return &Error{
		Format: format,
		Kind:   KindMaxLen,
		Detail: fmt.Sprintf("frame of %d bytes exceeds maximum length %d", size, limit),
	}
}

// MaxLenScanned creates a max-frame-length error for an accumulated,
// still-incomplete frame prefix
func MaxLenScanned(format Format, scanned, limit int) *Error {
	return &Error{
		Format: format,
		Kind:   KindMaxLen,
		Detail: fmt.Sprintf("scanned %d bytes without a complete frame, maximum length %d", scanned, limit),
	}
}

// IO creates a transport read error
func IO(format Format, cause error) *Error {
	return &Error{
		Format: format,
		Kind:   KindIO,
		Cause:  cause,
	}
}

// Truncated creates a codec error for a stream that ended mid-frame
func Truncated(format Format, remaining int) *Error {
	return &Error{
		Format: format,
		Kind:   KindCodec,
		Detail: fmt.Sprintf("stream ended with %d bytes of an incomplete frame", remaining),
	}
}

// Kind predicates for callers that only care about the category

// IsCodec reports whether err is a malformed-frame error
func IsCodec(err error) bool {
	return isKind(err, KindCodec)
}

// IsIO reports whether err is a transport read error
func IsIO(err error) bool {
	return isKind(err, KindIO)
}

// IsMaxLen reports whether err is a max-frame-length error
func IsMaxLen(err error) bool {
	return isKind(err, KindMaxLen)
}

func isKind(err error, kind Kind) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
