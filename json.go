package httpstream

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/streamkit/httpstream/codec"
	"github.com/streamkit/httpstream/errors"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONArray streams a response body carrying one JSON array, emitting each
// top-level object as a value of type T. The array is never held in memory;
// objects are extracted as their closing brace arrives.
//
// maxFrameLen bounds the byte size of a single object, including bytes
// scanned toward an object that has not completed yet.
func JSONArray[T any](body io.ReadCloser, maxFrameLen int, opts ...Option) *Stream[T] {
	cfg := newConfig(opts)
	return newFrameStream(body, cfg, errors.FormatJSONArray,
		codec.NewJSONArrayDecoder(maxFrameLen), unmarshalJSON[T], true)
}

// JSONLines streams a response body of newline-delimited JSON, one value of
// type T per line. A final line without a trailing newline is still decoded
// when the body ends.
//
// maxFrameLen bounds the byte length of a single line.
func JSONLines[T any](body io.ReadCloser, maxFrameLen int, opts ...Option) *Stream[T] {
	cfg := newConfig(opts)
	return newFrameStream(body, cfg, errors.FormatJSONLines,
		codec.NewLineDecoder(errors.FormatJSONLines, maxFrameLen), unmarshalJSON[T], true)
}

func unmarshalJSON[T any](frame []byte) (T, bool, error) {
	var v T
	if err := jsonAPI.Unmarshal(frame, &v); err != nil {
		return v, false, err
	}
	return v, true, nil
}
