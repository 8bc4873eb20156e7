package codec

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/streamkit/httpstream/errors"
)

func jsonArrayMk(maxLen int) func() FrameDecoder {
	return func() FrameDecoder { return NewJSONArrayDecoder(maxLen) }
}

func TestJSONArray_TwoObjects(t *testing.T) {
	input := []byte(`[{"a":1},{"a":2}]`)
	want := [][]byte{[]byte(`{"a":1}`), []byte(`{"a":2}`)}

	assertChunkInvariant(t, jsonArrayMk(1024), input, want)
}

func TestJSONArray_NestedObjects(t *testing.T) {
	input := []byte(`[{"a":{"b":{"c":1}}},{"d":[1,2,{"e":3}]}]`)
	want := [][]byte{
		[]byte(`{"a":{"b":{"c":1}}}`),
		[]byte(`{"d":[1,2,{"e":3}]}`),
	}

	assertChunkInvariant(t, jsonArrayMk(1024), input, want)
}

func TestJSONArray_StructureInsideStrings(t *testing.T) {
	// Braces, commas, brackets and escaped quotes inside string values must
	// not affect brace or array-open tracking.
	input := []byte(`[{"a":"}{,["},{"b":"he said \"hi\" {"},{"c":"back\\slash\\"}]`)
	want := [][]byte{
		[]byte(`{"a":"}{,["}`),
		[]byte(`{"b":"he said \"hi\" {"}`),
		[]byte(`{"c":"back\\slash\\"}`),
	}

	assertChunkInvariant(t, jsonArrayMk(1024), input, want)
}

func TestJSONArray_WhitespaceAndTrailingBracket(t *testing.T) {
	input := []byte("[\n  {\"a\": 1},\n  {\"b\": 2}\n]\n")
	want := [][]byte{[]byte(`{"a": 1}`), []byte(`{"b": 2}`)}

	assertChunkInvariant(t, jsonArrayMk(1024), input, want)
}

func TestJSONArray_SecondArrayOpenIsError(t *testing.T) {
	dec := NewJSONArrayDecoder(1024)
	buf := NewBuffer(0)
	buf.Write([]byte(`[{"a":1},[`))

	if frame, err := dec.Decode(buf); err != nil || string(frame) != `{"a":1}` {
		t.Fatalf("first decode = (%q, %v)", frame, err)
	}
	_, err := dec.Decode(buf)
	if !errors.IsCodec(err) {
		t.Fatalf("second top-level [ gave %v, want codec error", err)
	}
}

func TestJSONArray_StrayDelimiterIsError(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"comma before first object", `[,{"a":1}]`},
		{"double comma", `[{"a":1},,{"a":2}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeAll(NewJSONArrayDecoder(1024), []byte(tt.input), len(tt.input))
			if !errors.IsCodec(err) {
				t.Fatalf("err = %v, want codec error", err)
			}
		})
	}
}

func TestJSONArray_MaxLen(t *testing.T) {
	// One object larger than the bound, rejected incrementally regardless of
	// chunking and never fully buffered.
	big := `[{"a":"` + strings.Repeat("x", 100) + `"}]`

	for _, chunk := range []int{1, 7, len(big)} {
		_, err := decodeAll(NewJSONArrayDecoder(32), []byte(big), chunk)
		if !errors.IsMaxLen(err) {
			t.Fatalf("chunk %d: err = %v, want max-length error", chunk, err)
		}
	}
}

func TestJSONArray_MaxLenCountsUnfinishedObject(t *testing.T) {
	// No complete frame ever arrives; the scanned prefix alone must trip the
	// bound.
	dec := NewJSONArrayDecoder(16)
	buf := NewBuffer(0)
	buf.Write([]byte(`[{"a":"` + strings.Repeat("y", 64)))

	_, err := dec.Decode(buf)
	if !errors.IsMaxLen(err) {
		t.Fatalf("err = %v, want max-length error", err)
	}
}

func TestJSONArray_TruncatedObjectAtEOF(t *testing.T) {
	dec := NewJSONArrayDecoder(1024)
	buf := NewBuffer(0)
	buf.Write([]byte(`[{"a":1},{"b":`))

	if frame, err := dec.Decode(buf); err != nil || string(frame) != `{"a":1}` {
		t.Fatalf("first decode = (%q, %v)", frame, err)
	}
	if frame, err := dec.Decode(buf); frame != nil || err != nil {
		t.Fatalf("second decode = (%q, %v), want await", frame, err)
	}

	_, err := dec.DecodeEOF(buf)
	if !errors.IsCodec(err) {
		t.Fatalf("DecodeEOF = %v, want truncation codec error", err)
	}
}

func TestJSONArray_MissingCloseBracketTolerated(t *testing.T) {
	// All objects complete, stream just lacks the final ']'.
	frames, err := decodeAll(NewJSONArrayDecoder(1024), []byte(`[{"a":1},{"a":2}`), 3)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
}

func TestJSONArray_EmptyArray(t *testing.T) {
	frames, err := decodeAll(NewJSONArrayDecoder(1024), []byte(`[]`), 1)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(frames) != 0 {
		t.Fatalf("got %d frames, want 0", len(frames))
	}
}

func TestJSONArray_EmptyInput(t *testing.T) {
	dec := NewJSONArrayDecoder(1024)
	buf := NewBuffer(0)

	if frame, err := dec.Decode(buf); frame != nil || err != nil {
		t.Fatalf("Decode on empty buffer = (%q, %v), want await", frame, err)
	}
	if frame, err := dec.DecodeEOF(buf); frame != nil || err != nil {
		t.Fatalf("DecodeEOF on empty buffer = (%q, %v), want end", frame, err)
	}
}

func TestJSONArray_MaxLenErrorKind(t *testing.T) {
	_, err := decodeAll(NewJSONArrayDecoder(4), []byte(`[{"aaaa":1}]`), 1)

	var streamErr *errors.Error
	if !stderrors.As(err, &streamErr) {
		t.Fatalf("err %v is not a *errors.Error", err)
	}
	if streamErr.Format != errors.FormatJSONArray || streamErr.Kind != errors.KindMaxLen {
		t.Fatalf("got format %q kind %q", streamErr.Format, streamErr.Kind)
	}
}
