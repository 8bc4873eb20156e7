package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/streamkit/httpstream/codec/internal/varint"
	"github.com/streamkit/httpstream/errors"
)

func lenPrefixed(payloads ...[]byte) []byte {
	var out []byte
	for _, p := range payloads {
		out = varint.Append(out, uint64(len(p)))
		out = append(out, p...)
	}
	return out
}

func lenPrefixMk(maxLen int) func() FrameDecoder {
	return func() FrameDecoder { return NewLenPrefixDecoder(maxLen) }
}

func TestLenPrefix_Basic(t *testing.T) {
	want := [][]byte{[]byte("alpha"), []byte("beta"), []byte("gamma")}
	input := lenPrefixed(want...)

	assertChunkInvariant(t, lenPrefixMk(1024), input, want)
}

func TestLenPrefix_MultiByteLength(t *testing.T) {
	// A payload above 127 bytes forces a two-byte varint prefix.
	big := []byte(strings.Repeat("z", 300))
	input := lenPrefixed(big, []byte("tail"))

	assertChunkInvariant(t, lenPrefixMk(1024), input, [][]byte{big, []byte("tail")})
}

func TestLenPrefix_EmptyMessage(t *testing.T) {
	input := lenPrefixed([]byte("a"), []byte{}, []byte("b"))
	want := [][]byte{[]byte("a"), {}, []byte("b")}

	assertChunkInvariant(t, lenPrefixMk(1024), input, want)
}

func TestLenPrefix_SplitVarintAcrossChunks(t *testing.T) {
	dec := NewLenPrefixDecoder(1024)
	buf := NewBuffer(0)

	// First byte of a two-byte varint: cannot tell the length yet.
	buf.Write([]byte{0xac})
	if frame, err := dec.Decode(buf); frame != nil || err != nil {
		t.Fatalf("partial varint decode = (%q, %v), want await", frame, err)
	}

	buf.Write([]byte{0x02}) // completes varint(300)
	if frame, err := dec.Decode(buf); frame != nil || err != nil {
		t.Fatalf("after varint decode = (%q, %v), want await payload", frame, err)
	}

	buf.Write(bytes.Repeat([]byte("z"), 300))
	frame, err := dec.Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(frame) != 300 {
		t.Fatalf("frame len = %d, want 300", len(frame))
	}
}

func TestLenPrefix_DeclaredLengthOverBound(t *testing.T) {
	// The declared length alone must fail the decode, before any payload
	// bytes are buffered.
	dec := NewLenPrefixDecoder(16)
	buf := NewBuffer(0)
	buf.Write(varint.Append(nil, 1000))

	_, err := dec.Decode(buf)
	if !errors.IsMaxLen(err) {
		t.Fatalf("err = %v, want max-length error", err)
	}
}

func TestLenPrefix_InvalidVarint(t *testing.T) {
	dec := NewLenPrefixDecoder(1024)
	buf := NewBuffer(0)
	buf.Write(bytes.Repeat([]byte{0xff}, 11))

	_, err := dec.Decode(buf)
	if !errors.IsCodec(err) {
		t.Fatalf("err = %v, want codec error", err)
	}
}

func TestLenPrefix_TruncatedPayloadAtEOF(t *testing.T) {
	dec := NewLenPrefixDecoder(1024)
	buf := NewBuffer(0)
	buf.Write(lenPrefixed([]byte("complete")))
	buf.Write([]byte{10, 'p', 'a', 'r'}) // declares 10 bytes, delivers 3

	if frame, err := dec.Decode(buf); err != nil || string(frame) != "complete" {
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

func TestLenPrefix_PartialVarintAtEOF(t *testing.T) {
	dec := NewLenPrefixDecoder(1024)
	buf := NewBuffer(0)
	buf.Write([]byte{0x80, 0x80})

	_, err := dec.DecodeEOF(buf)
	if !errors.IsCodec(err) {
		t.Fatalf("DecodeEOF = %v, want truncation codec error", err)
	}
}

func TestLenPrefix_EmptyInput(t *testing.T) {
	dec := NewLenPrefixDecoder(1024)
	buf := NewBuffer(0)

	if frame, err := dec.Decode(buf); frame != nil || err != nil {
		t.Fatalf("Decode on empty buffer = (%q, %v), want await", frame, err)
	}
	if frame, err := dec.DecodeEOF(buf); frame != nil || err != nil {
		t.Fatalf("DecodeEOF on empty buffer = (%q, %v), want end", frame, err)
	}
}
