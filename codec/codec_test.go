package codec

import (
	"fmt"
	"testing"
)

// decodeAll feeds input to dec in chunks of chunkSize bytes and returns every
// frame emitted, draining buffered frames between refills and flushing at end
// of input. It mirrors the pump loop in package httpstream.
func decodeAll(dec FrameDecoder, input []byte, chunkSize int) ([][]byte, error) {
	buf := NewBuffer(0)
	var frames [][]byte

	for len(input) > 0 {
		n := chunkSize
		if n > len(input) {
			n = len(input)
		}
		buf.Write(input[:n])
		input = input[n:]

		for {
			frame, err := dec.Decode(buf)
			if err != nil {
				return frames, err
			}
			if frame == nil {
				break
			}
			frames = append(frames, frame)
		}
	}

	for {
		frame, err := dec.DecodeEOF(buf)
		if err != nil {
			return frames, err
		}
		if frame == nil {
			return frames, nil
		}
		frames = append(frames, frame)
	}
}

// chunkSizes covers the boundary conditions every decoder must be invariant
// under: byte-at-a-time delivery, small odd chunks, and one whole chunk.
func chunkSizes(inputLen int) []int {
	sizes := []int{1, 2, 3, 7}
	if inputLen > 0 {
		sizes = append(sizes, inputLen)
	}
	return sizes
}

// assertChunkInvariant checks that dec (freshly built per run by mk) emits
// the same frames for every way of chunking the input.
func assertChunkInvariant(t *testing.T, mk func() FrameDecoder, input []byte, want [][]byte) {
	t.Helper()

	for _, size := range chunkSizes(len(input)) {
		t.Run(fmt.Sprintf("chunk_%d", size), func(t *testing.T) {
			frames, err := decodeAll(mk(), input, size)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(frames) != len(want) {
				t.Fatalf("got %d frames, want %d", len(frames), len(want))
			}
			for i := range frames {
				if string(frames[i]) != string(want[i]) {
					t.Errorf("frame %d = %q, want %q", i, frames[i], want[i])
				}
			}
		})
	}
}
