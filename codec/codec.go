package codec

// FrameDecoder extracts complete frames from a buffer that grows between
// calls. See the package documentation for the full contract.
type FrameDecoder interface {
	// Decode attempts to extract one complete frame from the buffer.
	// It returns the frame bytes (copied, with the buffer advanced past
	// them), or (nil, nil) when more input is needed, or a terminal error.
	Decode(buf *Buffer) ([]byte, error)

	// DecodeEOF is called instead of Decode once no further input will
	// arrive. Formats with an implicit terminator flush a final frame from
	// the remaining bytes; others report truncation if a partial frame
	// remains. Like Decode it emits at most one frame per call.
	DecodeEOF(buf *Buffer) ([]byte, error)
}
