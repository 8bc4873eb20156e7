// Package codec provides incremental framing decoders for streamed formats.
//
// A FrameDecoder is a small state machine that consumes a growing byte
// buffer, fed in arbitrary chunks as bytes arrive off a socket, and extracts
// complete frames as soon as enough bytes are available:
//
//	┌──────────────────────────────────────────────────────────────┐
//	│ transport chunk → Buffer.Write → Decode → frame │ await more │
//	└──────────────────────────────────────────────────────────────┘
//
// # Decode Contract
//
// Decode returns exactly one outcome per call:
//
//   - (frame, nil): one complete frame, copied out of the buffer and
//     consumed from its head. At most one frame per call; callers drain
//     buffered frames by calling Decode again.
//   - (nil, nil): not enough bytes yet, append more and retry.
//   - (nil, err): terminal. Framing state may be inconsistent and the
//     decoder must not be used again.
//
// Decode never blocks and is a no-op on an empty buffer. DecodeEOF is called
// once no further input will arrive; formats that allow it flush a final
// unterminated frame, others report truncation.
//
// # Frame Boundaries vs Payload Grammar
//
// Decoders identify frame boundaries only. Turning a frame's bytes into a
// typed value is the materializer's job (package httpstream wires the format
// libraries). The JSON array decoder, for instance, tracks just enough
// string/escape and brace state to find where one object ends; it never
// validates the JSON inside.
//
// # Memory Bound
//
// Every decoder carries a maximum frame length fixed at construction. The
// bound is enforced against declared lengths and against scanned-but-
// incomplete prefixes, so an oversized frame fails before it is ever fully
// buffered. This is the memory-safety backstop against a malicious or buggy
// producer.
//
// # State
//
// Decoders are stateful and resume mid-frame across calls: brace depth,
// a partially received length prefix, a line with no newline yet. State
// resets to neutral the moment a frame is emitted. One decoder instance
// serves one stream; instances are not safe for concurrent use.
package codec
