// Package httpstream consumes HTTP response bodies as lazily-decoded
// sequences of typed records, instead of buffering the whole payload before
// parsing.
//
// Five streamed formats are supported, each with an incremental framing
// decoder that handles records split across arbitrary network chunk
// boundaries:
//
//   - JSON array: successive top-level values of one streamed JSON array
//   - JSON Lines: newline-delimited JSON values
//   - CSV: newline-delimited rows, optional header, configurable delimiter
//   - Protobuf: varint length-prefixed messages
//   - Arrow IPC: schema plus record-batch messages of the Arrow stream format
//
// # Architecture Overview
//
// The library is organized into a small set of packages:
//
//	httpstream/          Root package: Stream[T] and per-format constructors
//	├── codec/           Incremental framing decoders over a shared buffer
//	│   └── internal/varint/  LEB128 length prefixes
//	└── errors/          Structured error taxonomy (codec / io / max_length)
//
// Framing and materialization are separate steps: a codec.FrameDecoder finds
// where one record's bytes end, then the format's library (json-iterator,
// csvutil, protobuf, arrow) turns the isolated frame into a value.
//
// # Quick Start
//
//	resp, err := http.Get("http://localhost:8080/json-array")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	stream := httpstream.JSONArray[MyRecord](resp.Body, 64*1024)
//	defer stream.Close()
//
//	for stream.Next() {
//	    if err := stream.Err(); err != nil {
//	        log.Fatal(err)
//	    }
//	    use(stream.Item())
//	}
//
// Or with the range-over-func form:
//
//	for rec, err := range httpstream.JSONLines[MyRecord](resp.Body, 64*1024).All() {
//	    ...
//	}
//
// # Memory Bound
//
// Every constructor takes a maximum frame length in bytes. A record that
// exceeds it - whether by declared length or by accumulated unframed bytes -
// terminates the stream with a max_length error before the record is ever
// materialized. This bounds memory against a malicious or buggy producer;
// see the errors package for distinguishing the error kinds.
//
// # Backpressure and Resources
//
// Streams are pull-based: each Next call performs only the decode work and
// transport reads needed to produce one record, with no read-ahead beyond a
// single chunk. Close releases the underlying body exactly once; abandoning
// a stream without Close leaks the HTTP connection, same as an unread
// http.Response body. Streams are single-pass and not safe for concurrent
// use.
package httpstream
