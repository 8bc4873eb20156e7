// Package errors provides structured error types for the httpstream library.
//
// Errors are categorized by Format (which stream format was being decoded)
// and Kind (error category). The Kind distinguishes malformed frames from
// transport failures and from the max-frame-length backstop, so callers can
// react differently to "the producer sent garbage" and "the producer sent
// something too large to buffer":
//
//	stream := httpstream.JSONArray[Row](resp.Body, 64*1024)
//	for stream.Next() {
//	    if err := stream.Err(); err != nil {
//	        if errors.IsMaxLen(err) {
//	            // oversized record, never materialized
//	        }
//	        break
//	    }
//	    use(stream.Item())
//	}
//
// Use the convenience constructors for common patterns:
//
//	err := errors.Codec(errors.FormatJSONArray, cause, "unexpected delimiter")
//	err := errors.MaxLen(errors.FormatProtobuf, declared, limit)
//	err := errors.IO(errors.FormatCSV, cause)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
