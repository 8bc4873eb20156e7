package httpstream

import (
	"io"

	"google.golang.org/protobuf/proto"

	"github.com/streamkit/httpstream/codec"
	"github.com/streamkit/httpstream/errors"
)

// ProtoMessage constrains PT to a pointer to T that implements
// proto.Message, so Protobuf can allocate messages without a factory
// argument.
type ProtoMessage[T any] interface {
	*T
	proto.Message
}

// Protobuf streams a response body of length-prefixed Protobuf messages:
// each message is framed by a varint byte length followed by that many
// payload bytes.
//
//	stream := httpstream.Protobuf[pb.Event](resp.Body, 64*1024)
//
// maxFrameLen bounds the declared message length; an oversized declaration
// fails before its payload is buffered.
func Protobuf[T any, PT ProtoMessage[T]](body io.ReadCloser, maxFrameLen int, opts ...Option) *Stream[PT] {
	cfg := newConfig(opts)
	mat := func(frame []byte) (PT, bool, error) {
		msg := PT(new(T))
		if err := proto.Unmarshal(frame, msg); err != nil {
			return nil, false, err
		}
		return msg, true, nil
	}
	return newFrameStream(body, cfg, errors.FormatProtobuf,
		codec.NewLenPrefixDecoder(maxFrameLen), mat, true)
}
