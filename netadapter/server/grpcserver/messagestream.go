package grpcserver

import (
	"bytes"

	"github.com/pkg/errors"
	"google.golang.org/grpc"

	"github.com/dagnet/dagd/wire"
)

const messageStreamFullMethod = "/dagd.P2P/MessageStream"

// messageFrame is a single wire message, serialized together with its
// command header, carried as an opaque gRPC frame. The actual
// serialization lives in the wire package.
type messageFrame struct {
	payload []byte
}

func frameFromMessage(message wire.Message) (*messageFrame, error) {
	buffer := &bytes.Buffer{}
	err := wire.WriteMessage(buffer, message, wire.ProtocolVersion)
	if err != nil {
		return nil, err
	}
	return &messageFrame{payload: buffer.Bytes()}, nil
}

func (f *messageFrame) toMessage() (wire.Message, error) {
	return wire.ReadMessage(bytes.NewReader(f.payload), wire.ProtocolVersion)
}

// frameCodec is a gRPC codec that passes message frames through as-is
type frameCodec struct{}

func (frameCodec) Marshal(v interface{}) ([]byte, error) {
	frame, ok := v.(*messageFrame)
	if !ok {
		return nil, errors.Errorf("expected *messageFrame, instead got %T", v)
	}
	return frame.payload, nil
}

func (frameCodec) Unmarshal(data []byte, v interface{}) error {
	frame, ok := v.(*messageFrame)
	if !ok {
		return errors.Errorf("expected *messageFrame, instead got %T", v)
	}
	frame.payload = data
	return nil
}

func (frameCodec) String() string {
	return "dagd-frame"
}

type messageStreamService interface {
	MessageStream(stream grpc.ServerStream) error
}

func messageStreamHandler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(messageStreamService).MessageStream(stream)
}

var messageStreamServiceDesc = grpc.ServiceDesc{
	ServiceName: "dagd.P2P",
	HandlerType: (*messageStreamService)(nil),
	Streams: []grpc.StreamDesc{{
		StreamName:    "MessageStream",
		Handler:       messageStreamHandler,
		ServerStreams: true,
		ClientStreams: true,
	}},
}

type grpcStream interface {
	Send(*messageFrame) error
	Recv() (*messageFrame, error)
}

type serverMessageStream struct {
	grpc.ServerStream
}

func (s serverMessageStream) Send(frame *messageFrame) error {
	return s.SendMsg(frame)
}

func (s serverMessageStream) Recv() (*messageFrame, error) {
	frame := &messageFrame{}
	err := s.RecvMsg(frame)
	if err != nil {
		return nil, err
	}
	return frame, nil
}

type clientMessageStream struct {
	grpc.ClientStream
}

func (s clientMessageStream) Send(frame *messageFrame) error {
	return s.SendMsg(frame)
}

func (s clientMessageStream) Recv() (*messageFrame, error) {
	frame := &messageFrame{}
	err := s.RecvMsg(frame)
	if err != nil {
		return nil, err
	}
	return frame, nil
}
