package grpc

import (
	"github.com/samber/lo"

	"chat-relay/domain"
	pb "chat-relay/proto/chat"
)

// streamReceiver adapts the read half of a duplex stream to the pump
// contract. Recv unblocks on client disconnection and on stream context
// cancellation, reporting io.EOF only for a clean close.
type streamReceiver struct {
	stream pb.ChatService_ChatMessageStreamingServer
}

func (r streamReceiver) Receive() (domain.Message, error) {
	in, err := r.stream.Recv()
	if err != nil {
		return domain.Message{}, err
	}
	return toDomainMessage(in), nil
}

// streamSender adapts the write half. The outbound pump is its only
// caller, keeping a single writer per stream.
type streamSender struct {
	stream pb.ChatService_ChatMessageStreamingServer
}

func (s streamSender) Send(msg domain.Message) error {
	return s.stream.Send(lo.ToPtr(toChatMessage(msg)))
}

func toDomainMessage(in *pb.ChatMessage) domain.Message {
	return domain.Message{
		Text:   in.GetMessage(),
		Sender: in.GetFrom(),
	}
}

func toChatMessage(msg domain.Message) pb.ChatMessage {
	return pb.ChatMessage{
		Message: msg.Text,
		From:    msg.Sender,
	}
}
