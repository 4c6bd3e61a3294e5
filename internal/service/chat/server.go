package chat

import (
	"kiu_social_server/internal/config"
	"kiu_social_server/internal/dao/postgres/repository"
	"kiu_social_server/internal/dto/request"
	"kiu_social_server/internal/dto/respond"

	"go.uber.org/zap"
)

// MessageSender persists a message and returns its denormalized form; the
// message business service satisfies it.
type MessageSender interface {
	SendMessage(senderId string, req *request.SendMessageRequest) (*respond.MessageRespond, error)
}

// MessageBroker routes persisted-message envelopes to every process holding
// live connections. The channel broker keeps everything in-process; the
// Kafka broker spans processes.
type MessageBroker interface {
	// Publish hands an envelope to the broker.
	Publish(envelope *DeliveryEnvelope) error
	// Start begins consuming envelopes; each consumed envelope is fanned
	// out to the local hub.
	Start()
	// Stop shuts the broker down and stops consumption.
	Stop()
}

// ChatServer owns the hub and the broker and runs the send pipeline.
type ChatServer struct {
	Hub    *Hub
	broker MessageBroker
	sender MessageSender
}

// NewChatServer builds the server and selects the broker from the
// configured message mode.
func NewChatServer(repos *repository.Repositories, sender MessageSender) *ChatServer {
	if config.GetConfig().KafkaConfig.MessageMode == "kafka" {
		server := &ChatServer{Hub: NewHub(repos.User), sender: sender}
		server.broker = NewKafkaBroker(server)
		return server
	}
	return NewChannelChatServer(repos.User, sender)
}

// NewChannelChatServer builds a single-process server over the in-memory
// channel broker.
func NewChannelChatServer(userRepo repository.UserRepository, sender MessageSender) *ChatServer {
	server := &ChatServer{
		Hub:    NewHub(userRepo),
		sender: sender,
	}
	server.broker = NewChannelBroker(server)
	return server
}

// Start launches the broker consumer.
func (s *ChatServer) Start() {
	s.broker.Start()
}

// Stop shuts the broker down; live connections drain on their own close.
func (s *ChatServer) Stop() {
	s.broker.Stop()
}

// Submit persists a send_message request and publishes the result for
// fan-out. The persist runs exactly once, in the process that owns the
// originating connection; every broker consumer only delivers.
func (s *ChatServer) Submit(connId, senderId string, payload *SendMessagePayload) {
	message, err := s.sender.SendMessage(senderId, &request.SendMessageRequest{
		RecipientId: payload.RecipientId,
		Content:     payload.Content,
		MessageType: payload.MessageType,
	})
	if err != nil {
		zap.L().Warn("persist message failed",
			zap.String("sender", senderId),
			zap.String("recipient", payload.RecipientId), zap.Error(err))
		s.Hub.SendTo(connId, ServerEvent{
			Event: EventMessageError,
			Data:  MessageErrorPayload{Error: err.Error()},
		})
		return
	}

	envelope := &DeliveryEnvelope{
		ConnId:      connId,
		SenderId:    senderId,
		RecipientId: payload.RecipientId,
		Message:     message,
	}
	if err := s.broker.Publish(envelope); err != nil {
		// The row exists; fall back to local delivery so the sender still
		// gets the confirmation and co-located recipients the message.
		zap.L().Error("publish delivery failed, delivering locally",
			zap.String("sender", senderId), zap.Error(err))
		s.handleDeliver(envelope)
	}
}

// handleDeliver fans a persisted message out to the local hub. Delivery
// targets the recipient's personal room plus the conversation rooms each
// side keys by their counterpart, so a recipient joined to both rooms sees
// the event more than once. message_sent reaches only the process that owns
// the originating connection.
func (s *ChatServer) handleDeliver(envelope *DeliveryEnvelope) {
	delivery := ServerEvent{Event: EventNewMessage, Data: envelope.Message}
	s.Hub.Broadcast(UserRoom(envelope.RecipientId), delivery)
	s.Hub.Broadcast(ConversationRoom(envelope.RecipientId), delivery)
	s.Hub.Broadcast(ConversationRoom(envelope.SenderId), delivery)

	s.Hub.SendTo(envelope.ConnId, ServerEvent{Event: EventMessageSent, Data: envelope.Message})
}
