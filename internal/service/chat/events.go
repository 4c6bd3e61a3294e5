// Package chat implements the realtime channel: connection registry,
// room-scoped fan-out, typing indicators and the message send pipeline.
package chat

import (
	"encoding/json"

	"kiu_social_server/internal/dto/respond"
)

// Client to server event names.
const (
	EventJoinConversation  = "join_conversation"
	EventLeaveConversation = "leave_conversation"
	EventSendMessage       = "send_message"
	EventTypingStart       = "typing_start"
	EventTypingStop        = "typing_stop"
)

// Server to client event names.
const (
	EventNewMessage   = "new_message"
	EventMessageSent  = "message_sent"
	EventMessageError = "message_error"
	EventUserTyping   = "user_typing"
)

// ClientEvent is the envelope read off a connection; Data is decoded per
// event type.
type ClientEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ServerEvent is the envelope written to a connection.
type ServerEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// ConversationPayload names a conversation room; callers key it by the
// counterpart's user id.
type ConversationPayload struct {
	ConversationId string `json:"conversationId"`
}

type SendMessagePayload struct {
	RecipientId string `json:"recipientId"`
	Content     string `json:"content"`
	MessageType string `json:"messageType"`
}

type TypingPayload struct {
	RecipientId string `json:"recipientId"`
}

// UserTypingPayload is broadcast to the recipient's personal room.
type UserTypingPayload struct {
	UserId   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

// MessageErrorPayload carries the failure reason for an unsent message.
type MessageErrorPayload struct {
	Error string `json:"error"`
}

// DeliveryEnvelope carries an already-persisted message from the process
// that accepted it to every process holding live connections. Persistence
// happens exactly once, before publishing; consumers only fan out. ConnId
// routes the confirmation back to the originating connection, which only its
// owning process will find.
type DeliveryEnvelope struct {
	ConnId      string                  `json:"connId"`
	SenderId    string                  `json:"senderId"`
	RecipientId string                  `json:"recipientId"`
	Message     *respond.MessageRespond `json:"message"`
}

// UserRoom keys the room that reaches all of one user's connections.
func UserRoom(userId string) string {
	return "user_" + userId
}

// ConversationRoom keys a conversation room by the id the client supplied.
func ConversationRoom(conversationId string) string {
	return "conversation_" + conversationId
}
