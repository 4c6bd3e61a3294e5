package chat

import (
	"encoding/json"
	"time"

	"kiu_social_server/internal/model"
	"kiu_social_server/pkg/constants"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize bounds a single frame; the largest legal payload is a
	// post-length body plus envelope overhead.
	maxMessageSize = 4096
)

// UserConn is one live websocket bound to an authenticated user. Writes go
// through the send channel so only the write pump touches the socket.
type UserConn struct {
	UserId string
	ConnId string

	ws     *websocket.Conn
	send   chan []byte
	done   chan struct{}
	server *ChatServer
}

// NewUserConn wires an upgraded socket into the server and starts its pumps.
func NewUserConn(server *ChatServer, ws *websocket.Conn, userId string) *UserConn {
	conn := &UserConn{
		UserId: userId,
		ConnId: uuid.NewString(),
		ws:     ws,
		send:   make(chan []byte, constants.CHANNEL_SIZE),
		done:   make(chan struct{}),
		server: server,
	}
	server.Hub.Register(conn)
	go conn.writePump()
	go conn.readPump()
	return conn
}

// Enqueue hands a marshaled frame to the write pump without blocking; a full
// queue or a closed connection drops the frame for this connection only.
func (c *UserConn) Enqueue(payload []byte) {
	select {
	case <-c.done:
	case c.send <- payload:
	default:
		zap.L().Warn("send queue full, frame dropped",
			zap.String("user", c.UserId), zap.String("conn", c.ConnId))
	}
}

func (c *UserConn) readPump() {
	defer func() {
		c.server.Hub.Unregister(c)
		close(c.done)
		_ = c.ws.Close()
	}()
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Warn("websocket read failed",
					zap.String("user", c.UserId), zap.Error(err))
			}
			return
		}
		c.handleEvent(raw)
	}
}

func (c *UserConn) handleEvent(raw []byte) {
	var event ClientEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		zap.L().Warn("malformed client event",
			zap.String("user", c.UserId), zap.Error(err))
		return
	}
	switch event.Event {
	case EventJoinConversation:
		var payload ConversationPayload
		if json.Unmarshal(event.Data, &payload) == nil && payload.ConversationId != "" {
			c.server.Hub.Join(c, ConversationRoom(payload.ConversationId))
		}
	case EventLeaveConversation:
		var payload ConversationPayload
		if json.Unmarshal(event.Data, &payload) == nil && payload.ConversationId != "" {
			c.server.Hub.Leave(c, ConversationRoom(payload.ConversationId))
		}
	case EventSendMessage:
		var payload SendMessagePayload
		if err := json.Unmarshal(event.Data, &payload); err != nil || payload.RecipientId == "" || payload.Content == "" {
			c.server.Hub.SendTo(c.ConnId, ServerEvent{
				Event: EventMessageError,
				Data:  MessageErrorPayload{Error: "recipientId and content are required"},
			})
			return
		}
		// The socket path enforces the same type tags the REST binding does.
		switch payload.MessageType {
		case "":
			payload.MessageType = model.MessageTypeText
		case model.MessageTypeText, model.MessageTypeImage, model.MessageTypeFile:
		default:
			c.server.Hub.SendTo(c.ConnId, ServerEvent{
				Event: EventMessageError,
				Data:  MessageErrorPayload{Error: "unsupported message type"},
			})
			return
		}
		// Sender identity always comes from the authenticated connection.
		c.server.Submit(c.ConnId, c.UserId, &payload)
	case EventTypingStart, EventTypingStop:
		var payload TypingPayload
		if json.Unmarshal(event.Data, &payload) == nil && payload.RecipientId != "" {
			c.server.Hub.Broadcast(UserRoom(payload.RecipientId), ServerEvent{
				Event: EventUserTyping,
				Data:  UserTypingPayload{UserId: c.UserId, IsTyping: event.Event == EventTypingStart},
			})
		}
	default:
		zap.L().Debug("unknown client event",
			zap.String("user", c.UserId), zap.String("event", event.Event))
	}
}

func (c *UserConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case payload := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-c.done:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
