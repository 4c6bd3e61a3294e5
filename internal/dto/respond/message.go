package respond

import (
	"kiu_social_server/internal/model"
	"kiu_social_server/pkg/constants"
)

// MessageRespond is one direct message with denormalized participant
// summaries; the realtime channel delivers the same shape.
type MessageRespond struct {
	Id          string      `json:"id"`
	Sender      UserSummary `json:"sender"`
	Recipient   UserSummary `json:"recipient"`
	Content     string      `json:"content"`
	MessageType string      `json:"messageType"`
	IsRead      bool        `json:"isRead"`
	ReadAt      string      `json:"readAt,omitempty"`
	CreatedAt   string      `json:"createdAt"`
}

// ConversationRespond is one entry in the derived conversation list.
type ConversationRespond struct {
	User        UserSummary    `json:"user"`
	IsActive    bool           `json:"isActive"`
	LastSeen    string         `json:"lastSeen,omitempty"`
	LastMessage MessageRespond `json:"lastMessage"`
	UnreadCount int64          `json:"unreadCount"`
}

func NewMessageRespond(m *model.Message, sender, recipient *model.User) MessageRespond {
	r := MessageRespond{
		Id:          m.Uuid,
		Content:     m.Content,
		MessageType: m.MessageType,
		IsRead:      m.IsRead,
		CreatedAt:   m.CreatedAt.Format(constants.DATE_TIME_LAYOUT),
	}
	if m.ReadAt.Valid {
		r.ReadAt = m.ReadAt.Time.Format(constants.DATE_TIME_LAYOUT)
	}
	if sender != nil {
		r.Sender = NewUserSummary(sender)
	}
	if recipient != nil {
		r.Recipient = NewUserSummary(recipient)
	}
	return r
}
