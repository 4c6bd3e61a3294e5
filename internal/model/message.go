package model

import (
	"database/sql"

	"gorm.io/gorm"
)

// Message type tags.
const (
	MessageTypeText  = "TEXT"
	MessageTypeImage = "IMAGE"
	MessageTypeFile  = "FILE"
)

// Message is a direct message between two users. Rows are immutable after
// creation except for the read-state transition.
type Message struct {
	gorm.Model

	// Uuid is a snowflake id in decimal string form.
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);not null"`

	SenderId    string `gorm:"column:sender_id;index;type:char(20);not null"`
	RecipientId string `gorm:"column:recipient_id;index;type:char(20);not null"`
	Content     string `gorm:"column:content;type:text;not null"`
	MessageType string `gorm:"column:message_type;type:varchar(10);not null;default:TEXT"`

	IsRead bool         `gorm:"column:is_read;not null;default:false"`
	ReadAt sql.NullTime `gorm:"column:read_at"`
}

func (Message) TableName() string {
	return "messages"
}
