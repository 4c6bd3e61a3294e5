package repository

import (
	"time"

	"kiu_social_server/internal/model"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates the message repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return wrapDBError(err, "create message")
	}
	return nil
}

func (r *messageRepository) FindConversation(userOneId, userTwoId string, page, limit int) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
		userOneId, userTwoId, userTwoId, userOneId).
		Order("created_at DESC").
		Offset(pageOffset(page, limit)).Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "find conversation user1=%s user2=%s", userOneId, userTwoId)
	}
	return messages, nil
}

func (r *messageRepository) FindAllForUser(userId string) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.Where("sender_id = ? OR recipient_id = ?", userId, userId).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "find messages user=%s", userId)
	}
	return messages, nil
}

func (r *messageRepository) MarkConversationRead(senderId, recipientId string, at time.Time) error {
	err := r.db.Model(&model.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND is_read = ?", senderId, recipientId, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": at,
		}).Error
	if err != nil {
		return wrapDBErrorf(err, "mark read sender=%s recipient=%s", senderId, recipientId)
	}
	return nil
}

func (r *messageRepository) CountUnread(senderId, recipientId string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND is_read = ?", senderId, recipientId, false).
		Count(&count).Error
	if err != nil {
		return 0, wrapDBErrorf(err, "count unread sender=%s recipient=%s", senderId, recipientId)
	}
	return count, nil
}
