package repository

import (
	"kiu_social_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type friendshipRepository struct {
	db *gorm.DB
}

// NewFriendshipRepository creates the friendship/block repository.
func NewFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

func (r *friendshipRepository) ExistsBetween(userId, otherId string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Friendship{}).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userId, otherId, otherId, userId).
		Count(&count).Error
	if err != nil {
		return false, wrapDBErrorf(err, "check friendship user=%s other=%s", userId, otherId)
	}
	return count > 0, nil
}

// CreatePair writes both directed rows in one transaction so the 0-or-2-row
// invariant holds even if the second insert fails.
func (r *friendshipRepository) CreatePair(userId, friendId string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		rows := []model.Friendship{
			{UserId: userId, FriendId: friendId},
			{UserId: friendId, FriendId: userId},
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return wrapDBErrorf(err, "create friendship user=%s friend=%s", userId, friendId)
	}
	return nil
}

// DeletePair removes the rows outright; a soft delete would leave the pair
// occupying the unique index and block a later re-add.
func (r *friendshipRepository) DeletePair(userId, friendId string) error {
	err := r.db.Unscoped().Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
		userId, friendId, friendId, userId).
		Delete(&model.Friendship{}).Error
	if err != nil {
		return wrapDBErrorf(err, "delete friendship user=%s friend=%s", userId, friendId)
	}
	return nil
}

func (r *friendshipRepository) FindFriends(userId string) ([]model.Friendship, error) {
	var friends []model.Friendship
	if err := r.db.Where("user_id = ?", userId).Find(&friends).Error; err != nil {
		return nil, wrapDBErrorf(err, "find friends user=%s", userId)
	}
	return friends, nil
}

// Block removes the friendship pair and upserts the directed block row in
// one transaction, keeping block and friendship mutually exclusive.
func (r *friendshipRepository) Block(userId, blockedId string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userId, blockedId, blockedId, userId).
			Delete(&model.Friendship{}).Error; err != nil {
			return err
		}
		block := model.Block{UserId: userId, BlockedId: blockedId}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "blocked_id"}},
			DoNothing: true,
		}).Create(&block).Error
	})
	if err != nil {
		return wrapDBErrorf(err, "block user=%s blocked=%s", userId, blockedId)
	}
	return nil
}

func (r *friendshipRepository) FindBlock(userId, blockedId string) (*model.Block, error) {
	var block model.Block
	if err := r.db.Where("user_id = ? AND blocked_id = ?", userId, blockedId).First(&block).Error; err != nil {
		return nil, wrapDBErrorf(err, "find block user=%s blocked=%s", userId, blockedId)
	}
	return &block, nil
}

func (r *friendshipRepository) BlockedEither(userId string) ([]string, error) {
	var blocks []model.Block
	if err := r.db.Where("user_id = ? OR blocked_id = ?", userId, userId).Find(&blocks).Error; err != nil {
		return nil, wrapDBErrorf(err, "find blocks user=%s", userId)
	}
	ids := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b.UserId == userId {
			ids = append(ids, b.BlockedId)
		} else {
			ids = append(ids, b.UserId)
		}
	}
	return ids, nil
}
