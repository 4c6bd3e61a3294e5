package repository

import (
	"errors"

	"kiu_social_server/internal/model"

	"gorm.io/gorm"
)

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates the like repository.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// TogglePostLike flips the (user, post) edge inside one transaction. The
// unique index turns a lost race between two identical toggles into a
// duplicate-key error instead of a double insert.
func (r *likeRepository) TogglePostLike(userId, postId string) (bool, int64, error) {
	var liked bool
	var count int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing model.PostLike
		err := tx.Where("user_id = ? AND post_id = ?", userId, postId).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Unscoped().Delete(&existing).Error; err != nil {
				return err
			}
			liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&model.PostLike{UserId: userId, PostId: postId}).Error; err != nil {
				return err
			}
			liked = true
		default:
			return err
		}
		return tx.Model(&model.PostLike{}).Where("post_id = ?", postId).Count(&count).Error
	})
	if err != nil {
		return false, 0, wrapDBErrorf(err, "toggle post like user=%s post=%s", userId, postId)
	}
	return liked, count, nil
}

// ToggleCommentLike is the comment counterpart of TogglePostLike.
func (r *likeRepository) ToggleCommentLike(userId, commentId string) (bool, int64, error) {
	var liked bool
	var count int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing model.CommentLike
		err := tx.Where("user_id = ? AND comment_id = ?", userId, commentId).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Unscoped().Delete(&existing).Error; err != nil {
				return err
			}
			liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&model.CommentLike{UserId: userId, CommentId: commentId}).Error; err != nil {
				return err
			}
			liked = true
		default:
			return err
		}
		return tx.Model(&model.CommentLike{}).Where("comment_id = ?", commentId).Count(&count).Error
	})
	if err != nil {
		return false, 0, wrapDBErrorf(err, "toggle comment like user=%s comment=%s", userId, commentId)
	}
	return liked, count, nil
}

func (r *likeRepository) CountPostLikes(postId string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.PostLike{}).Where("post_id = ?", postId).Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "count post likes post=%s", postId)
	}
	return count, nil
}

func (r *likeRepository) PostLikeCounts(postIds []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIds))
	if len(postIds) == 0 {
		return counts, nil
	}
	var rows []struct {
		PostId string
		Total  int64
	}
	err := r.db.Model(&model.PostLike{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIds).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapDBError(err, "count post likes")
	}
	for _, row := range rows {
		counts[row.PostId] = row.Total
	}
	return counts, nil
}

func (r *likeRepository) IsPostLiked(userId, postId string) (bool, error) {
	var count int64
	err := r.db.Model(&model.PostLike{}).
		Where("user_id = ? AND post_id = ?", userId, postId).
		Count(&count).Error
	if err != nil {
		return false, wrapDBErrorf(err, "check post like user=%s post=%s", userId, postId)
	}
	return count > 0, nil
}

func (r *likeRepository) CountCommentLikes(commentId string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.CommentLike{}).Where("comment_id = ?", commentId).Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "count comment likes comment=%s", commentId)
	}
	return count, nil
}
