package repository

import (
	"kiu_social_server/internal/model"

	"gorm.io/gorm"
)

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates the comment repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *model.Comment) error {
	if err := r.db.Create(comment).Error; err != nil {
		return wrapDBError(err, "create comment")
	}
	return nil
}

func (r *commentRepository) FindByUuid(uuid string) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.First(&comment, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "find comment uuid=%s", uuid)
	}
	return &comment, nil
}

func (r *commentRepository) FindTopLevelByPost(postId string, page, limit int) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.Where("post_id = ? AND parent_comment_id = ''", postId).
		Order("created_at DESC").
		Offset(pageOffset(page, limit)).Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "find comments post=%s", postId)
	}
	return comments, nil
}

func (r *commentRepository) FindRepliesByParents(parentIds []string) ([]model.Comment, error) {
	if len(parentIds) == 0 {
		return nil, nil
	}
	var replies []model.Comment
	err := r.db.Where("parent_comment_id IN ?", parentIds).
		Order("created_at ASC").
		Find(&replies).Error
	if err != nil {
		return nil, wrapDBError(err, "find comment replies")
	}
	return replies, nil
}

func (r *commentRepository) FindRecentByPost(postId string, limit int) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.Where("post_id = ?", postId).
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "find recent comments post=%s", postId)
	}
	return comments, nil
}
