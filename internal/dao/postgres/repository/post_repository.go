package repository

import (
	"kiu_social_server/internal/model"

	"gorm.io/gorm"
)

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates the post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *model.Post) error {
	if err := r.db.Create(post).Error; err != nil {
		return wrapDBError(err, "create post")
	}
	return nil
}

func (r *postRepository) FindByUuid(uuid string) (*model.Post, error) {
	var post model.Post
	if err := r.db.First(&post, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "find post uuid=%s", uuid)
	}
	return &post, nil
}

func (r *postRepository) FindPublic(page, limit int) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.Where("is_public = ?", true).
		Order("created_at DESC").
		Offset(pageOffset(page, limit)).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, wrapDBError(err, "find public posts")
	}
	return posts, nil
}

func (r *postRepository) FindPublicByAuthor(authorId string, page, limit int) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.Where("author_id = ? AND is_public = ?", authorId, true).
		Order("created_at DESC").
		Offset(pageOffset(page, limit)).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "find posts author=%s", authorId)
	}
	return posts, nil
}
