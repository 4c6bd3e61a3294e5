package model

import "gorm.io/gorm"

// PostLike marks that a user likes a post. The unique index makes the edge a
// pure toggle; like counts are always derived by counting rows.
type PostLike struct {
	gorm.Model
	UserId string `gorm:"column:user_id;type:char(20);not null;uniqueIndex:idx_post_like"`
	PostId string `gorm:"column:post_id;type:char(20);not null;uniqueIndex:idx_post_like;index"`
}

func (PostLike) TableName() string {
	return "post_likes"
}

// CommentLike is the same toggle edge for comments.
type CommentLike struct {
	gorm.Model
	UserId    string `gorm:"column:user_id;type:char(20);not null;uniqueIndex:idx_comment_like"`
	CommentId string `gorm:"column:comment_id;type:char(20);not null;uniqueIndex:idx_comment_like;index"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}
