package model

import "gorm.io/gorm"

// Post is a feed entry. Content is capped at 2000 characters by the service
// layer; Images holds optional attachment URLs.
type Post struct {
	gorm.Model
	Uuid     string   `gorm:"column:uuid;uniqueIndex;type:char(20);not null"`
	AuthorId string   `gorm:"column:author_id;index;type:char(20);not null"`
	Content  string   `gorm:"column:content;type:text;not null"`
	Images   []string `gorm:"column:images;type:text;serializer:json"`
	IsPublic bool     `gorm:"column:is_public;not null;default:true"`
}

func (Post) TableName() string {
	return "posts"
}

// Comment belongs to a post. ParentCommentId is set for replies; nesting is
// a single level, replies to replies are not modeled.
type Comment struct {
	gorm.Model
	Uuid            string `gorm:"column:uuid;uniqueIndex;type:char(20);not null"`
	PostId          string `gorm:"column:post_id;index;type:char(20);not null"`
	AuthorId        string `gorm:"column:author_id;index;type:char(20);not null"`
	Content         string `gorm:"column:content;type:text;not null"`
	ParentCommentId string `gorm:"column:parent_comment_id;index;type:char(20)"`
}

func (Comment) TableName() string {
	return "comments"
}
