package respond

import (
	"kiu_social_server/internal/model"
	"kiu_social_server/pkg/constants"
)

// CommentRespond is one comment, with replies populated only on the
// dedicated comment listing.
type CommentRespond struct {
	Id              string           `json:"id"`
	PostId          string           `json:"postId"`
	Author          UserSummary      `json:"author"`
	Content         string           `json:"content"`
	ParentCommentId string           `json:"parentCommentId,omitempty"`
	LikeCount       int64            `json:"likeCount"`
	Replies         []CommentRespond `json:"replies,omitempty"`
	CreatedAt       string           `json:"createdAt"`
}

// PostRespond is one feed item. Comments holds only the newest few as a
// preview; the full thread comes from the comment listing endpoint.
type PostRespond struct {
	Id        string           `json:"id"`
	Author    UserSummary      `json:"author"`
	Content   string           `json:"content"`
	Images    []string         `json:"images,omitempty"`
	IsPublic  bool             `json:"isPublic"`
	LikeCount int64            `json:"likeCount"`
	IsLiked   bool             `json:"isLiked"`
	Comments  []CommentRespond `json:"comments"`
	CreatedAt string           `json:"createdAt"`
}

// LikeRespond reports the new toggle state and the fresh aggregate count.
type LikeRespond struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

func NewCommentRespond(c *model.Comment, author *model.User, likeCount int64) CommentRespond {
	r := CommentRespond{
		Id:              c.Uuid,
		PostId:          c.PostId,
		Content:         c.Content,
		ParentCommentId: c.ParentCommentId,
		LikeCount:       likeCount,
		CreatedAt:       c.CreatedAt.Format(constants.DATE_TIME_LAYOUT),
	}
	if author != nil {
		r.Author = NewUserSummary(author)
	}
	return r
}

func NewPostRespond(p *model.Post, author *model.User, likeCount int64, isLiked bool) PostRespond {
	r := PostRespond{
		Id:        p.Uuid,
		Content:   p.Content,
		Images:    p.Images,
		IsPublic:  p.IsPublic,
		LikeCount: likeCount,
		IsLiked:   isLiked,
		Comments:  []CommentRespond{},
		CreatedAt: p.CreatedAt.Format(constants.DATE_TIME_LAYOUT),
	}
	if author != nil {
		r.Author = NewUserSummary(author)
	}
	return r
}
