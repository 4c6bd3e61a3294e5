package request

type CreatePostRequest struct {
	Content  string   `json:"content" binding:"required,max=2000"`
	Images   []string `json:"images" binding:"omitempty,dive,max=500"`
	IsPublic *bool    `json:"isPublic"`
}

type CreateCommentRequest struct {
	Content         string `json:"content" binding:"required,max=1000"`
	ParentCommentId string `json:"parentCommentId" binding:"omitempty"`
}
