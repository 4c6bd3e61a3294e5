package handler

import (
	"strconv"

	"kiu_social_server/internal/dto/request"
	"kiu_social_server/internal/infrastructure/middleware"
	"kiu_social_server/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postService service.PostService
}

func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// pagination reads page/limit query parameters; zero values defer to the
// service defaults.
func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.Query("page"))
	limit, _ = strconv.Atoi(c.Query("limit"))
	return page, limit
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	var req request.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	result, err := h.postService.CreatePost(middleware.UserID(c), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, result)
}

func (h *PostHandler) Feed(c *gin.Context) {
	page, limit := pagination(c)
	results, err := h.postService.Feed(middleware.UserID(c), page, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, results)
}

func (h *PostHandler) UserPosts(c *gin.Context) {
	page, limit := pagination(c)
	results, err := h.postService.UserPosts(middleware.UserID(c), c.Param("id"), page, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, results)
}

func (h *PostHandler) LikePost(c *gin.Context) {
	result, err := h.postService.TogglePostLike(middleware.UserID(c), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, result)
}

func (h *PostHandler) AddComment(c *gin.Context) {
	var req request.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	result, err := h.postService.AddComment(middleware.UserID(c), c.Param("id"), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, result)
}

func (h *PostHandler) GetComments(c *gin.Context) {
	page, limit := pagination(c)
	results, err := h.postService.GetComments(c.Param("id"), page, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, results)
}

func (h *PostHandler) LikeComment(c *gin.Context) {
	result, err := h.postService.ToggleCommentLike(middleware.UserID(c), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, result)
}
