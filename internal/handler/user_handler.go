package handler

import (
	"kiu_social_server/internal/dto/request"
	"kiu_social_server/internal/infrastructure/middleware"
	"kiu_social_server/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	result, err := h.userService.GetProfile(middleware.UserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, result)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req request.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	result, err := h.userService.UpdateProfile(middleware.UserID(c), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, result)
}

func (h *UserHandler) Search(c *gin.Context) {
	results, err := h.userService.Search(middleware.UserID(c), c.Query("q"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, results)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	result, err := h.userService.GetUser(c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, result)
}

func (h *UserHandler) AddFriend(c *gin.Context) {
	if err := h.userService.AddFriend(middleware.UserID(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

func (h *UserHandler) RemoveFriend(c *gin.Context) {
	if err := h.userService.RemoveFriend(middleware.UserID(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

func (h *UserHandler) BlockUser(c *gin.Context) {
	if err := h.userService.BlockUser(middleware.UserID(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

func (h *UserHandler) FriendsList(c *gin.Context) {
	results, err := h.userService.FriendsList(middleware.UserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, results)
}
