package handler

import (
	"kiu_social_server/internal/dto/request"
	"kiu_social_server/internal/infrastructure/middleware"
	"kiu_social_server/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	result, err := h.authService.Register(&req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, result)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	result, err := h.authService.Login(&req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, result)
}

func (h *AuthHandler) QuickLogin(c *gin.Context) {
	var req request.QuickLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	result, err := h.authService.QuickLogin(middleware.UserID(c), req.Pin)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"user": result})
}

func (h *AuthHandler) Verify(c *gin.Context) {
	result, err := h.authService.Verify(middleware.UserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, gin.H{"user": result})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	result, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, result)
}
