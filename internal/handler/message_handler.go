package handler

import (
	"kiu_social_server/internal/dto/request"
	"kiu_social_server/internal/infrastructure/middleware"
	"kiu_social_server/internal/service"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService service.MessageService
}

func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	result, err := h.messageService.SendMessage(middleware.UserID(c), &req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, result)
}

func (h *MessageHandler) GetConversation(c *gin.Context) {
	page, limit := pagination(c)
	results, err := h.messageService.GetConversation(middleware.UserID(c), c.Param("userId"), page, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, results)
}

func (h *MessageHandler) GetConversations(c *gin.Context) {
	results, err := h.messageService.GetConversations(middleware.UserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, results)
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	if err := h.messageService.MarkRead(middleware.UserID(c), c.Param("userId")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
