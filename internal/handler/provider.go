package handler

import (
	"kiu_social_server/internal/service"
	"kiu_social_server/internal/service/chat"
)

// Handlers bundles every HTTP handler for the router.
type Handlers struct {
	Auth    *AuthHandler
	User    *UserHandler
	Post    *PostHandler
	Message *MessageHandler
	Ws      *WsHandler
}

func NewHandlers(services *service.Services, chatServer *chat.ChatServer) *Handlers {
	return &Handlers{
		Auth:    NewAuthHandler(services.Auth),
		User:    NewUserHandler(services.User),
		Post:    NewPostHandler(services.Post),
		Message: NewMessageHandler(services.Message),
		Ws:      NewWsHandler(chatServer, services.Auth),
	}
}
