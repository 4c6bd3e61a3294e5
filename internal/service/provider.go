package service

import (
	"kiu_social_server/internal/dao/postgres/repository"
	authsvc "kiu_social_server/internal/service/auth"
	messagesvc "kiu_social_server/internal/service/message"
	postsvc "kiu_social_server/internal/service/post"
	usersvc "kiu_social_server/internal/service/user"
)

// Services bundles the business layer for injection into handlers.
type Services struct {
	Auth    AuthService
	User    UserService
	Post    PostService
	Message MessageService
}

func NewServices(repos *repository.Repositories) *Services {
	return &Services{
		Auth:    authsvc.NewService(repos),
		User:    usersvc.NewService(repos),
		Post:    postsvc.NewService(repos),
		Message: messagesvc.NewService(repos),
	}
}
