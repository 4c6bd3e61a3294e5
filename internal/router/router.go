// Package router wires the HTTP routes onto a gin engine.
package router

import (
	"kiu_social_server/internal/handler"
	"kiu_social_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

type Router struct {
	handlers *handler.Handlers
}

func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes mounts all route groups. Registration, login and token
// refresh are open; everything else requires a bearer token.
func (r *Router) RegisterRoutes(engine *gin.Engine) {
	r.registerAuthRoutes(engine)
	r.registerUserRoutes(engine)
	r.registerPostRoutes(engine)
	r.registerMessageRoutes(engine)

	engine.GET("/ws", r.handlers.Ws.Connect)
}

func (r *Router) registerAuthRoutes(engine *gin.Engine) {
	auth := engine.Group("/auth")
	{
		auth.POST("/register", r.handlers.Auth.Register)
		auth.POST("/login", r.handlers.Auth.Login)
		auth.POST("/refresh", r.handlers.Auth.Refresh)
	}
	authed := engine.Group("/auth", middleware.JWTAuth())
	{
		authed.POST("/quick-login", r.handlers.Auth.QuickLogin)
		authed.GET("/verify", r.handlers.Auth.Verify)
	}
}

func (r *Router) registerUserRoutes(engine *gin.Engine) {
	users := engine.Group("/users", middleware.JWTAuth())
	{
		users.GET("/profile", r.handlers.User.GetProfile)
		users.PUT("/profile", r.handlers.User.UpdateProfile)
		users.GET("/search", r.handlers.User.Search)
		users.GET("/friends/list", r.handlers.User.FriendsList)
		users.GET("/:id", r.handlers.User.GetUser)
		users.POST("/:id/friend", r.handlers.User.AddFriend)
		users.DELETE("/:id/friend", r.handlers.User.RemoveFriend)
		users.POST("/:id/block", r.handlers.User.BlockUser)
	}
}

func (r *Router) registerPostRoutes(engine *gin.Engine) {
	posts := engine.Group("/posts", middleware.JWTAuth())
	{
		posts.POST("", r.handlers.Post.CreatePost)
		posts.GET("/feed", r.handlers.Post.Feed)
		posts.GET("/user/:id", r.handlers.Post.UserPosts)
		posts.POST("/:id/like", r.handlers.Post.LikePost)
		posts.POST("/:id/comments", r.handlers.Post.AddComment)
		posts.GET("/:id/comments", r.handlers.Post.GetComments)
		posts.POST("/comments/:id/like", r.handlers.Post.LikeComment)
	}
}

func (r *Router) registerMessageRoutes(engine *gin.Engine) {
	messages := engine.Group("/messages", middleware.JWTAuth())
	{
		messages.POST("", r.handlers.Message.SendMessage)
		messages.GET("/conversation/:userId", r.handlers.Message.GetConversation)
		messages.GET("/conversations", r.handlers.Message.GetConversations)
		messages.PUT("/read/:userId", r.handlers.Message.MarkRead)
	}
}
