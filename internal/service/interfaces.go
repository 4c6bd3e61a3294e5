// Package service declares the business interfaces implemented by the
// sub-packages and bundles them for injection into the handler layer.
package service

import (
	"kiu_social_server/internal/dto/request"
	"kiu_social_server/internal/dto/respond"
)

// AuthService covers registration, the login variants and token lifecycle.
type AuthService interface {
	Register(req *request.RegisterRequest) (*respond.AuthRespond, error)
	Login(req *request.LoginRequest) (*respond.AuthRespond, error)
	// QuickLogin re-validates the 4 digit pin of an authenticated user.
	QuickLogin(userId, pin string) (*respond.UserInfo, error)
	Verify(userId string) (*respond.UserInfo, error)
	// Refresh trades a valid refresh token for a new token pair. The old
	// refresh token is invalidated.
	Refresh(refreshToken string) (*respond.AuthRespond, error)
}

// UserService covers profiles, search and the friend/block graph.
type UserService interface {
	GetProfile(userId string) (*respond.UserInfo, error)
	UpdateProfile(userId string, req *request.UpdateProfileRequest) (*respond.UserInfo, error)
	// Search excludes the caller and anyone in a block relation with them.
	Search(userId, query string) ([]respond.UserSummary, error)
	GetUser(targetId string) (*respond.UserInfo, error)
	// AddFriend rejects self-friendship and existing edges in either
	// direction; both directed rows are written atomically.
	AddFriend(userId, friendId string) error
	// RemoveFriend is idempotent.
	RemoveFriend(userId, friendId string) error
	// BlockUser severs any friendship and records the directed block edge.
	BlockUser(userId, blockedId string) error
	FriendsList(userId string) ([]respond.UserInfo, error)
}

// PostService covers the feed, comments and like toggles.
type PostService interface {
	CreatePost(userId string, req *request.CreatePostRequest) (*respond.PostRespond, error)
	Feed(userId string, page, limit int) ([]respond.PostRespond, error)
	UserPosts(viewerId, authorId string, page, limit int) ([]respond.PostRespond, error)
	TogglePostLike(userId, postId string) (*respond.LikeRespond, error)
	AddComment(userId, postId string, req *request.CreateCommentRequest) (*respond.CommentRespond, error)
	GetComments(postId string, page, limit int) ([]respond.CommentRespond, error)
	ToggleCommentLike(userId, commentId string) (*respond.LikeRespond, error)
}

// MessageService covers direct messages and the derived conversation list.
type MessageService interface {
	SendMessage(senderId string, req *request.SendMessageRequest) (*respond.MessageRespond, error)
	// GetConversation returns one page oldest-first.
	GetConversation(userId, otherId string, page, limit int) ([]respond.MessageRespond, error)
	GetConversations(userId string) ([]respond.ConversationRespond, error)
	// MarkRead flags everything unread from otherId to userId.
	MarkRead(userId, otherId string) error
}
