// Package repository defines the data-access interfaces and their GORM
// implementations. Interfaces live here; each implementation sits in its
// own file.
package repository

import (
	"time"

	"kiu_social_server/internal/model"

	"gorm.io/gorm"
)

// UserRepository accesses account records.
type UserRepository interface {
	FindByUuid(uuid string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	// FindByEmailOrUsername feeds the duplicate check at registration.
	FindByEmailOrUsername(email, username string) (*model.User, error)
	FindByUuids(uuids []string) ([]model.User, error)
	Create(user *model.User) error
	UpdateProfile(user *model.User) error
	// Search matches first/last name, username and major case-insensitively,
	// excluding the given uuid and any uuid in excludeUuids.
	Search(query, excludeUuid string, excludeUuids []string, limit int) ([]model.User, error)
	// SetPresence flips the online flag and stamps last_seen.
	SetPresence(uuid string, online bool, at time.Time) error
}

// FriendshipRepository maintains the symmetric friend edges and the
// directed block edges.
type FriendshipRepository interface {
	// ExistsBetween reports whether any friendship row links the two users,
	// in either direction.
	ExistsBetween(userId, otherId string) (bool, error)
	// CreatePair inserts both directed rows atomically.
	CreatePair(userId, friendId string) error
	// DeletePair removes both directed rows; absent rows are not an error.
	DeletePair(userId, friendId string) error
	FindFriends(userId string) ([]model.Friendship, error)
	// Block removes any friendship rows for the pair and upserts the block
	// row in one transaction.
	Block(userId, blockedId string) error
	FindBlock(userId, blockedId string) (*model.Block, error)
	// BlockedEither returns every uuid the user blocks or is blocked by.
	BlockedEither(userId string) ([]string, error)
}

// PostRepository accesses feed posts.
type PostRepository interface {
	Create(post *model.Post) error
	FindByUuid(uuid string) (*model.Post, error)
	FindPublic(page, limit int) ([]model.Post, error)
	FindPublicByAuthor(authorId string, page, limit int) ([]model.Post, error)
}

// CommentRepository accesses post comments.
type CommentRepository interface {
	Create(comment *model.Comment) error
	FindByUuid(uuid string) (*model.Comment, error)
	// FindTopLevelByPost returns comments without a parent, newest first.
	FindTopLevelByPost(postId string, page, limit int) ([]model.Comment, error)
	FindRepliesByParents(parentIds []string) ([]model.Comment, error)
	// FindRecentByPost returns the newest comments for feed previews.
	FindRecentByPost(postId string, limit int) ([]model.Comment, error)
}

// LikeRepository toggles like edges and derives counts. The toggles run as a
// single transaction over the unique (user, target) index so two concurrent
// toggles by the same user cannot double-insert or double-delete.
type LikeRepository interface {
	TogglePostLike(userId, postId string) (liked bool, count int64, err error)
	ToggleCommentLike(userId, commentId string) (liked bool, count int64, err error)
	CountPostLikes(postId string) (int64, error)
	PostLikeCounts(postIds []string) (map[string]int64, error)
	IsPostLiked(userId, postId string) (bool, error)
	CountCommentLikes(commentId string) (int64, error)
}

// MessageRepository accesses direct messages.
type MessageRepository interface {
	Create(message *model.Message) error
	// FindConversation returns one page of the two-way history, newest first.
	FindConversation(userOneId, userTwoId string, page, limit int) ([]model.Message, error)
	// FindAllForUser returns every message sent or received by the user,
	// newest first; the conversation list is derived from it.
	FindAllForUser(userId string) ([]model.Message, error)
	// MarkConversationRead flags all unread messages from senderId to
	// recipientId as read at the given time.
	MarkConversationRead(senderId, recipientId string, at time.Time) error
	CountUnread(senderId, recipientId string) (int64, error)
}

// Repositories aggregates all repository instances and is the dependency
// injection entry point for the service layer.
type Repositories struct {
	db         *gorm.DB
	User       UserRepository
	Friendship FriendshipRepository
	Post       PostRepository
	Comment    CommentRepository
	Like       LikeRepository
	Message    MessageRepository
}

// NewRepositories builds the aggregate over one GORM instance.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:         db,
		User:       NewUserRepository(db),
		Friendship: NewFriendshipRepository(db),
		Post:       NewPostRepository(db),
		Comment:    NewCommentRepository(db),
		Like:       NewLikeRepository(db),
		Message:    NewMessageRepository(db),
	}
}

// Transaction runs fn against a transactional Repositories instance; any
// error rolls everything back.
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
