package model

import "gorm.io/gorm"

// Friendship is one direction of a symmetric friend relation. A pair of
// users has either zero or two rows; both rows are written and removed in
// one transaction.
type Friendship struct {
	gorm.Model
	UserId   string `gorm:"column:user_id;type:char(20);not null;uniqueIndex:idx_friend_pair"`
	FriendId string `gorm:"column:friend_id;type:char(20);not null;uniqueIndex:idx_friend_pair;index"`
}

func (Friendship) TableName() string {
	return "friendships"
}

// Block is a one-directional block edge. Creating it removes any friendship
// rows between the pair; block and friendship never coexist for a pair.
type Block struct {
	gorm.Model
	UserId    string `gorm:"column:user_id;type:char(20);not null;uniqueIndex:idx_block_pair"`
	BlockedId string `gorm:"column:blocked_id;type:char(20);not null;uniqueIndex:idx_block_pair;index"`
}

func (Block) TableName() string {
	return "blocks"
}
