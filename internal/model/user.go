// Package model defines the database entities.
package model

import (
	"database/sql"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is an account on the platform. Registration is restricted to
// university email addresses; accounts are soft-deleted only.
type User struct {
	gorm.Model

	// Uuid is the public identifier, "U" plus a date-prefixed random string.
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);not null"`

	Email     string `gorm:"column:email;uniqueIndex;type:varchar(100);not null"`
	Username  string `gorm:"column:username;uniqueIndex;type:varchar(30);not null"`
	FirstName string `gorm:"column:first_name;type:varchar(50);not null"`
	LastName  string `gorm:"column:last_name;type:varchar(50);not null"`

	// Password holds the bcrypt hash; the plaintext never reaches the row.
	Password string `gorm:"column:password;type:varchar(100);not null"`

	// Pin is the 4-digit quick-login code.
	Pin string `gorm:"column:pin;type:char(4);not null"`

	Major          string    `gorm:"column:major;type:varchar(100);not null"`
	DateOfBirth    time.Time `gorm:"column:date_of_birth;type:date"`
	StartYear      int       `gorm:"column:start_year;not null"`
	ProfilePicture string    `gorm:"column:profile_picture;type:varchar(255)"`
	Bio            string    `gorm:"column:bio;type:varchar(500)"`

	// IsActive marks the account usable; disabled accounts fail the
	// realtime handshake.
	IsActive bool `gorm:"column:is_active;not null;default:true"`

	// IsOnline is presence; flipped by the connection registry when the
	// user's live connection count crosses zero.
	IsOnline bool         `gorm:"column:is_online;not null;default:false"`
	LastSeen sql.NullTime `gorm:"column:last_seen"`

	// RawPassword receives the plaintext from the request layer and is
	// hashed in BeforeSave, never persisted.
	RawPassword string `gorm:"-" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// BeforeSave hashes RawPassword into Password so callers never handle the
// hash themselves.
func (u *User) BeforeSave(tx *gorm.DB) (err error) {
	if u.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hash)
		u.RawPassword = ""
	}
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (u *User) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext)) == nil
}

// CheckPin verifies the quick-login code.
func (u *User) CheckPin(pin string) bool {
	return u.Pin != "" && u.Pin == pin
}
