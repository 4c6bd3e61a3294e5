// Package respond defines the JSON bodies returned by the HTTP API and the
// realtime channel. Conversions from models live next to the types so every
// surface serializes users and messages the same way.
package respond

import (
	"kiu_social_server/internal/model"
	"kiu_social_server/pkg/constants"
)

// UserSummary is the short form embedded in posts, comments and messages.
type UserSummary struct {
	Id             string `json:"id"`
	Username       string `json:"username"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// UserInfo is the full profile returned by auth and profile endpoints.
type UserInfo struct {
	Id             string `json:"id"`
	Email          string `json:"email"`
	Username       string `json:"username"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Major          string `json:"major"`
	DateOfBirth    string `json:"dateOfBirth,omitempty"`
	StartYear      int    `json:"startYear"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	Bio            string `json:"bio,omitempty"`
	IsActive       bool   `json:"isActive"`
	IsOnline       bool   `json:"isOnline"`
	LastSeen       string `json:"lastSeen,omitempty"`
	CreatedAt      string `json:"createdAt"`
}

func NewUserSummary(u *model.User) UserSummary {
	return UserSummary{
		Id:             u.Uuid,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
	}
}

func NewUserInfo(u *model.User) UserInfo {
	info := UserInfo{
		Id:             u.Uuid,
		Email:          u.Email,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Major:          u.Major,
		StartYear:      u.StartYear,
		ProfilePicture: u.ProfilePicture,
		Bio:            u.Bio,
		IsActive:       u.IsActive,
		IsOnline:       u.IsOnline,
		CreatedAt:      u.CreatedAt.Format(constants.DATE_TIME_LAYOUT),
	}
	if !u.DateOfBirth.IsZero() {
		info.DateOfBirth = u.DateOfBirth.Format(constants.DATE_LAYOUT)
	}
	if u.LastSeen.Valid {
		info.LastSeen = u.LastSeen.Time.Format(constants.DATE_TIME_LAYOUT)
	}
	return info
}
