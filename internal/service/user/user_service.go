// Package user implements profiles, search and the friend/block graph.
package user

import (
	"kiu_social_server/internal/dao/postgres/repository"
	"kiu_social_server/internal/dto/request"
	"kiu_social_server/internal/dto/respond"
	"kiu_social_server/pkg/constants"
	"kiu_social_server/pkg/errorx"

	"go.uber.org/zap"
)

type service struct {
	repos *repository.Repositories
}

func NewService(repos *repository.Repositories) *service {
	return &service{repos: repos}
}

func (s *service) GetProfile(userId string) (*respond.UserInfo, error) {
	user, err := s.repos.User.FindByUuid(userId)
	if err != nil {
		return nil, err
	}
	info := respond.NewUserInfo(user)
	return &info, nil
}

func (s *service) UpdateProfile(userId string, req *request.UpdateProfileRequest) (*respond.UserInfo, error) {
	user, err := s.repos.User.FindByUuid(userId)
	if err != nil {
		return nil, err
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Major != "" {
		user.Major = req.Major
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.ProfilePicture != "" {
		user.ProfilePicture = req.ProfilePicture
	}
	if err := s.repos.User.UpdateProfile(user); err != nil {
		return nil, err
	}
	info := respond.NewUserInfo(user)
	return &info, nil
}

func (s *service) Search(userId, query string) ([]respond.UserSummary, error) {
	if query == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "search query required")
	}
	// Anyone in a block relation with the caller, in either direction, is
	// invisible to search.
	blocked, err := s.repos.Friendship.BlockedEither(userId)
	if err != nil {
		return nil, err
	}
	users, err := s.repos.User.Search(query, userId, blocked, constants.SEARCH_RESULT_LIMIT)
	if err != nil {
		return nil, err
	}
	results := make([]respond.UserSummary, 0, len(users))
	for i := range users {
		results = append(results, respond.NewUserSummary(&users[i]))
	}
	return results, nil
}

func (s *service) GetUser(targetId string) (*respond.UserInfo, error) {
	user, err := s.repos.User.FindByUuid(targetId)
	if err != nil {
		return nil, err
	}
	info := respond.NewUserInfo(user)
	return &info, nil
}

func (s *service) AddFriend(userId, friendId string) error {
	if userId == friendId {
		return errorx.New(errorx.CodeInvalidParam, "cannot add yourself as a friend")
	}
	if _, err := s.repos.User.FindByUuid(friendId); err != nil {
		return err
	}
	exists, err := s.repos.Friendship.ExistsBetween(userId, friendId)
	if err != nil {
		return err
	}
	if exists {
		return errorx.New(errorx.CodeConflict, "friendship already exists")
	}
	if err := s.repos.Friendship.CreatePair(userId, friendId); err != nil {
		return err
	}
	zap.L().Info("friendship created", zap.String("user", userId), zap.String("friend", friendId))
	return nil
}

func (s *service) RemoveFriend(userId, friendId string) error {
	return s.repos.Friendship.DeletePair(userId, friendId)
}

func (s *service) BlockUser(userId, blockedId string) error {
	if userId == blockedId {
		return errorx.New(errorx.CodeInvalidParam, "cannot block yourself")
	}
	if _, err := s.repos.User.FindByUuid(blockedId); err != nil {
		return err
	}
	if err := s.repos.Friendship.Block(userId, blockedId); err != nil {
		return err
	}
	zap.L().Info("user blocked", zap.String("user", userId), zap.String("blocked", blockedId))
	return nil
}

func (s *service) FriendsList(userId string) ([]respond.UserInfo, error) {
	edges, err := s.repos.Friendship.FindFriends(userId)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return []respond.UserInfo{}, nil
	}
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.FriendId)
	}
	friends, err := s.repos.User.FindByUuids(ids)
	if err != nil {
		return nil, err
	}
	results := make([]respond.UserInfo, 0, len(friends))
	for i := range friends {
		results = append(results, respond.NewUserInfo(&friends[i]))
	}
	return results, nil
}
