// Package auth implements registration, login and token lifecycle.
package auth

import (
	"fmt"
	"time"

	"kiu_social_server/internal/dao/postgres/repository"
	"kiu_social_server/internal/dao/redis"
	"kiu_social_server/internal/dto/request"
	"kiu_social_server/internal/dto/respond"
	"kiu_social_server/internal/model"
	"kiu_social_server/pkg/constants"
	"kiu_social_server/pkg/errorx"
	"kiu_social_server/pkg/util/jwt"
	"kiu_social_server/pkg/util/random"

	"go.uber.org/zap"
)

type service struct {
	repos *repository.Repositories
}

func NewService(repos *repository.Repositories) *service {
	return &service{repos: repos}
}

func refreshTokenKey(userId string) string {
	return "refresh_token_" + userId
}

// issueTokens generates the access/refresh pair and registers the refresh
// tokenID so older refresh tokens for the same user stop working.
func issueTokens(userId string) (accessToken, refreshToken string, err error) {
	accessToken, err = jwt.GenerateAccessToken(userId)
	if err != nil {
		return "", "", errorx.Wrap(err, errorx.CodeServerBusy, "generate access token failed")
	}
	refreshToken, tokenID, err := jwt.GenerateRefreshToken(userId)
	if err != nil {
		return "", "", errorx.Wrap(err, errorx.CodeServerBusy, "generate refresh token failed")
	}
	if err := redis.SetKeyEx(refreshTokenKey(userId), tokenID,
		constants.REFRESH_TOKEN_EXPIRY_HOURS*time.Hour); err != nil {
		return "", "", errorx.Wrap(err, errorx.CodeCacheError, "store refresh token failed")
	}
	return accessToken, refreshToken, nil
}

func (s *service) Register(req *request.RegisterRequest) (*respond.AuthRespond, error) {
	existing, err := s.repos.User.FindByEmailOrUsername(req.Email, req.Username)
	if err != nil && !errorx.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		if existing.Email == req.Email {
			return nil, errorx.New(errorx.CodeUserExist, "email already registered")
		}
		return nil, errorx.New(errorx.CodeUserExist, "username already taken")
	}

	dob, err := time.Parse(constants.DATE_LAYOUT, req.DateOfBirth)
	if err != nil {
		return nil, errorx.New(errorx.CodeInvalidParam, "dateOfBirth must be YYYY-MM-DD")
	}

	user := &model.User{
		Uuid:        fmt.Sprintf("U%s", random.GetNowAndLenRandomString(11)),
		Email:       req.Email,
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		RawPassword: req.Password,
		Pin:         req.Pin,
		Major:       req.Major,
		DateOfBirth: dob,
		StartYear:   req.StartYear,
		IsActive:    true,
	}
	if err := s.repos.User.Create(user); err != nil {
		if errorx.GetCode(err) == errorx.CodeConflict {
			return nil, errorx.New(errorx.CodeUserExist, "email or username already taken")
		}
		return nil, err
	}

	accessToken, refreshToken, err := issueTokens(user.Uuid)
	if err != nil {
		return nil, err
	}
	zap.L().Info("user registered", zap.String("uuid", user.Uuid), zap.String("username", user.Username))
	return &respond.AuthRespond{
		Token:        accessToken,
		RefreshToken: refreshToken,
		User:         respond.NewUserInfo(user),
	}, nil
}

func (s *service) Login(req *request.LoginRequest) (*respond.AuthRespond, error) {
	user, err := s.repos.User.FindByEmail(req.Email)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUnauthorized, "invalid email or password")
		}
		return nil, err
	}
	if !user.CheckPassword(req.Password) {
		return nil, errorx.New(errorx.CodeUnauthorized, "invalid email or password")
	}

	accessToken, refreshToken, err := issueTokens(user.Uuid)
	if err != nil {
		return nil, err
	}
	zap.L().Info("user logged in", zap.String("uuid", user.Uuid))
	return &respond.AuthRespond{
		Token:        accessToken,
		RefreshToken: refreshToken,
		User:         respond.NewUserInfo(user),
	}, nil
}

func (s *service) QuickLogin(userId, pin string) (*respond.UserInfo, error) {
	user, err := s.repos.User.FindByUuid(userId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUnauthorized, "account not found")
		}
		return nil, err
	}
	if !user.CheckPin(pin) {
		return nil, errorx.New(errorx.CodeUnauthorized, "invalid pin")
	}
	info := respond.NewUserInfo(user)
	return &info, nil
}

// Verify loads the identity behind a token. A disabled account is refused
// the same way an unknown one is, so the realtime handshake never upgrades
// for it.
func (s *service) Verify(userId string) (*respond.UserInfo, error) {
	user, err := s.repos.User.FindByUuid(userId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUnauthorized, "account not found")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, errorx.New(errorx.CodeUnauthorized, "account disabled")
	}
	info := respond.NewUserInfo(user)
	return &info, nil
}

func (s *service) Refresh(refreshToken string) (*respond.AuthRespond, error) {
	claims, err := jwt.ParseToken(refreshToken)
	if err != nil || claims.Subject != "refresh_token" || claims.TokenID == "" {
		return nil, errorx.New(errorx.CodeUnauthorized, "invalid refresh token")
	}
	storedID, err := redis.GetKey(refreshTokenKey(claims.UserID))
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeCacheError, "load refresh token failed")
	}
	if storedID == "" || storedID != claims.TokenID {
		return nil, errorx.New(errorx.CodeUnauthorized, "refresh token revoked")
	}

	user, err := s.repos.User.FindByUuid(claims.UserID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUnauthorized, "account not found")
		}
		return nil, err
	}

	accessToken, newRefreshToken, err := issueTokens(user.Uuid)
	if err != nil {
		return nil, err
	}
	return &respond.AuthRespond{
		Token:        accessToken,
		RefreshToken: newRefreshToken,
		User:         respond.NewUserInfo(user),
	}, nil
}
