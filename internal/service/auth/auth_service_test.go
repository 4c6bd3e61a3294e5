package auth

import (
	"errors"
	"testing"
	"time"

	"kiu_social_server/internal/dao/postgres/repository"
	"kiu_social_server/internal/dto/request"
	"kiu_social_server/internal/model"
	"kiu_social_server/pkg/errorx"
	"kiu_social_server/pkg/util/jwt"

	"golang.org/x/crypto/bcrypt"
)

// stubUserRepo hashes passwords on create the same way the model hook does,
// so CheckPassword works against stored users.
type stubUserRepo struct {
	byUuid     map[string]*model.User
	byEmail    map[string]*model.User
	byUsername map[string]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byUuid:     map[string]*model.User{},
		byEmail:    map[string]*model.User{},
		byUsername: map[string]*model.User{},
	}
}

func (s *stubUserRepo) FindByUuid(uuid string) (*model.User, error) {
	if u, ok := s.byUuid[uuid]; ok {
		return u, nil
	}
	return nil, errorx.New(errorx.CodeNotFound, "user not found")
}

func (s *stubUserRepo) FindByEmail(email string) (*model.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, errorx.New(errorx.CodeNotFound, "user not found")
}

func (s *stubUserRepo) FindByEmailOrUsername(email, username string) (*model.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	if u, ok := s.byUsername[username]; ok {
		return u, nil
	}
	return nil, errorx.New(errorx.CodeNotFound, "user not found")
}

func (s *stubUserRepo) FindByUuids([]string) ([]model.User, error) { return nil, nil }

func (s *stubUserRepo) Create(user *model.User) error {
	if user.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(user.RawPassword), bcrypt.MinCost)
		if err != nil {
			return err
		}
		user.Password = string(hash)
		user.RawPassword = ""
	}
	s.byUuid[user.Uuid] = user
	s.byEmail[user.Email] = user
	s.byUsername[user.Username] = user
	return nil
}

func (s *stubUserRepo) UpdateProfile(*model.User) error { return errors.New("unused") }
func (s *stubUserRepo) Search(string, string, []string, int) ([]model.User, error) {
	return nil, nil
}
func (s *stubUserRepo) SetPresence(string, bool, time.Time) error { return nil }

func newTestService(t *testing.T) (*service, *stubUserRepo) {
	t.Helper()
	jwt.Init("test-secret", 15, 168)
	repo := newStubUserRepo()
	return NewService(&repository.Repositories{User: repo}), repo
}

func registerRequest() *request.RegisterRequest {
	return &request.RegisterRequest{
		Email:       "alice@kiu.edu.ge",
		Username:    "alice_j",
		FirstName:   "Alice",
		LastName:    "Johnson",
		Password:    "secret123",
		Pin:         "4321",
		Major:       "Computer Science",
		DateOfBirth: "2002-05-14",
		StartYear:   2022,
	}
}

func TestRegisterIssuesTokensAndHashesPassword(t *testing.T) {
	svc, repo := newTestService(t)

	result, err := svc.Register(registerRequest())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.Token == "" || result.RefreshToken == "" {
		t.Fatal("register must issue both tokens")
	}
	if result.User.Email != "alice@kiu.edu.ge" {
		t.Fatalf("user email = %s", result.User.Email)
	}

	stored := repo.byEmail["alice@kiu.edu.ge"]
	if stored.Password == "secret123" || stored.Password == "" {
		t.Fatal("password must be stored hashed")
	}
	if !stored.CheckPassword("secret123") {
		t.Fatal("stored hash must verify the original password")
	}

	claims, err := jwt.ParseToken(result.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != stored.Uuid || claims.Subject != "access_token" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestRegisterRejectsDuplicateEmailAndUsername(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Register(registerRequest()); err != nil {
		t.Fatalf("first register: %v", err)
	}

	dupEmail := registerRequest()
	dupEmail.Username = "someone_else"
	if _, err := svc.Register(dupEmail); errorx.GetCode(err) != errorx.CodeUserExist {
		t.Fatalf("duplicate email: code = %d, want %d", errorx.GetCode(err), errorx.CodeUserExist)
	}

	dupUsername := registerRequest()
	dupUsername.Email = "other@kiu.edu.ge"
	if _, err := svc.Register(dupUsername); errorx.GetCode(err) != errorx.CodeUserExist {
		t.Fatalf("duplicate username: code = %d, want %d", errorx.GetCode(err), errorx.CodeUserExist)
	}
}

func TestRegisterRejectsMalformedDateOfBirth(t *testing.T) {
	svc, _ := newTestService(t)
	req := registerRequest()
	req.DateOfBirth = "14/05/2002"
	if _, err := svc.Register(req); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("bad date: code = %d, want %d", errorx.GetCode(err), errorx.CodeInvalidParam)
	}
}

func TestLoginValidatesCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Register(registerRequest()); err != nil {
		t.Fatalf("register: %v", err)
	}

	result, err := svc.Login(&request.LoginRequest{Email: "alice@kiu.edu.ge", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("login must issue a token")
	}

	if _, err := svc.Login(&request.LoginRequest{Email: "alice@kiu.edu.ge", Password: "wrong"}); errorx.GetCode(err) != errorx.CodeUnauthorized {
		t.Fatalf("wrong password: code = %d, want %d", errorx.GetCode(err), errorx.CodeUnauthorized)
	}
	if _, err := svc.Login(&request.LoginRequest{Email: "nobody@kiu.edu.ge", Password: "secret123"}); errorx.GetCode(err) != errorx.CodeUnauthorized {
		t.Fatalf("unknown email: code = %d, want %d", errorx.GetCode(err), errorx.CodeUnauthorized)
	}
}

func TestQuickLoginChecksPin(t *testing.T) {
	svc, repo := newTestService(t)
	if _, err := svc.Register(registerRequest()); err != nil {
		t.Fatalf("register: %v", err)
	}
	uuid := repo.byEmail["alice@kiu.edu.ge"].Uuid

	user, err := svc.QuickLogin(uuid, "4321")
	if err != nil {
		t.Fatalf("quick login: %v", err)
	}
	if user.Id != uuid {
		t.Fatalf("user id = %s, want %s", user.Id, uuid)
	}

	if _, err := svc.QuickLogin(uuid, "0000"); errorx.GetCode(err) != errorx.CodeUnauthorized {
		t.Fatalf("wrong pin: code = %d, want %d", errorx.GetCode(err), errorx.CodeUnauthorized)
	}
}

func TestVerifyRejectsDisabledAccount(t *testing.T) {
	svc, repo := newTestService(t)
	result, err := svc.Register(registerRequest())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Verify(result.User.Id); err != nil {
		t.Fatalf("verify active account: %v", err)
	}

	repo.byUuid[result.User.Id].IsActive = false
	_, err = svc.Verify(result.User.Id)
	if errorx.GetCode(err) != errorx.CodeUnauthorized {
		t.Fatalf("disabled account: code = %d, want %d", errorx.GetCode(err), errorx.CodeUnauthorized)
	}
}

func TestRefreshRejectsAccessTokenAndGarbage(t *testing.T) {
	svc, repo := newTestService(t)
	if _, err := svc.Register(registerRequest()); err != nil {
		t.Fatalf("register: %v", err)
	}
	uuid := repo.byEmail["alice@kiu.edu.ge"].Uuid

	accessToken, err := jwt.GenerateAccessToken(uuid)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.Refresh(accessToken); errorx.GetCode(err) != errorx.CodeUnauthorized {
		t.Fatalf("access token as refresh: code = %d, want %d", errorx.GetCode(err), errorx.CodeUnauthorized)
	}
	if _, err := svc.Refresh("not-a-token"); errorx.GetCode(err) != errorx.CodeUnauthorized {
		t.Fatalf("garbage token: code = %d, want %d", errorx.GetCode(err), errorx.CodeUnauthorized)
	}
}
