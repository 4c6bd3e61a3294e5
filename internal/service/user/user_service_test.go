package user

import (
	"errors"
	"testing"
	"time"

	"kiu_social_server/internal/dao/postgres/repository"
	"kiu_social_server/internal/model"
	"kiu_social_server/pkg/errorx"
)

type stubUserRepo struct {
	users map[string]*model.User
}

func (s *stubUserRepo) FindByUuid(uuid string) (*model.User, error) {
	if u, ok := s.users[uuid]; ok {
		return u, nil
	}
	return nil, errorx.New(errorx.CodeNotFound, "user not found")
}
func (s *stubUserRepo) FindByEmail(string) (*model.User, error) { return nil, errors.New("unused") }
func (s *stubUserRepo) FindByEmailOrUsername(string, string) (*model.User, error) {
	return nil, errors.New("unused")
}
func (s *stubUserRepo) FindByUuids(uuids []string) ([]model.User, error) {
	var users []model.User
	for _, id := range uuids {
		if u, ok := s.users[id]; ok {
			users = append(users, *u)
		}
	}
	return users, nil
}
func (s *stubUserRepo) Create(*model.User) error        { return nil }
func (s *stubUserRepo) UpdateProfile(*model.User) error { return nil }
func (s *stubUserRepo) Search(query, excludeUuid string, excludeUuids []string, limit int) ([]model.User, error) {
	excluded := map[string]bool{excludeUuid: true}
	for _, id := range excludeUuids {
		excluded[id] = true
	}
	var users []model.User
	for _, u := range s.users {
		if !excluded[u.Uuid] {
			users = append(users, *u)
		}
	}
	return users, nil
}
func (s *stubUserRepo) SetPresence(string, bool, time.Time) error { return nil }

type stubFriendshipRepo struct {
	pairs   map[string]bool // "a|b" both directions
	blocks  map[string]bool // "blocker|blocked"
	deletes int
}

func pair(a, b string) string { return a + "|" + b }

func (s *stubFriendshipRepo) ExistsBetween(userId, otherId string) (bool, error) {
	return s.pairs[pair(userId, otherId)] || s.pairs[pair(otherId, userId)], nil
}
func (s *stubFriendshipRepo) CreatePair(userId, friendId string) error {
	s.pairs[pair(userId, friendId)] = true
	s.pairs[pair(friendId, userId)] = true
	return nil
}
func (s *stubFriendshipRepo) DeletePair(userId, friendId string) error {
	delete(s.pairs, pair(userId, friendId))
	delete(s.pairs, pair(friendId, userId))
	s.deletes++
	return nil
}
func (s *stubFriendshipRepo) FindFriends(userId string) ([]model.Friendship, error) {
	var edges []model.Friendship
	for key := range s.pairs {
		if len(key) > len(userId) && key[:len(userId)] == userId && key[len(userId)] == '|' {
			edges = append(edges, model.Friendship{UserId: userId, FriendId: key[len(userId)+1:]})
		}
	}
	return edges, nil
}
func (s *stubFriendshipRepo) Block(userId, blockedId string) error {
	_ = s.DeletePair(userId, blockedId)
	s.blocks[pair(userId, blockedId)] = true
	return nil
}
func (s *stubFriendshipRepo) FindBlock(userId, blockedId string) (*model.Block, error) {
	if s.blocks[pair(userId, blockedId)] {
		return &model.Block{UserId: userId, BlockedId: blockedId}, nil
	}
	return nil, errorx.New(errorx.CodeNotFound, "block not found")
}
func (s *stubFriendshipRepo) BlockedEither(userId string) ([]string, error) {
	var ids []string
	for key := range s.blocks {
		for i := 0; i < len(key); i++ {
			if key[i] == '|' {
				if key[:i] == userId {
					ids = append(ids, key[i+1:])
				} else if key[i+1:] == userId {
					ids = append(ids, key[:i])
				}
			}
		}
	}
	return ids, nil
}

func newTestService(users ...*model.User) (*service, *stubFriendshipRepo) {
	userRepo := &stubUserRepo{users: map[string]*model.User{}}
	for _, u := range users {
		userRepo.users[u.Uuid] = u
	}
	friendRepo := &stubFriendshipRepo{pairs: map[string]bool{}, blocks: map[string]bool{}}
	return NewService(&repository.Repositories{User: userRepo, Friendship: friendRepo}), friendRepo
}

func testUser(uuid, username string) *model.User {
	return &model.User{Uuid: uuid, Username: username, FirstName: "Test", LastName: "User", IsActive: true}
}

func TestAddFriendRejectsSelf(t *testing.T) {
	svc, _ := newTestService(testUser("U1", "alice"))
	err := svc.AddFriend("U1", "U1")
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("self friendship: code = %d, want %d", errorx.GetCode(err), errorx.CodeInvalidParam)
	}
}

func TestAddFriendConflictsOnExistingEdgeEitherDirection(t *testing.T) {
	svc, friends := newTestService(testUser("U1", "alice"), testUser("U2", "bob"))

	if err := svc.AddFriend("U1", "U2"); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if !friends.pairs[pair("U1", "U2")] || !friends.pairs[pair("U2", "U1")] {
		t.Fatal("both directed rows must exist after add")
	}

	if err := svc.AddFriend("U1", "U2"); errorx.GetCode(err) != errorx.CodeConflict {
		t.Fatalf("repeat add: code = %d, want %d", errorx.GetCode(err), errorx.CodeConflict)
	}
	if err := svc.AddFriend("U2", "U1"); errorx.GetCode(err) != errorx.CodeConflict {
		t.Fatalf("reverse add: code = %d, want %d", errorx.GetCode(err), errorx.CodeConflict)
	}
}

func TestAddFriendUnknownTarget(t *testing.T) {
	svc, _ := newTestService(testUser("U1", "alice"))
	if err := svc.AddFriend("U1", "U9"); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Fatalf("unknown friend: code = %d, want %d", errorx.GetCode(err), errorx.CodeNotFound)
	}
}

func TestRemoveFriendIsIdempotent(t *testing.T) {
	svc, _ := newTestService(testUser("U1", "alice"), testUser("U2", "bob"))
	if err := svc.AddFriend("U1", "U2"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.RemoveFriend("U1", "U2"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.RemoveFriend("U1", "U2"); err != nil {
		t.Fatalf("repeat remove must not error: %v", err)
	}
}

func TestBlockSeversFriendship(t *testing.T) {
	svc, friends := newTestService(testUser("U1", "alice"), testUser("U2", "bob"))
	if err := svc.AddFriend("U1", "U2"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.BlockUser("U1", "U2"); err != nil {
		t.Fatalf("block: %v", err)
	}
	if friends.pairs[pair("U1", "U2")] || friends.pairs[pair("U2", "U1")] {
		t.Fatal("friendship rows must be gone after block")
	}
	if !friends.blocks[pair("U1", "U2")] {
		t.Fatal("block row must exist")
	}
}

func TestSearchExcludesBlockedEitherDirection(t *testing.T) {
	svc, friends := newTestService(
		testUser("U1", "alice"),
		testUser("U2", "bob"),
		testUser("U3", "carol"),
	)
	// U2 blocked U1, so U1 must not see U2; U3 stays visible.
	friends.blocks[pair("U2", "U1")] = true

	results, err := svc.Search("U1", "test")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, r := range results {
		if r.Id == "U2" {
			t.Fatal("blocked counterpart must be invisible in search")
		}
		if r.Id == "U1" {
			t.Fatal("caller must be excluded from search")
		}
	}
	found := false
	for _, r := range results {
		if r.Id == "U3" {
			found = true
		}
	}
	if !found {
		t.Fatal("unblocked user missing from search results")
	}
}

func TestSearchEmptyQueryRejected(t *testing.T) {
	svc, _ := newTestService(testUser("U1", "alice"), testUser("U2", "bob"))
	_, err := svc.Search("U1", "")
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("empty query: code = %d, want %d", errorx.GetCode(err), errorx.CodeInvalidParam)
	}
}

func TestFriendsListReturnsCounterparts(t *testing.T) {
	svc, _ := newTestService(testUser("U1", "alice"), testUser("U2", "bob"), testUser("U3", "carol"))
	if err := svc.AddFriend("U1", "U2"); err != nil {
		t.Fatalf("add: %v", err)
	}
	friends, err := svc.FriendsList("U1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(friends) != 1 || friends[0].Id != "U2" {
		t.Fatalf("friends = %+v, want exactly U2", friends)
	}
}
