package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"kiu_social_server/internal/dao/postgres/repository"
	"kiu_social_server/internal/dto/request"
	"kiu_social_server/internal/dto/respond"
	"kiu_social_server/internal/handler"
	"kiu_social_server/internal/http_server"
	"kiu_social_server/internal/model"
	"kiu_social_server/internal/service"
	"kiu_social_server/internal/service/auth"
	"kiu_social_server/internal/service/chat"
	"kiu_social_server/pkg/errorx"
	"kiu_social_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var setupOnce sync.Once

func setup(t *testing.T) {
	t.Helper()
	setupOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		jwt.Init("handler-test-secret", 15, 168)
		if err := handler.InitTrans(); err != nil {
			t.Fatalf("init validator: %v", err)
		}
	})
}

type stubAuthService struct {
	users map[string]respond.UserInfo
}

func (s *stubAuthService) Register(req *request.RegisterRequest) (*respond.AuthRespond, error) {
	token, _ := jwt.GenerateAccessToken("U-new")
	return &respond.AuthRespond{
		Token: token,
		User:  respond.UserInfo{Id: "U-new", Email: req.Email, Username: req.Username},
	}, nil
}

func (s *stubAuthService) Login(req *request.LoginRequest) (*respond.AuthRespond, error) {
	return nil, errorx.New(errorx.CodeUnauthorized, "invalid email or password")
}

func (s *stubAuthService) QuickLogin(userId, pin string) (*respond.UserInfo, error) {
	return s.Verify(userId)
}

func (s *stubAuthService) Verify(userId string) (*respond.UserInfo, error) {
	if user, ok := s.users[userId]; ok {
		return &user, nil
	}
	return nil, errorx.New(errorx.CodeUnauthorized, "account not found")
}

func (s *stubAuthService) Refresh(string) (*respond.AuthRespond, error) {
	return nil, errorx.New(errorx.CodeUnauthorized, "invalid refresh token")
}

type stubUserService struct{}

func (stubUserService) GetProfile(userId string) (*respond.UserInfo, error) {
	return &respond.UserInfo{Id: userId}, nil
}
func (stubUserService) UpdateProfile(userId string, _ *request.UpdateProfileRequest) (*respond.UserInfo, error) {
	return &respond.UserInfo{Id: userId}, nil
}
func (stubUserService) Search(string, string) ([]respond.UserSummary, error) {
	return []respond.UserSummary{}, nil
}
func (stubUserService) GetUser(targetId string) (*respond.UserInfo, error) {
	return &respond.UserInfo{Id: targetId}, nil
}
func (stubUserService) AddFriend(string, string) error            { return nil }
func (stubUserService) RemoveFriend(string, string) error         { return nil }
func (stubUserService) BlockUser(string, string) error            { return nil }
func (stubUserService) FriendsList(string) ([]respond.UserInfo, error) {
	return []respond.UserInfo{}, nil
}

type stubPostService struct{}

func (stubPostService) CreatePost(userId string, req *request.CreatePostRequest) (*respond.PostRespond, error) {
	return &respond.PostRespond{Id: "P1", Content: req.Content}, nil
}
func (stubPostService) Feed(string, int, int) ([]respond.PostRespond, error) {
	return []respond.PostRespond{}, nil
}
func (stubPostService) UserPosts(string, string, int, int) ([]respond.PostRespond, error) {
	return []respond.PostRespond{}, nil
}
func (stubPostService) TogglePostLike(string, string) (*respond.LikeRespond, error) {
	return &respond.LikeRespond{Liked: true, Count: 1}, nil
}
func (stubPostService) AddComment(string, string, *request.CreateCommentRequest) (*respond.CommentRespond, error) {
	return &respond.CommentRespond{Id: "C1"}, nil
}
func (stubPostService) GetComments(string, int, int) ([]respond.CommentRespond, error) {
	return []respond.CommentRespond{}, nil
}
func (stubPostService) ToggleCommentLike(string, string) (*respond.LikeRespond, error) {
	return &respond.LikeRespond{Liked: true, Count: 1}, nil
}

type stubMessageService struct{}

func (stubMessageService) SendMessage(senderId string, req *request.SendMessageRequest) (*respond.MessageRespond, error) {
	messageType := req.MessageType
	if messageType == "" {
		messageType = "TEXT"
	}
	return &respond.MessageRespond{
		Id:          "M1",
		Sender:      respond.UserSummary{Id: senderId},
		Recipient:   respond.UserSummary{Id: req.RecipientId},
		Content:     req.Content,
		MessageType: messageType,
	}, nil
}
func (stubMessageService) GetConversation(string, string, int, int) ([]respond.MessageRespond, error) {
	return []respond.MessageRespond{}, nil
}
func (stubMessageService) GetConversations(string) ([]respond.ConversationRespond, error) {
	return []respond.ConversationRespond{}, nil
}
func (stubMessageService) MarkRead(string, string) error { return nil }

func newTestServer(t *testing.T) (*httptest.Server, *chat.ChatServer) {
	t.Helper()
	authService := &stubAuthService{users: map[string]respond.UserInfo{
		"UA": {Id: "UA", Username: "alice"},
		"UB": {Id: "UB", Username: "bob"},
	}}
	return newTestServerWithAuth(t, authService)
}

func newTestServerWithAuth(t *testing.T, authService service.AuthService) (*httptest.Server, *chat.ChatServer) {
	t.Helper()
	setup(t)

	services := &service.Services{
		Auth:    authService,
		User:    stubUserService{},
		Post:    stubPostService{},
		Message: stubMessageService{},
	}
	chatServer := chat.NewChannelChatServer(nil, services.Message)
	chatServer.Start()
	t.Cleanup(chatServer.Stop)

	handlers := handler.NewHandlers(services, chatServer)
	engine := http_server.NewEngine(handlers, gin.TestMode)
	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)
	return server, chatServer
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) handler.Response {
	t.Helper()
	defer resp.Body.Close()
	var out handler.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/users/profile")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestRegisterAcceptsValidBody(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/auth/register", map[string]any{
		"email":       "alice@kiu.edu.ge",
		"username":    "alice_j",
		"firstName":   "Alice",
		"lastName":    "Johnson",
		"password":    "secret123",
		"pin":         "4321",
		"major":       "Computer Science",
		"dateOfBirth": "2002-05-14",
		"startYear":   2022,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	out := decodeResponse(t, resp)
	if out.Code != errorx.CodeSuccess {
		t.Fatalf("code = %d, want %d", out.Code, errorx.CodeSuccess)
	}
}

func TestRegisterRejectsForeignEmailDomain(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/auth/register", map[string]any{
		"email":       "alice@gmail.com",
		"username":    "alice_j",
		"firstName":   "Alice",
		"lastName":    "Johnson",
		"password":    "secret123",
		"pin":         "4321",
		"major":       "Computer Science",
		"dateOfBirth": "2002-05-14",
		"startYear":   2022,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func authedPostJSON(t *testing.T, url, userId string, body any) *http.Response {
	t.Helper()
	token, err := jwt.GenerateAccessToken(userId)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func TestCreatePostContentLengthBoundary(t *testing.T) {
	server, _ := newTestServer(t)

	resp := authedPostJSON(t, server.URL+"/posts", "UA", map[string]any{
		"content": strings.Repeat("a", 2000),
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("2000-char content: status = %d, want 201", resp.StatusCode)
	}

	resp = authedPostJSON(t, server.URL+"/posts", "UA", map[string]any{
		"content": strings.Repeat("a", 2001),
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("2001-char content: status = %d, want 400", resp.StatusCode)
	}
}

func TestVerifyReturnsAuthenticatedUser(t *testing.T) {
	server, _ := newTestServer(t)

	token, err := jwt.GenerateAccessToken("UA")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req, _ := http.NewRequest(http.MethodGet, server.URL+"/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	out := decodeResponse(t, resp)
	if out.Code != errorx.CodeSuccess {
		t.Fatalf("code = %d, want %d", out.Code, errorx.CodeSuccess)
	}
}

func wsURL(server *httptest.Server, token string) string {
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	if token != "" {
		url += "?token=" + token
	}
	return url
}

func TestWebsocketRejectsMissingAndInvalidToken(t *testing.T) {
	server, _ := newTestServer(t)

	if _, _, err := websocket.DefaultDialer.Dial(wsURL(server, ""), nil); err == nil {
		t.Fatal("handshake without token must fail")
	}
	if _, _, err := websocket.DefaultDialer.Dial(wsURL(server, "garbage"), nil); err == nil {
		t.Fatal("handshake with invalid token must fail")
	}

	// A valid token for an identity the service does not know is refused too.
	unknown, err := jwt.GenerateAccessToken("U-ghost")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, _, err := websocket.DefaultDialer.Dial(wsURL(server, unknown), nil); err == nil {
		t.Fatal("handshake for unknown identity must fail")
	}
}

// disabledUserRepo resolves every identity to a deactivated account.
type disabledUserRepo struct{}

func (disabledUserRepo) FindByUuid(uuid string) (*model.User, error) {
	return &model.User{Uuid: uuid, Username: "ghost", IsActive: false}, nil
}
func (disabledUserRepo) FindByEmail(string) (*model.User, error) {
	return nil, errorx.New(errorx.CodeNotFound, "user not found")
}
func (disabledUserRepo) FindByEmailOrUsername(string, string) (*model.User, error) {
	return nil, errorx.New(errorx.CodeNotFound, "user not found")
}
func (disabledUserRepo) FindByUuids([]string) ([]model.User, error)               { return nil, nil }
func (disabledUserRepo) Create(*model.User) error                                 { return nil }
func (disabledUserRepo) UpdateProfile(*model.User) error                          { return nil }
func (disabledUserRepo) Search(string, string, []string, int) ([]model.User, error) {
	return nil, nil
}
func (disabledUserRepo) SetPresence(string, bool, time.Time) error { return nil }

func TestWebsocketRejectsDisabledAccount(t *testing.T) {
	authService := auth.NewService(&repository.Repositories{User: disabledUserRepo{}})
	server, chatServer := newTestServerWithAuth(t, authService)

	token, err := jwt.GenerateAccessToken("U-disabled")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(server, token), nil)
	if err == nil {
		t.Fatal("handshake for disabled account must fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("handshake response = %+v, want 401", resp)
	}
	if got := chatServer.Hub.ConnectionCount("U-disabled"); got != 0 {
		t.Fatalf("disabled account registered %d connections, want 0", got)
	}
}

func dialWS(t *testing.T, server *httptest.Server, userId string) *websocket.Conn {
	t.Helper()
	token, err := jwt.GenerateAccessToken(userId)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, token), nil)
	if err != nil {
		t.Fatalf("dial as %s: %v", userId, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

type wireEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func readEvent(t *testing.T, conn *websocket.Conn) wireEvent {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var event wireEvent
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return event
}

func TestSendMessageDeliversAndConfirms(t *testing.T) {
	server, chatServer := newTestServer(t)

	alice := dialWS(t, server, "UA")
	bob := dialWS(t, server, "UB")

	// Both registrations join the personal rooms asynchronously.
	deadline := time.Now().Add(2 * time.Second)
	for chatServer.Hub.ConnectionCount("UB") == 0 || chatServer.Hub.ConnectionCount("UA") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("connections never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	err := alice.WriteJSON(map[string]any{
		"event": "send_message",
		"data":  map[string]any{"recipientId": "UB", "content": "hi"},
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	delivered := readEvent(t, bob)
	if delivered.Event != "new_message" {
		t.Fatalf("recipient got %q, want new_message", delivered.Event)
	}
	var message respond.MessageRespond
	if err := json.Unmarshal(delivered.Data, &message); err != nil {
		t.Fatalf("unmarshal message: %v", err)
	}
	if message.Content != "hi" || message.Sender.Id != "UA" {
		t.Fatalf("message = %+v", message)
	}

	confirmed := readEvent(t, alice)
	if confirmed.Event != "message_sent" {
		t.Fatalf("sender got %q, want message_sent", confirmed.Event)
	}
	var echo respond.MessageRespond
	if err := json.Unmarshal(confirmed.Data, &echo); err != nil {
		t.Fatalf("unmarshal confirmation: %v", err)
	}
	if echo.Id != message.Id {
		t.Fatalf("confirmation id %s differs from delivery id %s", echo.Id, message.Id)
	}
}

func TestTypingIndicatorRoundTrip(t *testing.T) {
	server, chatServer := newTestServer(t)

	alice := dialWS(t, server, "UA")
	bob := dialWS(t, server, "UB")

	deadline := time.Now().Add(2 * time.Second)
	for chatServer.Hub.ConnectionCount("UB") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("recipient never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	err := alice.WriteJSON(map[string]any{
		"event": "typing_start",
		"data":  map[string]any{"recipientId": "UB"},
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	event := readEvent(t, bob)
	if event.Event != "user_typing" {
		t.Fatalf("got %q, want user_typing", event.Event)
	}
	var payload struct {
		UserId   string `json:"userId"`
		IsTyping bool   `json:"isTyping"`
	}
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.UserId != "UA" || !payload.IsTyping {
		t.Fatalf("payload = %+v", payload)
	}
}
