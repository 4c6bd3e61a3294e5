package chat

import (
	"encoding/json"
	"sync"
	"time"

	"kiu_social_server/internal/dao/postgres/repository"

	"go.uber.org/zap"
)

// Hub is the process-local connection registry. It tracks room membership
// and a per-user connection count so a user goes offline only when the last
// of their simultaneous connections closes.
type Hub struct {
	mu sync.RWMutex

	// rooms maps a room key to its member connections.
	rooms map[string]map[*UserConn]struct{}
	// conns maps connection id to connection, for routing confirmations.
	conns map[string]*UserConn
	// userConnCount is the presence refcount per user id.
	userConnCount map[string]int

	userRepo repository.UserRepository
}

func NewHub(userRepo repository.UserRepository) *Hub {
	return &Hub{
		rooms:         make(map[string]map[*UserConn]struct{}),
		conns:         make(map[string]*UserConn),
		userConnCount: make(map[string]int),
		userRepo:      userRepo,
	}
}

// Register binds the connection, joins it to the user's personal room and
// flips the user online when this is their first connection.
func (h *Hub) Register(conn *UserConn) {
	h.mu.Lock()
	h.conns[conn.ConnId] = conn
	h.joinLocked(conn, UserRoom(conn.UserId))
	h.userConnCount[conn.UserId]++
	first := h.userConnCount[conn.UserId] == 1
	h.mu.Unlock()

	if first {
		h.setPresence(conn.UserId, true)
	}
	zap.L().Info("connection registered",
		zap.String("user", conn.UserId), zap.String("conn", conn.ConnId))
}

// Unregister removes the connection from every room and flips the user
// offline when their last connection is gone.
func (h *Hub) Unregister(conn *UserConn) {
	h.mu.Lock()
	if _, known := h.conns[conn.ConnId]; !known {
		h.mu.Unlock()
		return
	}
	delete(h.conns, conn.ConnId)
	for room, members := range h.rooms {
		if _, in := members[conn]; in {
			delete(members, conn)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	h.userConnCount[conn.UserId]--
	last := h.userConnCount[conn.UserId] <= 0
	if last {
		delete(h.userConnCount, conn.UserId)
	}
	h.mu.Unlock()

	if last {
		h.setPresence(conn.UserId, false)
	}
	zap.L().Info("connection unregistered",
		zap.String("user", conn.UserId), zap.String("conn", conn.ConnId))
}

// Join is idempotent; no membership authorization is applied.
func (h *Hub) Join(conn *UserConn, room string) {
	h.mu.Lock()
	h.joinLocked(conn, room)
	h.mu.Unlock()
}

func (h *Hub) joinLocked(conn *UserConn, room string) {
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*UserConn]struct{})
		h.rooms[room] = members
	}
	members[conn] = struct{}{}
}

// Leave is idempotent.
func (h *Hub) Leave(conn *UserConn, room string) {
	h.mu.Lock()
	if members, ok := h.rooms[room]; ok {
		delete(members, conn)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()
}

// Broadcast delivers the event to every connection in the room. The payload
// is marshaled once; slow consumers are skipped rather than blocking the hub.
func (h *Hub) Broadcast(room string, event ServerEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		zap.L().Error("marshal event failed", zap.String("event", event.Event), zap.Error(err))
		return
	}
	h.mu.RLock()
	members := make([]*UserConn, 0, len(h.rooms[room]))
	for conn := range h.rooms[room] {
		members = append(members, conn)
	}
	h.mu.RUnlock()

	for _, conn := range members {
		conn.Enqueue(payload)
	}
}

// SendTo delivers the event to one connection by id; a false return means
// the connection is not local to this process.
func (h *Hub) SendTo(connId string, event ServerEvent) bool {
	h.mu.RLock()
	conn, ok := h.conns[connId]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	payload, err := json.Marshal(event)
	if err != nil {
		zap.L().Error("marshal event failed", zap.String("event", event.Event), zap.Error(err))
		return true
	}
	conn.Enqueue(payload)
	return true
}

// RoomSize reports the member count, for diagnostics.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// ConnectionCount reports the live connection count for a user.
func (h *Hub) ConnectionCount(userId string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.userConnCount[userId]
}

func (h *Hub) setPresence(userId string, online bool) {
	if h.userRepo == nil {
		return
	}
	if err := h.userRepo.SetPresence(userId, online, time.Now()); err != nil {
		zap.L().Warn("update presence failed",
			zap.String("user", userId), zap.Bool("online", online), zap.Error(err))
	}
}
