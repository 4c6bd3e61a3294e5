// Package message implements direct messages and the derived conversation
// list. Conversation pages are cached in Redis and invalidated off the
// request path whenever the history changes.
package message

import (
	"encoding/json"
	"fmt"
	"time"

	"kiu_social_server/internal/dao/postgres/repository"
	"kiu_social_server/internal/dao/redis"
	"kiu_social_server/internal/dto/request"
	"kiu_social_server/internal/dto/respond"
	"kiu_social_server/internal/model"
	"kiu_social_server/pkg/constants"
	"kiu_social_server/pkg/errorx"
	"kiu_social_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

type service struct {
	repos *repository.Repositories
}

func NewService(repos *repository.Repositories) *service {
	return &service{repos: repos}
}

// pairKey orders the two uuids so both participants hit the same cache keys.
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "_" + b
}

func conversationCacheKey(a, b string, page, limit int) string {
	return fmt.Sprintf("conversation_cache_%s_page_%d_%d", pairKey(a, b), page, limit)
}

func invalidateConversationCache(a, b string) {
	redis.SubmitCacheTask(func() {
		if err := redis.DelKeysWithPattern(fmt.Sprintf("conversation_cache_%s_*", pairKey(a, b))); err != nil {
			zap.L().Warn("invalidate conversation cache failed", zap.Error(err))
		}
	})
}

func (s *service) SendMessage(senderId string, req *request.SendMessageRequest) (*respond.MessageRespond, error) {
	if senderId == req.RecipientId {
		return nil, errorx.New(errorx.CodeInvalidParam, "cannot message yourself")
	}
	sender, err := s.repos.User.FindByUuid(senderId)
	if err != nil {
		return nil, err
	}
	recipient, err := s.repos.User.FindByUuid(req.RecipientId)
	if err != nil {
		return nil, err
	}

	messageType := req.MessageType
	if messageType == "" {
		messageType = model.MessageTypeText
	}
	message := &model.Message{
		Uuid:        snowflake.GenerateIDString(),
		SenderId:    senderId,
		RecipientId: req.RecipientId,
		Content:     req.Content,
		MessageType: messageType,
	}
	if err := s.repos.Message.Create(message); err != nil {
		return nil, err
	}
	invalidateConversationCache(senderId, req.RecipientId)

	result := respond.NewMessageRespond(message, sender, recipient)
	return &result, nil
}

func (s *service) GetConversation(userId, otherId string, page, limit int) ([]respond.MessageRespond, error) {
	if limit <= 0 || limit > constants.CONVERSATION_PAGE_SIZE {
		limit = constants.CONVERSATION_PAGE_SIZE
	}
	if page <= 0 {
		page = 1
	}

	cacheKey := conversationCacheKey(userId, otherId, page, limit)
	if cached, err := redis.GetKeyNilIsErr(cacheKey); err == nil {
		var results []respond.MessageRespond
		if json.Unmarshal([]byte(cached), &results) == nil {
			return results, nil
		}
	}

	other, err := s.repos.User.FindByUuid(otherId)
	if err != nil {
		return nil, err
	}
	me, err := s.repos.User.FindByUuid(userId)
	if err != nil {
		return nil, err
	}
	messages, err := s.repos.Message.FindConversation(userId, otherId, page, limit)
	if err != nil {
		return nil, err
	}

	// The page is fetched newest-first for correct pagination, then reversed
	// so clients render it oldest-first.
	results := make([]respond.MessageRespond, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		m := &messages[i]
		if m.SenderId == userId {
			results = append(results, respond.NewMessageRespond(m, me, other))
		} else {
			results = append(results, respond.NewMessageRespond(m, other, me))
		}
	}

	if encoded, err := json.Marshal(results); err == nil {
		redis.SubmitCacheTask(func() {
			if err := redis.SetKeyEx(cacheKey, string(encoded), constants.CACHE_EXPIRY_MINUTES*time.Minute); err != nil {
				zap.L().Warn("cache conversation page failed", zap.Error(err))
			}
		})
	}
	return results, nil
}

func (s *service) GetConversations(userId string) ([]respond.ConversationRespond, error) {
	me, err := s.repos.User.FindByUuid(userId)
	if err != nil {
		return nil, err
	}
	messages, err := s.repos.Message.FindAllForUser(userId)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return []respond.ConversationRespond{}, nil
	}

	// Messages arrive newest-first, so the first message seen per counterpart
	// is the conversation's latest and the output stays sorted by recency.
	order := make([]string, 0)
	latest := make(map[string]*model.Message)
	for i := range messages {
		counterpart := messages[i].SenderId
		if counterpart == userId {
			counterpart = messages[i].RecipientId
		}
		if _, seen := latest[counterpart]; !seen {
			latest[counterpart] = &messages[i]
			order = append(order, counterpart)
		}
	}

	counterparts, err := s.repos.User.FindByUuids(order)
	if err != nil {
		return nil, err
	}
	byId := make(map[string]*model.User, len(counterparts))
	for i := range counterparts {
		byId[counterparts[i].Uuid] = &counterparts[i]
	}

	results := make([]respond.ConversationRespond, 0, len(order))
	for _, counterpartId := range order {
		counterpart, ok := byId[counterpartId]
		if !ok {
			continue
		}
		unread, err := s.repos.Message.CountUnread(counterpartId, userId)
		if err != nil {
			return nil, err
		}
		last := latest[counterpartId]
		var lastRespond respond.MessageRespond
		if last.SenderId == userId {
			lastRespond = respond.NewMessageRespond(last, me, counterpart)
		} else {
			lastRespond = respond.NewMessageRespond(last, counterpart, me)
		}
		entry := respond.ConversationRespond{
			User:        respond.NewUserSummary(counterpart),
			IsActive:    counterpart.IsActive,
			LastMessage: lastRespond,
			UnreadCount: unread,
		}
		if counterpart.LastSeen.Valid {
			entry.LastSeen = counterpart.LastSeen.Time.Format(constants.DATE_TIME_LAYOUT)
		}
		results = append(results, entry)
	}
	return results, nil
}

func (s *service) MarkRead(userId, otherId string) error {
	if err := s.repos.Message.MarkConversationRead(otherId, userId, time.Now()); err != nil {
		return err
	}
	invalidateConversationCache(userId, otherId)
	return nil
}
