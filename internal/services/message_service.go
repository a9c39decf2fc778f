package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/MaekawaAo0604/muscle-SNS/internal/apperrors"
	"github.com/MaekawaAo0604/muscle-SNS/internal/cache"
	"github.com/MaekawaAo0604/muscle-SNS/internal/models"
	"github.com/MaekawaAo0604/muscle-SNS/internal/repositories"
)

// DefaultMessagePageSize bounds a conversation page.
const DefaultMessagePageSize = 50

// Realtime event names emitted by the message channel.
const (
	EventNewMessage   = "new_message"
	EventMessagesRead = "messages_read"
)

// Broadcaster fans an event out to every connection currently joined to a
// match's room. Implemented by the websocket hub; nil disables broadcasting.
type Broadcaster interface {
	BroadcastToMatch(matchID, event string, payload interface{})
}

// ReadReceipt is the payload of a messages_read broadcast.
type ReadReceipt struct {
	MatchID      string `json:"match_id"`
	ReadByUserID string `json:"read_by_user_id"`
}

// MessageService persists chat messages scoped to an active match, tracks
// read state, and fans new messages and read receipts out to the match room.
type MessageService struct {
	matches  repositories.MatchRepository
	messages repositories.MessageRepository
	users    repositories.UserRepository
	cache    *cache.RedisCache
	hub      Broadcaster
	log      *slog.Logger
}

// NewMessageService creates a new MessageService. hub and cache may be nil.
func NewMessageService(matches repositories.MatchRepository, messages repositories.MessageRepository, users repositories.UserRepository, rc *cache.RedisCache, hub Broadcaster, log *slog.Logger) *MessageService {
	return &MessageService{matches: matches, messages: messages, users: users, cache: rc, hub: hub, log: log}
}

// authorize checks the invariant guarding every channel operation: the actor
// must be a participant and the match active. Missing and dissolved matches
// both collapse to not-found so outsiders cannot tell them apart.
func (s *MessageService) authorize(matchID, actingUserID string) (*models.Match, error) {
	match, err := s.matches.GetMatchByID(matchID)
	if err != nil {
		return nil, apperrors.FromStore(err, "match not found", "")
	}
	if !match.IsActive {
		return nil, apperrors.NotFound("match not found")
	}
	if !match.HasParticipant(actingUserID) {
		return nil, apperrors.Forbidden("not a participant of this match")
	}
	return match, nil
}

// ListMessages returns one page of the conversation, oldest first.
func (s *MessageService) ListMessages(matchID, actingUserID string, page, limit int) ([]models.Message, error) {
	if _, err := s.authorize(matchID, actingUserID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultMessagePageSize
	}
	messages, err := s.messages.ListByMatch(matchID, page, limit)
	if err != nil {
		return nil, apperrors.Dependency("failed to list messages", err)
	}
	return messages, nil
}

// SendMessage persists a message from the acting user to the match's other
// participant and broadcasts it to the room. The recipient is always
// inferred from the match, never taken from the client. Content is trimmed;
// a message must carry text or an image.
func (s *MessageService) SendMessage(matchID, fromUserID, content, imageURL string) (*models.Message, error) {
	match, err := s.authorize(matchID, fromUserID)
	if err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" && imageURL == "" {
		return nil, apperrors.Validation("message content is required")
	}

	message := &models.Message{
		MatchID:    matchID,
		FromUserID: fromUserID,
		ToUserID:   match.PartnerID(fromUserID),
		Content:    content,
		ImageURL:   imageURL,
	}
	if err := s.messages.CreateMessage(message); err != nil {
		return nil, apperrors.Dependency("failed to save message", err)
	}

	if err := s.matches.Touch(matchID); err != nil {
		s.log.Warn("failed to touch match activity", "match_id", matchID, "error", err)
	}
	if s.cache != nil {
		if err := s.cache.IncrUnread(context.Background(), matchID, message.ToUserID); err != nil {
			s.log.Warn("unread cache increment failed", "match_id", matchID, "error", err)
		}
	}

	if sender, err := s.users.GetUserByID(fromUserID); err == nil {
		sum := sender.Summary()
		message.FromUser = &models.User{
			ID:              sum.ID,
			Nickname:        sum.Nickname,
			ProfileImageURL: sum.ProfileImageURL,
		}
	}

	if s.hub != nil {
		s.hub.BroadcastToMatch(matchID, EventNewMessage, message)
	}
	return message, nil
}

// MarkRead bulk-transitions every unread message addressed to the acting
// user and broadcasts a read receipt naming the reader. Returns the number
// of messages transitioned; zero is a valid result, and a second call in a
// row returns zero.
func (s *MessageService) MarkRead(matchID, actingUserID string) (int64, error) {
	if _, err := s.authorize(matchID, actingUserID); err != nil {
		return 0, err
	}

	count, err := s.messages.MarkAllRead(matchID, actingUserID)
	if err != nil {
		return 0, apperrors.Dependency("failed to mark messages read", err)
	}

	if s.cache != nil {
		if err := s.cache.ResetUnread(context.Background(), matchID, actingUserID); err != nil {
			s.log.Warn("unread cache reset failed", "match_id", matchID, "error", err)
		}
	}
	if s.hub != nil {
		s.hub.BroadcastToMatch(matchID, EventMessagesRead, ReadReceipt{
			MatchID:      matchID,
			ReadByUserID: actingUserID,
		})
	}
	return count, nil
}

// UnreadCount returns how many messages await the acting user in a match.
func (s *MessageService) UnreadCount(matchID, actingUserID string) (int64, error) {
	if _, err := s.authorize(matchID, actingUserID); err != nil {
		return 0, err
	}
	count, err := s.messages.CountUnread(matchID, actingUserID)
	if err != nil {
		return 0, apperrors.Dependency("failed to count unread messages", err)
	}
	return count, nil
}

// IsParticipant reports whether the user may join the match's realtime
// room. Unlike the channel operations this does not require the match to be
// active; joining a dissolved room is harmless because sends are refused.
func (s *MessageService) IsParticipant(matchID, userID string) (bool, error) {
	match, err := s.matches.GetMatchByID(matchID)
	if err != nil {
		return false, apperrors.FromStore(err, "match not found", "")
	}
	return match.HasParticipant(userID), nil
}
