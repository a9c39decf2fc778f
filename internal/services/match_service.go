package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/MaekawaAo0604/muscle-SNS/internal/apperrors"
	"github.com/MaekawaAo0604/muscle-SNS/internal/cache"
	"github.com/MaekawaAo0604/muscle-SNS/internal/models"
	"github.com/MaekawaAo0604/muscle-SNS/internal/repositories"
)

// SwipeResult holds the outcome of recording a swipe.
type SwipeResult struct {
	Swipe   *models.Swipe `json:"swipe"`
	IsMatch bool          `json:"is_match"`
	Match   *models.Match `json:"match,omitempty"`
}

// MatchSummary is one row of a user's match list: the partner, the newest
// message, and how many messages await the user.
type MatchSummary struct {
	ID          string             `json:"id"`
	User        models.UserSummary `json:"user"`
	LastMessage *models.Message    `json:"last_message,omitempty"`
	UnreadCount int64              `json:"unread_count"`
	IsActive    bool               `json:"is_active"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// MatchDetail is the participant-gated view of a single match.
type MatchDetail struct {
	ID        string       `json:"id"`
	User      *models.User `json:"user"`
	IsActive  bool         `json:"is_active"`
	CreatedAt time.Time    `json:"created_at"`
}

// MatchService owns the swipe/match state machine: it records swipes,
// detects reciprocity, materializes matches, and dissolves them.
type MatchService struct {
	swipes   repositories.SwipeRepository
	matches  repositories.MatchRepository
	messages repositories.MessageRepository
	cache    *cache.RedisCache
	log      *slog.Logger
}

// NewMatchService creates a new MatchService. cache may be nil; unread
// counts then always come from the database.
func NewMatchService(swipes repositories.SwipeRepository, matches repositories.MatchRepository, messages repositories.MessageRepository, rc *cache.RedisCache, log *slog.Logger) *MatchService {
	return &MatchService{swipes: swipes, matches: matches, messages: messages, cache: rc, log: log}
}

// RecordSwipe appends one directional decision to the ledger. A repeat
// decision for the same ordered pair is rejected. A RIGHT swipe that meets
// an earlier RIGHT swipe from the target creates the match, with the
// canonically smaller id stored first; LEFT swipes never match.
func (s *MatchService) RecordSwipe(fromUserID, toUserID, direction string) (*SwipeResult, error) {
	if fromUserID == toUserID {
		return nil, apperrors.Validation("cannot swipe on yourself")
	}
	if direction != models.SwipeLeft && direction != models.SwipeRight {
		return nil, apperrors.Validation("direction must be left or right")
	}

	// Pre-check for a friendlier message; the unique index on the swipes
	// table remains the authoritative guard under concurrency.
	existing, err := s.swipes.GetSwipe(fromUserID, toUserID)
	if err != nil {
		return nil, apperrors.Dependency("failed to check swipe history", err)
	}
	if existing != nil {
		return nil, apperrors.Duplicate("already swiped on this user")
	}

	swipe := &models.Swipe{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Direction:  direction,
	}
	if err := s.swipes.CreateSwipe(swipe); err != nil {
		return nil, apperrors.FromStore(err, "user not found", "already swiped on this user")
	}

	result := &SwipeResult{Swipe: swipe}
	if direction != models.SwipeRight {
		return result, nil
	}

	reverse, err := s.swipes.GetSwipe(toUserID, fromUserID)
	if err != nil {
		return nil, apperrors.Dependency("failed to check reciprocal swipe", err)
	}
	if reverse == nil || reverse.Direction != models.SwipeRight {
		return result, nil
	}

	match, err := s.materializeMatch(fromUserID, toUserID)
	if err != nil {
		return nil, err
	}
	if match != nil {
		result.IsMatch = true
		result.Match = match
	}
	return result, nil
}

// materializeMatch creates the match row for a detected reciprocal pair,
// unless one already exists. A lost race against the unique pair index is
// resolved by re-reading the winner's row.
func (s *MatchService) materializeMatch(userA, userB string) (*models.Match, error) {
	existing, err := s.matches.GetMatchByPair(userA, userB)
	if err != nil {
		return nil, apperrors.Dependency("failed to check existing match", err)
	}
	if existing != nil {
		if existing.IsActive {
			return existing, nil
		}
		// Pair was dissolved earlier; do not resurrect it here.
		return nil, nil
	}

	u1, u2 := models.CanonicalPair(userA, userB)
	match := &models.Match{User1ID: u1, User2ID: u2, IsActive: true}
	if err := s.matches.CreateMatch(match); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.matches.GetMatchByPair(userA, userB)
		}
		return nil, apperrors.Dependency("failed to create match", err)
	}
	return match, nil
}

// ListMatches returns the user's active matches, most recently active first,
// each with the partner summary, last message, and unread count.
func (s *MatchService) ListMatches(userID string) ([]MatchSummary, error) {
	matches, err := s.matches.ListActiveMatches(userID)
	if err != nil {
		return nil, apperrors.Dependency("failed to list matches", err)
	}

	summaries := make([]MatchSummary, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		partner := m.User1
		if m.User1ID == userID {
			partner = m.User2
		}

		last, err := s.messages.GetLastMessage(m.ID)
		if err != nil {
			return nil, apperrors.Dependency("failed to load last message", err)
		}
		unread, err := s.unreadCount(m.ID, userID)
		if err != nil {
			return nil, err
		}

		summary := MatchSummary{
			ID:          m.ID,
			LastMessage: last,
			UnreadCount: unread,
			IsActive:    m.IsActive,
			CreatedAt:   m.CreatedAt,
			UpdatedAt:   m.UpdatedAt,
		}
		if partner != nil {
			summary.User = partner.Summary()
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// GetMatch returns the detail view for a participant. Missing matches and
// non-participant access collapse to the same not-found, so callers cannot
// probe for a match's existence.
func (s *MatchService) GetMatch(matchID, actingUserID string) (*MatchDetail, error) {
	match, err := s.matches.GetMatchByID(matchID)
	if err != nil {
		return nil, apperrors.FromStore(err, "match not found", "")
	}
	if !match.HasParticipant(actingUserID) {
		return nil, apperrors.NotFound("match not found")
	}

	partner := match.User1
	if match.User1ID == actingUserID {
		partner = match.User2
	}
	return &MatchDetail{
		ID:        match.ID,
		User:      partner,
		IsActive:  match.IsActive,
		CreatedAt: match.CreatedAt,
	}, nil
}

// DissolveMatch deactivates a match on behalf of one of its participants.
// Dissolving an already-inactive match is a no-op success.
func (s *MatchService) DissolveMatch(matchID, actingUserID string) error {
	match, err := s.matches.GetMatchByID(matchID)
	if err != nil {
		return apperrors.FromStore(err, "match not found", "")
	}
	if !match.HasParticipant(actingUserID) {
		return apperrors.Forbidden("not a participant of this match")
	}
	if !match.IsActive {
		return nil
	}
	if err := s.matches.Deactivate(matchID); err != nil {
		return apperrors.Dependency("failed to dissolve match", err)
	}
	return nil
}

// unreadCount reads through the cache when available; the database stays
// the source of truth.
func (s *MatchService) unreadCount(matchID, userID string) (int64, error) {
	if s.cache != nil {
		ctx := context.Background()
		if count, ok, err := s.cache.GetUnread(ctx, matchID, userID); err == nil && ok {
			return count, nil
		} else if err != nil {
			s.log.Warn("unread cache read failed", "match_id", matchID, "error", err)
		}
	}

	count, err := s.messages.CountUnread(matchID, userID)
	if err != nil {
		return 0, apperrors.Dependency("failed to count unread messages", err)
	}
	if s.cache != nil {
		if err := s.cache.SetUnread(context.Background(), matchID, userID, count); err != nil {
			s.log.Warn("unread cache prime failed", "match_id", matchID, "error", err)
		}
	}
	return count, nil
}
