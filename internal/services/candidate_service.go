package services

import (
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/MaekawaAo0604/muscle-SNS/internal/apperrors"
	"github.com/MaekawaAo0604/muscle-SNS/internal/matching"
	"github.com/MaekawaAo0604/muscle-SNS/internal/models"
	"github.com/MaekawaAo0604/muscle-SNS/internal/repositories"
)

// DefaultCandidateLimit is used when the caller doesn't request a size.
const DefaultCandidateLimit = 10

// ScoredCandidate pairs a candidate profile with its compatibility score.
type ScoredCandidate struct {
	models.User
	MatchScore int `json:"match_score"`
}

// CandidateService computes the set of eligible swipe targets for a user.
type CandidateService struct {
	users  repositories.UserRepository
	swipes repositories.SwipeRepository
	blocks repositories.BlockRepository
}

// NewCandidateService creates a new CandidateService
func NewCandidateService(users repositories.UserRepository, swipes repositories.SwipeRepository, blocks repositories.BlockRepository) *CandidateService {
	return &CandidateService{users: users, swipes: swipes, blocks: blocks}
}

// FindCandidates returns up to limit candidates for the user, excluding
// self, anyone already swiped on, and anyone in a block relation either way.
// Results are ordered by match score descending; candidates with equal
// scores keep their newest-first creation order. An empty list is a normal
// terminal state, not an error.
func (s *CandidateService) FindCandidates(userID string, filters repositories.CandidateFilters, limit int) ([]ScoredCandidate, error) {
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}

	current, err := s.users.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Dependency("failed to load user", err)
	}
	if !current.IsActive {
		return nil, apperrors.NotFound("user not found")
	}

	swiped, err := s.swipes.GetSwipedTargetIDs(userID)
	if err != nil {
		return nil, apperrors.Dependency("failed to load swipe history", err)
	}
	blocked, err := s.blocks.GetRelatedUserIDs(userID)
	if err != nil {
		return nil, apperrors.Dependency("failed to load block list", err)
	}

	excluded := append(swiped, blocked...)

	users, err := s.users.FindCandidates(userID, excluded, filters, limit)
	if err != nil {
		return nil, apperrors.Dependency("failed to find candidates", err)
	}

	candidates := make([]ScoredCandidate, len(users))
	for i := range users {
		candidates[i] = ScoredCandidate{
			User:       users[i],
			MatchScore: matching.Score(current, &users[i]),
		}
	}
	// Stable sort keeps the repository's newest-first order for ties.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].MatchScore > candidates[j].MatchScore
	})
	return candidates, nil
}
