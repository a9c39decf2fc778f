package repositories

import (
	"errors"
	"time"

	"github.com/MaekawaAo0604/muscle-SNS/internal/models"
	"gorm.io/gorm"
)

// MatchRepository defines the interface for match data operations
type MatchRepository interface {
	CreateMatch(match *models.Match) error
	GetMatchByID(id string) (*models.Match, error)
	GetMatchByPair(userA, userB string) (*models.Match, error)
	ListActiveMatches(userID string) ([]models.Match, error)
	Deactivate(matchID string) error
	DeactivateBetween(userA, userB string) error
	Touch(matchID string) error
}

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *gorm.DB
}

// NewPostgresMatchRepository creates a new PostgresMatchRepository
func NewPostgresMatchRepository(db *gorm.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

// CreateMatch inserts the match row. Participants must already be in
// canonical order; the unique pair index rejects a second match for the same
// pair.
func (r *PostgresMatchRepository) CreateMatch(match *models.Match) error {
	return r.db.Create(match).Error
}

func (r *PostgresMatchRepository) GetMatchByID(id string) (*models.Match, error) {
	var match models.Match
	err := r.db.
		Preload("User1").
		Preload("User2").
		First(&match, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// GetMatchByPair looks up the match for an unordered pair, or nil when none
// exists.
func (r *PostgresMatchRepository) GetMatchByPair(userA, userB string) (*models.Match, error) {
	u1, u2 := models.CanonicalPair(userA, userB)
	var match models.Match
	err := r.db.First(&match, "user1_id = ? AND user2_id = ?", u1, u2).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *PostgresMatchRepository) ListActiveMatches(userID string) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.
		Preload("User1").
		Preload("User2").
		Where("(user1_id = ? OR user2_id = ?) AND is_active = ?", userID, userID, true).
		Order("updated_at DESC").
		Find(&matches).Error
	return matches, err
}

// Deactivate marks a match inactive. Deactivating an already-inactive match
// is a no-op.
func (r *PostgresMatchRepository) Deactivate(matchID string) error {
	return r.db.Model(&models.Match{}).
		Where("id = ?", matchID).
		Update("is_active", false).Error
}

// DeactivateBetween dissolves any match between the two users regardless of
// which side initiated it.
func (r *PostgresMatchRepository) DeactivateBetween(userA, userB string) error {
	u1, u2 := models.CanonicalPair(userA, userB)
	return r.db.Model(&models.Match{}).
		Where("user1_id = ? AND user2_id = ?", u1, u2).
		Update("is_active", false).Error
}

// Touch bumps the last-activity timestamp.
func (r *PostgresMatchRepository) Touch(matchID string) error {
	return r.db.Model(&models.Match{}).
		Where("id = ?", matchID).
		Update("updated_at", time.Now()).Error
}
