package repositories

import (
	"errors"

	"github.com/MaekawaAo0604/muscle-SNS/internal/models"
	"gorm.io/gorm"
)

// SwipeRepository defines the interface for the append-only swipe ledger.
// Swipes are never updated or deleted.
type SwipeRepository interface {
	CreateSwipe(swipe *models.Swipe) error
	GetSwipe(fromUserID, toUserID string) (*models.Swipe, error)
	GetSwipedTargetIDs(userID string) ([]string, error)
}

// PostgresSwipeRepository implements SwipeRepository for PostgreSQL
type PostgresSwipeRepository struct {
	db *gorm.DB
}

// NewPostgresSwipeRepository creates a new PostgresSwipeRepository
func NewPostgresSwipeRepository(db *gorm.DB) *PostgresSwipeRepository {
	return &PostgresSwipeRepository{db: db}
}

// CreateSwipe inserts the swipe row. The unique index on (from, to) rejects
// a repeat decision for the same ordered pair, racing writers included.
func (r *PostgresSwipeRepository) CreateSwipe(swipe *models.Swipe) error {
	return r.db.Create(swipe).Error
}

// GetSwipe returns the swipe for the exact ordered pair, or nil when none
// exists.
func (r *PostgresSwipeRepository) GetSwipe(fromUserID, toUserID string) (*models.Swipe, error) {
	var swipe models.Swipe
	err := r.db.First(&swipe, "from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &swipe, nil
}

// GetSwipedTargetIDs lists everyone the user has already decided on, in
// either direction (left or right).
func (r *PostgresSwipeRepository) GetSwipedTargetIDs(userID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.Swipe{}).
		Where("from_user_id = ?", userID).
		Pluck("to_user_id", &ids).Error
	return ids, err
}
