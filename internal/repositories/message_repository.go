package repositories

import (
	"errors"

	"github.com/MaekawaAo0604/muscle-SNS/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for message data operations
type MessageRepository interface {
	CreateMessage(message *models.Message) error
	ListByMatch(matchID string, page, limit int) ([]models.Message, error)
	GetLastMessage(matchID string) (*models.Message, error)
	MarkAllRead(matchID, toUserID string) (int64, error)
	CountUnread(matchID, toUserID string) (int64, error)
}

// PostgresMessageRepository implements MessageRepository for PostgreSQL
type PostgresMessageRepository struct {
	db *gorm.DB
}

// NewPostgresMessageRepository creates a new PostgresMessageRepository
func NewPostgresMessageRepository(db *gorm.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) CreateMessage(message *models.Message) error {
	return r.db.Create(message).Error
}

// ListByMatch returns one page of a conversation, oldest first within the
// page. Page 1 is the newest messages; the page is fetched newest-first and
// reversed so clients render it top-down.
func (r *PostgresMessageRepository) ListByMatch(matchID string, page, limit int) ([]models.Message, error) {
	if page < 1 {
		page = 1
	}
	var messages []models.Message
	err := r.db.
		Preload("FromUser").
		Where("match_id = ?", matchID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// GetLastMessage returns the newest message of a match, or nil when the
// conversation is empty.
func (r *PostgresMessageRepository) GetLastMessage(matchID string) (*models.Message, error) {
	var message models.Message
	err := r.db.
		Where("match_id = ?", matchID).
		Order("created_at DESC").
		First(&message).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// MarkAllRead flips every unread message addressed to the user in one bulk
// update and returns how many rows transitioned. Zero is a valid result.
func (r *PostgresMessageRepository) MarkAllRead(matchID, toUserID string) (int64, error) {
	res := r.db.Model(&models.Message{}).
		Where("match_id = ? AND to_user_id = ? AND is_read = ?", matchID, toUserID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *PostgresMessageRepository) CountUnread(matchID, toUserID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("match_id = ? AND to_user_id = ? AND is_read = ?", matchID, toUserID, false).
		Count(&count).Error
	return count, err
}
