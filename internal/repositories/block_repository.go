package repositories

import (
	"errors"

	"github.com/MaekawaAo0604/muscle-SNS/internal/models"
	"gorm.io/gorm"
)

// BlockRepository defines the interface for block data operations
type BlockRepository interface {
	CreateBlockWithCascade(block *models.Block) error
	GetBlock(blockerID, blockedID string) (*models.Block, error)
	DeleteBlock(blockerID, blockedID string) error
	ListBlocks(blockerID string) ([]models.Block, error)
	GetRelatedUserIDs(userID string) ([]string, error)
}

// PostgresBlockRepository implements BlockRepository for PostgreSQL
type PostgresBlockRepository struct {
	db *gorm.DB
}

// NewPostgresBlockRepository creates a new PostgresBlockRepository
func NewPostgresBlockRepository(db *gorm.DB) *PostgresBlockRepository {
	return &PostgresBlockRepository{db: db}
}

// CreateBlockWithCascade inserts the block and dissolves any match between
// the two parties in the same transaction, so a block can never coexist with
// an active match.
func (r *PostgresBlockRepository) CreateBlockWithCascade(block *models.Block) error {
	u1, u2 := models.CanonicalPair(block.BlockerID, block.BlockedID)
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(block).Error; err != nil {
			return err
		}
		return tx.Model(&models.Match{}).
			Where("user1_id = ? AND user2_id = ?", u1, u2).
			Update("is_active", false).Error
	})
}

// GetBlock returns the block for the ordered pair, or nil when none exists.
func (r *PostgresBlockRepository) GetBlock(blockerID, blockedID string) (*models.Block, error) {
	var block models.Block
	err := r.db.First(&block, "blocker_id = ? AND blocked_id = ?", blockerID, blockedID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &block, nil
}

func (r *PostgresBlockRepository) DeleteBlock(blockerID, blockedID string) error {
	res := r.db.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.Block{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresBlockRepository) ListBlocks(blockerID string) ([]models.Block, error) {
	var blocks []models.Block
	err := r.db.
		Preload("Blocked").
		Where("blocker_id = ?", blockerID).
		Order("created_at DESC").
		Find(&blocks).Error
	return blocks, err
}

// GetRelatedUserIDs lists everyone with a block relationship to or from the
// user, used to exclude both sides from candidate discovery.
func (r *PostgresBlockRepository) GetRelatedUserIDs(userID string) ([]string, error) {
	var blocks []models.Block
	err := r.db.
		Where("blocker_id = ? OR blocked_id = ?", userID, userID).
		Find(&blocks).Error
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b.BlockerID != userID {
			ids = append(ids, b.BlockerID)
		}
		if b.BlockedID != userID {
			ids = append(ids, b.BlockedID)
		}
	}
	return ids, nil
}
