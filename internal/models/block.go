package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Block is a directed edge from blocker to blocked. Creating one dissolves
// any active match between the parties as a cascading side effect.
type Block struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	BlockerID string    `json:"blocker_id" gorm:"size:64;not null;index;uniqueIndex:idx_block_pair"`
	BlockedID string    `json:"blocked_id" gorm:"size:64;not null;index;uniqueIndex:idx_block_pair"`
	CreatedAt time.Time `json:"created_at"`

	Blocked *User `json:"blocked,omitempty" gorm:"foreignKey:BlockedID"`
}

func (b *Block) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

type BlockRequest struct {
	BlockedID string `json:"blocked_id" validate:"required"`
}
