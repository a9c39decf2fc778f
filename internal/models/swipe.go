package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Swipe directions.
const (
	SwipeLeft  = "left"
	SwipeRight = "right"
)

// Swipe is one directional decision in the append-only ledger. The unique
// index on (from, to) makes re-swiping the same target a constraint
// violation; rows are never updated or deleted.
type Swipe struct {
	ID         string    `json:"id" gorm:"primaryKey;size:64"`
	FromUserID string    `json:"from_user_id" gorm:"size:64;not null;uniqueIndex:idx_swipe_pair"`
	ToUserID   string    `json:"to_user_id" gorm:"size:64;not null;index;uniqueIndex:idx_swipe_pair"`
	Direction  string    `json:"direction" gorm:"size:8;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

func (s *Swipe) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type SwipeRequest struct {
	ToUserID  string `json:"to_user_id" validate:"required"`
	Direction string `json:"direction" validate:"required,oneof=left right"`
}
