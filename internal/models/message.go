package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message belongs to exactly one match. The read flag only ever transitions
// false to true, in bulk, when the recipient marks the conversation read.
type Message struct {
	ID         string    `json:"id" gorm:"primaryKey;size:64"`
	MatchID    string    `json:"match_id" gorm:"size:64;not null;index:idx_message_match"`
	FromUserID string    `json:"from_user_id" gorm:"size:64;not null"`
	ToUserID   string    `json:"to_user_id" gorm:"size:64;not null;index"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	ImageURL   string    `json:"image_url,omitempty" gorm:"size:512"`
	IsRead     bool      `json:"is_read" gorm:"default:false;index:idx_message_match"`
	CreatedAt  time.Time `json:"created_at"`

	FromUser *User `json:"from_user,omitempty" gorm:"foreignKey:FromUserID"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}
