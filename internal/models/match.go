package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Match is a mutual-interest pairing. Participants are stored in canonical
// order (User1ID < User2ID) so the unordered pair has exactly one
// addressable row, backed by a unique index.
type Match struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	User1ID   string    `json:"user1_id" gorm:"size:64;not null;index;uniqueIndex:idx_match_pair"`
	User2ID   string    `json:"user2_id" gorm:"size:64;not null;index;uniqueIndex:idx_match_pair"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User1 *User `json:"user1,omitempty" gorm:"foreignKey:User1ID"`
	User2 *User `json:"user2,omitempty" gorm:"foreignKey:User2ID"`
}

func (m *Match) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// HasParticipant reports whether the given user is one of the two parties.
func (m *Match) HasParticipant(userID string) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// PartnerID returns the other participant's id. Callers must have verified
// participation first.
func (m *Match) PartnerID(userID string) string {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

// CanonicalPair orders two user ids lexicographically, smaller first.
func CanonicalPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}
