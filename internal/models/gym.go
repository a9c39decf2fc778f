package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gym is a directory entry, seeded from chain data and searchable by text or
// location.
type Gym struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	ChainName string    `json:"chain_name,omitempty" gorm:"size:64;index"`
	Address   string    `json:"address,omitempty" gorm:"size:256"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`

	Memberships []GymMembership `json:"memberships,omitempty" gorm:"foreignKey:GymID"`
}

func (g *Gym) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// GymMembership joins a user to a gym. At most one membership per user may be
// primary; setting a new primary clears the previous one in the same
// transaction.
type GymMembership struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	UserID    string    `json:"user_id" gorm:"size:64;index;uniqueIndex:idx_user_gym"`
	GymID     string    `json:"gym_id" gorm:"size:64;index;uniqueIndex:idx_user_gym"`
	IsPrimary bool      `json:"is_primary" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`

	Gym *Gym `json:"gym,omitempty" gorm:"foreignKey:GymID"`
}

func (m *GymMembership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type RegisterGymRequest struct {
	GymID     string `json:"gym_id" validate:"required"`
	IsPrimary bool   `json:"is_primary"`
}
