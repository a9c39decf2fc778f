package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrainingProfile is the one-to-one extension of a User, created lazily on
// the first profile save. Tag fields are comma separated free text.
type TrainingProfile struct {
	ID                 string    `json:"id" gorm:"primaryKey;size:64"`
	UserID             string    `json:"user_id" gorm:"uniqueIndex;size:64;not null"`
	ExperienceYears    int       `json:"experience_years"`
	FrequencyPerWeek   int       `json:"frequency_per_week"`
	BenchPressWeight   float64   `json:"bench_press_weight"` // kg
	SquatWeight        float64   `json:"squat_weight"`       // kg
	DeadliftWeight     float64   `json:"deadlift_weight"`    // kg
	FavoriteBodyParts  string    `json:"favorite_body_parts"`
	TrainingGoals      string    `json:"training_goals"`
	PreferredTimeSlots string    `json:"preferred_time_slots"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (p *TrainingProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Experience tiers for candidate filtering. Beginner is under a year,
// intermediate is one to three years (exclusive), advanced is three or more.
const (
	TrainingLevelBeginner     = "beginner"
	TrainingLevelIntermediate = "intermediate"
	TrainingLevelAdvanced     = "advanced"
)
