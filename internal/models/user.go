package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the account record. IDs are strings because federated users carry
// their externally issued Firebase UID as primary key; locally registered
// users get a generated UUID.
type User struct {
	ID              string    `json:"id" gorm:"primaryKey;size:64"`
	Email           string    `json:"email" gorm:"uniqueIndex;size:128;not null"`
	PasswordHash    string    `json:"-" gorm:"size:255"`
	Nickname        string    `json:"nickname" gorm:"size:50"`
	Age             *int      `json:"age,omitempty"`
	Gender          string    `json:"gender,omitempty" gorm:"size:16"`
	Bio             string    `json:"bio,omitempty" gorm:"type:text"`
	ProfileImageURL string    `json:"profile_image_url,omitempty" gorm:"size:512"`
	IsActive        bool      `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	TrainingProfile *TrainingProfile `json:"training_profile,omitempty" gorm:"foreignKey:UserID"`
	Memberships     []GymMembership  `json:"memberships,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserSummary is the trimmed representation embedded in match and message
// responses.
type UserSummary struct {
	ID              string `json:"id"`
	Nickname        string `json:"nickname"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	Age             *int   `json:"age,omitempty"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:              u.ID,
		Nickname:        u.Nickname,
		ProfileImageURL: u.ProfileImageURL,
		Age:             u.Age,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Nickname string `json:"nickname" validate:"required,min=2,max=50"`
	Age      *int   `json:"age,omitempty" validate:"omitempty,min=18,max=100"`
	Gender   string `json:"gender,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SyncUserRequest carries optional profile hints for the Firebase sync
// endpoint; identity itself comes from the verified ID token.
type SyncUserRequest struct {
	DisplayName string `json:"display_name,omitempty"`
}

type UpdateProfileRequest struct {
	Nickname string `json:"nickname,omitempty" validate:"omitempty,min=2,max=50"`
	Age      *int   `json:"age,omitempty" validate:"omitempty,min=18,max=100"`
	Gender   string `json:"gender,omitempty"`
	Bio      string `json:"bio,omitempty" validate:"omitempty,max=1000"`

	ExperienceYears    *int     `json:"experience_years,omitempty" validate:"omitempty,min=0,max=80"`
	FrequencyPerWeek   *int     `json:"frequency_per_week,omitempty" validate:"omitempty,min=0,max=14"`
	BenchPressWeight   *float64 `json:"bench_press_weight,omitempty" validate:"omitempty,min=0"`
	SquatWeight        *float64 `json:"squat_weight,omitempty" validate:"omitempty,min=0"`
	DeadliftWeight     *float64 `json:"deadlift_weight,omitempty" validate:"omitempty,min=0"`
	FavoriteBodyParts  string   `json:"favorite_body_parts,omitempty"`
	TrainingGoals      string   `json:"training_goals,omitempty"`
	PreferredTimeSlots string   `json:"preferred_time_slots,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
