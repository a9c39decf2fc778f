package repositories

import (
	"errors"
	"strings"

	"github.com/MaekawaAo0604/muscle-SNS/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CandidateFilters are the optional facet filters for candidate discovery.
// Nil / empty fields are skipped.
type CandidateFilters struct {
	AgeMin        *int
	AgeMax        *int
	Gender        string
	GymIDs        []string
	TrainingLevel string
	TimeSlots     []string
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateUser(user *models.User) error
	UpdateProfileImage(userID, imageURL string) error
	UpsertTrainingProfile(profile *models.TrainingProfile) error
	FindCandidates(userID string, excludedIDs []string, filters CandidateFilters, limit int) ([]models.User, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *PostgresUserRepository) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.
		Preload("TrainingProfile").
		Preload("Memberships.Gym").
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *PostgresUserRepository) UpdateProfileImage(userID, imageURL string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("profile_image_url", imageURL).Error
}

// UpsertTrainingProfile creates the profile row on first save and updates it
// afterwards, keyed by the unique user id.
func (r *PostgresUserRepository) UpsertTrainingProfile(profile *models.TrainingProfile) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"experience_years", "frequency_per_week",
			"bench_press_weight", "squat_weight", "deadlift_weight",
			"favorite_body_parts", "training_goals", "preferred_time_slots",
			"updated_at",
		}),
	}).Create(profile).Error
}

// FindCandidates returns active users matching the facet filters, excluding
// the given ids, newest first. The caller owns scoring and final ordering.
func (r *PostgresUserRepository) FindCandidates(userID string, excludedIDs []string, filters CandidateFilters, limit int) ([]models.User, error) {
	q := r.db.Model(&models.User{}).
		Where("users.id <> ? AND users.is_active = ?", userID, true)

	if len(excludedIDs) > 0 {
		q = q.Where("users.id NOT IN ?", excludedIDs)
	}
	if filters.AgeMin != nil {
		q = q.Where("users.age >= ?", *filters.AgeMin)
	}
	if filters.AgeMax != nil {
		q = q.Where("users.age <= ?", *filters.AgeMax)
	}
	if filters.Gender != "" && filters.Gender != "all" {
		q = q.Where("users.gender = ?", filters.Gender)
	}
	if len(filters.GymIDs) > 0 {
		q = q.Where("EXISTS (SELECT 1 FROM gym_memberships gm WHERE gm.user_id = users.id AND gm.gym_id IN ?)", filters.GymIDs)
	}

	switch filters.TrainingLevel {
	case models.TrainingLevelBeginner:
		q = q.Where("EXISTS (SELECT 1 FROM training_profiles tp WHERE tp.user_id = users.id AND tp.experience_years < 1)")
	case models.TrainingLevelIntermediate:
		q = q.Where("EXISTS (SELECT 1 FROM training_profiles tp WHERE tp.user_id = users.id AND tp.experience_years >= 1 AND tp.experience_years < 3)")
	case models.TrainingLevelAdvanced:
		q = q.Where("EXISTS (SELECT 1 FROM training_profiles tp WHERE tp.user_id = users.id AND tp.experience_years >= 3)")
	case "":
		// no level filter
	default:
		return nil, errors.New("unknown training level: " + filters.TrainingLevel)
	}

	if len(filters.TimeSlots) > 0 {
		conds := make([]string, 0, len(filters.TimeSlots))
		args := make([]interface{}, 0, len(filters.TimeSlots))
		for _, slot := range filters.TimeSlots {
			conds = append(conds, "tp.preferred_time_slots LIKE ?")
			args = append(args, "%"+slot+"%")
		}
		q = q.Where(
			"EXISTS (SELECT 1 FROM training_profiles tp WHERE tp.user_id = users.id AND ("+strings.Join(conds, " OR ")+"))",
			args...,
		)
	}

	var users []models.User
	err := q.
		Preload("TrainingProfile").
		Preload("Memberships").
		Order("users.created_at DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
