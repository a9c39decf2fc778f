package repositories

import (
	"errors"

	"github.com/MaekawaAo0604/muscle-SNS/internal/models"
	"gorm.io/gorm"
)

// GymSearchFilters narrow a gym search. When Latitude/Longitude are set the
// search is bounded to a box of Radius meters around the point; precise
// distance ordering is the caller's job.
type GymSearchFilters struct {
	Query     string
	ChainName string
	Latitude  *float64
	Longitude *float64
	Radius    float64 // meters
}

// GymRepository defines the interface for gym and membership data operations
type GymRepository interface {
	SearchGyms(filters GymSearchFilters, limit int) ([]models.Gym, error)
	GetGymByID(id string) (*models.Gym, error)
	ListChains() ([]string, error)
	CreateMembership(membership *models.GymMembership) error
	GetMembership(userID, gymID string) (*models.GymMembership, error)
	DeleteMembership(userID, gymID string) error
	ListMemberships(userID string) ([]models.GymMembership, error)
	SetPrimary(userID, gymID string) (*models.GymMembership, error)
}

// PostgresGymRepository implements GymRepository for PostgreSQL
type PostgresGymRepository struct {
	db *gorm.DB
}

// NewPostgresGymRepository creates a new PostgresGymRepository
func NewPostgresGymRepository(db *gorm.DB) *PostgresGymRepository {
	return &PostgresGymRepository{db: db}
}

func (r *PostgresGymRepository) SearchGyms(filters GymSearchFilters, limit int) ([]models.Gym, error) {
	q := r.db.Model(&models.Gym{})

	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		q = q.Where("name LIKE ? OR chain_name LIKE ? OR address LIKE ?", like, like, like)
	}
	if filters.ChainName != "" {
		q = q.Where("chain_name = ?", filters.ChainName)
	}
	if filters.Latitude != nil && filters.Longitude != nil {
		// One degree of latitude is roughly 111km; good enough for a coarse
		// bounding box ahead of exact haversine ordering.
		deg := filters.Radius / 111000
		q = q.Where("latitude BETWEEN ? AND ?", *filters.Latitude-deg, *filters.Latitude+deg).
			Where("longitude BETWEEN ? AND ?", *filters.Longitude-deg, *filters.Longitude+deg)
	}

	var gyms []models.Gym
	err := q.Order("chain_name ASC, name ASC").Limit(limit).Find(&gyms).Error
	return gyms, err
}

func (r *PostgresGymRepository) GetGymByID(id string) (*models.Gym, error) {
	var gym models.Gym
	err := r.db.
		Preload("Memberships").
		First(&gym, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &gym, nil
}

func (r *PostgresGymRepository) ListChains() ([]string, error) {
	var chains []string
	err := r.db.Model(&models.Gym{}).
		Distinct("chain_name").
		Where("chain_name <> ''").
		Order("chain_name ASC").
		Pluck("chain_name", &chains).Error
	return chains, err
}

// CreateMembership registers a user at a gym. When the membership is primary
// the previous primary is cleared in the same transaction, keeping the
// single-primary invariant.
func (r *PostgresGymRepository) CreateMembership(membership *models.GymMembership) error {
	if !membership.IsPrimary {
		return r.db.Create(membership).Error
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := clearPrimary(tx, membership.UserID); err != nil {
			return err
		}
		return tx.Create(membership).Error
	})
}

func (r *PostgresGymRepository) GetMembership(userID, gymID string) (*models.GymMembership, error) {
	var membership models.GymMembership
	err := r.db.
		Preload("Gym").
		First(&membership, "user_id = ? AND gym_id = ?", userID, gymID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *PostgresGymRepository) DeleteMembership(userID, gymID string) error {
	res := r.db.Where("user_id = ? AND gym_id = ?", userID, gymID).
		Delete(&models.GymMembership{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresGymRepository) ListMemberships(userID string) ([]models.GymMembership, error) {
	var memberships []models.GymMembership
	err := r.db.
		Preload("Gym").
		Where("user_id = ?", userID).
		Order("is_primary DESC, created_at DESC").
		Find(&memberships).Error
	return memberships, err
}

// SetPrimary promotes an existing membership, atomically demoting whichever
// membership was primary before.
func (r *PostgresGymRepository) SetPrimary(userID, gymID string) (*models.GymMembership, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var membership models.GymMembership
		if err := tx.First(&membership, "user_id = ? AND gym_id = ?", userID, gymID).Error; err != nil {
			return err
		}
		if err := clearPrimary(tx, userID); err != nil {
			return err
		}
		return tx.Model(&models.GymMembership{}).
			Where("user_id = ? AND gym_id = ?", userID, gymID).
			Update("is_primary", true).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetMembership(userID, gymID)
}

func clearPrimary(tx *gorm.DB, userID string) error {
	return tx.Model(&models.GymMembership{}).
		Where("user_id = ? AND is_primary = ?", userID, true).
		Update("is_primary", false).Error
}
