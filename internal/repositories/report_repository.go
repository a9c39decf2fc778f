package repositories

import (
	"errors"

	"github.com/MaekawaAo0604/muscle-SNS/internal/models"
	"gorm.io/gorm"
)

// ReportRepository defines the interface for report data operations
type ReportRepository interface {
	CreateReport(report *models.Report) error
	GetReport(reporterID, reportedID string) (*models.Report, error)
	ListReports(status string, page, limit int) ([]models.Report, int64, error)
	UpdateStatus(reportID, status string) (*models.Report, error)
}

// PostgresReportRepository implements ReportRepository for PostgreSQL
type PostgresReportRepository struct {
	db *gorm.DB
}

// NewPostgresReportRepository creates a new PostgresReportRepository
func NewPostgresReportRepository(db *gorm.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

func (r *PostgresReportRepository) CreateReport(report *models.Report) error {
	return r.db.Create(report).Error
}

// GetReport returns the report for the ordered pair, or nil when none exists.
func (r *PostgresReportRepository) GetReport(reporterID, reportedID string) (*models.Report, error) {
	var report models.Report
	err := r.db.First(&report, "reporter_id = ? AND reported_id = ?", reporterID, reportedID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *PostgresReportRepository) ListReports(status string, page, limit int) ([]models.Report, int64, error) {
	if page < 1 {
		page = 1
	}
	q := r.db.Model(&models.Report{})
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []models.Report
	err := q.
		Preload("Reporter").
		Preload("Reported").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reports).Error
	return reports, total, err
}

func (r *PostgresReportRepository) UpdateStatus(reportID, status string) (*models.Report, error) {
	res := r.db.Model(&models.Report{}).
		Where("id = ?", reportID).
		Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var report models.Report
	if err := r.db.Preload("Reporter").Preload("Reported").First(&report, "id = ?", reportID).Error; err != nil {
		return nil, err
	}
	return &report, nil
}
