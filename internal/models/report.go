package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report statuses.
const (
	ReportStatusPending  = "pending"
	ReportStatusReviewed = "reviewed"
	ReportStatusResolved = "resolved"
)

// Report is a user-to-user report, at most one per ordered pair.
type Report struct {
	ID          string    `json:"id" gorm:"primaryKey;size:64"`
	ReporterID  string    `json:"reporter_id" gorm:"size:64;not null;index;uniqueIndex:idx_report_pair"`
	ReportedID  string    `json:"reported_id" gorm:"size:64;not null;index;uniqueIndex:idx_report_pair"`
	Reason      string    `json:"reason" gorm:"size:64;not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Status      string    `json:"status" gorm:"size:16;default:'pending';index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Reporter *User `json:"reporter,omitempty" gorm:"foreignKey:ReporterID"`
	Reported *User `json:"reported,omitempty" gorm:"foreignKey:ReportedID"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type ReportRequest struct {
	ReportedID  string `json:"reported_id" validate:"required"`
	Reason      string `json:"reason" validate:"required"`
	Description string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type UpdateReportStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reviewed resolved"`
}
