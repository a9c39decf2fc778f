package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/MaekawaAo0604/muscle-SNS/internal/apperrors"
	"github.com/MaekawaAo0604/muscle-SNS/internal/models"
	"github.com/MaekawaAo0604/muscle-SNS/internal/repositories"
)

// SafetyService handles blocks and reports.
type SafetyService struct {
	users   repositories.UserRepository
	blocks  repositories.BlockRepository
	reports repositories.ReportRepository
}

// NewSafetyService creates a new SafetyService
func NewSafetyService(users repositories.UserRepository, blocks repositories.BlockRepository, reports repositories.ReportRepository) *SafetyService {
	return &SafetyService{users: users, blocks: blocks, reports: reports}
}

// BlockUser creates the block edge and, as a required side effect, dissolves
// any active match between the two parties. The cascade runs in one
// transaction at the repository layer.
func (s *SafetyService) BlockUser(blockerID, blockedID string) (*models.Block, error) {
	if blockerID == blockedID {
		return nil, apperrors.Validation("cannot block yourself")
	}
	if _, err := s.users.GetUserByID(blockedID); err != nil {
		return nil, apperrors.FromStore(err, "user to block not found", "")
	}

	existing, err := s.blocks.GetBlock(blockerID, blockedID)
	if err != nil {
		return nil, apperrors.Dependency("failed to check existing block", err)
	}
	if existing != nil {
		return nil, apperrors.Duplicate("user is already blocked")
	}

	block := &models.Block{BlockerID: blockerID, BlockedID: blockedID}
	if err := s.blocks.CreateBlockWithCascade(block); err != nil {
		return nil, apperrors.FromStore(err, "user to block not found", "user is already blocked")
	}
	return block, nil
}

// UnblockUser removes the block edge. Dissolved matches stay dissolved.
func (s *SafetyService) UnblockUser(blockerID, blockedID string) error {
	if err := s.blocks.DeleteBlock(blockerID, blockedID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("block not found")
		}
		return apperrors.Dependency("failed to remove block", err)
	}
	return nil
}

// ListBlockedUsers returns who the user has blocked, newest first.
func (s *SafetyService) ListBlockedUsers(blockerID string) ([]models.Block, error) {
	blocks, err := s.blocks.ListBlocks(blockerID)
	if err != nil {
		return nil, apperrors.Dependency("failed to list blocked users", err)
	}
	return blocks, nil
}

// ReportUser files a report against another user. At most one report per
// (reporter, reported) pair; repeats are rejected, not merged.
func (s *SafetyService) ReportUser(reporterID, reportedID, reason, description string) (*models.Report, error) {
	if reporterID == reportedID {
		return nil, apperrors.Validation("cannot report yourself")
	}
	if _, err := s.users.GetUserByID(reportedID); err != nil {
		return nil, apperrors.FromStore(err, "reported user not found", "")
	}

	existing, err := s.reports.GetReport(reporterID, reportedID)
	if err != nil {
		return nil, apperrors.Dependency("failed to check existing report", err)
	}
	if existing != nil {
		return nil, apperrors.Duplicate("user is already reported")
	}

	report := &models.Report{
		ReporterID:  reporterID,
		ReportedID:  reportedID,
		Reason:      reason,
		Description: description,
		Status:      models.ReportStatusPending,
	}
	if err := s.reports.CreateReport(report); err != nil {
		return nil, apperrors.FromStore(err, "reported user not found", "user is already reported")
	}
	return report, nil
}

// ListReports returns reports for review, optionally filtered by status.
func (s *SafetyService) ListReports(status string, page, limit int) ([]models.Report, int64, error) {
	reports, total, err := s.reports.ListReports(status, page, limit)
	if err != nil {
		return nil, 0, apperrors.Dependency("failed to list reports", err)
	}
	return reports, total, nil
}

// UpdateReportStatus moves a report through pending -> reviewed -> resolved.
func (s *SafetyService) UpdateReportStatus(reportID, status string) (*models.Report, error) {
	switch status {
	case models.ReportStatusPending, models.ReportStatusReviewed, models.ReportStatusResolved:
	default:
		return nil, apperrors.Validation("invalid report status")
	}
	report, err := s.reports.UpdateStatus(reportID, status)
	if err != nil {
		return nil, apperrors.FromStore(err, "report not found", "")
	}
	return report, nil
}
