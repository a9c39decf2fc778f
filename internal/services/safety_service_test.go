package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/MaekawaAo0604/muscle-SNS/internal/apperrors"
	"github.com/MaekawaAo0604/muscle-SNS/internal/models"
	"github.com/MaekawaAo0604/muscle-SNS/internal/repositories"
	"github.com/MaekawaAo0604/muscle-SNS/internal/services"
)

func setupSafetyService(t *testing.T) (*services.SafetyService, *gorm.DB) {
	t.Helper()

	db := setupDB(t)
	svc := services.NewSafetyService(
		repositories.NewPostgresUserRepository(db),
		repositories.NewPostgresBlockRepository(db),
		repositories.NewPostgresReportRepository(db),
	)
	return svc, db
}

func TestBlockUserRules(t *testing.T) {
	svc, db := setupSafetyService(t)
	seedUser(t, db, "alice", "Alice")
	seedUser(t, db, "bob", "Bob")

	_, err := svc.BlockUser("alice", "alice")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.BlockUser("alice", "ghost")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	block, err := svc.BlockUser("alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", block.BlockedID)

	_, err = svc.BlockUser("alice", "bob")
	assert.True(t, apperrors.IsKind(err, apperrors.KindDuplicate))

	// The reverse direction is an independent edge.
	_, err = svc.BlockUser("bob", "alice")
	require.NoError(t, err)
}

func TestUnblockUser(t *testing.T) {
	svc, db := setupSafetyService(t)
	seedUser(t, db, "alice", "Alice")
	seedUser(t, db, "bob", "Bob")

	_, err := svc.BlockUser("alice", "bob")
	require.NoError(t, err)

	require.NoError(t, svc.UnblockUser("alice", "bob"))

	err = svc.UnblockUser("alice", "bob")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	blocks, err := svc.ListBlockedUsers("alice")
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestReportLifecycle(t *testing.T) {
	svc, db := setupSafetyService(t)
	seedUser(t, db, "alice", "Alice")
	seedUser(t, db, "bob", "Bob")

	_, err := svc.ReportUser("alice", "alice", "spam", "")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	report, err := svc.ReportUser("alice", "bob", "harassment", "unwanted messages after unmatching")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusPending, report.Status)

	_, err = svc.ReportUser("alice", "bob", "spam", "")
	assert.True(t, apperrors.IsKind(err, apperrors.KindDuplicate))

	reports, total, err := svc.ListReports(models.ReportStatusPending, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, reports, 1)

	_, err = svc.UpdateReportStatus(report.ID, "archived")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	updated, err := svc.UpdateReportStatus(report.ID, models.ReportStatusResolved)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusResolved, updated.Status)

	_, total, err = svc.ListReports(models.ReportStatusPending, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
}
