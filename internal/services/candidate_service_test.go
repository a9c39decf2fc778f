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

func setupCandidateService(t *testing.T) (*services.CandidateService, *gorm.DB) {
	t.Helper()

	db := setupDB(t)
	svc := services.NewCandidateService(
		repositories.NewPostgresUserRepository(db),
		repositories.NewPostgresSwipeRepository(db),
		repositories.NewPostgresBlockRepository(db),
	)
	return svc, db
}

func seedProfile(t *testing.T, db *gorm.DB, id string, age int, gymIDs []string, expYears int) *models.User {
	t.Helper()

	user := seedUser(t, db, id, id)
	user.Age = &age
	require.NoError(t, db.Save(user).Error)
	require.NoError(t, db.Create(&models.TrainingProfile{
		UserID:           id,
		ExperienceYears:  expYears,
		FrequencyPerWeek: 3,
	}).Error)
	for _, gymID := range gymIDs {
		require.NoError(t, db.Create(&models.GymMembership{UserID: id, GymID: gymID}).Error)
	}
	return user
}

func TestFindCandidatesExcludesSelfSwipedAndBlocked(t *testing.T) {
	svc, db := setupCandidateService(t)
	seedProfile(t, db, "me", 30, nil, 2)
	seedProfile(t, db, "fresh", 30, nil, 2)
	seedProfile(t, db, "swiped", 30, nil, 2)
	seedProfile(t, db, "blocked-by-me", 30, nil, 2)
	seedProfile(t, db, "blocked-me", 30, nil, 2)

	require.NoError(t, db.Create(&models.Swipe{
		FromUserID: "me", ToUserID: "swiped", Direction: models.SwipeLeft,
	}).Error)
	require.NoError(t, db.Create(&models.Block{BlockerID: "me", BlockedID: "blocked-by-me"}).Error)
	require.NoError(t, db.Create(&models.Block{BlockerID: "blocked-me", BlockedID: "me"}).Error)

	candidates, err := svc.FindCandidates("me", repositories.CandidateFilters{}, 0)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "fresh", candidates[0].ID)
}

func TestFindCandidatesOrdersByScoreDescending(t *testing.T) {
	svc, db := setupCandidateService(t)
	seedProfile(t, db, "me", 30, []string{"g1"}, 3)
	seedProfile(t, db, "far", 45, nil, 10)
	seedProfile(t, db, "close", 31, []string{"g1"}, 3)
	seedProfile(t, db, "middle", 33, nil, 4)

	candidates, err := svc.FindCandidates("me", repositories.CandidateFilters{}, 10)
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	assert.Equal(t, "close", candidates[0].ID)
	assert.Equal(t, "middle", candidates[1].ID)
	assert.Equal(t, "far", candidates[2].ID)
	for i := 1; i < len(candidates); i++ {
		assert.GreaterOrEqual(t, candidates[i-1].MatchScore, candidates[i].MatchScore)
	}
}

func TestFindCandidatesAppliesFacetFilters(t *testing.T) {
	svc, db := setupCandidateService(t)
	seedProfile(t, db, "me", 30, nil, 2)
	seedProfile(t, db, "young-novice", 20, nil, 0)
	seedProfile(t, db, "peer", 29, nil, 2)
	seedProfile(t, db, "veteran", 31, nil, 8)

	min, max := 25, 35
	candidates, err := svc.FindCandidates("me", repositories.CandidateFilters{
		AgeMin:        &min,
		AgeMax:        &max,
		TrainingLevel: models.TrainingLevelIntermediate,
	}, 10)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "peer", candidates[0].ID)
}

func TestFindCandidatesSkipsInactiveUsers(t *testing.T) {
	svc, db := setupCandidateService(t)
	seedProfile(t, db, "me", 30, nil, 2)
	dormant := seedProfile(t, db, "dormant", 30, nil, 2)
	require.NoError(t, db.Model(dormant).Update("is_active", false).Error)

	candidates, err := svc.FindCandidates("me", repositories.CandidateFilters{}, 10)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestFindCandidatesUnknownUser(t *testing.T) {
	svc, _ := setupCandidateService(t)

	_, err := svc.FindCandidates("ghost", repositories.CandidateFilters{}, 10)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
