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

func setupMatchService(t *testing.T) (*services.MatchService, *gorm.DB) {
	t.Helper()

	db := setupDB(t)
	svc := services.NewMatchService(
		repositories.NewPostgresSwipeRepository(db),
		repositories.NewPostgresMatchRepository(db),
		repositories.NewPostgresMessageRepository(db),
		setupCache(t),
		discardLogger(),
	)
	return svc, db
}

func TestMutualRightSwipeCreatesOneCanonicalMatch(t *testing.T) {
	svc, db := setupMatchService(t)
	seedUser(t, db, "alice", "Alice")
	seedUser(t, db, "bob", "Bob")

	// Bob likes Alice first; nothing should materialize yet.
	first, err := svc.RecordSwipe("bob", "alice", models.SwipeRight)
	require.NoError(t, err)
	assert.False(t, first.IsMatch)
	assert.Nil(t, first.Match)

	// Alice reciprocates and completes the pair.
	second, err := svc.RecordSwipe("alice", "bob", models.SwipeRight)
	require.NoError(t, err)
	assert.True(t, second.IsMatch)
	require.NotNil(t, second.Match)

	// Stored pair is lexicographic regardless of who swiped last.
	assert.Equal(t, "alice", second.Match.User1ID)
	assert.Equal(t, "bob", second.Match.User2ID)
	assert.True(t, second.Match.IsActive)

	var count int64
	require.NoError(t, db.Model(&models.Match{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDuplicateSwipeRejected(t *testing.T) {
	svc, db := setupMatchService(t)
	seedUser(t, db, "alice", "Alice")
	seedUser(t, db, "bob", "Bob")

	_, err := svc.RecordSwipe("alice", "bob", models.SwipeRight)
	require.NoError(t, err)

	// Neither a repeat nor a changed mind lands a second row.
	_, err = svc.RecordSwipe("alice", "bob", models.SwipeRight)
	assert.True(t, apperrors.IsKind(err, apperrors.KindDuplicate))
	_, err = svc.RecordSwipe("alice", "bob", models.SwipeLeft)
	assert.True(t, apperrors.IsKind(err, apperrors.KindDuplicate))

	var count int64
	require.NoError(t, db.Model(&models.Swipe{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLeftSwipeNeverMatches(t *testing.T) {
	svc, db := setupMatchService(t)
	seedUser(t, db, "alice", "Alice")
	seedUser(t, db, "bob", "Bob")

	first, err := svc.RecordSwipe("alice", "bob", models.SwipeRight)
	require.NoError(t, err)
	assert.False(t, first.IsMatch)

	second, err := svc.RecordSwipe("bob", "alice", models.SwipeLeft)
	require.NoError(t, err)
	assert.False(t, second.IsMatch)

	var count int64
	require.NoError(t, db.Model(&models.Match{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSwipeValidation(t *testing.T) {
	svc, db := setupMatchService(t)
	seedUser(t, db, "alice", "Alice")

	_, err := svc.RecordSwipe("alice", "alice", models.SwipeRight)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.RecordSwipe("alice", "bob", "up")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func mutualMatch(t *testing.T, svc *services.MatchService, a, b string) *models.Match {
	t.Helper()

	_, err := svc.RecordSwipe(a, b, models.SwipeRight)
	require.NoError(t, err)
	res, err := svc.RecordSwipe(b, a, models.SwipeRight)
	require.NoError(t, err)
	require.NotNil(t, res.Match)
	return res.Match
}

func TestDissolveMatch(t *testing.T) {
	svc, db := setupMatchService(t)
	seedUser(t, db, "alice", "Alice")
	seedUser(t, db, "bob", "Bob")
	seedUser(t, db, "mallory", "Mallory")
	match := mutualMatch(t, svc, "alice", "bob")

	// Outsiders may not dissolve.
	err := svc.DissolveMatch(match.ID, "mallory")
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	require.NoError(t, svc.DissolveMatch(match.ID, "alice"))

	detail, err := svc.GetMatch(match.ID, "bob")
	require.NoError(t, err)
	assert.False(t, detail.IsActive)

	// Dissolving again is a no-op success.
	require.NoError(t, svc.DissolveMatch(match.ID, "bob"))
}

func TestDissolvedPairIsNotResurrectedBySwipes(t *testing.T) {
	svc, db := setupMatchService(t)
	seedUser(t, db, "alice", "Alice")
	seedUser(t, db, "carol", "Carol")
	seedUser(t, db, "dave", "Dave")
	match := mutualMatch(t, svc, "alice", "carol")
	require.NoError(t, svc.DissolveMatch(match.ID, "alice"))

	// A later reciprocal pair between others still works; the dissolved
	// pair stays dissolved.
	other := mutualMatch(t, svc, "carol", "dave")
	assert.NotEqual(t, match.ID, other.ID)

	matches, err := svc.ListMatches("carol")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, other.ID, matches[0].ID)
	assert.Equal(t, "dave", matches[0].User.ID)
}

func TestGetMatchCollapsesOutsiderToNotFound(t *testing.T) {
	svc, db := setupMatchService(t)
	seedUser(t, db, "alice", "Alice")
	seedUser(t, db, "bob", "Bob")
	seedUser(t, db, "mallory", "Mallory")
	match := mutualMatch(t, svc, "alice", "bob")

	_, err := svc.GetMatch(match.ID, "mallory")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	_, err = svc.GetMatch("no-such-match", "alice")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestListMatchesShowsPartnerSummaries(t *testing.T) {
	svc, db := setupMatchService(t)
	seedUser(t, db, "alice", "Alice")
	seedUser(t, db, "bob", "Bob")
	seedUser(t, db, "carol", "Carol")
	mutualMatch(t, svc, "alice", "bob")
	mutualMatch(t, svc, "alice", "carol")

	matches, err := svc.ListMatches("alice")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	partners := map[string]bool{}
	for _, m := range matches {
		partners[m.User.ID] = true
		assert.True(t, m.IsActive)
		assert.Zero(t, m.UnreadCount)
		assert.Nil(t, m.LastMessage)
	}
	assert.True(t, partners["bob"])
	assert.True(t, partners["carol"])

	// Each partner sees exactly the one match with Alice.
	bobs, err := svc.ListMatches("bob")
	require.NoError(t, err)
	require.Len(t, bobs, 1)
	assert.Equal(t, "alice", bobs[0].User.ID)
}
