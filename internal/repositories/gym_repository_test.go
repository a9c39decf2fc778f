package repositories_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MaekawaAo0604/muscle-SNS/internal/models"
	"github.com/MaekawaAo0604/muscle-SNS/internal/repositories"
)

func setupGymDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Gym{}, &models.GymMembership{}))
	return db
}

func seedGym(t *testing.T, db *gorm.DB, name, chain string, lat, lng float64) *models.Gym {
	t.Helper()

	gym := &models.Gym{Name: name, ChainName: chain, Latitude: lat, Longitude: lng}
	require.NoError(t, db.Create(gym).Error)
	return gym
}

func TestSearchGymsByTextAndChain(t *testing.T) {
	db := setupGymDB(t)
	repo := repositories.NewPostgresGymRepository(db)
	seedGym(t, db, "Golden Gym Shibuya", "Golden Gym", 35.658, 139.701)
	seedGym(t, db, "Golden Gym Shinjuku", "Golden Gym", 35.690, 139.700)
	seedGym(t, db, "Anytime Ebisu", "Anytime", 35.646, 139.710)

	gyms, err := repo.SearchGyms(repositories.GymSearchFilters{Query: "Shibuya"}, 10)
	require.NoError(t, err)
	require.Len(t, gyms, 1)
	assert.Equal(t, "Golden Gym Shibuya", gyms[0].Name)

	gyms, err = repo.SearchGyms(repositories.GymSearchFilters{ChainName: "Golden Gym"}, 10)
	require.NoError(t, err)
	assert.Len(t, gyms, 2)

	chains, err := repo.ListChains()
	require.NoError(t, err)
	assert.Equal(t, []string{"Anytime", "Golden Gym"}, chains)
}

func TestSearchGymsByLocationBox(t *testing.T) {
	db := setupGymDB(t)
	repo := repositories.NewPostgresGymRepository(db)
	seedGym(t, db, "Near", "", 35.6580, 139.7010)
	seedGym(t, db, "Far", "", 35.9000, 140.1000)

	lat, lng := 35.6595, 139.7005
	gyms, err := repo.SearchGyms(repositories.GymSearchFilters{
		Latitude:  &lat,
		Longitude: &lng,
		Radius:    3000,
	}, 10)
	require.NoError(t, err)
	require.Len(t, gyms, 1)
	assert.Equal(t, "Near", gyms[0].Name)
}

func TestMembershipSinglePrimaryInvariant(t *testing.T) {
	db := setupGymDB(t)
	repo := repositories.NewPostgresGymRepository(db)
	require.NoError(t, db.Create(&models.User{ID: "alice", Email: "a@test.local"}).Error)
	g1 := seedGym(t, db, "First", "", 0, 0)
	g2 := seedGym(t, db, "Second", "", 0, 0)

	require.NoError(t, repo.CreateMembership(&models.GymMembership{
		UserID: "alice", GymID: g1.ID, IsPrimary: true,
	}))
	require.NoError(t, repo.CreateMembership(&models.GymMembership{
		UserID: "alice", GymID: g2.ID,
	}))

	promoted, err := repo.SetPrimary("alice", g2.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsPrimary)

	memberships, err := repo.ListMemberships("alice")
	require.NoError(t, err)
	require.Len(t, memberships, 2)

	primaries := 0
	for _, m := range memberships {
		if m.IsPrimary {
			primaries++
			assert.Equal(t, g2.ID, m.GymID)
		}
	}
	assert.Equal(t, 1, primaries)
}

func TestMembershipDuplicateAndDelete(t *testing.T) {
	db := setupGymDB(t)
	repo := repositories.NewPostgresGymRepository(db)
	require.NoError(t, db.Create(&models.User{ID: "alice", Email: "a@test.local"}).Error)
	gym := seedGym(t, db, "First", "", 0, 0)

	require.NoError(t, repo.CreateMembership(&models.GymMembership{UserID: "alice", GymID: gym.ID}))

	err := repo.CreateMembership(&models.GymMembership{UserID: "alice", GymID: gym.ID})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	require.NoError(t, repo.DeleteMembership("alice", gym.ID))
	assert.ErrorIs(t, repo.DeleteMembership("alice", gym.ID), gorm.ErrRecordNotFound)

	// SetPrimary on a missing membership surfaces not found.
	_, err = repo.SetPrimary("alice", gym.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
