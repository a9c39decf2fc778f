package services_test

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MaekawaAo0604/muscle-SNS/internal/cache"
	"github.com/MaekawaAo0604/muscle-SNS/internal/models"
)

// setupDB spins up an isolated in-memory SQLite DB with the full schema.
// TranslateError is on, matching production, so unique-index violations
// surface as gorm.ErrDuplicatedKey.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A strictly increasing clock keeps created_at ordering deterministic
	// even when consecutive writes land within the same millisecond.
	var tick atomic.Int64
	base := time.Now().UTC().Truncate(time.Second)

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:        func() time.Time { return base.Add(time.Duration(tick.Add(1)) * time.Millisecond) },
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.TrainingProfile{},
		&models.Gym{},
		&models.GymMembership{},
		&models.Swipe{},
		&models.Match{},
		&models.Message{},
		&models.Block{},
		&models.Report{},
	))
	return db
}

// setupCache starts a miniredis and wraps it in the unread-counter cache.
func setupCache(t *testing.T) *cache.RedisCache {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return &cache.RedisCache{Client: client}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedUser(t *testing.T, db *gorm.DB, id, nickname string) *models.User {
	t.Helper()

	user := &models.User{
		ID:       id,
		Email:    id + "@test.local",
		Nickname: nickname,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
