package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentflow/rentauth/internal/config"
	"github.com/rentflow/rentauth/internal/models"
	"github.com/rentflow/rentauth/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newCleanupFixture(t *testing.T) (*CleanupService, store.RefreshTokenStore) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cleanup.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.RefreshToken{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	tokens := store.NewGormStore(db)
	svc := NewCleanupService(tokens, &config.CleanupConfig{Enabled: true, Schedule: "0 3 * * *"})
	return svc, tokens
}

func TestCleanup_RunOncePurgesExpired(t *testing.T) {
	svc, tokens := newCleanupFixture(t)
	ctx := context.Background()

	expired := &models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    uuid.NewString(),
		Token:     "expired-value",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	live := &models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    uuid.NewString(),
		Token:     "live-value",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := tokens.Add(ctx, expired); err != nil {
		t.Fatal(err)
	}
	if err := tokens.Add(ctx, live); err != nil {
		t.Fatal(err)
	}

	svc.runOnce()

	if _, err := tokens.GetByToken(ctx, "expired-value"); !errors.Is(err, store.ErrNotFound) {
		t.Error("expired record should have been purged")
	}
	if _, err := tokens.GetByToken(ctx, "live-value"); err != nil {
		t.Errorf("live record should survive, got %v", err)
	}
}

func TestCleanup_StartStop(t *testing.T) {
	svc, _ := newCleanupFixture(t)

	if err := svc.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	svc.Stop()
}

func TestCleanup_StartRejectsBadSchedule(t *testing.T) {
	_, tokens := newCleanupFixture(t)
	svc := NewCleanupService(tokens, &config.CleanupConfig{Schedule: "not a schedule"})

	if err := svc.Start(); err == nil {
		t.Error("Start() should reject a malformed cron expression")
	}
}
