package clients

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rentflow/rentauth/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newLocalVerifier(t *testing.T) *LocalVerifier {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "users.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewLocalVerifier(db)
}

func TestLocalVerifier_SeedAndVerify(t *testing.T) {
	v := newLocalVerifier(t)

	if err := v.SeedAdmin("admin", "admin-password"); err != nil {
		t.Fatalf("SeedAdmin() error = %v", err)
	}

	identity, err := v.Verify(context.Background(), "admin", "admin-password")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if identity.Name != "admin" {
		t.Errorf("Name = %q, expected %q", identity.Name, "admin")
	}
	if identity.ID == "" {
		t.Error("ID should be set")
	}
}

func TestLocalVerifier_SeedAdmin_Idempotent(t *testing.T) {
	v := newLocalVerifier(t)

	if err := v.SeedAdmin("admin", "first"); err != nil {
		t.Fatal(err)
	}
	// Second seed must not replace the existing account
	if err := v.SeedAdmin("admin", "second"); err != nil {
		t.Fatal(err)
	}

	if _, err := v.Verify(context.Background(), "admin", "first"); err != nil {
		t.Errorf("original password should still work, got %v", err)
	}
}

func TestLocalVerifier_WrongPassword(t *testing.T) {
	v := newLocalVerifier(t)
	if err := v.SeedAdmin("admin", "right"); err != nil {
		t.Fatal(err)
	}

	_, err := v.Verify(context.Background(), "admin", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("error = %v, expected ErrInvalidCredentials", err)
	}
}

func TestLocalVerifier_UnknownUser(t *testing.T) {
	v := newLocalVerifier(t)

	_, err := v.Verify(context.Background(), "nobody", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("error = %v, expected ErrInvalidCredentials", err)
	}
}
