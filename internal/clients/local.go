package clients

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rentflow/rentauth/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LocalVerifier checks credentials against the local users table. It is the
// fallback credential authority for deployments without a user service.
type LocalVerifier struct {
	db *gorm.DB
}

func NewLocalVerifier(db *gorm.DB) *LocalVerifier {
	return &LocalVerifier{db: db}
}

func (v *LocalVerifier) Verify(ctx context.Context, name, password string) (*Identity, error) {
	var user models.User
	err := v.db.WithContext(ctx).Where("name = ?", name).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return &Identity{ID: user.ID, Name: user.Name}, nil
}

// SeedAdmin creates a default admin account when the users table is empty so
// a fresh local deployment is reachable.
func (v *LocalVerifier) SeedAdmin(name, password string) error {
	var count int64
	if err := v.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return v.db.Create(&models.User{
		ID:       uuid.NewString(),
		Name:     name,
		Password: string(hash),
		IsActive: true,
	}).Error
}
