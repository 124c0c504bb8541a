package models

import "time"

// RefreshToken is a persisted long-lived session credential. The Token column
// holds the opaque random value presented by the client and is the lookup key
// during refresh; it is overwritten in place on every rotation.
type RefreshToken struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"index;size:36;not null" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;size:128;not null" json:"-"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	IsRevoked bool      `gorm:"default:false" json:"is_revoked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

// IsValid reports whether the token may still be exchanged. Revocation is
// permanent and expiry is checked against the clock on every use.
func (t *RefreshToken) IsValid() bool {
	return !t.IsRevoked && t.ExpiresAt.After(time.Now())
}
