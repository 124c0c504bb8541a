package models

import "time"

// User backs the local credential provider. When the remote provider is
// configured the user service owns accounts and this table stays empty.
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Password  string    `gorm:"size:255" json:"-"` // bcrypt hash
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
