package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the internal profile derived 1:1 from an authenticated identity.
type User struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	AuthID       uuid.UUID `gorm:"column:auth_id;type:uuid;not null;uniqueIndex"`
	Email        string    `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
