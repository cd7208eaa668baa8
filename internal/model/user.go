package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a tenant account. Every product (and everything hanging off it)
// belongs to exactly one user; queries are always scoped by user ID.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	IsActive     bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
