package model

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken stores the SHA-256 hash of a single-use password reset
// token. The raw token only ever appears inside the reset link emailed to the
// user; it is never persisted or logged.
type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);index;not null"`
	TokenHash string    `gorm:"size:64;uniqueIndex;not null"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"index;not null"`
	Used      bool      `gorm:"not null;default:false"`
}

func (PasswordResetToken) TableName() string { return "password_reset_tokens" }
