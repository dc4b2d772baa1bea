package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storm/internal/model"
)

// ResetTokenRepository defines persistence operations for password reset
// tokens. Tokens are never deleted; they become inert once used or expired.
type ResetTokenRepository interface {
	Create(ctx context.Context, token *model.PasswordResetToken) error
	// InvalidateForUser marks every unused token of the user as used, so at
	// most one live token exists per user at any time.
	InvalidateForUser(ctx context.Context, userID uuid.UUID) error
	// FindValid returns the token matching the hash that is unused and not
	// expired at the given instant, or gorm.ErrRecordNotFound.
	FindValid(ctx context.Context, tokenHash string, now time.Time) (*model.PasswordResetToken, error)
	// Consume flips the token to used with `used = false` in the filter, so
	// concurrent redemptions of the same token have exactly one winner. It
	// reports whether this caller won.
	Consume(ctx context.Context, id uint) (bool, error)
}

type resetTokenRepository struct {
	db *gorm.DB
}

// NewResetTokenRepository builds a GORM-backed repository.
func NewResetTokenRepository(db *gorm.DB) ResetTokenRepository {
	return &resetTokenRepository{db: db}
}

func (r *resetTokenRepository) Create(ctx context.Context, token *model.PasswordResetToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *resetTokenRepository) InvalidateForUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.PasswordResetToken{}).
		Where("user_id = ? AND used = ?", userID, false).
		Update("used", true).Error
}

func (r *resetTokenRepository) FindValid(ctx context.Context, tokenHash string, now time.Time) (*model.PasswordResetToken, error) {
	var token model.PasswordResetToken
	err := r.db.WithContext(ctx).
		Where("token_hash = ? AND used = ? AND expires_at > ?", tokenHash, false, now).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *resetTokenRepository) Consume(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.PasswordResetToken{}).
		Where("id = ? AND used = ?", id, false).
		Update("used", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
