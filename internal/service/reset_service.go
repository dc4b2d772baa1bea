package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"storm/internal/auth"
	"storm/internal/mailer"
	"storm/internal/model"
	"storm/internal/repository"
)

// resetTokenExpiry is the lifetime of a password reset token.
const resetTokenExpiry = time.Hour

// ErrResetTokenInvalid covers every redemption failure the caller is allowed
// to learn about: unknown, expired, and already-used tokens all collapse into
// this one error.
var ErrResetTokenInvalid = errors.New("invalid or expired password reset token")

// PasswordResetService implements the single-use reset token lifecycle.
type PasswordResetService interface {
	// Request mints a reset token for the account and emails the reset link.
	// An unknown email succeeds silently; the caller's response must not
	// depend on account existence.
	Request(ctx context.Context, email, fromName, callbackHost string) error
	// Reset redeems a raw token and replaces the user's password. A token is
	// redeemable exactly once.
	Reset(ctx context.Context, rawToken, newPassword string) error
}

type passwordResetService struct {
	users  repository.UserRepository
	tokens repository.ResetTokenRepository
	mail   mailer.Mailer
	now    func() time.Time
}

// NewPasswordResetService creates a new password reset service.
func NewPasswordResetService(users repository.UserRepository, tokens repository.ResetTokenRepository, mail mailer.Mailer) PasswordResetService {
	return &passwordResetService{
		users:  users,
		tokens: tokens,
		mail:   mail,
		now:    time.Now,
	}
}

func (s *passwordResetService) Request(ctx context.Context, email, fromName, callbackHost string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Deliberately indistinguishable from the success path.
			log.Printf("password reset requested for non-existent email: %s", email)
			return nil
		}
		return fmt.Errorf("look up user: %w", err)
	}

	// 256-bit token; only its SHA-256 digest is stored.
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	rawToken := hex.EncodeToString(raw)

	// A user holds at most one live reset link at a time.
	if err := s.tokens.InvalidateForUser(ctx, user.ID); err != nil {
		return fmt.Errorf("invalidate previous tokens: %w", err)
	}

	token := &model.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: auth.HashResetToken(rawToken),
		ExpiresAt: s.now().Add(resetTokenExpiry),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	resetLink := fmt.Sprintf("%s/reset-password.html?token=%s", callbackHost, rawToken)
	if err := s.mail.SendPasswordReset(ctx, user.Email, fromName, resetLink); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}

	return nil
}

func (s *passwordResetService) Reset(ctx context.Context, rawToken, newPassword string) error {
	token, err := s.tokens.FindValid(ctx, auth.HashResetToken(rawToken), s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("look up reset token: %w", err)
	}

	// Consume before touching the password: the conditional update makes
	// concurrent redemptions of the same token single-winner.
	won, err := s.tokens.Consume(ctx, token.ID)
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	if !won {
		return ErrResetTokenInvalid
	}

	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	if err := s.users.UpdatePasswordHash(ctx, token.UserID, passwordHash); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	return nil
}
