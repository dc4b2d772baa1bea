package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"storm/internal/errors"
	"storm/internal/service"
)

// genericResetMessage is returned for every forgot-password request with a
// plausible email, whether or not an account exists. Response bodies for the
// two cases must stay byte-identical.
const genericResetMessage = "If an account with that email exists, a password reset link has been sent."

// ResetHandler handles the forgot-password / reset-password pair.
type ResetHandler struct {
	resetService service.PasswordResetService
}

// NewResetHandler creates a new password reset handler.
func NewResetHandler(resetService service.PasswordResetService) *ResetHandler {
	return &ResetHandler{resetService: resetService}
}

// ForgotPasswordRequest represents a forgot-password request.
type ForgotPasswordRequest struct {
	Email        string `json:"email"`
	FromName     string `json:"from_name"`
	CallbackHost string `json:"callback_host"`
}

// ResetPasswordRequest represents a reset-password request.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// ForgotPassword mints a reset token and emails the reset link.
func (h *ResetHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.New("Invalid email"))
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return c.JSON(http.StatusBadRequest, errors.New("Invalid email"))
	}

	if err := h.resetService.Request(c.Request().Context(), req.Email, req.FromName, req.CallbackHost); err != nil {
		c.Logger().Errorf("forgot password failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errors.WithMessage(
			"password_reset_failed",
			"An unexpected error occurred during password reset request.",
		))
	}

	return c.JSON(http.StatusOK, map[string]string{"message": genericResetMessage})
}

// ResetPassword redeems a reset token and replaces the user's password.
func (h *ResetHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.New("Missing token or new password"))
	}
	if req.Token == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, errors.New("Missing token or new password"))
	}
	if len(req.NewPassword) < 8 {
		return c.JSON(http.StatusBadRequest, errors.New("Password must be at least 8 characters long"))
	}

	if err := h.resetService.Reset(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		if err == service.ErrResetTokenInvalid {
			return c.JSON(http.StatusBadRequest, errors.New("Invalid or expired password reset token."))
		}
		c.Logger().Errorf("reset password failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errors.WithMessage(
			"password_reset_failed",
			"An unexpected error occurred during password reset.",
		))
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password has been reset successfully."})
}
