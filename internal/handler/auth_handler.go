package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"storm/internal/auth"
	"storm/internal/errors"
	"storm/internal/service"
)

// AuthHandler handles signup, login, logout and the current-user endpoint.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignupRequest represents a signup request.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates a new user account.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.New("Invalid request body"))
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, errors.New("Missing name"))
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return c.JSON(http.StatusBadRequest, errors.New("Invalid email"))
	}
	if req.Password == "" {
		return c.JSON(http.StatusBadRequest, errors.New("Missing email or password"))
	}

	user, err := h.authService.Signup(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if err == service.ErrEmailExists {
			return c.JSON(http.StatusConflict, errors.WithMessage(
				"email_exists",
				"An account with this email already exists",
			))
		}
		c.Logger().Errorf("signup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errors.WithMessage(
			"signup_failed",
			"An unexpected error occurred during signup",
		))
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "User created successfully",
		"userId":  user.ID,
		"role":    user.Role,
	})
}

// Login verifies credentials and hands out a session token, both in the
// response body and as a cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.String(http.StatusBadRequest, "Invalid credentials")
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			return c.String(http.StatusBadRequest, "Invalid credentials")
		}
		c.Logger().Errorf("login failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errors.New("Internal Server Error"))
	}

	// Not HttpOnly: the SPA reads this cookie client-side. Known hardening
	// gap carried over from the original deployment.
	c.SetCookie(&http.Cookie{
		Name:  auth.SessionCookieName,
		Value: token,
		Path:  "/",
	})

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": token,
		"role":  user.Role,
	})
}

// Logout clears the session cookie and sends the user back to the login page.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:   auth.SessionCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	return c.Redirect(http.StatusFound, "/login.html")
}

// Me returns the identity asserted by the current session token.
func (h *AuthHandler) Me(c echo.Context) error {
	claims, ok := c.Get("user").(*auth.SessionClaims)
	if !ok {
		return c.NoContent(http.StatusUnauthorized)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":     claims.UserID,
		"userId": claims.UserID,
		"role":   claims.Role,
		"email":  claims.Email,
		"name":   claims.Name,
	})
}
