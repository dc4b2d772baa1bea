package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"storm/internal/errors"
	"storm/internal/service"
)

// ContactHandler handles contact form submissions.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a new contact form handler.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// ContactFormRequest represents a contact form submission. Required
// fields are checked by hand in Create so each one gets its own error
// message; the validator only owns the email format rule.
type ContactFormRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email" validate:"email"`
	Message string `json:"message"`
}

// Create records a submission from the public landing-page form.
func (h *ContactHandler) Create(c echo.Context) error {
	var req ContactFormRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.New("Invalid request body"))
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, errors.New("Name is required"))
	}
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, errors.New("Email is required"))
	}
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, errors.New("Message is required"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.New("Invalid email format"))
	}

	sub, err := h.contactService.Create(c.Request().Context(), req.Name, req.Email, req.Message)
	if err != nil {
		c.Logger().Errorf("contact form submission failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errors.New("Internal Server Error"))
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"id":      sub.ID,
		"name":    sub.Name,
		"email":   sub.Email,
		"message": sub.Message,
	})
}

// List returns all submissions, newest first.
func (h *ContactHandler) List(c echo.Context) error {
	subs, err := h.contactService.List(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("list contact submissions failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errors.New("Internal Server Error"))
	}
	return c.JSON(http.StatusOK, subs)
}

// Get returns a single submission.
func (h *ContactHandler) Get(c echo.Context) error {
	sub, err := h.contactService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, errors.New("Not found"))
		}
		c.Logger().Errorf("get contact submission failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errors.New("Internal Server Error"))
	}
	return c.JSON(http.StatusOK, sub)
}

// Delete removes a submission.
func (h *ContactHandler) Delete(c echo.Context) error {
	if err := h.contactService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, errors.New("Not found"))
		}
		c.Logger().Errorf("delete contact submission failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errors.New("Internal Server Error"))
	}
	return c.NoContent(http.StatusNoContent)
}
