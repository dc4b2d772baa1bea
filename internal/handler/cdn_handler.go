package handler

import (
	"net/http"
	"path"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"storm/internal/cdn"
	"storm/internal/errors"
)

// CDNHandler exposes the CDN upload/delete helpers to admins.
type CDNHandler struct {
	store *cdn.Store
}

// NewCDNHandler creates a new CDN handler.
func NewCDNHandler(store *cdn.Store) *CDNHandler {
	return &CDNHandler{store: store}
}

// DeleteFileRequest identifies an uploaded file by its public URL.
type DeleteFileRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// Upload stores a multipart file in the object store and returns its public
// URL. Keys are randomized so uploads never collide or overwrite.
func (h *CDNHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errors.New("Missing file"))
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.Logger().Errorf("open uploaded file failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errors.New("Internal Server Error"))
	}
	defer src.Close()

	key := uuid.NewString() + path.Ext(fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.store.Upload(c.Request().Context(), key, src, contentType)
	if err != nil {
		c.Logger().Errorf("cdn upload failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errors.New("Internal Server Error"))
	}

	return c.JSON(http.StatusCreated, map[string]string{"url": url})
}

// Delete removes an uploaded file by its public URL.
func (h *CDNHandler) Delete(c echo.Context) error {
	var req DeleteFileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.New("Missing url"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.New("Invalid url"))
	}

	if err := h.store.Delete(c.Request().Context(), req.URL); err != nil {
		c.Logger().Errorf("cdn delete failed: %v", err)
		return c.JSON(http.StatusInternalServerError, errors.New("Internal Server Error"))
	}

	return c.NoContent(http.StatusNoContent)
}
