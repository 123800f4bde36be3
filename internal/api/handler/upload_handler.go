package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alquilercordoba/rental-system/internal/core/domain"
	"github.com/alquilercordoba/rental-system/internal/core/ports"
)

type UploadHandler struct {
	service ports.UploadService
}

func NewUploadHandler(service ports.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

// Upload handles POST /api/upload with a single multipart "file" field.
//
// @Summary      Upload an image
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "jpeg, jpg, png, gif or webp image"
// @Success      200   {object}  uploadResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /upload [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	if _, err := caller(c); err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: file is required", domain.ErrInvalidInput)
	}
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	url, err := h.service.Upload(c.Request().Context(), ports.UploadInput{
		Filename: fh.Filename,
		Size:     fh.Size,
		Content:  f,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, uploadResponse{FileURL: url})
}

// Serve handles GET /uploads/:name and streams a stored file.
func (h *UploadHandler) Serve(c echo.Context) error {
	file, err := h.service.Open(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	defer file.Content.Close()

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	c.Response().Header().Set("X-Content-Type-Options", "nosniff")
	return c.Stream(http.StatusOK, file.ContentType, file.Content)
}
