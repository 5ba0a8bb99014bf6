package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"studio-service/prometheus"
)

// SignAvatarUpload presigns an S3 PUT so the client uploads the avatar image
// directly to object storage.
func (h *Handler) SignAvatarUpload(c echo.Context) error {
	prometheus.RecordStudioOperation("sign_upload")

	if h.Uploads == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "uploads are not configured"})
	}

	fileName := c.QueryParam("file_name")
	contentType := c.QueryParam("content_type")
	if fileName == "" || contentType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file_name and content_type are required"})
	}

	signed, err := h.Uploads.SignUpload("avatars", fileName, contentType)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, signed)
}
