package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ttmai/velora-backend/internal/errors"
	"github.com/ttmai/velora-backend/internal/middleware"
	"github.com/ttmai/velora-backend/internal/storage"
)

// maxUploadSize caps product image uploads at 10 MiB.
const maxUploadSize = 10 << 20

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{storage: storage}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	FileSize    int64  `json:"file_size" binding:"required,gt=0"`
}

// GeneratePresignedURL issues a presigned PUT URL for a product image (admin)
// POST /api/v1/admin/upload/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	allowedTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/gif",
		"image/webp",
	}
	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedTypes); err != nil {
		log.Warn("Invalid content type for upload", map[string]interface{}{
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		return
	}

	if err := ctrl.storage.ValidateFileSize(req.FileSize, maxUploadSize); err != nil {
		log.Warn("Upload rejected for size", map[string]interface{}{
			"filename":  req.Filename,
			"file_size": req.FileSize,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "File size must not exceed 10MB")
		return
	}

	response, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, "products")
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename": req.Filename,
		})
		apperrors.InternalError(c, "Failed to generate presigned URL")
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"key": response.Key,
	})

	c.JSON(http.StatusOK, gin.H{
		"upload_url": response.UploadURL,
		"file_url":   response.FileURL,
		"key":        response.Key,
	})
}
