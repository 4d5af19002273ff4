package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appErrors "github.com/mixtales/mixtales-backend/internal/errors"
	"github.com/mixtales/mixtales-backend/internal/middleware"
	"github.com/mixtales/mixtales-backend/internal/storage"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

// maxUploadBytes caps product image uploads at 5 MB.
const maxUploadBytes = 5 << 20

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size" binding:"required,gt=0"`
}

// GeneratePresignedURL generates a presigned URL for uploading product
// images to S3. The client PUTs the file there directly and stores the
// returned file URL on the product.
// POST /api/admin/upload/image
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		appErrors.BadRequest(c, appErrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if req.Size > maxUploadBytes {
		log.Warn("Upload exceeds size limit", map[string]interface{}{
			"filename": req.Filename,
			"size":     req.Size,
		})
		appErrors.BadRequest(c, appErrors.UploadFileTooLarge, "File must be 5MB or smaller")
		return
	}

	allowedTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/webp",
	}
	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedTypes); err != nil {
		log.Warn("Invalid content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		appErrors.BadRequest(c, appErrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, WEBP)")
		return
	}

	response, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, "products")
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
		})
		appErrors.RespondWithError(c, http.StatusInternalServerError, appErrors.UploadFailed, "Failed to generate upload URL")
		return
	}

	log.Info("Presigned URL generated successfully", map[string]interface{}{
		"filename": req.Filename,
		"key":      response.Key,
	})

	c.JSON(http.StatusOK, gin.H{
		"data": response,
	})
}
