package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/mstavrou/epresent-backend/internal/errors"
	"github.com/mstavrou/epresent-backend/internal/middleware"
	"github.com/mstavrou/epresent-backend/internal/storage"
)

// UploadController issues pre-signed S3 URLs for catalog image uploads.
// Clients PUT the file body directly to S3.
type UploadController struct {
	imageStorage *storage.ImageStorage
}

func NewUploadController(imageStorage *storage.ImageStorage) *UploadController {
	return &UploadController{
		imageStorage: imageStorage,
	}
}

type PresignUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder" binding:"required"`
	Size        int64  `json:"size" binding:"required"`
}

// Presign returns a pre-signed PUT URL (Admin only)
// POST /api/v1/admin/uploads/presign
func (ctrl *UploadController) Presign(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	if err := storage.ValidateImageSize(req.Size); err != nil {
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, err.Error())
		return
	}
	if err := storage.ValidateImageType(req.ContentType); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, err.Error())
		return
	}
	if !storage.ImageFolders[req.Folder] {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown upload folder")
		return
	}

	resp, err := ctrl.imageStorage.PresignUpload(c.Request.Context(), req.Filename, req.ContentType, req.Folder)
	if err != nil {
		log.Error("Failed to presign upload", err, map[string]interface{}{
			"folder": req.Folder,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to prepare upload")
		return
	}

	log.Info("Upload URL issued", map[string]interface{}{
		"key": resp.Key,
	})
	c.JSON(http.StatusOK, resp)
}
