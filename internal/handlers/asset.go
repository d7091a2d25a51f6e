package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/halewood/onboarding-api/internal/errors"
	"github.com/halewood/onboarding-api/internal/middleware"
	"github.com/halewood/onboarding-api/internal/services"
)

// AssetHandler coordinates signed upload and download URL requests.
type AssetHandler struct {
	assetService *services.AssetService
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assetService *services.AssetService) *AssetHandler {
	return &AssetHandler{
		assetService: assetService,
	}
}

// RequestUpload registers asset metadata and returns a signed PUT URL. The
// client uploads the bytes directly to object storage.
func (h *AssetHandler) RequestUpload(c *gin.Context) {
	type UploadRequest struct {
		FileName string `json:"file_name" binding:"required"`
		Label    string `json:"label"`
		Kind     string `json:"kind"`
	}

	company, ok := middleware.GetCompany(c)
	if !ok {
		apierrors.InternalError(c, "Company not loaded")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.assetService.RequestUpload(c.Request.Context(), services.UploadRequestInput{
		CompanyID: company.ID,
		FileName:  req.FileName,
		Label:     req.Label,
		Kind:      req.Kind,
		ActorID:   userID,
	})
	if err != nil {
		respondAssetError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"asset_id":   result.AssetID,
		"path":       result.Path,
		"upload_url": result.UploadURL,
	})
}

// Download returns a short-lived signed GET URL for an asset the caller can
// access.
func (h *AssetHandler) Download(c *gin.Context) {
	assetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid asset ID")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	downloadURL, err := h.assetService.Download(c.Request.Context(), assetID, userID)
	if err != nil {
		respondAssetError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"download_url": downloadURL,
	})
}

func respondAssetError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAssetNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAssetAccessDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrSigningFailed):
		apierrors.ServiceUnavailable(c, "Unable to generate signed URL")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
