package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/halewood/onboarding-api/internal/constants"
	"github.com/halewood/onboarding-api/internal/models"
	"github.com/halewood/onboarding-api/internal/repository"
	"github.com/halewood/onboarding-api/internal/storage"
)

var (
	ErrAssetNotFound     = errors.New("asset not found")
	ErrAssetAccessDenied = errors.New("you do not have access to this asset")
	ErrSigningFailed     = errors.New("unable to generate signed URL")
)

// AssetService issues signed upload and download URLs and keeps the asset
// metadata rows. File bytes never pass through this process.
type AssetService struct {
	assetRepo   repository.AssetRepository
	companyRepo repository.CompanyRepository
	auditRepo   repository.AuditRepository
	signer      storage.Signer
}

// NewAssetService creates a new AssetService.
func NewAssetService(assetRepo repository.AssetRepository, companyRepo repository.CompanyRepository, auditRepo repository.AuditRepository, signer storage.Signer) *AssetService {
	return &AssetService{
		assetRepo:   assetRepo,
		companyRepo: companyRepo,
		auditRepo:   auditRepo,
		signer:      signer,
	}
}

// UploadRequestInput describes one requested upload.
type UploadRequestInput struct {
	CompanyID uint64
	FileName  string
	Label     string
	Kind      string
	ActorID   uint64
}

// UploadRequestResult carries the signed PUT URL and the registered metadata.
type UploadRequestResult struct {
	AssetID   uint64
	Path      string
	UploadURL string
}

// RequestUpload registers asset metadata and returns a 5-minute signed upload
// URL. The metadata row exists before any bytes move; an abandoned upload
// leaves the row behind.
func (s *AssetService) RequestUpload(ctx context.Context, input UploadRequestInput) (*UploadRequestResult, error) {
	// Timestamp prefix avoids collisions between same-named files.
	objectPath := fmt.Sprintf("%d/%d-%s", input.CompanyID, time.Now().UnixMilli(), input.FileName)

	uploadURL, err := s.signer.PresignUpload(ctx, objectPath, constants.SignedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSigningFailed, err)
	}

	label := input.Label
	if label == "" {
		label = input.FileName
	}

	asset := &models.Asset{
		CompanyID: input.CompanyID,
		Bucket:    constants.AssetBucket,
		Path:      objectPath,
		Label:     label,
		Kind:      input.Kind,
		CreatedBy: input.ActorID,
	}
	if err := s.assetRepo.Create(asset); err != nil {
		return nil, fmt.Errorf("failed to register asset metadata: %w", err)
	}

	entry := &models.AuditLog{
		CompanyID:  input.CompanyID,
		Actor:      input.ActorID,
		Action:     models.AuditAssetUploadRequested,
		TargetType: "asset",
		TargetID:   asset.ID,
		Details: datatypes.JSONMap{
			"file_name": input.FileName,
			"kind":      input.Kind,
		},
	}
	if err := s.auditRepo.Append(entry); err != nil {
		return nil, fmt.Errorf("failed to record audit entry: %w", err)
	}

	return &UploadRequestResult{
		AssetID:   asset.ID,
		Path:      objectPath,
		UploadURL: uploadURL,
	}, nil
}

// Download verifies membership on the asset's owning company and returns a
// 5-minute signed download URL. No URL is generated on any failure: a
// missing row is not-found first, an existing row without membership is
// denied.
func (s *AssetService) Download(ctx context.Context, assetID, userID uint64) (string, error) {
	asset, err := s.assetRepo.FindByID(assetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrAssetNotFound
		}
		return "", fmt.Errorf("failed to find asset: %w", err)
	}

	if _, err := s.companyRepo.FindMember(asset.CompanyID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrAssetAccessDenied
		}
		return "", fmt.Errorf("failed to verify membership: %w", err)
	}

	downloadURL, err := s.signer.PresignDownload(ctx, asset.Path, asset.Label, constants.SignedURLTTL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigningFailed, err)
	}

	return downloadURL, nil
}
