package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/storeflow/storeflow/internal/config"
	"github.com/storeflow/storeflow/internal/logger"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/repository"

	"github.com/google/uuid"
)

// MediaService stores tenant uploads on disk and tracks their metadata.
// Files land under <dir>/<tenant>/<year>/<month>/<uuid><ext>.
type MediaService struct {
	cfg        *config.UploadConfig
	mediaRepo  repository.MediaRepository
	tenantRepo repository.TenantRepository
}

// NewMediaService creates the media service.
func NewMediaService(cfg *config.UploadConfig, mediaRepo repository.MediaRepository, tenantRepo repository.TenantRepository) *MediaService {
	return &MediaService{cfg: cfg, mediaRepo: mediaRepo, tenantRepo: tenantRepo}
}

// List lists a tenant's uploads.
func (s *MediaService) List(filter repository.MediaListFilter) ([]models.MediaUpload, int64, error) {
	return s.mediaRepo.List(filter)
}

// Get fetches one upload record.
func (s *MediaService) Get(tenantID, id uint) (*models.MediaUpload, error) {
	upload, err := s.mediaRepo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	if upload == nil {
		return nil, ErrMediaNotFound
	}
	return upload, nil
}

// Save validates and stores an uploaded file, recording its metadata.
// The plan's storage quota is checked against the tenant's current total.
func (s *MediaService) Save(tenantID, staffID uint, file *multipart.FileHeader) (*models.MediaUpload, error) {
	if s.cfg.MaxSize > 0 && file.Size > s.cfg.MaxSize {
		return nil, ErrUploadTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(s.cfg.AllowedExtensions) > 0 {
		if ext == "" || !isAllowedExtension(ext, s.cfg.AllowedExtensions) {
			return nil, ErrUploadTypeInvalid
		}
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// Sniff the real content type from the head of the stream.
	buffer := make([]byte, 512)
	if _, err := src.Read(buffer); err != nil && err != io.EOF {
		return nil, err
	}
	if _, err := src.Seek(0, 0); err != nil {
		return nil, err
	}
	contentType := http.DetectContentType(buffer)
	if semicolon := strings.Index(contentType, ";"); semicolon > 0 {
		contentType = strings.TrimSpace(contentType[:semicolon])
	}
	if len(s.cfg.AllowedTypes) > 0 && !isAllowedContentType(contentType, s.cfg.AllowedTypes) {
		return nil, ErrUploadTypeInvalid
	}

	if err := s.checkStorageLimit(tenantID, file.Size); err != nil {
		return nil, err
	}

	now := time.Now()
	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	relPath := filepath.Join(
		fmt.Sprintf("%d", tenantID), now.Format("2006"), now.Format("01"), filename)
	savePath := filepath.Join(s.uploadDir(), relPath)

	if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
		return nil, err
	}
	dst, err := os.Create(savePath)
	if err != nil {
		return nil, err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return nil, err
	}

	upload := &models.MediaUpload{
		TenantID:   tenantID,
		Path:       "/" + filepath.ToSlash(relPath),
		Filename:   filepath.Base(file.Filename),
		MimeType:   contentType,
		SizeBytes:  file.Size,
		UploadedBy: staffID,
	}
	if err := s.mediaRepo.Create(upload); err != nil {
		if removeErr := os.Remove(savePath); removeErr != nil {
			logger.Warnw("orphan upload file left on disk", "path", savePath, "error", removeErr)
		}
		return nil, err
	}
	return upload, nil
}

// Delete removes an upload's record and its file.
func (s *MediaService) Delete(tenantID, id uint) error {
	upload, err := s.Get(tenantID, id)
	if err != nil {
		return err
	}
	if err := s.mediaRepo.Delete(tenantID, id); err != nil {
		return err
	}
	s.removeFile(upload.Path)
	return nil
}

// PruneOrphaned deletes uploads whose tenant no longer exists. It returns
// the number of records pruned.
func (s *MediaService) PruneOrphaned(limit int) (int, error) {
	uploads, err := s.mediaRepo.ListOrphaned(limit)
	if err != nil {
		return 0, err
	}
	pruned := 0
	for _, upload := range uploads {
		if err := s.mediaRepo.Delete(upload.TenantID, upload.ID); err != nil {
			return pruned, err
		}
		s.removeFile(upload.Path)
		pruned++
	}
	return pruned, nil
}

func (s *MediaService) checkStorageLimit(tenantID uint, incomingBytes int64) error {
	tenant, err := s.tenantRepo.GetByID(tenantID)
	if err != nil {
		return err
	}
	if tenant == nil {
		return ErrTenantNotFound
	}
	if tenant.Plan == nil || tenant.Plan.MaxStorageMB <= 0 {
		return nil
	}
	used, err := s.mediaRepo.SumSizeByTenant(tenantID)
	if err != nil {
		return err
	}
	limitBytes := int64(tenant.Plan.MaxStorageMB) * 1024 * 1024
	if used+incomingBytes > limitBytes {
		return ErrPlanLimitReached
	}
	return nil
}

func (s *MediaService) removeFile(publicPath string) {
	rel := strings.TrimPrefix(publicPath, "/")
	fullPath := filepath.Join(s.uploadDir(), filepath.FromSlash(rel))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		logger.Warnw("failed to remove upload file", "path", fullPath, "error", err)
	}
}

func (s *MediaService) uploadDir() string {
	if dir := strings.TrimSpace(s.cfg.Dir); dir != "" {
		return dir
	}
	return "uploads"
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if strings.EqualFold(ext, normalized) {
			return true
		}
	}
	return false
}

func isAllowedContentType(contentType string, allowed []string) bool {
	for _, t := range allowed {
		if strings.EqualFold(contentType, strings.TrimSpace(t)) {
			return true
		}
	}
	return false
}
