package repository

import (
	"errors"

	"github.com/storeflow/storeflow/internal/models"

	"gorm.io/gorm"
)

// MediaRepository is the media upload metadata access interface.
type MediaRepository interface {
	List(filter MediaListFilter) ([]models.MediaUpload, int64, error)
	GetByID(tenantID, id uint) (*models.MediaUpload, error)
	Create(upload *models.MediaUpload) error
	Delete(tenantID, id uint) error
	SumSizeByTenant(tenantID uint) (int64, error)
	ListOrphaned(limit int) ([]models.MediaUpload, error)
}

// GormMediaRepository is the GORM implementation.
type GormMediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates the media repository.
func NewMediaRepository(db *gorm.DB) *GormMediaRepository {
	return &GormMediaRepository{db: db}
}

// List lists a tenant's uploads.
func (r *GormMediaRepository) List(filter MediaListFilter) ([]models.MediaUpload, int64, error) {
	var uploads []models.MediaUpload

	query := r.db.Model(&models.MediaUpload{}).Where("tenant_id = ?", filter.TenantID)
	if filter.MimeType != "" {
		query = query.Where("mime_type = ?", filter.MimeType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("created_at DESC").Find(&uploads).Error; err != nil {
		return nil, 0, err
	}

	return uploads, total, nil
}

// GetByID fetches an upload by ID within a tenant.
func (r *GormMediaRepository) GetByID(tenantID, id uint) (*models.MediaUpload, error) {
	var upload models.MediaUpload
	if err := r.db.Where("tenant_id = ?", tenantID).First(&upload, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &upload, nil
}

// Create inserts an upload record.
func (r *GormMediaRepository) Create(upload *models.MediaUpload) error {
	return r.db.Create(upload).Error
}

// Delete soft-deletes an upload record.
func (r *GormMediaRepository) Delete(tenantID, id uint) error {
	return r.db.Where("tenant_id = ?", tenantID).Delete(&models.MediaUpload{}, id).Error
}

// SumSizeByTenant totals a tenant's stored bytes, used for plan limits.
func (r *GormMediaRepository) SumSizeByTenant(tenantID uint) (int64, error) {
	var total int64
	if err := r.db.Model(&models.MediaUpload{}).
		Where("tenant_id = ?", tenantID).
		Select("COALESCE(SUM(size_bytes), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// ListOrphaned returns uploads whose tenant has been deleted, for the
// media prune worker.
func (r *GormMediaRepository) ListOrphaned(limit int) ([]models.MediaUpload, error) {
	var uploads []models.MediaUpload
	query := r.db.
		Where("NOT EXISTS (SELECT 1 FROM tenants t WHERE t.id = media_uploads.tenant_id AND t.deleted_at IS NULL)").
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&uploads).Error; err != nil {
		return nil, err
	}
	return uploads, nil
}
