package repository

import (
	"errors"
	"strings"

	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/models"

	"gorm.io/gorm"
)

// PageRepository is the CMS page data access interface.
type PageRepository interface {
	List(filter PageListFilter) ([]models.Page, int64, error)
	GetByID(tenantID, id uint) (*models.Page, error)
	GetBySlug(tenantID uint, slug string, onlyPublished bool) (*models.Page, error)
	Create(page *models.Page) error
	Update(page *models.Page) error
	Delete(tenantID, id uint) error
	CountBySlug(tenantID uint, slug string, excludeID *uint) (int64, error)
}

// GormPageRepository is the GORM implementation.
type GormPageRepository struct {
	db *gorm.DB
}

// NewPageRepository creates the page repository.
func NewPageRepository(db *gorm.DB) *GormPageRepository {
	return &GormPageRepository{db: db}
}

// List lists a tenant's pages.
func (r *GormPageRepository) List(filter PageListFilter) ([]models.Page, int64, error) {
	var pages []models.Page

	query := r.db.Model(&models.Page{}).Where("tenant_id = ?", filter.TenantID)
	if filter.OnlyPublished {
		query = query.Where("status = ?", constants.PageStatusPublished)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("slug LIKE ? OR title LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("sort_order DESC, created_at DESC").Find(&pages).Error; err != nil {
		return nil, 0, err
	}

	return pages, total, nil
}

// GetByID fetches a page by ID within a tenant.
func (r *GormPageRepository) GetByID(tenantID, id uint) (*models.Page, error) {
	var page models.Page
	if err := r.db.Where("tenant_id = ?", tenantID).First(&page, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &page, nil
}

// GetBySlug fetches a page by slug within a tenant.
func (r *GormPageRepository) GetBySlug(tenantID uint, slug string, onlyPublished bool) (*models.Page, error) {
	query := r.db.Where("tenant_id = ? AND slug = ?", tenantID, slug)
	if onlyPublished {
		query = query.Where("status = ?", constants.PageStatusPublished)
	}
	var page models.Page
	if err := query.First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &page, nil
}

// Create inserts a page.
func (r *GormPageRepository) Create(page *models.Page) error {
	return r.db.Create(page).Error
}

// Update saves a page.
func (r *GormPageRepository) Update(page *models.Page) error {
	return r.db.Save(page).Error
}

// Delete soft-deletes a page.
func (r *GormPageRepository) Delete(tenantID, id uint) error {
	return r.db.Where("tenant_id = ?", tenantID).Delete(&models.Page{}, id).Error
}

// CountBySlug counts pages holding a slug within a tenant.
func (r *GormPageRepository) CountBySlug(tenantID uint, slug string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Page{}).Where("tenant_id = ? AND slug = ?", tenantID, slug)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
