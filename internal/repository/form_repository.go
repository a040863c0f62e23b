package repository

import (
	"errors"

	"github.com/storeflow/storeflow/internal/models"

	"gorm.io/gorm"
)

// FormRepository covers tenant forms and their submissions.
type FormRepository interface {
	List(tenantID uint) ([]models.Form, error)
	GetByID(tenantID, id uint) (*models.Form, error)
	GetBySlug(tenantID uint, slug string, onlyActive bool) (*models.Form, error)
	Create(form *models.Form) error
	Update(form *models.Form) error
	Delete(tenantID, id uint) error
	CountBySlug(tenantID uint, slug string, excludeID *uint) (int64, error)
	CreateSubmission(submission *models.FormSubmission) error
	ListSubmissions(filter FormSubmissionListFilter) ([]models.FormSubmission, int64, error)
}

// GormFormRepository is the GORM implementation.
type GormFormRepository struct {
	db *gorm.DB
}

// NewFormRepository creates the form repository.
func NewFormRepository(db *gorm.DB) *GormFormRepository {
	return &GormFormRepository{db: db}
}

// List lists a tenant's forms.
func (r *GormFormRepository) List(tenantID uint) ([]models.Form, error) {
	var forms []models.Form
	if err := r.db.Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}

// GetByID fetches a form by ID within a tenant.
func (r *GormFormRepository) GetByID(tenantID, id uint) (*models.Form, error) {
	var form models.Form
	if err := r.db.Where("tenant_id = ?", tenantID).First(&form, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &form, nil
}

// GetBySlug fetches a form by slug within a tenant.
func (r *GormFormRepository) GetBySlug(tenantID uint, slug string, onlyActive bool) (*models.Form, error) {
	query := r.db.Where("tenant_id = ? AND slug = ?", tenantID, slug)
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	var form models.Form
	if err := query.First(&form).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &form, nil
}

// Create inserts a form.
func (r *GormFormRepository) Create(form *models.Form) error {
	return r.db.Create(form).Error
}

// Update saves a form.
func (r *GormFormRepository) Update(form *models.Form) error {
	return r.db.Save(form).Error
}

// Delete soft-deletes a form.
func (r *GormFormRepository) Delete(tenantID, id uint) error {
	return r.db.Where("tenant_id = ?", tenantID).Delete(&models.Form{}, id).Error
}

// CountBySlug counts forms holding a slug within a tenant.
func (r *GormFormRepository) CountBySlug(tenantID uint, slug string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Form{}).Where("tenant_id = ? AND slug = ?", tenantID, slug)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateSubmission inserts a form submission.
func (r *GormFormRepository) CreateSubmission(submission *models.FormSubmission) error {
	return r.db.Create(submission).Error
}

// ListSubmissions lists submissions of a form.
func (r *GormFormRepository) ListSubmissions(filter FormSubmissionListFilter) ([]models.FormSubmission, int64, error) {
	var submissions []models.FormSubmission

	query := r.db.Model(&models.FormSubmission{}).Where("tenant_id = ?", filter.TenantID)
	if filter.FormID != 0 {
		query = query.Where("form_id = ?", filter.FormID)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at < ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("created_at DESC").Find(&submissions).Error; err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}
