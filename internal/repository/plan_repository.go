package repository

import (
	"errors"

	"github.com/storeflow/storeflow/internal/models"

	"gorm.io/gorm"
)

// PlanRepository is the price plan data access interface.
type PlanRepository interface {
	List(filter PlanListFilter) ([]models.PricePlan, int64, error)
	GetByID(id uint) (*models.PricePlan, error)
	GetByCode(code string) (*models.PricePlan, error)
	Create(plan *models.PricePlan) error
	Update(plan *models.PricePlan) error
	Delete(id uint) error
	CountTenants(planID uint) (int64, error)
}

// GormPlanRepository is the GORM implementation.
type GormPlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates the plan repository.
func NewPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// List lists price plans.
func (r *GormPlanRepository) List(filter PlanListFilter) ([]models.PricePlan, int64, error) {
	var plans []models.PricePlan

	query := r.db.Model(&models.PricePlan{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("sort_order DESC, id ASC").Find(&plans).Error; err != nil {
		return nil, 0, err
	}

	return plans, total, nil
}

// GetByID fetches a plan by ID.
func (r *GormPlanRepository) GetByID(id uint) (*models.PricePlan, error) {
	var plan models.PricePlan
	if err := r.db.First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// GetByCode fetches a plan by its unique code.
func (r *GormPlanRepository) GetByCode(code string) (*models.PricePlan, error) {
	var plan models.PricePlan
	if err := r.db.Where("code = ?", code).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// Create inserts a plan.
func (r *GormPlanRepository) Create(plan *models.PricePlan) error {
	return r.db.Create(plan).Error
}

// Update saves a plan.
func (r *GormPlanRepository) Update(plan *models.PricePlan) error {
	return r.db.Save(plan).Error
}

// Delete soft-deletes a plan.
func (r *GormPlanRepository) Delete(id uint) error {
	return r.db.Delete(&models.PricePlan{}, id).Error
}

// CountTenants counts tenants currently on a plan.
func (r *GormPlanRepository) CountTenants(planID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Tenant{}).Where("plan_id = ?", planID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
