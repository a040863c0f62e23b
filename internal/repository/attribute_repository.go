package repository

import (
	"errors"

	"github.com/storeflow/storeflow/internal/models"

	"gorm.io/gorm"
)

// AttributeRepository is the attribute catalog data access interface.
type AttributeRepository interface {
	List(tenantID uint) ([]models.Attribute, error)
	GetByID(tenantID, id uint) (*models.Attribute, error)
	GetByCode(tenantID uint, code string) (*models.Attribute, error)
	Create(attribute *models.Attribute) error
	Update(attribute *models.Attribute) error
	Delete(tenantID, id uint) error
	CreateValue(value *models.AttributeValue) error
	DeleteValue(tenantID, id uint) error
	GetValueByID(tenantID, id uint) (*models.AttributeValue, error)
}

// GormAttributeRepository is the GORM implementation.
type GormAttributeRepository struct {
	db *gorm.DB
}

// NewAttributeRepository creates the attribute repository.
func NewAttributeRepository(db *gorm.DB) *GormAttributeRepository {
	return &GormAttributeRepository{db: db}
}

// List lists a tenant's attributes with their values.
func (r *GormAttributeRepository) List(tenantID uint) ([]models.Attribute, error) {
	var attributes []models.Attribute
	if err := r.db.Where("tenant_id = ?", tenantID).
		Preload("Values", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order DESC, id ASC")
		}).
		Order("sort_order DESC, id ASC").
		Find(&attributes).Error; err != nil {
		return nil, err
	}
	return attributes, nil
}

// GetByID fetches an attribute by ID within a tenant.
func (r *GormAttributeRepository) GetByID(tenantID, id uint) (*models.Attribute, error) {
	var attribute models.Attribute
	if err := r.db.Where("tenant_id = ?", tenantID).
		Preload("Values").
		First(&attribute, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attribute, nil
}

// GetByCode fetches an attribute by code within a tenant.
func (r *GormAttributeRepository) GetByCode(tenantID uint, code string) (*models.Attribute, error) {
	var attribute models.Attribute
	if err := r.db.Where("tenant_id = ? AND code = ?", tenantID, code).First(&attribute).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attribute, nil
}

// Create inserts an attribute.
func (r *GormAttributeRepository) Create(attribute *models.Attribute) error {
	return r.db.Create(attribute).Error
}

// Update saves an attribute.
func (r *GormAttributeRepository) Update(attribute *models.Attribute) error {
	return r.db.Save(attribute).Error
}

// Delete soft-deletes an attribute and its values.
func (r *GormAttributeRepository) Delete(tenantID, id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND attribute_id = ?", tenantID, id).
			Delete(&models.AttributeValue{}).Error; err != nil {
			return err
		}
		return tx.Where("tenant_id = ?", tenantID).Delete(&models.Attribute{}, id).Error
	})
}

// CreateValue inserts an attribute value.
func (r *GormAttributeRepository) CreateValue(value *models.AttributeValue) error {
	return r.db.Create(value).Error
}

// DeleteValue soft-deletes an attribute value.
func (r *GormAttributeRepository) DeleteValue(tenantID, id uint) error {
	return r.db.Where("tenant_id = ?", tenantID).Delete(&models.AttributeValue{}, id).Error
}

// GetValueByID fetches an attribute value by ID within a tenant.
func (r *GormAttributeRepository) GetValueByID(tenantID, id uint) (*models.AttributeValue, error) {
	var value models.AttributeValue
	if err := r.db.Where("tenant_id = ?", tenantID).First(&value, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &value, nil
}
