package repository

import (
	"errors"

	"github.com/storeflow/storeflow/internal/models"

	"gorm.io/gorm"
)

// ThemeRepository covers the builtin theme catalog and per-tenant selection.
type ThemeRepository interface {
	ListThemes(activeOnly bool) ([]models.Theme, error)
	GetThemeByID(id uint) (*models.Theme, error)
	GetThemeByCode(code string) (*models.Theme, error)
	CreateTheme(theme *models.Theme) error
	UpdateTheme(theme *models.Theme) error
	DeleteTheme(id uint) error
	GetActiveTenantTheme(tenantID uint) (*models.TenantTheme, error)
	SetTenantTheme(tenantID, themeID uint, overrides models.JSON) (*models.TenantTheme, error)
	UpdateTenantOverrides(tenantID uint, overrides models.JSON) (*models.TenantTheme, error)
}

// GormThemeRepository is the GORM implementation.
type GormThemeRepository struct {
	db *gorm.DB
}

// NewThemeRepository creates the theme repository.
func NewThemeRepository(db *gorm.DB) *GormThemeRepository {
	return &GormThemeRepository{db: db}
}

// ListThemes lists the builtin theme catalog.
func (r *GormThemeRepository) ListThemes(activeOnly bool) ([]models.Theme, error) {
	var themes []models.Theme
	query := r.db.Model(&models.Theme{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("sort_order DESC, id ASC").Find(&themes).Error; err != nil {
		return nil, err
	}
	return themes, nil
}

// GetThemeByID fetches a theme by ID.
func (r *GormThemeRepository) GetThemeByID(id uint) (*models.Theme, error) {
	var theme models.Theme
	if err := r.db.First(&theme, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &theme, nil
}

// GetThemeByCode fetches a theme by its unique code.
func (r *GormThemeRepository) GetThemeByCode(code string) (*models.Theme, error) {
	var theme models.Theme
	if err := r.db.Where("code = ?", code).First(&theme).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &theme, nil
}

// CreateTheme inserts a theme.
func (r *GormThemeRepository) CreateTheme(theme *models.Theme) error {
	return r.db.Create(theme).Error
}

// UpdateTheme saves a theme.
func (r *GormThemeRepository) UpdateTheme(theme *models.Theme) error {
	return r.db.Save(theme).Error
}

// DeleteTheme soft-deletes a theme.
func (r *GormThemeRepository) DeleteTheme(id uint) error {
	return r.db.Delete(&models.Theme{}, id).Error
}

// GetActiveTenantTheme fetches the tenant's active theme selection.
func (r *GormThemeRepository) GetActiveTenantTheme(tenantID uint) (*models.TenantTheme, error) {
	var selection models.TenantTheme
	if err := r.db.Preload("Theme").
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		First(&selection).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &selection, nil
}

// SetTenantTheme switches the tenant to a theme, deactivating any previous
// selection so at most one row stays active.
func (r *GormThemeRepository) SetTenantTheme(tenantID, themeID uint, overrides models.JSON) (*models.TenantTheme, error) {
	selection := &models.TenantTheme{
		TenantID:      tenantID,
		ThemeID:       themeID,
		OverridesJSON: overrides,
		IsActive:      true,
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TenantTheme{}).
			Where("tenant_id = ? AND is_active = ?", tenantID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(selection).Error
	})
	if err != nil {
		return nil, err
	}
	return selection, nil
}

// UpdateTenantOverrides rewrites the active selection's overrides.
func (r *GormThemeRepository) UpdateTenantOverrides(tenantID uint, overrides models.JSON) (*models.TenantTheme, error) {
	selection, err := r.GetActiveTenantTheme(tenantID)
	if err != nil {
		return nil, err
	}
	if selection == nil {
		return nil, nil
	}
	selection.OverridesJSON = overrides
	if err := r.db.Save(selection).Error; err != nil {
		return nil, err
	}
	return selection, nil
}
