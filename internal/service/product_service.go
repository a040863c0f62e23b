package service

import (
	"strings"

	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/repository"

	"gorm.io/gorm"
)

// ProductService manages a tenant's catalog: products, variants and their
// stock counters.
type ProductService struct {
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
	tenantRepo  repository.TenantRepository
}

// NewProductService creates the product service.
func NewProductService(
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	tenantRepo repository.TenantRepository,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		variantRepo: variantRepo,
		tenantRepo:  tenantRepo,
	}
}

// List lists products.
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// Get fetches a product within a tenant.
func (s *ProductService) Get(tenantID, id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetBySlug fetches a product by slug, optionally only when active.
func (s *ProductService) GetBySlug(tenantID uint, slug string, onlyActive bool) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(tenantID, strings.TrimSpace(slug), onlyActive)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ProductInput is the create/update payload.
type ProductInput struct {
	Slug        string
	Title       string
	Description string
	PriceAmount models.Money
	Currency    string
	Images      models.StringArray
	Tags        models.StringArray
	StockTotal  *int
	Status      string
	SortOrder   int
}

// Create inserts a product. The plan's product limit is enforced here.
func (s *ProductService) Create(tenantID uint, input ProductInput) (*models.Product, error) {
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if slug == "" {
		return nil, ErrSlugTaken
	}

	count, err := s.productRepo.CountBySlug(tenantID, slug, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	if err := s.checkProductLimit(tenantID); err != nil {
		return nil, err
	}

	product := &models.Product{
		TenantID:    tenantID,
		Slug:        slug,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		PriceAmount: input.PriceAmount,
		Currency:    normalizeCurrency(input.Currency),
		Images:      input.Images,
		Tags:        input.Tags,
		Status:      normalizeProductStatus(input.Status),
		SortOrder:   input.SortOrder,
	}
	if input.StockTotal != nil && *input.StockTotal > 0 {
		product.StockTotal = *input.StockTotal
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update edits a product. Stock counters move through the guarded stock
// operations; only the variant-less total may be set here.
func (s *ProductService) Update(tenantID, id uint, input ProductInput) (*models.Product, error) {
	product, err := s.Get(tenantID, id)
	if err != nil {
		return nil, err
	}

	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if slug != "" && slug != product.Slug {
		count, err := s.productRepo.CountBySlug(tenantID, slug, &product.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrSlugTaken
		}
		product.Slug = slug
	}

	product.Title = strings.TrimSpace(input.Title)
	product.Description = input.Description
	product.PriceAmount = input.PriceAmount
	product.Currency = normalizeCurrency(input.Currency)
	product.Images = input.Images
	product.Tags = input.Tags
	product.Status = normalizeProductStatus(input.Status)
	product.SortOrder = input.SortOrder
	if input.StockTotal != nil && len(product.Variants) == 0 && *input.StockTotal >= product.StockReserved {
		product.StockTotal = *input.StockTotal
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product and its variants.
func (s *ProductService) Delete(tenantID, id uint) error {
	product, err := s.Get(tenantID, id)
	if err != nil {
		return err
	}
	return s.productRepo.Transaction(func(tx *gorm.DB) error {
		for _, variant := range product.Variants {
			if err := s.variantRepo.WithTx(tx).Delete(tenantID, variant.ID); err != nil {
				return err
			}
		}
		return s.productRepo.WithTx(tx).Delete(tenantID, product.ID)
	})
}

// VariantInput is the variant create/update payload.
type VariantInput struct {
	SKU               string
	PriceAmount       *models.Money
	OptionsJSON       models.JSON
	StockTotal        int
	IsActive          bool
	SortOrder         int
	AttributeValueIDs []uint
}

// CreateVariant adds a variant and reconciles the parent counters.
func (s *ProductService) CreateVariant(tenantID, productID uint, input VariantInput) (*models.ProductVariant, error) {
	product, err := s.Get(tenantID, productID)
	if err != nil {
		return nil, err
	}

	sku := strings.TrimSpace(input.SKU)
	if sku == "" {
		return nil, ErrSKUTaken
	}
	count, err := s.variantRepo.CountBySKU(tenantID, sku, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSKUTaken
	}

	variant := &models.ProductVariant{
		TenantID:    tenantID,
		ProductID:   product.ID,
		SKU:         sku,
		PriceAmount: input.PriceAmount,
		OptionsJSON: input.OptionsJSON,
		StockTotal:  input.StockTotal,
		IsActive:    input.IsActive,
		SortOrder:   input.SortOrder,
	}

	err = s.productRepo.Transaction(func(tx *gorm.DB) error {
		variantRepo := s.variantRepo.WithTx(tx)
		if err := variantRepo.Create(variant); err != nil {
			return err
		}
		if len(input.AttributeValueIDs) > 0 {
			if err := variantRepo.ReplaceAttributeValues(variant, input.AttributeValueIDs); err != nil {
				return err
			}
		}
		return s.productRepo.WithTx(tx).ReconcileStockFromVariants(tenantID, product.ID)
	})
	if err != nil {
		return nil, err
	}
	return variant, nil
}

// UpdateVariant edits a variant and reconciles the parent counters.
func (s *ProductService) UpdateVariant(tenantID, productID, variantID uint, input VariantInput) (*models.ProductVariant, error) {
	variant, err := s.variantRepo.GetByID(tenantID, variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil || variant.ProductID != productID {
		return nil, ErrVariantNotFound
	}

	sku := strings.TrimSpace(input.SKU)
	if sku != "" && sku != variant.SKU {
		count, err := s.variantRepo.CountBySKU(tenantID, sku, &variant.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrSKUTaken
		}
		variant.SKU = sku
	}

	variant.PriceAmount = input.PriceAmount
	variant.OptionsJSON = input.OptionsJSON
	variant.IsActive = input.IsActive
	variant.SortOrder = input.SortOrder
	if input.StockTotal >= variant.StockReserved {
		variant.StockTotal = input.StockTotal
	}

	err = s.productRepo.Transaction(func(tx *gorm.DB) error {
		variantRepo := s.variantRepo.WithTx(tx)
		if err := variantRepo.Update(variant); err != nil {
			return err
		}
		if input.AttributeValueIDs != nil {
			if err := variantRepo.ReplaceAttributeValues(variant, input.AttributeValueIDs); err != nil {
				return err
			}
		}
		return s.productRepo.WithTx(tx).ReconcileStockFromVariants(tenantID, productID)
	})
	if err != nil {
		return nil, err
	}
	return variant, nil
}

// DeleteVariant removes a variant and reconciles the parent counters.
func (s *ProductService) DeleteVariant(tenantID, productID, variantID uint) error {
	variant, err := s.variantRepo.GetByID(tenantID, variantID)
	if err != nil {
		return err
	}
	if variant == nil || variant.ProductID != productID {
		return ErrVariantNotFound
	}
	return s.productRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.variantRepo.WithTx(tx).Delete(tenantID, variant.ID); err != nil {
			return err
		}
		return s.productRepo.WithTx(tx).ReconcileStockFromVariants(tenantID, productID)
	})
}

func (s *ProductService) checkProductLimit(tenantID uint) error {
	tenant, err := s.tenantRepo.GetByID(tenantID)
	if err != nil {
		return err
	}
	if tenant == nil {
		return ErrTenantNotFound
	}
	if tenant.Plan == nil || tenant.Plan.MaxProducts <= 0 {
		return nil
	}
	count, err := s.productRepo.CountByTenant(tenantID)
	if err != nil {
		return err
	}
	if count >= int64(tenant.Plan.MaxProducts) {
		return ErrPlanLimitReached
	}
	return nil
}

func normalizeProductStatus(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case constants.ProductStatusActive:
		return constants.ProductStatusActive
	case constants.ProductStatusArchived:
		return constants.ProductStatusArchived
	default:
		return constants.ProductStatusDraft
	}
}
