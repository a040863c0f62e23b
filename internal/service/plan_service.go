package service

import (
	"strings"

	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/repository"
)

// PlanService manages the landlord's price plans.
type PlanService struct {
	planRepo repository.PlanRepository
}

// NewPlanService creates the plan service.
func NewPlanService(planRepo repository.PlanRepository) *PlanService {
	return &PlanService{planRepo: planRepo}
}

// List lists plans.
func (s *PlanService) List(filter repository.PlanListFilter) ([]models.PricePlan, int64, error) {
	return s.planRepo.List(filter)
}

// Get fetches one plan.
func (s *PlanService) Get(id uint) (*models.PricePlan, error) {
	plan, err := s.planRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// PlanInput is the create/update payload. Zero limits mean unlimited.
type PlanInput struct {
	Code         string
	Name         string
	MonthlyPrice models.Money
	Currency     string
	MaxProducts  int
	MaxStaff     int
	MaxStorageMB int
	IsActive     bool
	SortOrder    int
}

// Create inserts a plan with a unique code.
func (s *PlanService) Create(input PlanInput) (*models.PricePlan, error) {
	code := strings.ToLower(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, ErrPlanNotFound
	}
	existing, err := s.planRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPlanCodeTaken
	}

	plan := &models.PricePlan{
		Code:         code,
		Name:         strings.TrimSpace(input.Name),
		MonthlyPrice: input.MonthlyPrice,
		Currency:     normalizeCurrency(input.Currency),
		MaxProducts:  input.MaxProducts,
		MaxStaff:     input.MaxStaff,
		MaxStorageMB: input.MaxStorageMB,
		IsActive:     input.IsActive,
		SortOrder:    input.SortOrder,
	}
	if err := s.planRepo.Create(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Update edits a plan. The code stays immutable once assigned.
func (s *PlanService) Update(id uint, input PlanInput) (*models.PricePlan, error) {
	plan, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	plan.Name = strings.TrimSpace(input.Name)
	plan.MonthlyPrice = input.MonthlyPrice
	plan.Currency = normalizeCurrency(input.Currency)
	plan.MaxProducts = input.MaxProducts
	plan.MaxStaff = input.MaxStaff
	plan.MaxStorageMB = input.MaxStorageMB
	plan.IsActive = input.IsActive
	plan.SortOrder = input.SortOrder

	if err := s.planRepo.Update(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Delete removes a plan with no tenants left on it.
func (s *PlanService) Delete(id uint) error {
	plan, err := s.Get(id)
	if err != nil {
		return err
	}
	tenants, err := s.planRepo.CountTenants(plan.ID)
	if err != nil {
		return err
	}
	if tenants > 0 {
		return ErrPlanInUse
	}
	return s.planRepo.Delete(plan.ID)
}

func normalizeCurrency(raw string) string {
	currency := strings.ToUpper(strings.TrimSpace(raw))
	if currency == "" {
		return constants.CurrencyDefault
	}
	return currency
}
