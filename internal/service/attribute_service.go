package service

import (
	"strings"

	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/repository"
)

// AttributeService manages a tenant's variant attribute dictionary.
type AttributeService struct {
	attributeRepo repository.AttributeRepository
}

// NewAttributeService creates the attribute service.
func NewAttributeService(attributeRepo repository.AttributeRepository) *AttributeService {
	return &AttributeService{attributeRepo: attributeRepo}
}

// List lists a tenant's attributes with their values.
func (s *AttributeService) List(tenantID uint) ([]models.Attribute, error) {
	return s.attributeRepo.List(tenantID)
}

// Get fetches one attribute.
func (s *AttributeService) Get(tenantID, id uint) (*models.Attribute, error) {
	attribute, err := s.attributeRepo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	if attribute == nil {
		return nil, ErrAttributeNotFound
	}
	return attribute, nil
}

// AttributeInput is the create/update payload.
type AttributeInput struct {
	Code      string
	Name      string
	SortOrder int
}

// Create inserts an attribute with a tenant-unique code.
func (s *AttributeService) Create(tenantID uint, input AttributeInput) (*models.Attribute, error) {
	code := strings.ToLower(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, ErrAttributeCodeTaken
	}
	existing, err := s.attributeRepo.GetByCode(tenantID, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAttributeCodeTaken
	}

	attribute := &models.Attribute{
		TenantID:  tenantID,
		Code:      code,
		Name:      strings.TrimSpace(input.Name),
		SortOrder: input.SortOrder,
	}
	if err := s.attributeRepo.Create(attribute); err != nil {
		return nil, err
	}
	return attribute, nil
}

// Update edits an attribute's name and ordering.
func (s *AttributeService) Update(tenantID, id uint, input AttributeInput) (*models.Attribute, error) {
	attribute, err := s.Get(tenantID, id)
	if err != nil {
		return nil, err
	}
	attribute.Name = strings.TrimSpace(input.Name)
	attribute.SortOrder = input.SortOrder
	if err := s.attributeRepo.Update(attribute); err != nil {
		return nil, err
	}
	return attribute, nil
}

// Delete removes an attribute with its values.
func (s *AttributeService) Delete(tenantID, id uint) error {
	if _, err := s.Get(tenantID, id); err != nil {
		return err
	}
	return s.attributeRepo.Delete(tenantID, id)
}

// AddValue appends a value to an attribute.
func (s *AttributeService) AddValue(tenantID, attributeID uint, value string, sortOrder int) (*models.AttributeValue, error) {
	attribute, err := s.Get(tenantID, attributeID)
	if err != nil {
		return nil, err
	}
	row := &models.AttributeValue{
		TenantID:    tenantID,
		AttributeID: attribute.ID,
		Value:       strings.TrimSpace(value),
		SortOrder:   sortOrder,
	}
	if err := s.attributeRepo.CreateValue(row); err != nil {
		return nil, err
	}
	return row, nil
}

// RemoveValue deletes an attribute value.
func (s *AttributeService) RemoveValue(tenantID, valueID uint) error {
	value, err := s.attributeRepo.GetValueByID(tenantID, valueID)
	if err != nil {
		return err
	}
	if value == nil {
		return ErrAttributeNotFound
	}
	return s.attributeRepo.DeleteValue(tenantID, valueID)
}
