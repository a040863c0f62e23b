package service

import (
	"strings"

	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/repository"
)

// FormService manages tenant-defined forms and their public submissions.
type FormService struct {
	formRepo repository.FormRepository
}

// NewFormService creates the form service.
func NewFormService(formRepo repository.FormRepository) *FormService {
	return &FormService{formRepo: formRepo}
}

// List lists a tenant's forms.
func (s *FormService) List(tenantID uint) ([]models.Form, error) {
	return s.formRepo.List(tenantID)
}

// Get fetches a form within a tenant.
func (s *FormService) Get(tenantID, id uint) (*models.Form, error) {
	form, err := s.formRepo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}
	return form, nil
}

// GetBySlug fetches a form by slug, optionally only when active.
func (s *FormService) GetBySlug(tenantID uint, slug string, onlyActive bool) (*models.Form, error) {
	form, err := s.formRepo.GetBySlug(tenantID, strings.TrimSpace(slug), onlyActive)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}
	return form, nil
}

// FormInput is the create/update payload.
type FormInput struct {
	Slug       string
	Name       string
	SchemaJSON models.JSON
	IsActive   bool
}

// Create inserts a form after validating and normalizing its schema.
func (s *FormService) Create(tenantID uint, input FormInput) (*models.Form, error) {
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if slug == "" {
		return nil, ErrSlugTaken
	}
	count, err := s.formRepo.CountBySlug(tenantID, slug, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	_, normalizedSchema, err := parseFormSchema(input.SchemaJSON)
	if err != nil {
		return nil, err
	}

	form := &models.Form{
		TenantID:   tenantID,
		Slug:       slug,
		Name:       strings.TrimSpace(input.Name),
		SchemaJSON: normalizedSchema,
		IsActive:   input.IsActive,
	}
	if err := s.formRepo.Create(form); err != nil {
		return nil, err
	}
	return form, nil
}

// Update edits a form. The schema is re-validated on every write.
func (s *FormService) Update(tenantID, id uint, input FormInput) (*models.Form, error) {
	form, err := s.Get(tenantID, id)
	if err != nil {
		return nil, err
	}

	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if slug != "" && slug != form.Slug {
		count, err := s.formRepo.CountBySlug(tenantID, slug, &form.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrSlugTaken
		}
		form.Slug = slug
	}

	_, normalizedSchema, err := parseFormSchema(input.SchemaJSON)
	if err != nil {
		return nil, err
	}

	form.Name = strings.TrimSpace(input.Name)
	form.SchemaJSON = normalizedSchema
	form.IsActive = input.IsActive

	if err := s.formRepo.Update(form); err != nil {
		return nil, err
	}
	return form, nil
}

// Delete removes a form. Past submissions stay on record.
func (s *FormService) Delete(tenantID, id uint) error {
	if _, err := s.Get(tenantID, id); err != nil {
		return err
	}
	return s.formRepo.Delete(tenantID, id)
}

// Submit validates a storefront submission against the active form's
// schema and stores the sanitized values.
func (s *FormService) Submit(tenantID uint, slug string, submission models.JSON, clientIP string) (*models.FormSubmission, error) {
	form, err := s.GetBySlug(tenantID, slug, true)
	if err != nil {
		return nil, err
	}

	_, normalized, err := validateAndNormalizeForm(form.SchemaJSON, submission)
	if err != nil {
		return nil, err
	}

	row := &models.FormSubmission{
		TenantID: tenantID,
		FormID:   form.ID,
		DataJSON: normalized,
		ClientIP: strings.TrimSpace(clientIP),
	}
	if err := s.formRepo.CreateSubmission(row); err != nil {
		return nil, err
	}
	return row, nil
}

// ListSubmissions lists submissions for the dashboard.
func (s *FormService) ListSubmissions(filter repository.FormSubmissionListFilter) ([]models.FormSubmission, int64, error) {
	return s.formRepo.ListSubmissions(filter)
}
