package service

import (
	"strings"
	"time"

	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/repository"
)

// PageService manages a tenant's CMS pages.
type PageService struct {
	pageRepo repository.PageRepository
}

// NewPageService creates the page service.
func NewPageService(pageRepo repository.PageRepository) *PageService {
	return &PageService{pageRepo: pageRepo}
}

// List lists pages.
func (s *PageService) List(filter repository.PageListFilter) ([]models.Page, int64, error) {
	return s.pageRepo.List(filter)
}

// Get fetches a page within a tenant.
func (s *PageService) Get(tenantID, id uint) (*models.Page, error) {
	page, err := s.pageRepo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, ErrPageNotFound
	}
	return page, nil
}

// GetBySlug fetches a page by slug, optionally only when published.
func (s *PageService) GetBySlug(tenantID uint, slug string, onlyPublished bool) (*models.Page, error) {
	page, err := s.pageRepo.GetBySlug(tenantID, strings.TrimSpace(slug), onlyPublished)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, ErrPageNotFound
	}
	return page, nil
}

// PageInput is the create/update payload.
type PageInput struct {
	Slug      string
	Title     string
	Body      string
	Status    string
	SortOrder int
}

// Create inserts a page with a tenant-unique slug. Publishing stamps
// published_at.
func (s *PageService) Create(tenantID uint, input PageInput) (*models.Page, error) {
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if slug == "" {
		return nil, ErrSlugTaken
	}
	count, err := s.pageRepo.CountBySlug(tenantID, slug, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	page := &models.Page{
		TenantID:  tenantID,
		Slug:      slug,
		Title:     strings.TrimSpace(input.Title),
		Body:      input.Body,
		Status:    normalizePageStatus(input.Status),
		SortOrder: input.SortOrder,
	}
	if page.Status == constants.PageStatusPublished {
		now := time.Now()
		page.PublishedAt = &now
	}
	if err := s.pageRepo.Create(page); err != nil {
		return nil, err
	}
	return page, nil
}

// Update edits a page. published_at is stamped on the draft-to-published
// edge and kept on republish.
func (s *PageService) Update(tenantID, id uint, input PageInput) (*models.Page, error) {
	page, err := s.Get(tenantID, id)
	if err != nil {
		return nil, err
	}

	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if slug != "" && slug != page.Slug {
		count, err := s.pageRepo.CountBySlug(tenantID, slug, &page.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrSlugTaken
		}
		page.Slug = slug
	}

	page.Title = strings.TrimSpace(input.Title)
	page.Body = input.Body
	page.SortOrder = input.SortOrder

	status := normalizePageStatus(input.Status)
	if status == constants.PageStatusPublished && page.PublishedAt == nil {
		now := time.Now()
		page.PublishedAt = &now
	}
	page.Status = status

	if err := s.pageRepo.Update(page); err != nil {
		return nil, err
	}
	return page, nil
}

// Delete removes a page.
func (s *PageService) Delete(tenantID, id uint) error {
	if _, err := s.Get(tenantID, id); err != nil {
		return err
	}
	return s.pageRepo.Delete(tenantID, id)
}

func normalizePageStatus(raw string) string {
	if strings.ToLower(strings.TrimSpace(raw)) == constants.PageStatusPublished {
		return constants.PageStatusPublished
	}
	return constants.PageStatusDraft
}
