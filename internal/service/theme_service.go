package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/storeflow/storeflow/internal/cache"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/repository"
)

// ThemeService manages the builtin theme catalog and each tenant's
// selection. Resolved storefront payloads are cached in-process.
type ThemeService struct {
	themeRepo    repository.ThemeRepository
	payloadCache *cache.TTLCache
}

// NewThemeService creates the theme service.
func NewThemeService(themeRepo repository.ThemeRepository, payloadCache *cache.TTLCache) *ThemeService {
	return &ThemeService{themeRepo: themeRepo, payloadCache: payloadCache}
}

// ListThemes lists the builtin catalog.
func (s *ThemeService) ListThemes(activeOnly bool) ([]models.Theme, error) {
	return s.themeRepo.ListThemes(activeOnly)
}

// GetTheme fetches one catalog theme.
func (s *ThemeService) GetTheme(id uint) (*models.Theme, error) {
	theme, err := s.themeRepo.GetThemeByID(id)
	if err != nil {
		return nil, err
	}
	if theme == nil {
		return nil, ErrThemeNotFound
	}
	return theme, nil
}

// ThemeInput is the catalog create/update payload.
type ThemeInput struct {
	Code         string
	Name         string
	Template     string
	DefaultsJSON models.JSON
	PreviewImage string
	IsActive     bool
	SortOrder    int
}

// CreateTheme inserts a catalog theme with a unique code.
func (s *ThemeService) CreateTheme(input ThemeInput) (*models.Theme, error) {
	code := strings.ToLower(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, ErrThemeCodeTaken
	}
	existing, err := s.themeRepo.GetThemeByCode(code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrThemeCodeTaken
	}

	theme := &models.Theme{
		Code:         code,
		Name:         strings.TrimSpace(input.Name),
		Template:     strings.TrimSpace(input.Template),
		DefaultsJSON: input.DefaultsJSON,
		PreviewImage: strings.TrimSpace(input.PreviewImage),
		IsActive:     input.IsActive,
		SortOrder:    input.SortOrder,
	}
	if err := s.themeRepo.CreateTheme(theme); err != nil {
		return nil, err
	}
	return theme, nil
}

// UpdateTheme edits a catalog theme. The code is immutable.
func (s *ThemeService) UpdateTheme(id uint, input ThemeInput) (*models.Theme, error) {
	theme, err := s.GetTheme(id)
	if err != nil {
		return nil, err
	}
	theme.Name = strings.TrimSpace(input.Name)
	theme.Template = strings.TrimSpace(input.Template)
	theme.DefaultsJSON = input.DefaultsJSON
	theme.PreviewImage = strings.TrimSpace(input.PreviewImage)
	theme.IsActive = input.IsActive
	theme.SortOrder = input.SortOrder
	if err := s.themeRepo.UpdateTheme(theme); err != nil {
		return nil, err
	}
	s.payloadCache.Purge()
	return theme, nil
}

// DeleteTheme removes a catalog theme.
func (s *ThemeService) DeleteTheme(id uint) error {
	if _, err := s.GetTheme(id); err != nil {
		return err
	}
	if err := s.themeRepo.DeleteTheme(id); err != nil {
		return err
	}
	s.payloadCache.Purge()
	return nil
}

// GetTenantTheme returns the tenant's active selection, or nil when the
// tenant has never picked a theme.
func (s *ThemeService) GetTenantTheme(tenantID uint) (*models.TenantTheme, error) {
	return s.themeRepo.GetActiveTenantTheme(tenantID)
}

// SelectTheme switches the tenant to a catalog theme. Only active catalog
// themes may be selected.
func (s *ThemeService) SelectTheme(tenantID, themeID uint, overrides models.JSON) (*models.TenantTheme, error) {
	theme, err := s.GetTheme(themeID)
	if err != nil {
		return nil, err
	}
	if !theme.IsActive {
		return nil, ErrThemeNotActive
	}
	selection, err := s.themeRepo.SetTenantTheme(tenantID, theme.ID, overrides)
	if err != nil {
		return nil, err
	}
	selection.Theme = theme
	s.payloadCache.Delete(themePayloadCacheKey(tenantID))
	return selection, nil
}

// UpdateOverrides rewrites the tenant's setting overrides.
func (s *ThemeService) UpdateOverrides(tenantID uint, overrides models.JSON) (*models.TenantTheme, error) {
	selection, err := s.themeRepo.UpdateTenantOverrides(tenantID, overrides)
	if err != nil {
		return nil, err
	}
	if selection == nil {
		return nil, ErrThemeNotFound
	}
	s.payloadCache.Delete(themePayloadCacheKey(tenantID))
	return selection, nil
}

// ThemePayload is the resolved theme the storefront renders with.
type ThemePayload struct {
	Code     string      `json:"code"`
	Name     string      `json:"name"`
	Template string      `json:"template"`
	Settings models.JSON `json:"settings"`
	CSSVars  string      `json:"css_vars"`
}

// ResolvePayload merges the theme defaults with the tenant overrides and
// compiles the CSS custom properties. Results are cached briefly so the
// storefront does not hit the DB on every page view.
func (s *ThemeService) ResolvePayload(tenantID uint) (*ThemePayload, error) {
	cacheKey := themePayloadCacheKey(tenantID)
	if cached, ok := s.payloadCache.Get(cacheKey); ok {
		if payload, ok := cached.(*ThemePayload); ok {
			return payload, nil
		}
	}

	selection, err := s.themeRepo.GetActiveTenantTheme(tenantID)
	if err != nil {
		return nil, err
	}

	var theme *models.Theme
	var overrides models.JSON
	if selection != nil && selection.Theme != nil {
		theme = selection.Theme
		overrides = selection.OverridesJSON
	} else {
		// Tenants without a selection render with the first active theme.
		themes, err := s.themeRepo.ListThemes(true)
		if err != nil {
			return nil, err
		}
		if len(themes) == 0 {
			return nil, ErrThemeNotFound
		}
		theme = &themes[0]
	}

	settings := MergeThemeSettings(theme.DefaultsJSON, overrides)
	payload := &ThemePayload{
		Code:     theme.Code,
		Name:     theme.Name,
		Template: theme.Template,
		Settings: settings,
		CSSVars:  CompileThemeCSSVars(settings),
	}
	s.payloadCache.Set(cacheKey, payload)
	return payload, nil
}

func themePayloadCacheKey(tenantID uint) string {
	return fmt.Sprintf("theme:payload:%d", tenantID)
}

// MergeThemeSettings overlays overrides on top of defaults. Nested maps
// merge key by key; any other override value replaces the default.
func MergeThemeSettings(defaults, overrides models.JSON) models.JSON {
	merged := make(models.JSON, len(defaults)+len(overrides))
	for key, value := range defaults {
		merged[key] = value
	}
	for key, value := range overrides {
		base, hasBase := merged[key]
		if !hasBase {
			merged[key] = value
			continue
		}
		baseMap, baseOK := asSettingsMap(base)
		overMap, overOK := asSettingsMap(value)
		if baseOK && overOK {
			merged[key] = MergeThemeSettings(baseMap, overMap)
			continue
		}
		merged[key] = value
	}
	return merged
}

func asSettingsMap(raw interface{}) (models.JSON, bool) {
	switch value := raw.(type) {
	case models.JSON:
		return value, true
	case map[string]interface{}:
		return models.JSON(value), true
	default:
		return nil, false
	}
}

// CompileThemeCSSVars renders the "colors" and "fonts" settings sections
// as CSS custom properties on :root. Keys come out sorted so the output
// is stable.
func CompileThemeCSSVars(settings models.JSON) string {
	declarations := make([]string, 0, 8)
	declarations = append(declarations, collectCSSVars("color", settings["colors"])...)
	declarations = append(declarations, collectCSSVars("font", settings["fonts"])...)
	if len(declarations) == 0 {
		return ""
	}
	sort.Strings(declarations)

	var builder strings.Builder
	builder.WriteString(":root{")
	for _, declaration := range declarations {
		builder.WriteString(declaration)
	}
	builder.WriteString("}")
	return builder.String()
}

func collectCSSVars(prefix string, raw interface{}) []string {
	section, ok := asSettingsMap(raw)
	if !ok {
		return nil
	}
	declarations := make([]string, 0, len(section))
	for key, value := range section {
		text, ok := value.(string)
		if !ok {
			continue
		}
		text = strings.TrimSpace(text)
		key = normalizeCSSVarName(key)
		if text == "" || key == "" {
			continue
		}
		declarations = append(declarations, fmt.Sprintf("--%s-%s:%s;", prefix, key, text))
	}
	return declarations
}

func normalizeCSSVarName(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	var builder strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			builder.WriteRune(r)
		case r == '_' || r == ' ':
			builder.WriteRune('-')
		}
	}
	return strings.Trim(builder.String(), "-")
}

// MergeClassNames joins class lists, dropping blanks and duplicates while
// preserving first-seen order.
func MergeClassNames(classLists ...string) string {
	seen := make(map[string]struct{})
	merged := make([]string, 0, len(classLists))
	for _, list := range classLists {
		for _, class := range strings.Fields(list) {
			if _, exists := seen[class]; exists {
				continue
			}
			seen[class] = struct{}{}
			merged = append(merged, class)
		}
	}
	return strings.Join(merged, " ")
}
