package service

import (
	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/repository"
)

// SettingService stores landlord-level platform settings as JSON rows.
type SettingService struct {
	repo repository.SettingRepository
}

// NewSettingService creates the setting service.
func NewSettingService(repo repository.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

// GetByKey fetches a setting value, nil when unset.
func (s *SettingService) GetByKey(key string) (models.JSON, error) {
	setting, err := s.repo.GetByKey(key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, nil
	}
	return setting.ValueJSON, nil
}

// Update writes a setting value after key-specific normalization.
func (s *SettingService) Update(key string, value map[string]interface{}) (models.JSON, error) {
	normalized := normalizeSettingValueByKey(key, value)
	setting, err := s.repo.Upsert(key, normalized)
	if err != nil {
		return nil, err
	}
	return setting.ValueJSON, nil
}

// GetPlatformConfig returns the platform settings merged over defaults.
func (s *SettingService) GetPlatformConfig(defaults map[string]interface{}) (map[string]interface{}, error) {
	data := make(map[string]interface{}, len(defaults))
	for k, v := range defaults {
		data[k] = v
	}

	stored, err := s.GetByKey(constants.SettingKeyPlatformConfig)
	if err != nil {
		return nil, err
	}
	for k, v := range stored {
		data[k] = v
	}
	return data, nil
}

// GetPlatformCurrency reads the platform default currency.
func (s *SettingService) GetPlatformCurrency() (string, error) {
	value, err := s.GetByKey(constants.SettingKeyPlatformConfig)
	if err != nil {
		return constants.CurrencyDefault, err
	}
	if value == nil {
		return constants.CurrencyDefault, nil
	}
	currency := readString(value, constants.SettingFieldCurrency, constants.CurrencyDefault)
	if currency == "" {
		return constants.CurrencyDefault, nil
	}
	return currency, nil
}
