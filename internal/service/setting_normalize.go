package service

import (
	"strings"

	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/models"
)

const (
	settingPlatformNameMaxRuneSize    = 120
	settingPlatformSupportEmailMaxLen = 254
)

// normalizeSettingValueByKey normalizes by setting key so malformed
// values never reach the settings table.
func normalizeSettingValueByKey(key string, value map[string]interface{}) models.JSON {
	switch key {
	case constants.SettingKeyPlatformConfig:
		return normalizePlatformSetting(value)
	default:
		return models.JSON(value)
	}
}

func normalizePlatformSetting(value map[string]interface{}) models.JSON {
	normalized := make(models.JSON, len(value)+2)
	for key, raw := range value {
		normalized[key] = raw
	}

	name := readString(normalized, "platform_name", "")
	if runes := []rune(name); len(runes) > settingPlatformNameMaxRuneSize {
		name = string(runes[:settingPlatformNameMaxRuneSize])
	}
	normalized["platform_name"] = name

	email := readString(normalized, "support_email", "")
	if len(email) > settingPlatformSupportEmailMaxLen {
		email = ""
	}
	normalized["support_email"] = email

	currency := strings.ToUpper(readString(normalized, constants.SettingFieldCurrency, constants.CurrencyDefault))
	if len(currency) != 3 {
		currency = constants.CurrencyDefault
	}
	normalized[constants.SettingFieldCurrency] = currency

	return normalized
}
