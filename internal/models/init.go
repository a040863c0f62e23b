package models

import (
	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultLandlord creates the platform landlord account on first boot.
func InitDefaultLandlord(email, password string) error {
	var count int64
	DB.Model(&Staff{}).Where("tenant_id = ?", constants.LandlordTenantID).Count(&count)
	if count > 0 {
		return nil
	}

	if email == "" {
		email = "landlord@storeflow.local"
	}
	if password == "" {
		password = "landlord123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	landlord := Staff{
		TenantID:     constants.LandlordTenantID,
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  "Landlord",
		Role:         constants.StaffRoleLandlord,
		Status:       constants.AccountStatusActive,
	}

	if err := DB.Create(&landlord).Error; err != nil {
		return err
	}

	if password == "landlord123" {
		logger.Warnw("default_landlord_created_with_default_password", "email", email)
		logger.Warnw("default_landlord_password_change_required", "email", email)
	} else {
		logger.Warnw("default_landlord_created", "email", email, "password_hidden", true)
	}

	return nil
}
