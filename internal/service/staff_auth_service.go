package service

import (
	"errors"
	"time"

	"github.com/storeflow/storeflow/internal/config"
	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// StaffAuthService authenticates landlord and tenant staff accounts.
type StaffAuthService struct {
	cfg       *config.Config
	staffRepo repository.StaffRepository
}

// NewStaffAuthService creates the staff auth service.
func NewStaffAuthService(cfg *config.Config, staffRepo repository.StaffRepository) *StaffAuthService {
	return &StaffAuthService{
		cfg:       cfg,
		staffRepo: staffRepo,
	}
}

// HashPassword hashes a password with bcrypt.
func (s *StaffAuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a password against its hash.
func (s *StaffAuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePassword checks a password against the configured policy.
func (s *StaffAuthService) ValidatePassword(password string) error {
	if s == nil || s.cfg == nil {
		return nil
	}
	return validatePassword(s.cfg.Security.PasswordPolicy, password)
}

// StaffClaims are the JWT claims carried by staff tokens.
type StaffClaims struct {
	StaffID      uint   `json:"staff_id"`
	TenantID     uint   `json:"tenant_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// IsLandlord reports whether the claims belong to a landlord account.
func (c *StaffClaims) IsLandlord() bool {
	return c != nil && c.TenantID == constants.LandlordTenantID
}

// GenerateJWT issues a signed token for a staff account.
func (s *StaffAuthService) GenerateJWT(staff *models.Staff) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(s.cfg.JWT.ExpireHours) * time.Hour)

	claims := StaffClaims{
		StaffID:      staff.ID,
		TenantID:     staff.TenantID,
		Email:        staff.Email,
		Role:         staff.Role,
		TokenVersion: staff.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ParseJWT parses and validates a staff token.
func (s *StaffAuthService) ParseJWT(tokenString string) (*StaffClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &StaffClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*StaffClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// CheckClaims verifies that a token is still honored by its account.
// Revocation works through the token version and the invalid-before mark.
func (s *StaffAuthService) CheckClaims(claims *StaffClaims) (*models.Staff, error) {
	if claims == nil {
		return nil, ErrInvalidCredentials
	}
	staff, err := s.staffRepo.GetByID(claims.TenantID, claims.StaffID)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, ErrInvalidCredentials
	}
	if staff.Status != constants.AccountStatusActive {
		return nil, ErrAccountDisabled
	}
	if staff.TokenVersion != claims.TokenVersion {
		return nil, ErrInvalidCredentials
	}
	if staff.TokenInvalidBefore != nil && claims.IssuedAt != nil &&
		claims.IssuedAt.Time.Before(*staff.TokenInvalidBefore) {
		return nil, ErrInvalidCredentials
	}
	return staff, nil
}

// Login authenticates a staff account within a tenant scope. The landlord
// logs in with the zero tenant scope.
func (s *StaffAuthService) Login(tenantID uint, email, password string) (*models.Staff, string, time.Time, error) {
	staff, err := s.staffRepo.GetByEmail(tenantID, email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if staff == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if staff.Status != constants.AccountStatusActive {
		return nil, "", time.Time{}, ErrAccountDisabled
	}

	if err := s.VerifyPassword(staff.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(staff)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	staff.LastLoginAt = &now
	if err := s.staffRepo.Update(staff); err != nil {
		return nil, "", time.Time{}, err
	}

	return staff, token, expiresAt, nil
}

// ChangePassword rotates a staff password and revokes outstanding tokens.
func (s *StaffAuthService) ChangePassword(tenantID, staffID uint, oldPassword, newPassword string) error {
	staff, err := s.staffRepo.GetByID(tenantID, staffID)
	if err != nil {
		return err
	}
	if staff == nil {
		return ErrStaffNotFound
	}

	if err := s.VerifyPassword(staff.PasswordHash, oldPassword); err != nil {
		return ErrInvalidPassword
	}

	if err := s.ValidatePassword(newPassword); err != nil {
		return err
	}

	hashedPassword, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}

	now := time.Now()
	staff.PasswordHash = hashedPassword
	staff.TokenVersion++
	staff.TokenInvalidBefore = &now
	return s.staffRepo.Update(staff)
}
