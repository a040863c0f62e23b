package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/mail"
	"strings"
	"time"

	"github.com/storeflow/storeflow/internal/cache"
	"github.com/storeflow/storeflow/internal/config"
	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/models"
	"github.com/storeflow/storeflow/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// CustomerAuthService authenticates storefront customers with opaque
// cookie session tokens.
type CustomerAuthService struct {
	cfg            *config.Config
	customerRepo   repository.CustomerRepository
	sessionRepo    repository.SessionRepository
	captchaService *CaptchaService
}

// NewCustomerAuthService creates the customer auth service.
func NewCustomerAuthService(
	cfg *config.Config,
	customerRepo repository.CustomerRepository,
	sessionRepo repository.SessionRepository,
	captchaService *CaptchaService,
) *CustomerAuthService {
	return &CustomerAuthService{
		cfg:            cfg,
		customerRepo:   customerRepo,
		sessionRepo:    sessionRepo,
		captchaService: captchaService,
	}
}

// SessionTTL returns the configured session lifetime.
func (s *CustomerAuthService) SessionTTL() time.Duration {
	hours := s.cfg.CustomerSession.ExpireHours
	if hours <= 0 {
		hours = 168
	}
	return time.Duration(hours) * time.Hour
}

// RegisterInput is the storefront registration payload.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	Captcha     CaptchaVerifyPayload
	ClientIP    string
}

// Register creates a customer account within a tenant.
func (s *CustomerAuthService) Register(tenantID uint, input RegisterInput) (*models.Customer, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	if s.captchaService != nil {
		if err := s.captchaService.Verify(constants.CaptchaSceneCustomerRegister, input.Captcha); err != nil {
			return nil, err
		}
	}

	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}

	count, err := s.customerRepo.CountByEmail(tenantID, email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCustomerExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Status:       constants.AccountStatusActive,
	}
	if err := s.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// LoginInput is the storefront login payload.
type LoginInput struct {
	Email    string
	Password string
	Captcha  CaptchaVerifyPayload
	ClientIP string
}

// Login verifies credentials and opens a session.
func (s *CustomerAuthService) Login(tenantID uint, input LoginInput) (*models.Customer, *models.CustomerSession, error) {
	if s.captchaService != nil {
		if err := s.captchaService.Verify(constants.CaptchaSceneCustomerLogin, input.Captcha); err != nil {
			return nil, nil, err
		}
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	customer, err := s.customerRepo.GetByEmail(tenantID, email)
	if err != nil {
		return nil, nil, err
	}
	if customer == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if customer.Status != constants.AccountStatusActive {
		return nil, nil, ErrAccountDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.openSession(customer)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	customer.LastLoginAt = &now
	if err := s.customerRepo.Update(customer); err != nil {
		return nil, nil, err
	}

	return customer, session, nil
}

// Logout closes a session.
func (s *CustomerAuthService) Logout(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	_ = cache.DelCustomerSessionState(context.Background(), token)
	return s.sessionRepo.DeleteByToken(token)
}

// Authenticate resolves a session token to its customer. Expired sessions
// are removed on sight.
func (s *CustomerAuthService) Authenticate(tenantID uint, token string) (*models.Customer, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrSessionExpired
	}

	now := time.Now()
	ctx := context.Background()

	if state, hit, err := cache.GetCustomerSessionState(ctx, token); err == nil && hit {
		if state.TenantID != tenantID || state.ExpiresAt <= now.Unix() || state.Status != constants.AccountStatusActive {
			return nil, ErrSessionExpired
		}
		customer, err := s.customerRepo.GetByID(state.TenantID, state.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil || customer.Status != constants.AccountStatusActive {
			return nil, ErrSessionExpired
		}
		return customer, nil
	}

	session, err := s.sessionRepo.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if session == nil || session.TenantID != tenantID {
		return nil, ErrSessionExpired
	}
	if session.Expired(now) {
		_ = s.sessionRepo.DeleteByToken(token)
		return nil, ErrSessionExpired
	}

	customer := session.Customer
	if customer == nil {
		customer, err = s.customerRepo.GetByID(session.TenantID, session.CustomerID)
		if err != nil {
			return nil, err
		}
	}
	if customer == nil || customer.Status != constants.AccountStatusActive {
		return nil, ErrSessionExpired
	}

	_ = cache.SetCustomerSessionState(ctx, token, cache.BuildCustomerSessionState(session, customer.Status))
	return customer, nil
}

// ChangePassword rotates a customer password and drops every session.
func (s *CustomerAuthService) ChangePassword(tenantID, customerID uint, oldPassword, newPassword string) error {
	customer, err := s.customerRepo.GetByID(tenantID, customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return ErrCustomerNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidPassword
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	customer.PasswordHash = string(hash)
	if err := s.customerRepo.Update(customer); err != nil {
		return err
	}
	return s.sessionRepo.DeleteByCustomer(tenantID, customerID)
}

// PruneExpiredSessions removes sessions past their deadline.
func (s *CustomerAuthService) PruneExpiredSessions(before time.Time) (int64, error) {
	return s.sessionRepo.DeleteExpired(before)
}

func (s *CustomerAuthService) openSession(customer *models.Customer) (*models.CustomerSession, error) {
	token, err := generateSessionToken()
	if err != nil {
		return nil, err
	}
	session := &models.CustomerSession{
		TenantID:   customer.TenantID,
		CustomerID: customer.ID,
		Token:      token,
		ExpiresAt:  time.Now().Add(s.SessionTTL()),
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	_ = cache.SetCustomerSessionState(context.Background(), token, cache.BuildCustomerSessionState(session, customer.Status))
	return session, nil
}

func generateSessionToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
