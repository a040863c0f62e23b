package repository

import (
	"errors"
	"time"

	"github.com/storeflow/storeflow/internal/models"

	"gorm.io/gorm"
)

// SessionRepository is the customer session data access interface.
type SessionRepository interface {
	GetByToken(token string) (*models.CustomerSession, error)
	Create(session *models.CustomerSession) error
	DeleteByToken(token string) error
	DeleteExpired(before time.Time) (int64, error)
	DeleteByCustomer(tenantID, customerID uint) error
}

// GormSessionRepository is the GORM implementation.
type GormSessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates the session repository.
func NewSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// GetByToken fetches a session with its customer by token.
func (r *GormSessionRepository) GetByToken(token string) (*models.CustomerSession, error) {
	var session models.CustomerSession
	if err := r.db.Preload("Customer").Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// Create inserts a session.
func (r *GormSessionRepository) Create(session *models.CustomerSession) error {
	return r.db.Create(session).Error
}

// DeleteByToken removes a session row.
func (r *GormSessionRepository) DeleteByToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&models.CustomerSession{}).Error
}

// DeleteExpired removes sessions past their expiry.
func (r *GormSessionRepository) DeleteExpired(before time.Time) (int64, error) {
	result := r.db.Where("expires_at < ?", before).Delete(&models.CustomerSession{})
	return result.RowsAffected, result.Error
}

// DeleteByCustomer removes all sessions of a customer.
func (r *GormSessionRepository) DeleteByCustomer(tenantID, customerID uint) error {
	return r.db.Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		Delete(&models.CustomerSession{}).Error
}
