package repository

import (
	"store_manager/internal/models"

	"gorm.io/gorm"
)

type SettingsRepository interface {
	// GetPaymentSettings returns the single global settings row, creating it
	// with defaults on first access.
	GetPaymentSettings() (*models.PaymentSettings, error)
	UpdatePaymentSettings(settings *models.PaymentSettings) error
	ListPaymentMethods(activeOnly bool) ([]models.PaymentMethod, error)
	GetPaymentMethodByID(id uint) (*models.PaymentMethod, error)
	CreatePaymentMethod(method *models.PaymentMethod) error
	UpdatePaymentMethod(method *models.PaymentMethod) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetPaymentSettings() (*models.PaymentSettings, error) {
	settings := models.PaymentSettings{ID: models.PaymentSettingsID}
	err := r.db.FirstOrCreate(&settings, models.PaymentSettings{ID: models.PaymentSettingsID}).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) UpdatePaymentSettings(settings *models.PaymentSettings) error {
	settings.ID = models.PaymentSettingsID
	return r.db.Save(settings).Error
}

func (r *settingsRepository) ListPaymentMethods(activeOnly bool) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	query := r.db
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&methods).Error
	return methods, err
}

func (r *settingsRepository) GetPaymentMethodByID(id uint) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	err := r.db.First(&method, id).Error
	if err != nil {
		return nil, err
	}
	return &method, nil
}

func (r *settingsRepository) CreatePaymentMethod(method *models.PaymentMethod) error {
	return r.db.Create(method).Error
}

func (r *settingsRepository) UpdatePaymentMethod(method *models.PaymentMethod) error {
	return r.db.Save(method).Error
}
