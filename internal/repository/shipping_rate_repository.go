package repository

import (
	"labstore/internal/models"

	"gorm.io/gorm"
)

type ShippingRateRepository interface {
	Create(rate *models.ShippingRate) error
	GetByID(id uint) (*models.ShippingRate, error)
	GetActive() ([]models.ShippingRate, error)
	Update(rate *models.ShippingRate) error
	Count() (int64, error)
}

type shippingRateRepository struct {
	db *gorm.DB
}

func NewShippingRateRepository(db *gorm.DB) ShippingRateRepository {
	return &shippingRateRepository{db: db}
}

func (r *shippingRateRepository) Create(rate *models.ShippingRate) error {
	return r.db.Create(rate).Error
}

func (r *shippingRateRepository) GetByID(id uint) (*models.ShippingRate, error) {
	var rate models.ShippingRate
	err := r.db.First(&rate, id).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *shippingRateRepository) GetActive() ([]models.ShippingRate, error) {
	var rates []models.ShippingRate
	err := r.db.Where("active = ?", true).Find(&rates).Error
	return rates, err
}

func (r *shippingRateRepository) Update(rate *models.ShippingRate) error {
	return r.db.Save(rate).Error
}

func (r *shippingRateRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.ShippingRate{}).Count(&count).Error
	return count, err
}
