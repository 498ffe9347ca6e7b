package repository

import (
	"time"

	"labstore/internal/models"

	"gorm.io/gorm"
)

type AbandonedCartRepository interface {
	// Upsert keeps at most one unconverted cart per customer email.
	Upsert(cart *models.AbandonedCart) error
	GetOpenByEmail(email string) (*models.AbandonedCart, error)
	GetForRecovery(olderThan time.Time) ([]models.AbandonedCart, error)
	MarkRecoverySent(cartID uint) error
	MarkConverted(email string, orderNumber string) error
}

type abandonedCartRepository struct {
	db *gorm.DB
}

func NewAbandonedCartRepository(db *gorm.DB) AbandonedCartRepository {
	return &abandonedCartRepository{db: db}
}

func (r *abandonedCartRepository) Upsert(cart *models.AbandonedCart) error {
	var existing models.AbandonedCart
	err := r.db.Where("customer_email = ? AND converted = ?", cart.CustomerEmail, false).
		First(&existing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return r.db.Create(cart).Error
		}
		return err
	}

	return r.db.Model(&existing).Updates(map[string]interface{}{
		"customer_name": cart.CustomerName,
		"cart_data":     cart.CartData,
		"total_cents":   cart.TotalCents,
	}).Error
}

func (r *abandonedCartRepository) GetOpenByEmail(email string) (*models.AbandonedCart, error) {
	var cart models.AbandonedCart
	err := r.db.Where("customer_email = ? AND converted = ?", email, false).
		Order("created_at DESC").First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *abandonedCartRepository) GetForRecovery(olderThan time.Time) ([]models.AbandonedCart, error) {
	var carts []models.AbandonedCart
	err := r.db.Where("recovery_email_sent = ? AND converted = ? AND created_at < ?",
		false, false, olderThan).Find(&carts).Error
	return carts, err
}

func (r *abandonedCartRepository) MarkRecoverySent(cartID uint) error {
	now := time.Now()
	return r.db.Model(&models.AbandonedCart{}).Where("id = ?", cartID).Updates(map[string]interface{}{
		"recovery_email_sent":    true,
		"recovery_email_sent_at": now,
	}).Error
}

func (r *abandonedCartRepository) MarkConverted(email string, orderNumber string) error {
	return r.db.Model(&models.AbandonedCart{}).
		Where("customer_email = ? AND converted = ?", email, false).
		Updates(map[string]interface{}{
			"converted":              true,
			"converted_order_number": orderNumber,
		}).Error
}
