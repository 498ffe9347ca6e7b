package repository

import (
	"labstore/internal/models"

	"gorm.io/gorm"
)

type InventoryLogRepository interface {
	Create(entry *models.InventoryLog) error
	GetByProductID(productID uint) ([]models.InventoryLog, error)
}

type inventoryLogRepository struct {
	db *gorm.DB
}

func NewInventoryLogRepository(db *gorm.DB) InventoryLogRepository {
	return &inventoryLogRepository{db: db}
}

func (r *inventoryLogRepository) Create(entry *models.InventoryLog) error {
	return r.db.Create(entry).Error
}

func (r *inventoryLogRepository) GetByProductID(productID uint) ([]models.InventoryLog, error) {
	var logs []models.InventoryLog
	err := r.db.Where("product_id = ?", productID).Order("created_at DESC").Find(&logs).Error
	return logs, err
}
