package models

import (
	"time"
)

// InventoryLog records every stock movement for audit.
type InventoryLog struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	ProductID        uint      `json:"product_id" gorm:"not null;index"`
	PreviousQuantity int       `json:"previous_quantity" gorm:"not null"`
	NewQuantity      int       `json:"new_quantity" gorm:"not null"`
	ChangeReason     string    `json:"change_reason"` // order, admin_adjustment
	CreatedAt        time.Time `json:"created_at"`
}
