package models

import (
	"time"
)

// OrderItem captures the unit price at the moment the order was placed.
// Later catalog price edits must not change historical orders.
type OrderItem struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	OrderID      uint      `json:"order_id" gorm:"not null;index"`
	ProductID    uint      `json:"product_id" gorm:"not null"`
	ProductName  string    `json:"product_name"`
	Quantity     int       `json:"quantity" gorm:"not null"`
	PricePerUnit int       `json:"price_per_unit" gorm:"not null"` // in cents
	CreatedAt    time.Time `json:"created_at"`
}
