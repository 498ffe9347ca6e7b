package models

import (
	"time"
)

// AbandonedCart tracks a checkout that captured contact details but never
// completed. At most one unconverted cart exists per customer email.
type AbandonedCart struct {
	ID                   uint       `json:"id" gorm:"primaryKey"`
	CustomerEmail        string     `json:"customer_email" gorm:"not null;index"`
	CustomerName         string     `json:"customer_name"`
	CartData             string     `json:"cart_data" gorm:"type:text"` // JSON-encoded cart items
	TotalCents           int        `json:"total_cents"`
	RecoveryToken        string     `json:"recovery_token" gorm:"unique"`
	RecoveryEmailSent    bool       `json:"recovery_email_sent" gorm:"default:false"`
	RecoveryEmailSentAt  *time.Time `json:"recovery_email_sent_at"`
	Converted            bool       `json:"converted" gorm:"default:false"`
	ConvertedOrderNumber string     `json:"converted_order_number"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// CartItem is the shape serialized into AbandonedCart.CartData.
type CartItem struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	PriceCents  int    `json:"price_cents"`
}
