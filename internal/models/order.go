package models

import (
	"time"

	"gorm.io/gorm"
)

type Order struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	OrderNumber     string         `json:"order_number" gorm:"unique;not null"`
	CustomerName    string         `json:"customer_name" gorm:"not null"`
	CustomerEmail   string         `json:"customer_email" gorm:"not null"`
	CustomerPhone   string         `json:"customer_phone"`
	ShippingAddress string         `json:"shipping_address" gorm:"type:text"`
	ShippingCity    string         `json:"shipping_city"`
	ShippingState   string         `json:"shipping_state"`
	ShippingZip     string         `json:"shipping_zip"`
	ShippingCountry string         `json:"shipping_country"`
	ShippingCarrier string         `json:"shipping_carrier"`
	ShippingService string         `json:"shipping_service"`
	Status          string         `json:"status" gorm:"default:'pending'"`         // pending, processing, shipped, delivered, cancelled
	PaymentStatus   string         `json:"payment_status" gorm:"default:'pending'"` // pending, completed, failed
	PaymentMethod   string         `json:"payment_method"`                          // square, btc
	TrackingNumber  string         `json:"tracking_number"`
	Subtotal        int            `json:"subtotal" gorm:"not null"`      // in cents
	ShippingCost    int            `json:"shipping_cost" gorm:"not null"` // in cents
	Total           int            `json:"total" gorm:"not null"`         // in cents
	CustomerNotes   string         `json:"customer_notes" gorm:"type:text"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

func ValidOrderStatus(status string) bool {
	switch OrderStatus(status) {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

func ValidPaymentStatus(status string) bool {
	switch PaymentStatus(status) {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodSquare  PaymentMethod = "square"
	PaymentMethodBitcoin PaymentMethod = "btc"
)
