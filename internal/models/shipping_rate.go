package models

import (
	"time"
)

type ShippingRate struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Carrier     string    `json:"carrier" gorm:"not null"`
	ServiceName string    `json:"service_name" gorm:"not null"`
	BaseRate    int       `json:"base_rate" gorm:"not null"` // in cents
	Active      bool      `json:"active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
