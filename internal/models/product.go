package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	Name              string         `json:"name" gorm:"not null"`
	Description       string         `json:"description" gorm:"type:text"`
	Category          string         `json:"category" gorm:"default:'chemicals'"` // chemicals, labware, consumables, clearance
	ProductType       string         `json:"product_type"`                        // e.g. beaker, pipette_tips, flask
	WeightGrams       *int           `json:"weight_grams"`                        // optional, chemicals only
	PriceCents        int            `json:"price_cents" gorm:"not null"`
	QuantityPerUnit   int            `json:"quantity_per_unit" gorm:"default:1"`
	Unit              string         `json:"unit" gorm:"default:'each'"`
	ImageURL          string         `json:"image_url" gorm:"type:text"`
	InStock           bool           `json:"in_stock" gorm:"default:true"`
	StockQuantity     int            `json:"stock_quantity" gorm:"default:0"`
	LowStockThreshold int            `json:"low_stock_threshold" gorm:"default:10"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type ProductCategory string

const (
	CategoryChemicals   ProductCategory = "chemicals"
	CategoryLabware     ProductCategory = "labware"
	CategoryConsumables ProductCategory = "consumables"
	CategoryClearance   ProductCategory = "clearance"
)

func ValidCategory(category string) bool {
	switch ProductCategory(category) {
	case CategoryChemicals, CategoryLabware, CategoryConsumables, CategoryClearance:
		return true
	}
	return false
}
