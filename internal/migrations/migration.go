package migrations

import (
	"fmt"
	"log"

	"labstore/internal/models"

	"gorm.io/gorm"
)

// SeedDefaultData inserts the default shipping rates and starter catalog on
// first boot. Existing rows are never touched.
func SeedDefaultData(db *gorm.DB) error {
	if err := seedShippingRates(db); err != nil {
		return err
	}
	return seedProducts(db)
}

func seedShippingRates(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ShippingRate{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("Seeding default shipping rates...")
	rates := []models.ShippingRate{
		{Carrier: "USPS", ServiceName: "First Class Mail", BaseRate: 500, Active: true},
		{Carrier: "USPS", ServiceName: "Priority Mail", BaseRate: 900, Active: true},
		{Carrier: "USPS", ServiceName: "Priority Mail Express", BaseRate: 2500, Active: true},
		{Carrier: "UPS", ServiceName: "UPS Ground", BaseRate: 1200, Active: true},
		{Carrier: "UPS", ServiceName: "UPS 3 Day Select", BaseRate: 1800, Active: true},
		{Carrier: "UPS", ServiceName: "UPS 2nd Day Air", BaseRate: 2800, Active: true},
		{Carrier: "UPS", ServiceName: "UPS Next Day Air", BaseRate: 4500, Active: true},
	}
	return db.Create(&rates).Error
}

func seedProducts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("Seeding starter catalog...")
	weights := []struct {
		grams int
		price int
	}{
		{1, 6000},
		{3, 18000},
		{5, 29000},
		{10, 49000},
	}

	products := make([]models.Product, 0, len(weights))
	for _, w := range weights {
		grams := w.grams
		products = append(products, models.Product{
			Name:              formatProductName(grams),
			Category:          string(models.CategoryChemicals),
			WeightGrams:       &grams,
			PriceCents:        w.price,
			StockQuantity:     100,
			LowStockThreshold: 10,
			InStock:           true,
		})
	}
	return db.Create(&products).Error
}

func formatProductName(grams int) string {
	return fmt.Sprintf("SR17018 %dg", grams)
}
