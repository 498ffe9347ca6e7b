package services

import (
	"errors"
	"fmt"
	"log"

	"labstore/internal/models"
	"labstore/internal/repository"

	"gorm.io/gorm"
)

type InventoryService interface {
	// DecrementStock atomically reduces stock, clamped at zero, and fires a
	// one-time low-stock alert when the quantity crosses the threshold.
	DecrementStock(productID uint, quantity int) error
	UpdateStock(productID uint, quantity int) error
	UpdateThreshold(productID uint, threshold int) error
	GetLowStockProducts() ([]models.Product, error)
	GetStockHistory(productID uint) ([]models.InventoryLog, error)
}

type inventoryService struct {
	productRepo repository.ProductRepository
	logRepo     repository.InventoryLogRepository
	mailer      MailerService
	cache       CatalogCache
}

func NewInventoryService(
	productRepo repository.ProductRepository,
	logRepo repository.InventoryLogRepository,
	mailer MailerService,
	cache CatalogCache,
) InventoryService {
	return &inventoryService{productRepo: productRepo, logRepo: logRepo, mailer: mailer, cache: cache}
}

func (s *inventoryService) DecrementStock(productID uint, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	// The preceding read only gates the alert; the authoritative decrement
	// is a single conditional UPDATE.
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return err
	}

	if err := s.productRepo.DecrementStock(productID, quantity); err != nil {
		return err
	}

	newStock := product.StockQuantity - quantity
	if newStock < 0 {
		newStock = 0
	}

	if err := s.logRepo.Create(&models.InventoryLog{
		ProductID:        productID,
		PreviousQuantity: product.StockQuantity,
		NewQuantity:      newStock,
		ChangeReason:     "order",
	}); err != nil {
		log.Printf("Failed to record inventory log for product %d: %v", productID, err)
	}

	if product.StockQuantity > product.LowStockThreshold && newStock <= product.LowStockThreshold {
		if err := s.mailer.SendLowStockAlert(product, newStock); err != nil {
			log.Printf("Failed to send low stock alert for product %d: %v", productID, err)
		}
	}

	s.invalidate()
	return nil
}

func (s *inventoryService) UpdateStock(productID uint, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrValidation)
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return err
	}

	if err := s.productRepo.UpdateStock(productID, quantity); err != nil {
		return err
	}

	if err := s.logRepo.Create(&models.InventoryLog{
		ProductID:        productID,
		PreviousQuantity: product.StockQuantity,
		NewQuantity:      quantity,
		ChangeReason:     "admin_adjustment",
	}); err != nil {
		log.Printf("Failed to record inventory log for product %d: %v", productID, err)
	}

	s.invalidate()
	return nil
}

func (s *inventoryService) UpdateThreshold(productID uint, threshold int) error {
	if threshold < 0 {
		return fmt.Errorf("%w: threshold must not be negative", ErrValidation)
	}
	if _, err := s.productRepo.GetByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return err
	}
	return s.productRepo.UpdateThreshold(productID, threshold)
}

func (s *inventoryService) GetLowStockProducts() ([]models.Product, error) {
	return s.productRepo.GetLowStock()
}

func (s *inventoryService) GetStockHistory(productID uint) ([]models.InventoryLog, error) {
	return s.logRepo.GetByProductID(productID)
}

func (s *inventoryService) invalidate() {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCatalog(); err != nil {
		log.Printf("Failed to invalidate catalog cache: %v", err)
	}
}
