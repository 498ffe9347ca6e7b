package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"labstore/internal/models"
	"labstore/internal/repository"

	"gorm.io/gorm"
)

// CatalogCache is the slice of the redis client the catalog needs. Tests
// substitute an in-memory implementation.
type CatalogCache interface {
	SetCatalog(products []models.Product, ttl time.Duration) error
	GetCatalog() ([]models.Product, error)
	InvalidateCatalog() error
}

type CatalogService interface {
	ListProducts() ([]models.Product, error)
	GetProduct(id uint) (*models.Product, error)
	CreateProduct(product *models.Product) error
	UpdateProduct(product *models.Product) error
	DeleteProduct(id uint) error
}

type catalogService struct {
	productRepo repository.ProductRepository
	cache       CatalogCache
	cacheTTL    time.Duration
}

func NewCatalogService(productRepo repository.ProductRepository, cache CatalogCache, cacheTTL time.Duration) CatalogService {
	return &catalogService{productRepo: productRepo, cache: cache, cacheTTL: cacheTTL}
}

func (s *catalogService) ListProducts() ([]models.Product, error) {
	if s.cache != nil {
		if products, err := s.cache.GetCatalog(); err == nil {
			return products, nil
		}
	}

	products, err := s.productRepo.GetAll()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetCatalog(products, s.cacheTTL); err != nil {
			log.Printf("Failed to cache catalog: %v", err)
		}
	}

	return products, nil
}

func (s *catalogService) GetProduct(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogService) CreateProduct(product *models.Product) error {
	if product.Name == "" {
		return fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if product.PriceCents < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if product.Category != "" && !models.ValidCategory(product.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, product.Category)
	}
	if err := s.productRepo.Create(product); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *catalogService) UpdateProduct(product *models.Product) error {
	if product.Category != "" && !models.ValidCategory(product.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, product.Category)
	}
	if _, err := s.productRepo.GetByID(product.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, product.ID)
		}
		return err
	}
	if err := s.productRepo.Update(product); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *catalogService) DeleteProduct(id uint) error {
	if _, err := s.productRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return err
	}
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *catalogService) invalidate() {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCatalog(); err != nil {
		log.Printf("Failed to invalidate catalog cache: %v", err)
	}
}
