package repository

import (
	"labstore/internal/models"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id uint) (*models.Product, error)
	GetByIDs(ids []uint) ([]models.Product, error)
	GetAll() ([]models.Product, error)
	Update(product *models.Product) error
	Delete(id uint) error
	UpdateStock(productID uint, quantity int) error
	UpdateThreshold(productID uint, threshold int) error
	DecrementStock(productID uint, quantity int) error
	GetLowStock() ([]models.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *models.Product) error {
	product.InStock = product.StockQuantity > 0
	return r.db.Create(product).Error
}

func (r *productRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetByIDs(ids []uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Find(&products).Error
	return products, err
}

func (r *productRepository) Update(product *models.Product) error {
	product.InStock = product.StockQuantity > 0
	return r.db.Save(product).Error
}

func (r *productRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

func (r *productRepository) UpdateStock(productID uint, quantity int) error {
	return r.db.Model(&models.Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
		"stock_quantity": quantity,
		"in_stock":       quantity > 0,
	}).Error
}

func (r *productRepository) UpdateThreshold(productID uint, threshold int) error {
	return r.db.Model(&models.Product{}).Where("id = ?", productID).
		Update("low_stock_threshold", threshold).Error
}

// DecrementStock reduces stock clamped at zero and recomputes in_stock in a
// single conditional UPDATE, so concurrent decrements cannot lose updates.
func (r *productRepository) DecrementStock(productID uint, quantity int) error {
	return decrementStock(r.db, productID, quantity)
}

func decrementStock(db *gorm.DB, productID uint, quantity int) error {
	return db.Model(&models.Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
		"stock_quantity": gorm.Expr("GREATEST(stock_quantity - ?, 0)", quantity),
		"in_stock":       gorm.Expr("stock_quantity - ? > 0", quantity),
	}).Error
}

func (r *productRepository) GetLowStock() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("stock_quantity <= low_stock_threshold").
		Order("stock_quantity").Find(&products).Error
	return products, err
}
