package repository

import (
	"time"

	"labstore/internal/models"

	"gorm.io/gorm"
)

type OrderFilters struct {
	Status        string
	PaymentStatus string
	StartDate     *time.Time
	EndDate       *time.Time
}

type OrderRepository interface {
	// CreateWithItems persists the order, its items and the matching stock
	// decrements in one transaction. A crash can never leave an order
	// without its stock adjustment.
	CreateWithItems(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNumber(orderNumber string) (*models.Order, error)
	GetItems(orderID uint) ([]models.OrderItem, error)
	GetAll() ([]models.Order, error)
	Filter(filters OrderFilters) ([]models.Order, error)
	UpdateStatus(orderID uint, status string, trackingNumber string) error
	UpdatePaymentStatus(orderID uint, paymentStatus string) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateWithItems(order *models.Order, items []models.OrderItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		for _, item := range items {
			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				return err
			}
			if err := decrementStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			newQuantity := product.StockQuantity - item.Quantity
			if newQuantity < 0 {
				newQuantity = 0
			}
			logEntry := models.InventoryLog{
				ProductID:        item.ProductID,
				PreviousQuantity: product.StockQuantity,
				NewQuantity:      newQuantity,
				ChangeReason:     "order",
			}
			if err := tx.Create(&logEntry).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetItems(orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.Where("order_id = ?", orderID).Find(&items).Error
	return items, err
}

func (r *orderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Filter(filters OrderFilters) ([]models.Order, error) {
	query := r.db.Model(&models.Order{})

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filters.PaymentStatus)
	}
	if filters.StartDate != nil {
		query = query.Where("created_at >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		// Include the entire end date
		endOfDay := filters.EndDate.AddDate(0, 0, 1).Add(-time.Nanosecond)
		query = query.Where("created_at <= ?", endOfDay)
	}

	var orders []models.Order
	err := query.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) UpdateStatus(orderID uint, status string, trackingNumber string) error {
	updates := map[string]interface{}{"status": status}
	if trackingNumber != "" {
		updates["tracking_number"] = trackingNumber
	}
	return r.db.Model(&models.Order{}).Where("id = ?", orderID).Updates(updates).Error
}

func (r *orderRepository) UpdatePaymentStatus(orderID uint, paymentStatus string) error {
	return r.db.Model(&models.Order{}).Where("id = ?", orderID).
		Update("payment_status", paymentStatus).Error
}
