package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"

	"labstore/internal/models"
	"labstore/internal/repository"

	"gorm.io/gorm"
)

// Free-shipping promotion: carts holding a promoted weight ship free on the
// expedited UPS service only.
var promotedWeights = map[int]bool{3: true, 5: true, 10: true}

const (
	promoCarrier = "UPS"
	promoService = "UPS 2nd Day Air"
)

type OrderItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type PlaceOrderInput struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
	ShippingCity    string
	ShippingState   string
	ShippingZip     string
	ShippingCountry string
	ShippingRateID  uint
	PaymentMethod   string
	CustomerNotes   string
	Items           []OrderItemInput
}

type OrderService interface {
	PlaceOrder(input PlaceOrderInput) (*models.Order, []models.OrderItem, error)
	GetByOrderNumber(orderNumber string) (*models.Order, []models.OrderItem, error)
	GetAllOrders() ([]models.Order, error)
	FilterOrders(filters repository.OrderFilters) ([]models.Order, error)
	UpdateStatus(orderID uint, status string, trackingNumber string) error
	UpdatePaymentStatus(orderID uint, paymentStatus string) error
}

type orderService struct {
	orderRepo      repository.OrderRepository
	productRepo    repository.ProductRepository
	shippingRepo   repository.ShippingRateRepository
	cartRepo       repository.AbandonedCartRepository
	mailer         MailerService
	cache          CatalogCache
	bitcoinAddress string
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	shippingRepo repository.ShippingRateRepository,
	cartRepo repository.AbandonedCartRepository,
	mailer MailerService,
	cache CatalogCache,
	bitcoinAddress string,
) OrderService {
	return &orderService{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		shippingRepo:   shippingRepo,
		cartRepo:       cartRepo,
		mailer:         mailer,
		cache:          cache,
		bitcoinAddress: bitcoinAddress,
	}
}

func (s *orderService) PlaceOrder(input PlaceOrderInput) (*models.Order, []models.OrderItem, error) {
	if len(input.Items) == 0 {
		return nil, nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
		}
	}
	if input.CustomerName == "" || input.CustomerEmail == "" {
		return nil, nil, fmt.Errorf("%w: customer name and email are required", ErrValidation)
	}
	method := models.PaymentMethod(input.PaymentMethod)
	if method != models.PaymentMethodSquare && method != models.PaymentMethodBitcoin {
		return nil, nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, input.PaymentMethod)
	}

	rate, err := s.shippingRepo.GetByID(input.ShippingRateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: shipping rate", ErrNotFound)
		}
		return nil, nil, err
	}
	if !rate.Active {
		return nil, nil, fmt.Errorf("%w: shipping rate is not available", ErrValidation)
	}

	productIDs := make([]uint, 0, len(input.Items))
	for _, item := range input.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	productList, err := s.productRepo.GetByIDs(productIDs)
	if err != nil {
		return nil, nil, err
	}
	productsByID := make(map[uint]models.Product, len(productList))
	for _, p := range productList {
		productsByID[p.ID] = p
	}

	// Prices are copied at the moment of placement so later catalog edits
	// never alter historical orders.
	subtotal := 0
	items := make([]models.OrderItem, 0, len(input.Items))
	qualifiesForPromo := false
	for _, item := range input.Items {
		product, ok := productsByID[item.ProductID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: product %d", ErrNotFound, item.ProductID)
		}
		subtotal += product.PriceCents * item.Quantity
		items = append(items, models.OrderItem{
			ProductID:    product.ID,
			ProductName:  product.Name,
			Quantity:     item.Quantity,
			PricePerUnit: product.PriceCents,
		})
		if product.WeightGrams != nil && promotedWeights[*product.WeightGrams] {
			qualifiesForPromo = true
		}
	}

	shippingCost := rate.BaseRate
	if qualifiesForPromo && rate.Carrier == promoCarrier && rate.ServiceName == promoService {
		shippingCost = 0
	}

	order := &models.Order{
		OrderNumber:     generateOrderNumber(),
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		ShippingAddress: input.ShippingAddress,
		ShippingCity:    input.ShippingCity,
		ShippingState:   input.ShippingState,
		ShippingZip:     input.ShippingZip,
		ShippingCountry: input.ShippingCountry,
		ShippingCarrier: rate.Carrier,
		ShippingService: rate.ServiceName,
		Status:          string(models.OrderPending),
		PaymentStatus:   string(models.PaymentPending),
		PaymentMethod:   input.PaymentMethod,
		Subtotal:        subtotal,
		ShippingCost:    shippingCost,
		Total:           subtotal + shippingCost,
		CustomerNotes:   input.CustomerNotes,
	}

	err = s.orderRepo.CreateWithItems(order, items)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// High-entropy suffix makes collisions vanishingly rare; one retry
		// with a fresh number covers it.
		order.OrderNumber = generateOrderNumber()
		err = s.orderRepo.CreateWithItems(order, items)
	}
	if err != nil {
		return nil, nil, err
	}

	s.afterPlacement(order, items, productsByID, input.Items)

	return order, items, nil
}

// afterPlacement handles the best-effort side effects of a committed order:
// low-stock alerts, cart conversion, confirmation email, cache invalidation.
// None of these may fail the placement.
func (s *orderService) afterPlacement(order *models.Order, items []models.OrderItem, productsBefore map[uint]models.Product, inputs []OrderItemInput) {
	for _, item := range inputs {
		product := productsBefore[item.ProductID]
		newStock := product.StockQuantity - item.Quantity
		if newStock < 0 {
			newStock = 0
		}
		if product.StockQuantity > product.LowStockThreshold && newStock <= product.LowStockThreshold {
			if err := s.mailer.SendLowStockAlert(&product, newStock); err != nil {
				log.Printf("Failed to send low stock alert for product %d: %v", product.ID, err)
			}
		}
	}

	if err := s.cartRepo.MarkConverted(order.CustomerEmail, order.OrderNumber); err != nil {
		log.Printf("Failed to mark abandoned cart converted for %s: %v", order.CustomerEmail, err)
	}

	if err := s.mailer.SendOrderConfirmation(order, items, s.bitcoinAddress); err != nil {
		log.Printf("Failed to send order confirmation for %s: %v", order.OrderNumber, err)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateCatalog(); err != nil {
			log.Printf("Failed to invalidate catalog cache: %v", err)
		}
	}
}

func (s *orderService) GetByOrderNumber(orderNumber string) (*models.Order, []models.OrderItem, error) {
	order, err := s.orderRepo.GetByOrderNumber(orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: order %s", ErrNotFound, orderNumber)
		}
		return nil, nil, err
	}
	items, err := s.orderRepo.GetItems(order.ID)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

func (s *orderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

func (s *orderService) FilterOrders(filters repository.OrderFilters) ([]models.Order, error) {
	if filters.Status != "" && !models.ValidOrderStatus(filters.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, filters.Status)
	}
	if filters.PaymentStatus != "" && !models.ValidPaymentStatus(filters.PaymentStatus) {
		return nil, fmt.Errorf("%w: unknown payment status %q", ErrValidation, filters.PaymentStatus)
	}
	return s.orderRepo.Filter(filters)
}

func (s *orderService) UpdateStatus(orderID uint, status string, trackingNumber string) error {
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	if _, err := s.orderRepo.GetByID(orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return err
	}
	return s.orderRepo.UpdateStatus(orderID, status, trackingNumber)
}

func (s *orderService) UpdatePaymentStatus(orderID uint, paymentStatus string) error {
	if !models.ValidPaymentStatus(paymentStatus) {
		return fmt.Errorf("%w: unknown payment status %q", ErrValidation, paymentStatus)
	}
	if _, err := s.orderRepo.GetByID(orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return err
	}
	return s.orderRepo.UpdatePaymentStatus(orderID, paymentStatus)
}

const orderNumberAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// generateOrderNumber returns a human-legible identifier like SRK7M2XQ4BNP.
func generateOrderNumber() string {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	for i, b := range buf {
		buf[i] = orderNumberAlphabet[int(b)%len(orderNumberAlphabet)]
	}
	return "SR" + string(buf)
}
