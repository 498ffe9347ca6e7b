package services

import (
	"errors"
	"time"

	"labstore/internal/models"
	"labstore/internal/repository"
	"labstore/pkg/square"

	"gorm.io/gorm"
)

// In-memory repository fakes backing the service tests. They mirror the
// behavior of the gorm implementations closely enough for the service layer.

type fakeProductRepo struct {
	products map[uint]*models.Product
	nextID   uint
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uint]*models.Product), nextID: 1}
}

func (r *fakeProductRepo) Create(product *models.Product) error {
	product.ID = r.nextID
	r.nextID++
	product.InStock = product.StockQuantity > 0
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *fakeProductRepo) GetByID(id uint) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProductRepo) GetByIDs(ids []uint) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetAll() ([]models.Product, error) {
	var out []models.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProductRepo) Update(product *models.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	product.InStock = product.StockQuantity > 0
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *fakeProductRepo) Delete(id uint) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) UpdateStock(productID uint, quantity int) error {
	p, ok := r.products[productID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockQuantity = quantity
	p.InStock = quantity > 0
	return nil
}

func (r *fakeProductRepo) UpdateThreshold(productID uint, threshold int) error {
	p, ok := r.products[productID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.LowStockThreshold = threshold
	return nil
}

func (r *fakeProductRepo) DecrementStock(productID uint, quantity int) error {
	p, ok := r.products[productID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockQuantity -= quantity
	if p.StockQuantity < 0 {
		p.StockQuantity = 0
	}
	p.InStock = p.StockQuantity > 0
	return nil
}

func (r *fakeProductRepo) GetLowStock() ([]models.Product, error) {
	var out []models.Product
	for _, p := range r.products {
		if p.StockQuantity <= p.LowStockThreshold {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeOrderRepo struct {
	orders map[uint]*models.Order
	items  map[uint][]models.OrderItem
	nextID uint

	// Decrements stock the way the transactional implementation does.
	products *fakeProductRepo

	// When set, the next CreateWithItems call fails as a unique violation.
	failDuplicateOnce bool
	attemptedNumbers  []string
}

func newFakeOrderRepo(products *fakeProductRepo) *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:   make(map[uint]*models.Order),
		items:    make(map[uint][]models.OrderItem),
		nextID:   1,
		products: products,
	}
}

func (r *fakeOrderRepo) CreateWithItems(order *models.Order, items []models.OrderItem) error {
	r.attemptedNumbers = append(r.attemptedNumbers, order.OrderNumber)
	if r.failDuplicateOnce {
		r.failDuplicateOnce = false
		return gorm.ErrDuplicatedKey
	}
	for _, existing := range r.orders {
		if existing.OrderNumber == order.OrderNumber {
			return gorm.ErrDuplicatedKey
		}
	}

	order.ID = r.nextID
	r.nextID++
	order.CreatedAt = time.Now()
	copied := *order
	r.orders[order.ID] = &copied

	stored := make([]models.OrderItem, len(items))
	copy(stored, items)
	for i := range stored {
		stored[i].OrderID = order.ID
	}
	r.items[order.ID] = stored

	if r.products != nil {
		for _, item := range stored {
			if err := r.products.DecrementStock(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *fakeOrderRepo) GetByID(id uint) (*models.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *fakeOrderRepo) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			copied := *o
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) GetItems(orderID uint) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, len(r.items[orderID]))
	copy(items, r.items[orderID])
	return items, nil
}

func (r *fakeOrderRepo) GetAll() ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeOrderRepo) Filter(filters repository.OrderFilters) ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.orders {
		if filters.Status != "" && o.Status != filters.Status {
			continue
		}
		if filters.PaymentStatus != "" && o.PaymentStatus != filters.PaymentStatus {
			continue
		}
		if filters.StartDate != nil && o.CreatedAt.Before(*filters.StartDate) {
			continue
		}
		if filters.EndDate != nil {
			endOfDay := filters.EndDate.AddDate(0, 0, 1).Add(-time.Nanosecond)
			if o.CreatedAt.After(endOfDay) {
				continue
			}
		}
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(orderID uint, status string, trackingNumber string) error {
	o, ok := r.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	if trackingNumber != "" {
		o.TrackingNumber = trackingNumber
	}
	return nil
}

func (r *fakeOrderRepo) UpdatePaymentStatus(orderID uint, paymentStatus string) error {
	o, ok := r.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.PaymentStatus = paymentStatus
	return nil
}

type fakeShippingRepo struct {
	rates  map[uint]*models.ShippingRate
	nextID uint
}

func newFakeShippingRepo() *fakeShippingRepo {
	return &fakeShippingRepo{rates: make(map[uint]*models.ShippingRate), nextID: 1}
}

func (r *fakeShippingRepo) Create(rate *models.ShippingRate) error {
	rate.ID = r.nextID
	r.nextID++
	copied := *rate
	r.rates[rate.ID] = &copied
	return nil
}

func (r *fakeShippingRepo) GetByID(id uint) (*models.ShippingRate, error) {
	rate, ok := r.rates[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *rate
	return &copied, nil
}

func (r *fakeShippingRepo) GetActive() ([]models.ShippingRate, error) {
	var out []models.ShippingRate
	for _, rate := range r.rates {
		if rate.Active {
			out = append(out, *rate)
		}
	}
	return out, nil
}

func (r *fakeShippingRepo) Update(rate *models.ShippingRate) error {
	copied := *rate
	r.rates[rate.ID] = &copied
	return nil
}

func (r *fakeShippingRepo) Count() (int64, error) {
	return int64(len(r.rates)), nil
}

type fakeCartRepo struct {
	carts  map[uint]*models.AbandonedCart
	nextID uint
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[uint]*models.AbandonedCart), nextID: 1}
}

func (r *fakeCartRepo) Upsert(cart *models.AbandonedCart) error {
	for _, existing := range r.carts {
		if existing.CustomerEmail == cart.CustomerEmail && !existing.Converted {
			existing.CustomerName = cart.CustomerName
			existing.CartData = cart.CartData
			existing.TotalCents = cart.TotalCents
			return nil
		}
	}
	cart.ID = r.nextID
	r.nextID++
	cart.CreatedAt = time.Now()
	copied := *cart
	r.carts[cart.ID] = &copied
	return nil
}

func (r *fakeCartRepo) GetOpenByEmail(email string) (*models.AbandonedCart, error) {
	for _, cart := range r.carts {
		if cart.CustomerEmail == email && !cart.Converted {
			copied := *cart
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCartRepo) GetForRecovery(olderThan time.Time) ([]models.AbandonedCart, error) {
	var out []models.AbandonedCart
	for _, cart := range r.carts {
		if !cart.RecoveryEmailSent && !cart.Converted && cart.CreatedAt.Before(olderThan) {
			out = append(out, *cart)
		}
	}
	return out, nil
}

func (r *fakeCartRepo) MarkRecoverySent(cartID uint) error {
	cart, ok := r.carts[cartID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	cart.RecoveryEmailSent = true
	cart.RecoveryEmailSentAt = &now
	return nil
}

func (r *fakeCartRepo) MarkConverted(email string, orderNumber string) error {
	for _, cart := range r.carts {
		if cart.CustomerEmail == email && !cart.Converted {
			cart.Converted = true
			cart.ConvertedOrderNumber = orderNumber
		}
	}
	return nil
}

type fakeInventoryLogRepo struct {
	entries []models.InventoryLog
}

func (r *fakeInventoryLogRepo) Create(entry *models.InventoryLog) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeInventoryLogRepo) GetByProductID(productID uint) ([]models.InventoryLog, error) {
	var out []models.InventoryLog
	for _, e := range r.entries {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out, nil
}

type lowStockAlert struct {
	productID uint
	stock     int
}

type fakeMailer struct {
	confirmations  []string // order numbers
	lowStockAlerts []lowStockAlert
	recoveries     []string // customer emails
	sendErr        error
}

func (m *fakeMailer) SendOrderConfirmation(order *models.Order, items []models.OrderItem, bitcoinAddress string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.confirmations = append(m.confirmations, order.OrderNumber)
	return nil
}

func (m *fakeMailer) SendLowStockAlert(product *models.Product, currentStock int) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.lowStockAlerts = append(m.lowStockAlerts, lowStockAlert{productID: product.ID, stock: currentStock})
	return nil
}

func (m *fakeMailer) SendCartRecovery(cart *models.AbandonedCart, checkoutURL string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.recoveries = append(m.recoveries, cart.CustomerEmail)
	return nil
}

type fakeLocker struct {
	held     bool
	acquires int
	releases int
}

func (l *fakeLocker) AcquireLock(name string, ttl time.Duration) (bool, error) {
	l.acquires++
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *fakeLocker) ReleaseLock(name string) error {
	l.releases++
	l.held = false
	return nil
}

type fakeCache struct {
	catalog       []models.Product
	cached        bool
	invalidations int
}

func (c *fakeCache) SetCatalog(products []models.Product, ttl time.Duration) error {
	c.catalog = products
	c.cached = true
	return nil
}

func (c *fakeCache) GetCatalog() ([]models.Product, error) {
	if !c.cached {
		return nil, errors.New("catalog not cached")
	}
	return c.catalog, nil
}

func (c *fakeCache) InvalidateCatalog() error {
	c.catalog = nil
	c.cached = false
	c.invalidations++
	return nil
}

type fakeGateway struct {
	params  []square.PaymentParams
	results []*square.PaymentResult
	err     error
}

func (g *fakeGateway) CreatePayment(params square.PaymentParams) (*square.PaymentResult, error) {
	g.params = append(g.params, params)
	if g.err != nil {
		return nil, g.err
	}
	result := g.results[0]
	if len(g.results) > 1 {
		g.results = g.results[1:]
	}
	return result, nil
}
