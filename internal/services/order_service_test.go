package services

import (
	"regexp"
	"testing"

	"labstore/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type orderFixture struct {
	service  OrderService
	orders   *fakeOrderRepo
	products *fakeProductRepo
	shipping *fakeShippingRepo
	carts    *fakeCartRepo
	mailer   *fakeMailer
	cache    *fakeCache
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	products := newFakeProductRepo()
	orders := newFakeOrderRepo(products)
	shipping := newFakeShippingRepo()
	carts := newFakeCartRepo()
	mailer := &fakeMailer{}
	cache := &fakeCache{}

	grams3, grams5 := 3, 5
	require.NoError(t, products.Create(&models.Product{
		Name: "SR17018 3g", Category: "chemicals", WeightGrams: &grams3,
		PriceCents: 18000, StockQuantity: 100, LowStockThreshold: 10,
	}))
	require.NoError(t, products.Create(&models.Product{
		Name: "SR17018 5g", Category: "chemicals", WeightGrams: &grams5,
		PriceCents: 29000, StockQuantity: 100, LowStockThreshold: 10,
	}))
	require.NoError(t, products.Create(&models.Product{
		Name: "Beaker 250ml", Category: "labware",
		PriceCents: 1500, StockQuantity: 50, LowStockThreshold: 5,
	}))

	require.NoError(t, shipping.Create(&models.ShippingRate{
		Carrier: "USPS", ServiceName: "Priority Mail", BaseRate: 900, Active: true,
	}))
	require.NoError(t, shipping.Create(&models.ShippingRate{
		Carrier: "UPS", ServiceName: "UPS 2nd Day Air", BaseRate: 2800, Active: true,
	}))
	require.NoError(t, shipping.Create(&models.ShippingRate{
		Carrier: "USPS", ServiceName: "Media Mail", BaseRate: 400, Active: false,
	}))

	service := NewOrderService(orders, products, shipping, carts, mailer, cache,
		"bc1qln37wa3029gwvka8p24pn8gjneu9kfffhlq04v")

	return &orderFixture{
		service:  service,
		orders:   orders,
		products: products,
		shipping: shipping,
		carts:    carts,
		mailer:   mailer,
		cache:    cache,
	}
}

func validInput() PlaceOrderInput {
	return PlaceOrderInput{
		CustomerName:    "Ada Lovelace",
		CustomerEmail:   "ada@example.com",
		ShippingAddress: "1 Analytical Way",
		ShippingCity:    "London",
		ShippingState:   "LDN",
		ShippingZip:     "12345",
		ShippingCountry: "UK",
		ShippingRateID:  1,
		PaymentMethod:   "square",
		Items:           []OrderItemInput{{ProductID: 3, Quantity: 2}},
	}
}

func TestPlaceOrderComputesTotals(t *testing.T) {
	f := newOrderFixture(t)

	input := validInput()
	input.Items = []OrderItemInput{
		{ProductID: 3, Quantity: 2}, // 2 x 1500
		{ProductID: 1, Quantity: 1}, // 1 x 18000
	}

	order, items, err := f.service.PlaceOrder(input)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, 21000, order.Subtotal)
	assert.Equal(t, 900, order.ShippingCost)
	assert.Equal(t, 21900, order.Total)
	assert.Equal(t, string(models.OrderPending), order.Status)
	assert.Equal(t, string(models.PaymentPending), order.PaymentStatus)
	assert.Equal(t, "USPS", order.ShippingCarrier)
	assert.Equal(t, "Priority Mail", order.ShippingService)
}

func TestPlaceOrderCopiesPriceAtPlacement(t *testing.T) {
	f := newOrderFixture(t)

	order, _, err := f.service.PlaceOrder(validInput())
	require.NoError(t, err)

	// A later price edit must not touch the recorded order.
	product, err := f.products.GetByID(3)
	require.NoError(t, err)
	product.PriceCents = 9999
	require.NoError(t, f.products.Update(product))

	items, err := f.orders.GetItems(order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1500, items[0].PricePerUnit)
	assert.Equal(t, "Beaker 250ml", items[0].ProductName)
}

func TestPlaceOrderNumberFormat(t *testing.T) {
	f := newOrderFixture(t)

	pattern := regexp.MustCompile(`^SR[A-HJ-KM-NP-Z2-9]{10}$`)

	first, _, err := f.service.PlaceOrder(validInput())
	require.NoError(t, err)
	second, _, err := f.service.PlaceOrder(validInput())
	require.NoError(t, err)

	assert.Regexp(t, pattern, first.OrderNumber)
	assert.Regexp(t, pattern, second.OrderNumber)
	assert.NotEqual(t, first.OrderNumber, second.OrderNumber)
}

func TestPlaceOrderRetriesOnDuplicateNumber(t *testing.T) {
	f := newOrderFixture(t)
	f.orders.failDuplicateOnce = true

	order, _, err := f.service.PlaceOrder(validInput())
	require.NoError(t, err)

	require.Len(t, f.orders.attemptedNumbers, 2)
	assert.NotEqual(t, f.orders.attemptedNumbers[0], order.OrderNumber)
	assert.Equal(t, f.orders.attemptedNumbers[1], order.OrderNumber)
}

func TestPlaceOrderFreeShippingPromo(t *testing.T) {
	f := newOrderFixture(t)

	// Promoted weight on the promoted UPS service ships free.
	input := validInput()
	input.Items = []OrderItemInput{{ProductID: 1, Quantity: 1}}
	input.ShippingRateID = 2

	order, _, err := f.service.PlaceOrder(input)
	require.NoError(t, err)
	assert.Equal(t, 0, order.ShippingCost)
	assert.Equal(t, order.Subtotal, order.Total)
}

func TestPlaceOrderPromoRequiresPromotedService(t *testing.T) {
	f := newOrderFixture(t)

	// Same promoted weight, but a non-promoted carrier pays full rate.
	input := validInput()
	input.Items = []OrderItemInput{{ProductID: 1, Quantity: 1}}
	input.ShippingRateID = 1

	order, _, err := f.service.PlaceOrder(input)
	require.NoError(t, err)
	assert.Equal(t, 900, order.ShippingCost)
}

func TestPlaceOrderPromoRequiresPromotedWeight(t *testing.T) {
	f := newOrderFixture(t)

	// Weightless labware on the promoted service still pays.
	input := validInput()
	input.Items = []OrderItemInput{{ProductID: 3, Quantity: 1}}
	input.ShippingRateID = 2

	order, _, err := f.service.PlaceOrder(input)
	require.NoError(t, err)
	assert.Equal(t, 2800, order.ShippingCost)
}

func TestPlaceOrderValidation(t *testing.T) {
	f := newOrderFixture(t)

	empty := validInput()
	empty.Items = nil
	_, _, err := f.service.PlaceOrder(empty)
	assert.ErrorIs(t, err, ErrValidation)

	zeroQty := validInput()
	zeroQty.Items = []OrderItemInput{{ProductID: 3, Quantity: 0}}
	_, _, err = f.service.PlaceOrder(zeroQty)
	assert.ErrorIs(t, err, ErrValidation)

	noName := validInput()
	noName.CustomerName = ""
	_, _, err = f.service.PlaceOrder(noName)
	assert.ErrorIs(t, err, ErrValidation)

	badMethod := validInput()
	badMethod.PaymentMethod = "paypal"
	_, _, err = f.service.PlaceOrder(badMethod)
	assert.ErrorIs(t, err, ErrValidation)

	inactiveRate := validInput()
	inactiveRate.ShippingRateID = 3
	_, _, err = f.service.PlaceOrder(inactiveRate)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPlaceOrderUnknownProductAndRate(t *testing.T) {
	f := newOrderFixture(t)

	missingProduct := validInput()
	missingProduct.Items = []OrderItemInput{{ProductID: 99, Quantity: 1}}
	_, _, err := f.service.PlaceOrder(missingProduct)
	assert.ErrorIs(t, err, ErrNotFound)

	missingRate := validInput()
	missingRate.ShippingRateID = 99
	_, _, err = f.service.PlaceOrder(missingRate)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlaceOrderDecrementsStock(t *testing.T) {
	f := newOrderFixture(t)

	_, _, err := f.service.PlaceOrder(validInput())
	require.NoError(t, err)

	product, err := f.products.GetByID(3)
	require.NoError(t, err)
	assert.Equal(t, 48, product.StockQuantity)
	assert.True(t, product.InStock)
}

func TestPlaceOrderSendsLowStockAlertOnce(t *testing.T) {
	f := newOrderFixture(t)

	product, err := f.products.GetByID(3)
	require.NoError(t, err)
	product.StockQuantity = 7
	product.LowStockThreshold = 5
	require.NoError(t, f.products.Update(product))

	// 7 -> 4 crosses the threshold and alerts.
	input := validInput()
	input.Items = []OrderItemInput{{ProductID: 3, Quantity: 3}}
	_, _, err = f.service.PlaceOrder(input)
	require.NoError(t, err)
	require.Len(t, f.mailer.lowStockAlerts, 1)
	assert.Equal(t, uint(3), f.mailer.lowStockAlerts[0].productID)
	assert.Equal(t, 4, f.mailer.lowStockAlerts[0].stock)

	// 4 -> 2 stays below the threshold; no second alert.
	input.Items = []OrderItemInput{{ProductID: 3, Quantity: 2}}
	_, _, err = f.service.PlaceOrder(input)
	require.NoError(t, err)
	assert.Len(t, f.mailer.lowStockAlerts, 1)
}

func TestPlaceOrderConvertsAbandonedCart(t *testing.T) {
	f := newOrderFixture(t)

	require.NoError(t, f.carts.Upsert(&models.AbandonedCart{
		CustomerEmail: "ada@example.com",
		CartData:      `[{"product_id":3,"quantity":2}]`,
	}))

	order, _, err := f.service.PlaceOrder(validInput())
	require.NoError(t, err)

	_, err = f.carts.GetOpenByEmail("ada@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	cart := f.carts.carts[1]
	assert.True(t, cart.Converted)
	assert.Equal(t, order.OrderNumber, cart.ConvertedOrderNumber)
}

func TestPlaceOrderSideEffects(t *testing.T) {
	f := newOrderFixture(t)

	order, _, err := f.service.PlaceOrder(validInput())
	require.NoError(t, err)

	require.Len(t, f.mailer.confirmations, 1)
	assert.Equal(t, order.OrderNumber, f.mailer.confirmations[0])
	assert.Equal(t, 1, f.cache.invalidations)
}

func TestPlaceOrderMailFailureDoesNotFailOrder(t *testing.T) {
	f := newOrderFixture(t)
	f.mailer.sendErr = assert.AnError

	order, _, err := f.service.PlaceOrder(validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, order.OrderNumber)
}

func TestGetByOrderNumber(t *testing.T) {
	f := newOrderFixture(t)

	placed, _, err := f.service.PlaceOrder(validInput())
	require.NoError(t, err)

	order, items, err := f.service.GetByOrderNumber(placed.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, order.ID)
	assert.Len(t, items, 1)

	_, _, err = f.service.GetByOrderNumber("SRDOESNOTEXIST")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusValidatesAndStoresTracking(t *testing.T) {
	f := newOrderFixture(t)

	order, _, err := f.service.PlaceOrder(validInput())
	require.NoError(t, err)

	assert.ErrorIs(t, f.service.UpdateStatus(order.ID, "teleported", ""), ErrValidation)
	assert.ErrorIs(t, f.service.UpdateStatus(999, "shipped", ""), ErrNotFound)

	require.NoError(t, f.service.UpdateStatus(order.ID, "shipped", "1Z999AA10123456784"))
	stored, err := f.orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "shipped", stored.Status)
	assert.Equal(t, "1Z999AA10123456784", stored.TrackingNumber)
}

func TestUpdatePaymentStatusValidates(t *testing.T) {
	f := newOrderFixture(t)

	order, _, err := f.service.PlaceOrder(validInput())
	require.NoError(t, err)

	assert.ErrorIs(t, f.service.UpdatePaymentStatus(order.ID, "maybe"), ErrValidation)
	require.NoError(t, f.service.UpdatePaymentStatus(order.ID, "completed"))

	stored, err := f.orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", stored.PaymentStatus)
}
