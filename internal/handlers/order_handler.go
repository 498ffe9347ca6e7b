package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"labstore/internal/models"
	"labstore/internal/repository"
	"labstore/internal/services"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService   services.OrderService
	paymentService services.PaymentService
}

func NewOrderHandler(orderService services.OrderService, paymentService services.PaymentService) *OrderHandler {
	return &OrderHandler{orderService: orderService, paymentService: paymentService}
}

type createOrderRequest struct {
	CustomerName    string                    `json:"customer_name" binding:"required"`
	CustomerEmail   string                    `json:"customer_email" binding:"required,email"`
	CustomerPhone   string                    `json:"customer_phone"`
	ShippingAddress string                    `json:"shipping_address"`
	ShippingCity    string                    `json:"shipping_city"`
	ShippingState   string                    `json:"shipping_state"`
	ShippingZip     string                    `json:"shipping_zip"`
	ShippingCountry string                    `json:"shipping_country"`
	ShippingRateID  uint                      `json:"shipping_rate_id" binding:"required"`
	PaymentMethod   string                    `json:"payment_method" binding:"required"`
	CustomerNotes   string                    `json:"customer_notes"`
	Items           []services.OrderItemInput `json:"items" binding:"required"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, items, err := h.orderService.PlaceOrder(services.PlaceOrderInput{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		ShippingCity:    req.ShippingCity,
		ShippingState:   req.ShippingState,
		ShippingZip:     req.ShippingZip,
		ShippingCountry: req.ShippingCountry,
		ShippingRateID:  req.ShippingRateID,
		PaymentMethod:   req.PaymentMethod,
		CustomerNotes:   req.CustomerNotes,
		Items:           req.Items,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"order":        order,
		"items":        items,
		"order_number": order.OrderNumber,
	}
	if order.PaymentMethod == string(models.PaymentMethodBitcoin) {
		resp["bitcoin_address"] = h.paymentService.BitcoinAddress()
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *OrderHandler) GetByOrderNumber(c *gin.Context) {
	order, items, err := h.orderService.GetByOrderNumber(c.Param("orderNumber"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"order": order,
		"items": items,
	}
	if order.PaymentMethod == string(models.PaymentMethodBitcoin) && order.PaymentStatus == string(models.PaymentPending) {
		resp["bitcoin_address"] = h.paymentService.BitcoinAddress()
	}
	c.JSON(http.StatusOK, resp)
}

func parseOrderFilters(c *gin.Context) (repository.OrderFilters, error) {
	filters := repository.OrderFilters{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
	}
	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filters, fmt.Errorf("invalid start_date")
		}
		filters.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filters, fmt.Errorf("invalid end_date")
		}
		filters.EndDate = &t
	}
	return filters, nil
}

func (h *OrderHandler) List(c *gin.Context) {
	filters, err := parseOrderFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, err := h.orderService.FilterOrders(filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req struct {
		Status         string `json:"status" binding:"required"`
		TrackingNumber string `json:"tracking_number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.orderService.UpdateStatus(uint(id), req.Status, req.TrackingNumber); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req struct {
		PaymentStatus string `json:"payment_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.orderService.UpdatePaymentStatus(uint(id), req.PaymentStatus); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *OrderHandler) ProcessPayment(c *gin.Context) {
	var req struct {
		OrderNumber string `json:"order_number" binding:"required"`
		SourceID    string `json:"source_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.paymentService.ProcessCardPayment(req.OrderNumber, req.SourceID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ExportCSV streams the filtered order list as a CSV download.
func (h *OrderHandler) ExportCSV(c *gin.Context) {
	filters, err := parseOrderFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, err := h.orderService.FilterOrders(filters)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="orders.csv"`)

	w := csv.NewWriter(c.Writer)
	w.Write([]string{"order_number", "customer_name", "customer_email", "status",
		"payment_status", "payment_method", "subtotal", "shipping_cost", "total",
		"tracking_number", "created_at"})
	for _, o := range orders {
		w.Write([]string{
			o.OrderNumber, o.CustomerName, o.CustomerEmail, o.Status,
			o.PaymentStatus, o.PaymentMethod,
			strconv.Itoa(o.Subtotal), strconv.Itoa(o.ShippingCost), strconv.Itoa(o.Total),
			o.TrackingNumber, o.CreatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
}
