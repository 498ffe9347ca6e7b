package handlers

import (
	"net/http"

	"labstore/internal/models"
	"labstore/internal/services"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	recoveryService services.RecoveryService
}

func NewCartHandler(recoveryService services.RecoveryService) *CartHandler {
	return &CartHandler{recoveryService: recoveryService}
}

// Track records an in-progress checkout so the cart can be recovered if the
// customer never completes it.
func (h *CartHandler) Track(c *gin.Context) {
	var req struct {
		Email      string            `json:"email" binding:"required,email"`
		Name       string            `json:"name"`
		Items      []models.CartItem `json:"items" binding:"required"`
		TotalCents int               `json:"total_cents"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.recoveryService.TrackCheckout(req.Email, req.Name, req.Items, req.TotalCents); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetOpenCart restores a saved cart when the customer returns to checkout.
func (h *CartHandler) GetOpenCart(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	cart, err := h.recoveryService.GetOpenCart(email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// TriggerRecovery lets an admin run the recovery job on demand.
func (h *CartHandler) TriggerRecovery(c *gin.Context) {
	stats, err := h.recoveryService.ProcessRecovery()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
