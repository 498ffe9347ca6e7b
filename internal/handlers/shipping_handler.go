package handlers

import (
	"net/http"

	"labstore/internal/repository"

	"github.com/gin-gonic/gin"
)

type ShippingHandler struct {
	shippingRepo repository.ShippingRateRepository
}

func NewShippingHandler(shippingRepo repository.ShippingRateRepository) *ShippingHandler {
	return &ShippingHandler{shippingRepo: shippingRepo}
}

func (h *ShippingHandler) GetRates(c *gin.Context) {
	rates, err := h.shippingRepo.GetActive()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rates)
}
