package handlers

import (
	"net/http"
	"strconv"

	"labstore/internal/models"
	"labstore/internal/services"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	catalogService services.CatalogService
}

func NewProductHandler(catalogService services.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

type productRequest struct {
	Name              string `json:"name" binding:"required"`
	Description       string `json:"description"`
	Category          string `json:"category"`
	ProductType       string `json:"product_type"`
	WeightGrams       *int   `json:"weight_grams"`
	PriceCents        int    `json:"price_cents"`
	QuantityPerUnit   int    `json:"quantity_per_unit"`
	Unit              string `json:"unit"`
	ImageURL          string `json:"image_url"`
	StockQuantity     int    `json:"stock_quantity"`
	LowStockThreshold int    `json:"low_stock_threshold"`
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.catalogService.ListProducts()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := h.catalogService.GetProduct(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	product := models.Product{
		Name:              req.Name,
		Description:       req.Description,
		Category:          req.Category,
		ProductType:       req.ProductType,
		WeightGrams:       req.WeightGrams,
		PriceCents:        req.PriceCents,
		QuantityPerUnit:   req.QuantityPerUnit,
		Unit:              req.Unit,
		ImageURL:          req.ImageURL,
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: req.LowStockThreshold,
	}
	if err := h.catalogService.CreateProduct(&product); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	product := models.Product{
		ID:                uint(id),
		Name:              req.Name,
		Description:       req.Description,
		Category:          req.Category,
		ProductType:       req.ProductType,
		WeightGrams:       req.WeightGrams,
		PriceCents:        req.PriceCents,
		QuantityPerUnit:   req.QuantityPerUnit,
		Unit:              req.Unit,
		ImageURL:          req.ImageURL,
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: req.LowStockThreshold,
	}
	if err := h.catalogService.UpdateProduct(&product); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if err := h.catalogService.DeleteProduct(uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
