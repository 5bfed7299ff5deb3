package handlers

import (
	"net/http"

	inventory "syntra-bizops/internal/services/inventory/handler"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type InventoryHTTPHandler struct {
	svc *inventory.InventoryHandler
}

func NewInventoryHTTPHandler(svc *inventory.InventoryHandler) *InventoryHTTPHandler {
	return &InventoryHTTPHandler{svc: svc}
}

// Request structs
type CreateProductRequest struct {
	Name     string           `json:"name" binding:"required,max=255"`
	SKU      *string          `json:"sku,omitempty" binding:"omitempty,max=100"`
	Category *string          `json:"category,omitempty" binding:"omitempty,max=100"`
	Price    decimal.Decimal  `json:"price"`
	Cost     *decimal.Decimal `json:"cost,omitempty"`
	Stock    int              `json:"stock" binding:"min=0"`
	Unit     string           `json:"unit,omitempty" binding:"max=20"`
}

type UpdateProductRequest struct {
	Name     *string          `json:"name,omitempty" binding:"omitempty,max=255"`
	SKU      *string          `json:"sku,omitempty" binding:"omitempty,max=100"`
	Category *string          `json:"category,omitempty" binding:"omitempty,max=100"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Cost     *decimal.Decimal `json:"cost,omitempty"`
	Unit     *string          `json:"unit,omitempty" binding:"omitempty,max=20"`
}

type AdjustStockRequest struct {
	Delta int    `json:"delta" binding:"required"`
	Note  string `json:"note,omitempty"`
}

type LowStockQuery struct {
	Threshold int `form:"threshold,default=0" binding:"min=0"`
}

func (h *InventoryHTTPHandler) CreateProduct(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	product, err := h.svc.AddProduct(ctx, id, inventory.ProductInput{
		Name:     req.Name,
		SKU:      req.SKU,
		Category: req.Category,
		Price:    req.Price,
		Cost:     req.Cost,
		Stock:    req.Stock,
		Unit:     req.Unit,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Product created successfully", product))
}

func (h *InventoryHTTPHandler) GetProduct(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	productID, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	product, err := h.svc.GetProduct(ctx, id, productID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Product retrieved successfully", product))
}

func (h *InventoryHTTPHandler) UpdateProduct(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	productID, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	product, err := h.svc.UpdateProduct(ctx, id, productID, inventory.ProductUpdate{
		Name:     req.Name,
		SKU:      req.SKU,
		Category: req.Category,
		Price:    req.Price,
		Cost:     req.Cost,
		Unit:     req.Unit,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Product updated successfully", product))
}

func (h *InventoryHTTPHandler) ArchiveProduct(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	productID, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.ArchiveProduct(ctx, id, productID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Product archived successfully", nil))
}

func (h *InventoryHTTPHandler) AdjustStock(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	productID, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	product, err := h.svc.AdjustStock(ctx, id, productID, req.Delta, req.Note)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Stock adjusted successfully", product))
}

func (h *InventoryHTTPHandler) ListProducts(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	products, err := h.svc.ListProducts(ctx, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Products retrieved successfully", products, listMeta{Count: len(products)}))
}

func (h *InventoryHTTPHandler) LowStock(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var query LowStockQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	products, err := h.svc.LowStock(ctx, id, query.Threshold)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Low stock products retrieved", products, listMeta{Count: len(products)}))
}

func (h *InventoryHTTPHandler) StockHistory(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	productID, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	movements, err := h.svc.StockHistory(ctx, id, productID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Stock movements retrieved", movements, listMeta{Count: len(movements)}))
}
