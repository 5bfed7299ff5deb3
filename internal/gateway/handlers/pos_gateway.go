package handlers

import (
	"net/http"

	pos "syntra-bizops/internal/services/pos/handler"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type POSHTTPHandler struct {
	svc *pos.POSHandler
}

func NewPOSHTTPHandler(svc *pos.POSHandler) *POSHTTPHandler {
	return &POSHTTPHandler{svc: svc}
}

// Request structs
type CreateSaleItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1,max=1000000"`
}

type CreateSaleRequest struct {
	CustomerName  *string                 `json:"customer_name,omitempty" binding:"omitempty,max=255"`
	Items         []CreateSaleItemRequest `json:"items" binding:"required,min=1,dive"`
	Discount      decimal.Decimal         `json:"discount"`
	Tax           decimal.Decimal         `json:"tax"`
	PaymentMethod string                  `json:"payment_method,omitempty" binding:"max=50"`
}

func (r CreateSaleRequest) input() pos.SaleInput {
	items := make([]pos.SaleItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, pos.SaleItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return pos.SaleInput{
		CustomerName:  r.CustomerName,
		Items:         items,
		Discount:      r.Discount,
		Tax:           r.Tax,
		PaymentMethod: r.PaymentMethod,
	}
}

func (h *POSHTTPHandler) CreateSale(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var req CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	sale, err := h.svc.CreateSale(ctx, id, req.input())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Sale recorded successfully", sale))
}

func (h *POSHTTPHandler) GetSale(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	saleID, ok := parseID(c, "id", "sale")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	sale, err := h.svc.GetSale(ctx, id, saleID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Sale retrieved successfully", sale))
}

func (h *POSHTTPHandler) ListSales(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	sales, err := h.svc.ListSales(ctx, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Sales retrieved successfully", sales, listMeta{Count: len(sales)}))
}

func (h *POSHTTPHandler) Receipt(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	saleID, ok := parseID(c, "id", "sale")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	receipt, err := h.svc.Receipt(ctx, id, saleID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.String(http.StatusOK, receipt)
}
