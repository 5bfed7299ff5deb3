package handlers

import (
	"net/http"

	analytics "syntra-bizops/internal/services/analytics/handler"

	"github.com/gin-gonic/gin"
)

type AnalyticsHTTPHandler struct {
	svc *analytics.AnalyticsHandler
}

func NewAnalyticsHTTPHandler(svc *analytics.AnalyticsHandler) *AnalyticsHTTPHandler {
	return &AnalyticsHTTPHandler{svc: svc}
}

type TopProductsQuery struct {
	Limit int `form:"limit,default=5" binding:"min=0"`
}

type TrendQuery struct {
	Days int `form:"days,default=30" binding:"min=1,max=90"`
}

func (h *AnalyticsHTTPHandler) AttendanceSummary(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var query PeriodQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	summary, err := h.svc.AttendanceSummary(ctx, id, query.Year, query.Month)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Attendance summary retrieved", summary))
}

func (h *AnalyticsHTTPHandler) StaffPerformance(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var query PeriodQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	scores, err := h.svc.StaffPerformance(ctx, id, query.Year, query.Month)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Staff performance retrieved", scores, listMeta{Count: len(scores)}))
}

func (h *AnalyticsHTTPHandler) DailyAttendance(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var query TrendQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	days, err := h.svc.DailyAttendance(ctx, id, query.Days)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Daily attendance retrieved", days, listMeta{Count: len(days)}))
}

func (h *AnalyticsHTTPHandler) DailySales(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var query TrendQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	days, err := h.svc.DailySales(ctx, id, query.Days)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Daily sales retrieved", days, listMeta{Count: len(days)}))
}

func (h *AnalyticsHTTPHandler) SalesSummary(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var query PeriodQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	report, err := h.svc.SalesSummary(ctx, id, query.Year, query.Month)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Sales summary retrieved", report))
}

func (h *AnalyticsHTTPHandler) TopProducts(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var query TopProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	products, err := h.svc.TopProducts(ctx, id, query.Limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Top products retrieved", products, listMeta{Count: len(products)}))
}

func (h *AnalyticsHTTPHandler) PayrollSummary(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var query PeriodQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	report, err := h.svc.PayrollSummary(ctx, id, query.Year, query.Month)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Payroll summary retrieved", report))
}

func (h *AnalyticsHTTPHandler) Overview(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	overview, err := h.svc.Overview(ctx, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Overview retrieved", overview))
}
