package handlers

import (
	"net/http"
	"time"

	"syntra-bizops/internal/database/models"
	hr "syntra-bizops/internal/services/hr/handler"
	"syntra-bizops/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type HRHTTPHandler struct {
	svc *hr.HRHandler
}

func NewHRHTTPHandler(svc *hr.HRHandler) *HRHTTPHandler {
	return &HRHTTPHandler{svc: svc}
}

// Request structs
type SetSalaryRequest struct {
	BaseSalary decimal.Decimal `json:"base_salary"`
	Currency   string          `json:"currency,omitempty"`
}

type GeneratePayslipRequest struct {
	UserID uint `json:"user_id" binding:"required"`
	Month  int  `json:"month" binding:"required,min=1,max=12"`
	Year   int  `json:"year" binding:"required,min=1"`
}

type ListPayslipsQuery struct {
	UserID uint `form:"user_id"`
	Month  int  `form:"month" binding:"omitempty,min=1,max=12"`
	Year   int  `form:"year" binding:"omitempty,min=1"`
}

type ApplyLeaveRequest struct {
	LeaveType string    `json:"leave_type" binding:"required,max=50"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason,omitempty" binding:"max=2000"`
}

type ReviewLeaveRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

func (h *HRHTTPHandler) SetSalary(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	userID, ok := parseID(c, "user_id", "user")
	if !ok {
		return
	}

	var req SetSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	salary, err := h.svc.SetSalary(ctx, id, userID, req.BaseSalary, req.Currency)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Salary saved successfully", salary))
}

func (h *HRHTTPHandler) ListSalaries(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	salaries, err := h.svc.ListSalaries(ctx, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Salaries retrieved successfully", salaries, listMeta{Count: len(salaries)}))
}

func (h *HRHTTPHandler) MySalary(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	salary, err := h.svc.MySalary(ctx, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Salary retrieved successfully", salary))
}

func (h *HRHTTPHandler) GeneratePayslip(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var req GeneratePayslipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	payslip, err := h.svc.GeneratePayslip(ctx, id, req.UserID, req.Month, req.Year)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Payslip generated successfully", payslip))
}

func (h *HRHTTPHandler) ListPayslips(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var query ListPayslipsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	payslips, err := h.svc.ListPayslips(ctx, id, store.PayslipFilter{
		UserID: query.UserID,
		Month:  query.Month,
		Year:   query.Year,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Payslips retrieved successfully", payslips, listMeta{Count: len(payslips)}))
}

func (h *HRHTTPHandler) MyPayslips(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	payslips, err := h.svc.MyPayslips(ctx, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Payslips retrieved successfully", payslips, listMeta{Count: len(payslips)}))
}

func (h *HRHTTPHandler) ApplyLeave(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var req ApplyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	leave, err := h.svc.ApplyLeave(ctx, id, hr.LeaveInput{
		LeaveType: req.LeaveType,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Leave request submitted", leave))
}

func (h *HRHTTPHandler) ReviewLeave(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	leaveID, ok := parseID(c, "id", "leave")
	if !ok {
		return
	}

	var req ReviewLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	leave, err := h.svc.ReviewLeave(ctx, id, leaveID, models.LeaveStatus(req.Status))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Leave request reviewed", leave))
}

func (h *HRHTTPHandler) ListLeaves(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	leaves, err := h.svc.ListLeaves(ctx, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Leave requests retrieved", leaves, listMeta{Count: len(leaves)}))
}

func (h *HRHTTPHandler) MyLeaves(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	leaves, err := h.svc.MyLeaves(ctx, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Leave requests retrieved", leaves, listMeta{Count: len(leaves)}))
}
