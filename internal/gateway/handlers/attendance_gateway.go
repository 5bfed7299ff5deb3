package handlers

import (
	"net/http"

	"syntra-bizops/internal/database/models"
	attendance "syntra-bizops/internal/services/attendance/handler"

	"github.com/gin-gonic/gin"
)

type AttendanceHTTPHandler struct {
	svc *attendance.AttendanceHandler
}

func NewAttendanceHTTPHandler(svc *attendance.AttendanceHandler) *AttendanceHTTPHandler {
	return &AttendanceHTTPHandler{svc: svc}
}

// Request structs
type CheckInRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

type MarkAttendanceRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Status string `json:"status" binding:"required,oneof=Present Late Absent"`
}

type ScanRequest struct {
	Barcode string `json:"barcode" binding:"required,max=64"`
}

func (h *AttendanceHTTPHandler) CheckIn(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	record, err := h.svc.CheckIn(ctx, id, req.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Checked in", record))
}

func (h *AttendanceHTTPHandler) CheckOut(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	recordID, ok := parseID(c, "id", "attendance")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	record, err := h.svc.CheckOut(ctx, id, recordID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Checked out", record))
}

func (h *AttendanceHTTPHandler) Mark(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var req MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	record, err := h.svc.Mark(ctx, id, req.UserID, models.AttendanceStatus(req.Status))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Attendance marked", record))
}

func (h *AttendanceHTTPHandler) Scan(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	record, err := h.svc.MarkByBarcode(ctx, id, req.Barcode)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Attendance recorded", record))
}

func (h *AttendanceHTTPHandler) List(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	records, err := h.svc.ListAll(ctx, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Attendance retrieved", records, listMeta{Count: len(records)}))
}

func (h *AttendanceHTTPHandler) ListMine(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	records, err := h.svc.ListMine(ctx, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Attendance retrieved", records, listMeta{Count: len(records)}))
}

func (h *AttendanceHTTPHandler) ListForUser(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	userID, ok := parseID(c, "id", "user")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	records, err := h.svc.ListForUser(ctx, id, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Attendance retrieved", records, listMeta{Count: len(records)}))
}
