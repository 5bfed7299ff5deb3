package handlers

import (
	"net/http"

	"syntra-bizops/internal/database/models"
	user "syntra-bizops/internal/services/user/handler"

	"github.com/gin-gonic/gin"
)

type UserHTTPHandler struct {
	svc *user.UserHandler
}

func NewUserHTTPHandler(svc *user.UserHandler) *UserHTTPHandler {
	return &UserHTTPHandler{svc: svc}
}

// Request structs
type RegisterOrganizationRequest struct {
	Username         string `json:"username" binding:"required"`
	OrganizationName string `json:"organization_name" binding:"required"`
}

type AddStaffRequest struct {
	Username string `json:"username" binding:"required"`
}

type RegisterOrganizationResponse struct {
	Owner        *models.User         `json:"owner"`
	Organization *models.Organization `json:"organization"`
}

func (h *UserHTTPHandler) RegisterOrganization(c *gin.Context) {
	var req RegisterOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	owner, org, err := h.svc.RegisterOwner(ctx, req.Username, req.OrganizationName)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Organization registered successfully", RegisterOrganizationResponse{
		Owner:        owner,
		Organization: org,
	}))
}

func (h *UserHTTPHandler) GetOrganization(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	org, err := h.svc.GetOrganization(ctx, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Organization retrieved successfully", org))
}

func (h *UserHTTPHandler) AddStaff(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var req AddStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body: "+err.Error()))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	staff, err := h.svc.AddStaff(ctx, id, req.Username)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Staff member added successfully", staff))
}

func (h *UserHTTPHandler) ListStaff(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	staff, err := h.svc.ListStaff(ctx, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Staff retrieved successfully", staff, listMeta{Count: len(staff)}))
}

func (h *UserHTTPHandler) RemoveStaff(c *gin.Context) {
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

	if err := h.svc.RemoveStaff(ctx, id, userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Staff member removed successfully", nil))
}

func (h *UserHTTPHandler) IssueBarcode(c *gin.Context) {
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

	staff, err := h.svc.IssueBarcode(ctx, id, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Barcode issued successfully", staff))
}
