package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"syntra-bizops/internal/apperr"
	"syntra-bizops/internal/database/models"
	"syntra-bizops/internal/events"
	"syntra-bizops/internal/store"
	"syntra-bizops/internal/tenant"
)

type LeaveInput struct {
	LeaveType string    `json:"leave_type"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason,omitempty"`
}

func (h *HRHandler) ApplyLeave(ctx context.Context, caller tenant.Identity, in LeaveInput) (*models.Leave, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	leaveType := strings.TrimSpace(in.LeaveType)
	if leaveType == "" {
		return nil, apperr.InvalidInput("leave type is required")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, apperr.InvalidInput("start and end dates are required")
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, apperr.InvalidInput("end date precedes start date")
	}

	leave := &models.Leave{
		UserID:         caller.UserID,
		OrganizationID: caller.OrganizationID,
		LeaveType:      leaveType,
		StartDate:      in.StartDate.UTC(),
		EndDate:        in.EndDate.UTC(),
		Reason:         strings.TrimSpace(in.Reason),
		Status:         models.LeavePending,
		AppliedAt:      h.now().UTC(),
	}
	if err := h.store.Leaves().Create(ctx, leave); err != nil {
		return nil, apperr.Internal(err, "create leave")
	}
	return leave, nil
}

// ReviewLeave decides a pending leave. Decisions are final.
func (h *HRHandler) ReviewLeave(ctx context.Context, caller tenant.Identity, leaveID uint, status models.LeaveStatus) (*models.Leave, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	if status != models.LeaveApproved && status != models.LeaveRejected {
		return nil, apperr.InvalidInput("status must be approved or rejected")
	}
	orgID := caller.OrganizationID

	leave, err := h.store.Leaves().FindByID(ctx, orgID, leaveID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("leave %d not found", leaveID)
	}
	if err != nil {
		return nil, apperr.Internal(err, "load leave %d", leaveID)
	}
	if leave.Status != models.LeavePending {
		return nil, apperr.Conflict(apperr.CodeLeaveAlreadyReviewed, "leave %d is already %s", leaveID, leave.Status)
	}

	now := h.now().UTC()
	if err := h.store.Leaves().Review(ctx, orgID, leaveID, status, caller.UserID, now); err != nil {
		if errors.Is(err, store.ErrNotApplied) {
			return nil, apperr.Conflict(apperr.CodeLeaveAlreadyReviewed, "leave %d was reviewed concurrently", leaveID)
		}
		return nil, apperr.Internal(err, "review leave %d", leaveID)
	}
	leave.Status = status
	leave.ReviewedAt = &now
	leave.ReviewedBy = &caller.UserID

	h.publish(ctx, events.New(events.LeaveReviewed, orgID, caller.UserID, leave.ID, leave))
	return leave, nil
}

func (h *HRHandler) ListLeaves(ctx context.Context, caller tenant.Identity) ([]models.Leave, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	leaves, err := h.store.Leaves().List(ctx, caller.OrganizationID, 0)
	if err != nil {
		return nil, apperr.Internal(err, "list leaves")
	}
	return leaves, nil
}

func (h *HRHandler) MyLeaves(ctx context.Context, caller tenant.Identity) ([]models.Leave, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	leaves, err := h.store.Leaves().List(ctx, caller.OrganizationID, caller.UserID)
	if err != nil {
		return nil, apperr.Internal(err, "list leaves")
	}
	return leaves, nil
}
