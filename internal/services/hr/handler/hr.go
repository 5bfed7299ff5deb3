package handler

import (
	"context"
	"errors"
	"time"

	"syntra-bizops/internal/apperr"
	"syntra-bizops/internal/database/models"
	"syntra-bizops/internal/events"
	"syntra-bizops/internal/store"
	"syntra-bizops/internal/tenant"

	"github.com/sirupsen/logrus"
)

type HRHandler struct {
	store     store.Store
	events    events.Publisher
	log       logrus.FieldLogger
	weeklyOff time.Weekday
	now       func() time.Time
}

func NewHRHandler(st store.Store, pub events.Publisher, log logrus.FieldLogger, weeklyOff time.Weekday) *HRHandler {
	return &HRHandler{
		store:     st,
		events:    pub,
		log:       log,
		weeklyOff: weeklyOff,
		now:       time.Now,
	}
}

// staffMember loads a staff user of the caller's organization. Owners are
// not on the payroll and are reported as not found.
func staffMember(ctx context.Context, users store.UserRepository, caller tenant.Identity, userID uint) (*models.User, error) {
	u, err := users.FindByID(ctx, caller.OrganizationID, userID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && u.Role != models.RoleStaff) {
		return nil, apperr.NotFound("staff member %d not found", userID)
	}
	if err != nil {
		return nil, apperr.Internal(err, "load user %d", userID)
	}
	return u, nil
}

func (h *HRHandler) publish(ctx context.Context, event events.Event) {
	if err := h.events.Publish(ctx, event); err != nil {
		h.log.WithFields(logrus.Fields{
			"event_type":      event.Type,
			"organization_id": event.OrganizationID,
		}).WithError(err).Warn("failed to publish event")
	}
}
