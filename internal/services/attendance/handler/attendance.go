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

	"github.com/sirupsen/logrus"
)

type AttendanceHandler struct {
	store  store.Store
	events events.Publisher
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewAttendanceHandler(st store.Store, pub events.Publisher, log logrus.FieldLogger) *AttendanceHandler {
	return &AttendanceHandler{
		store:  st,
		events: pub,
		log:    log,
		now:    time.Now,
	}
}

func (h *AttendanceHandler) today() (time.Time, string) {
	now := h.now().UTC()
	return now, now.Format(models.DayLayout)
}

func member(ctx context.Context, users store.UserRepository, caller tenant.Identity, userID uint) (*models.User, error) {
	u, err := users.FindByID(ctx, caller.OrganizationID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("user %d not found", userID)
	}
	if err != nil {
		return nil, apperr.Internal(err, "load user %d", userID)
	}
	return u, nil
}

// CheckIn records today's arrival of userID. A record already marked for
// today without a check-in (for example Absent) becomes Present.
func (h *AttendanceHandler) CheckIn(ctx context.Context, caller tenant.Identity, userID uint) (*models.Attendance, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	now, day := h.today()
	orgID := caller.OrganizationID

	var rec *models.Attendance
	err := h.store.Transact(ctx, func(r store.Repositories) error {
		if _, err := member(ctx, r.Users(), caller, userID); err != nil {
			return err
		}

		existing, err := r.Attendance().FindForDay(ctx, orgID, userID, day)
		switch {
		case err == nil:
			if existing.CheckInTime != nil {
				return apperr.Conflict(apperr.CodeAlreadyCheckedIn, "user %d already checked in on %s", userID, day)
			}
			if err := r.Attendance().SetCheckIn(ctx, orgID, existing.ID, now, models.StatusPresent); err != nil {
				if errors.Is(err, store.ErrNotApplied) {
					return apperr.Conflict(apperr.CodeAlreadyCheckedIn, "user %d already checked in on %s", userID, day)
				}
				return apperr.Internal(err, "check in attendance %d", existing.ID)
			}
			existing.CheckInTime = &now
			existing.Status = models.StatusPresent
			rec = existing
			return nil
		case !errors.Is(err, store.ErrNotFound):
			return apperr.Internal(err, "load attendance")
		}

		rec = &models.Attendance{
			UserID:         userID,
			OrganizationID: orgID,
			Day:            day,
			Date:           now,
			CheckInTime:    &now,
			Status:         models.StatusPresent,
			MarkedBy:       models.MarkedManual,
		}
		if err := r.Attendance().Create(ctx, rec); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return apperr.Conflict(apperr.CodeAlreadyCheckedIn, "user %d already checked in on %s", userID, day)
			}
			return apperr.Internal(err, "create attendance")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.log.WithFields(logrus.Fields{
		"organization_id": orgID,
		"user_id":         userID,
		"attendance_id":   rec.ID,
	}).Info("check-in recorded")
	h.publish(ctx, events.New(events.AttendanceRecorded, orgID, caller.UserID, rec.ID, rec))
	return rec, nil
}

// CheckOut stamps the check-out time of a record. Records without a
// check-in may be checked out.
func (h *AttendanceHandler) CheckOut(ctx context.Context, caller tenant.Identity, recordID uint) (*models.Attendance, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	now, _ := h.today()
	orgID := caller.OrganizationID

	rec, err := h.store.Attendance().FindByID(ctx, orgID, recordID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("attendance record %d not found", recordID)
	}
	if err != nil {
		return nil, apperr.Internal(err, "load attendance %d", recordID)
	}
	if rec.CheckOutTime != nil {
		return nil, apperr.Conflict(apperr.CodeAlreadyCheckedOut, "attendance record %d already checked out", recordID)
	}
	if rec.CheckInTime != nil && now.Before(*rec.CheckInTime) {
		return nil, apperr.InvalidInput("check-out cannot precede check-in")
	}

	if err := h.store.Attendance().SetCheckOut(ctx, orgID, recordID, now); err != nil {
		if errors.Is(err, store.ErrNotApplied) {
			return nil, apperr.Conflict(apperr.CodeAlreadyCheckedOut, "attendance record %d already checked out", recordID)
		}
		return nil, apperr.Internal(err, "check out attendance %d", recordID)
	}
	rec.CheckOutTime = &now

	h.publish(ctx, events.New(events.AttendanceCheckedOut, orgID, caller.UserID, rec.ID, rec))
	return rec, nil
}

// Mark records a status for userID today. Present and Late also stamp the
// check-in time.
func (h *AttendanceHandler) Mark(ctx context.Context, caller tenant.Identity, userID uint, status models.AttendanceStatus) (*models.Attendance, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperr.InvalidInput("status must be Present, Late or Absent")
	}
	if _, err := member(ctx, h.store.Users(), caller, userID); err != nil {
		return nil, err
	}
	now, day := h.today()

	rec := &models.Attendance{
		UserID:         userID,
		OrganizationID: caller.OrganizationID,
		Day:            day,
		Date:           now,
		Status:         status,
		MarkedBy:       models.MarkedManual,
	}
	if status != models.StatusAbsent {
		rec.CheckInTime = &now
	}
	if err := h.store.Attendance().Create(ctx, rec); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict(apperr.CodeAttendanceExists, "attendance for user %d already recorded on %s", userID, day)
		}
		return nil, apperr.Internal(err, "create attendance")
	}

	h.publish(ctx, events.New(events.AttendanceRecorded, caller.OrganizationID, caller.UserID, rec.ID, rec))
	return rec, nil
}

// MarkByBarcode is idempotent per user and day: a repeated scan returns the
// record created by the first one.
func (h *AttendanceHandler) MarkByBarcode(ctx context.Context, caller tenant.Identity, barcode string) (*models.Attendance, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, apperr.InvalidInput("barcode is required")
	}
	orgID := caller.OrganizationID

	user, err := h.store.Users().FindByBarcode(ctx, orgID, barcode)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("no staff member with barcode %q", barcode)
	}
	if err != nil {
		return nil, apperr.Internal(err, "resolve barcode")
	}
	now, day := h.today()

	existing, err := h.store.Attendance().FindForDay(ctx, orgID, user.ID, day)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Internal(err, "load attendance")
	}

	rec := &models.Attendance{
		UserID:         user.ID,
		OrganizationID: orgID,
		Day:            day,
		Date:           now,
		CheckInTime:    &now,
		Status:         models.StatusPresent,
		MarkedBy:       models.MarkedBarcode,
		Barcode:        &barcode,
	}
	if err := h.store.Attendance().Create(ctx, rec); err != nil {
		if !errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Internal(err, "create attendance")
		}
		// lost the race to a concurrent scan
		winner, err := h.store.Attendance().FindForDay(ctx, orgID, user.ID, day)
		if err != nil {
			return nil, apperr.Internal(err, "load attendance")
		}
		return winner, nil
	}

	h.publish(ctx, events.New(events.AttendanceRecorded, orgID, caller.UserID, rec.ID, rec))
	return rec, nil
}

func (h *AttendanceHandler) ListAll(ctx context.Context, caller tenant.Identity) ([]models.Attendance, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	return h.list(ctx, caller, store.AttendanceFilter{})
}

func (h *AttendanceHandler) ListMine(ctx context.Context, caller tenant.Identity) ([]models.Attendance, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	return h.list(ctx, caller, store.AttendanceFilter{UserID: caller.UserID})
}

func (h *AttendanceHandler) ListForUser(ctx context.Context, caller tenant.Identity, userID uint) ([]models.Attendance, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	if _, err := member(ctx, h.store.Users(), caller, userID); err != nil {
		return nil, err
	}
	return h.list(ctx, caller, store.AttendanceFilter{UserID: userID})
}

func (h *AttendanceHandler) list(ctx context.Context, caller tenant.Identity, filter store.AttendanceFilter) ([]models.Attendance, error) {
	records, err := h.store.Attendance().List(ctx, caller.OrganizationID, filter)
	if err != nil {
		return nil, apperr.Internal(err, "list attendance")
	}
	return records, nil
}

func (h *AttendanceHandler) publish(ctx context.Context, event events.Event) {
	if err := h.events.Publish(ctx, event); err != nil {
		h.log.WithFields(logrus.Fields{
			"event_type":      event.Type,
			"organization_id": event.OrganizationID,
		}).WithError(err).Warn("failed to publish event")
	}
}
