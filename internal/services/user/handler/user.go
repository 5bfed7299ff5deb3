package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"syntra-bizops/internal/apperr"
	"syntra-bizops/internal/database/models"
	"syntra-bizops/internal/store"
	"syntra-bizops/internal/tenant"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const barcodeAttempts = 3

type UserHandler struct {
	store store.Store
	log   logrus.FieldLogger
	now   func() time.Time
	// newBarcode is swapped in tests to force collisions.
	newBarcode func(orgID uint) string
}

func NewUserHandler(st store.Store, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{
		store:      st,
		log:        log,
		now:        time.Now,
		newBarcode: generateBarcode,
	}
}

func generateBarcode(orgID uint) string {
	return fmt.Sprintf("STF%d-%s", orgID, strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8]))
}

func normalizeUsername(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperr.InvalidInput("username is required")
	}
	if len(s) > 150 {
		return "", apperr.InvalidInput("username is too long")
	}
	return s, nil
}

// RegisterOwner bootstraps a new organization and its owner. Credentials
// are managed by the identity provider, not here.
func (h *UserHandler) RegisterOwner(ctx context.Context, username, organizationName string) (*models.User, *models.Organization, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, nil, err
	}
	organizationName = strings.TrimSpace(organizationName)
	if organizationName == "" {
		return nil, nil, apperr.InvalidInput("organization name is required")
	}
	now := h.now().UTC()

	owner := &models.User{Username: username, Role: models.RoleOwner, CreatedAt: now}
	org := &models.Organization{Name: organizationName, CreatedAt: now}
	err = h.store.Transact(ctx, func(r store.Repositories) error {
		if err := r.Users().Create(ctx, owner); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return apperr.Conflict(apperr.CodeDuplicate, "username %q is taken", username)
			}
			return apperr.Internal(err, "create owner")
		}
		org.OwnerID = &owner.ID
		if err := r.Organizations().Create(ctx, org); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return apperr.Conflict(apperr.CodeDuplicate, "organization %q already exists", organizationName)
			}
			return apperr.Internal(err, "create organization")
		}
		if err := r.Users().AttachOrganization(ctx, owner.ID, org.ID); err != nil {
			return apperr.Internal(err, "attach owner to organization")
		}
		owner.OrganizationID = &org.ID
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	h.log.WithFields(logrus.Fields{
		"organization_id": org.ID,
		"user_id":         owner.ID,
	}).Info("organization registered")
	return owner, org, nil
}

func (h *UserHandler) GetOrganization(ctx context.Context, caller tenant.Identity) (*models.Organization, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	org, err := h.store.Organizations().FindByID(ctx, caller.OrganizationID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("organization not found")
	}
	if err != nil {
		return nil, apperr.Internal(err, "load organization")
	}
	return org, nil
}

func (h *UserHandler) AddStaff(ctx context.Context, caller tenant.Identity, username string) (*models.User, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}

	orgID := caller.OrganizationID
	u := &models.User{
		Username:       username,
		Role:           models.RoleStaff,
		OrganizationID: &orgID,
		CreatedAt:      h.now().UTC(),
	}
	if err := h.store.Users().Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict(apperr.CodeDuplicate, "username %q is taken", username)
		}
		return nil, apperr.Internal(err, "create staff")
	}
	return u, nil
}

func (h *UserHandler) ListStaff(ctx context.Context, caller tenant.Identity) ([]models.User, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	staff, err := h.store.Users().ListByRole(ctx, caller.OrganizationID, models.RoleStaff)
	if err != nil {
		return nil, apperr.Internal(err, "list staff")
	}
	return staff, nil
}

// RemoveStaff deletes a staff member with their salary and pending leaves.
// Attendance, payslips and sales stay as history.
func (h *UserHandler) RemoveStaff(ctx context.Context, caller tenant.Identity, userID uint) error {
	if err := caller.RequireOwner(); err != nil {
		return err
	}
	orgID := caller.OrganizationID

	return h.store.Transact(ctx, func(r store.Repositories) error {
		u, err := r.Users().FindByID(ctx, orgID, userID)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("user %d not found", userID)
		}
		if err != nil {
			return apperr.Internal(err, "load user %d", userID)
		}
		if u.Role != models.RoleStaff {
			return apperr.Forbidden("only staff members can be removed")
		}

		if err := r.Salaries().DeleteByUser(ctx, orgID, userID); err != nil {
			return apperr.Internal(err, "delete salary")
		}
		if err := r.Leaves().DeletePendingByUser(ctx, orgID, userID); err != nil {
			return apperr.Internal(err, "delete pending leaves")
		}
		if err := r.Users().Delete(ctx, orgID, userID); err != nil {
			return apperr.Internal(err, "delete user %d", userID)
		}
		return nil
	})
}

// IssueBarcode gives userID a globally unique attendance barcode. A barcode,
// once issued, never changes.
func (h *UserHandler) IssueBarcode(ctx context.Context, caller tenant.Identity, userID uint) (*models.User, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	orgID := caller.OrganizationID

	u, err := h.store.Users().FindByID(ctx, orgID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("user %d not found", userID)
	}
	if err != nil {
		return nil, apperr.Internal(err, "load user %d", userID)
	}
	if u.Barcode != nil {
		return nil, apperr.Conflict(apperr.CodeDuplicate, "user %d already has a barcode", userID)
	}

	for attempt := 0; attempt < barcodeAttempts; attempt++ {
		code := h.newBarcode(orgID)
		err := h.store.Users().SetBarcode(ctx, orgID, userID, code)
		switch {
		case err == nil:
			u.Barcode = &code
			return u, nil
		case errors.Is(err, store.ErrNotApplied):
			return nil, apperr.Conflict(apperr.CodeDuplicate, "user %d already has a barcode", userID)
		case errors.Is(err, store.ErrDuplicate):
			h.log.WithField("attempt", attempt+1).Warn("barcode collision, retrying")
		default:
			return nil, apperr.Internal(err, "set barcode")
		}
	}
	return nil, apperr.Internal(errors.New("barcode collisions exhausted retries"), "issue barcode")
}
