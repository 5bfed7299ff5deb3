package handler

import (
	"context"
	"errors"
	"strings"

	"syntra-bizops/internal/apperr"
	"syntra-bizops/internal/database/models"
	"syntra-bizops/internal/store"
	"syntra-bizops/internal/tenant"

	"github.com/shopspring/decimal"
)

func normalizeCurrency(c string) (string, error) {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return models.DefaultCurrency, nil
	}
	if len(c) != 3 {
		return "", apperr.InvalidInput("currency must be a 3-letter code, got %q", c)
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return "", apperr.InvalidInput("currency must be a 3-letter code, got %q", c)
		}
	}
	return c, nil
}

// SetSalary creates or replaces the salary of userID. There is no history;
// the effective-from time moves to now.
func (h *HRHandler) SetSalary(ctx context.Context, caller tenant.Identity, userID uint, base decimal.Decimal, currency string) (*models.Salary, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	if base.IsNegative() {
		return nil, apperr.InvalidInput("base salary cannot be negative")
	}
	currency, err := normalizeCurrency(currency)
	if err != nil {
		return nil, err
	}
	orgID := caller.OrganizationID
	now := h.now().UTC()

	var salary *models.Salary
	err = h.store.Transact(ctx, func(r store.Repositories) error {
		if _, err := staffMember(ctx, r.Users(), caller, userID); err != nil {
			return err
		}

		existing, err := r.Salaries().FindByUser(ctx, orgID, userID)
		switch {
		case err == nil:
			salary = existing
		case errors.Is(err, store.ErrNotFound):
			salary = &models.Salary{UserID: userID, OrganizationID: orgID}
		default:
			return apperr.Internal(err, "load salary")
		}

		salary.BaseSalary = base.Round(2)
		salary.Currency = currency
		salary.EffectiveFrom = now
		salary.UpdatedAt = now
		if err := r.Salaries().Save(ctx, salary); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return apperr.Conflict(apperr.CodeDuplicate, "salary for user %d was set concurrently", userID)
			}
			return apperr.Internal(err, "save salary")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return salary, nil
}

func (h *HRHandler) ListSalaries(ctx context.Context, caller tenant.Identity) ([]models.Salary, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	salaries, err := h.store.Salaries().List(ctx, caller.OrganizationID)
	if err != nil {
		return nil, apperr.Internal(err, "list salaries")
	}
	return salaries, nil
}

func (h *HRHandler) MySalary(ctx context.Context, caller tenant.Identity) (*models.Salary, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	salary, err := h.store.Salaries().FindByUser(ctx, caller.OrganizationID, caller.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("salary not set")
	}
	if err != nil {
		return nil, apperr.Internal(err, "load salary")
	}
	return salary, nil
}
