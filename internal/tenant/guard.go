// Package tenant carries the caller identity and confines data access to the
// caller's organization.
package tenant

import (
	"context"

	"syntra-bizops/internal/apperr"
	"syntra-bizops/internal/database/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Identity is an already-authenticated caller.
type Identity struct {
	UserID         uint            `json:"user_id"`
	OrganizationID uint            `json:"organization_id"`
	Role           models.UserRole `json:"role"`
}

func (id Identity) IsOwner() bool {
	return id.Role == models.RoleOwner
}

// Validate rejects identities that cannot act inside any organization.
func (id Identity) Validate() error {
	if id.UserID == 0 {
		return apperr.InvalidInput("caller identity has no user")
	}
	if id.OrganizationID == 0 {
		return apperr.Forbidden("user %d does not belong to an organization", id.UserID)
	}
	return nil
}

// Authorize reports whether a row of orgID is visible to the caller. Rows of
// other tenants are reported as missing so their existence is not revealed.
func (id Identity) Authorize(orgID uint) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if orgID != id.OrganizationID {
		return apperr.ErrNotFound
	}
	return nil
}

func (id Identity) RequireOwner() error {
	if err := id.Validate(); err != nil {
		return err
	}
	if !id.IsOwner() {
		return apperr.Forbidden("owner role required")
	}
	return nil
}

// Scope restricts a query to rows of orgID.
func Scope(orgID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: "organization_id"},
			Value:  orgID,
		})
	}
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
