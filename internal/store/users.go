package store

import (
	"context"

	"syntra-bizops/internal/database/models"
	"syntra-bizops/internal/tenant"

	"gorm.io/gorm"
)

type organizationRepo struct {
	db *gorm.DB
}

func (r *organizationRepo) Create(ctx context.Context, org *models.Organization) error {
	return translate(r.db.WithContext(ctx).Create(org).Error)
}

func (r *organizationRepo) FindByID(ctx context.Context, id uint) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).First(&org, id).Error; err != nil {
		return nil, translate(err)
	}
	return &org, nil
}

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *userRepo) FindByID(ctx context.Context, orgID, userID uint) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(orgID)).
		Where("id = ?", userID).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userRepo) FindByBarcode(ctx context.Context, orgID uint, barcode string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(orgID)).
		Where("barcode = ?", barcode).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userRepo) ListByRole(ctx context.Context, orgID uint, role models.UserRole) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(orgID)).
		Where("role = ?", role).
		Order("id").
		Find(&users).Error
	return users, translate(err)
}

func (r *userRepo) CountByRole(ctx context.Context, orgID uint, role models.UserRole) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Scopes(tenant.Scope(orgID)).
		Where("role = ?", role).
		Count(&n).Error
	return n, translate(err)
}

func (r *userRepo) AttachOrganization(ctx context.Context, userID, orgID uint) error {
	return applied(r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND organization_id IS NULL", userID).
		Update("organization_id", orgID))
}

func (r *userRepo) SetBarcode(ctx context.Context, orgID, userID uint, barcode string) error {
	return applied(r.db.WithContext(ctx).Model(&models.User{}).Scopes(tenant.Scope(orgID)).
		Where("id = ? AND barcode IS NULL", userID).
		Update("barcode", barcode))
}

func (r *userRepo) Delete(ctx context.Context, orgID, userID uint) error {
	return applied(r.db.WithContext(ctx).Scopes(tenant.Scope(orgID)).
		Where("id = ?", userID).
		Delete(&models.User{}))
}
