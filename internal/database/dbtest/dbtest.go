// Package dbtest opens throwaway sqlite databases with the full schema.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"syntra-bizops/internal/database"
	"syntra-bizops/internal/database/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Int64

// Open returns a migrated in-memory database private to the test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_busy_timeout=5000", name, seq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// Tenant is a seeded organization with its owner.
type Tenant struct {
	Org   models.Organization
	Owner models.User
}

func SeedTenant(t testing.TB, db *gorm.DB, name string) Tenant {
	t.Helper()

	owner := models.User{Username: name + "-owner", Role: models.RoleOwner}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	org := models.Organization{Name: name, OwnerID: &owner.ID}
	if err := db.Create(&org).Error; err != nil {
		t.Fatalf("seed org: %v", err)
	}
	owner.OrganizationID = &org.ID
	if err := db.Save(&owner).Error; err != nil {
		t.Fatalf("attach owner: %v", err)
	}
	return Tenant{Org: org, Owner: owner}
}

func SeedStaff(t testing.TB, db *gorm.DB, orgID uint, username string) models.User {
	t.Helper()

	u := models.User{Username: username, Role: models.RoleStaff, OrganizationID: &orgID}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed staff: %v", err)
	}
	return u
}

func SeedProduct(t testing.TB, db *gorm.DB, orgID uint, name, price string, stock int) models.Product {
	t.Helper()

	p := models.Product{
		OrganizationID: orgID,
		Name:           name,
		Price:          decimal.RequireFromString(price),
		Stock:          stock,
		Unit:           "pcs",
		Status:         models.ProductActive,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}
