package utils

import (
	"errors"
	"testing"
	"time"

	"syntra-bizops/internal/database/models"
	"syntra-bizops/internal/tenant"
)

var secret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	id := tenant.Identity{UserID: 3, OrganizationID: 9, Role: models.RoleOwner}
	token, _, err := GenerateToken(secret, id, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := ParseToken(secret, token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Identity() != id {
		t.Fatalf("identity = %+v", claims.Identity())
	}
}

func TestParseTokenRejects(t *testing.T) {
	id := tenant.Identity{UserID: 3, OrganizationID: 9, Role: models.RoleStaff}

	expired, _, _ := GenerateToken(secret, id, -time.Minute)
	if _, err := ParseToken(secret, expired); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token: %v", err)
	}

	forged, _, _ := GenerateToken([]byte("other"), id, time.Hour)
	if _, err := ParseToken(secret, forged); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret: %v", err)
	}

	if _, err := ParseToken(secret, "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage: %v", err)
	}
}
