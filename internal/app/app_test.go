package app

import (
	"context"
	"io"
	"testing"
	"time"

	"syntra-bizops/config"
	"syntra-bizops/internal/database/dbtest"
	"syntra-bizops/internal/events"

	"github.com/sirupsen/logrus"
)

func quiet() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestNewPublisherSelection(t *testing.T) {
	ctx := context.Background()

	pub, err := NewPublisher(ctx, config.Config{Events: config.EventsConfig{Bus: "none"}}, quiet())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := pub.(events.Nop); !ok {
		t.Fatalf("none bus = %T", pub)
	}

	if _, err := NewPublisher(ctx, config.Config{Events: config.EventsConfig{Bus: "carrier-pigeon"}}, quiet()); err == nil {
		t.Fatal("unknown bus accepted")
	}

	if _, err := NewPublisher(ctx, config.Config{Events: config.EventsConfig{Bus: "kafka"}}, quiet()); err == nil {
		t.Fatal("kafka without brokers accepted")
	}
}

func TestAssemble(t *testing.T) {
	db := dbtest.Open(t)
	cfg := config.Config{
		Payroll:   config.PayrollConfig{WeeklyOff: time.Sunday},
		Inventory: config.InventoryConfig{LowStockThreshold: 5},
	}
	a := Assemble(db, events.Nop{}, cfg, quiet())

	if err := a.Ping(context.Background()); err != nil {
		t.Fatal(err)
	}
	owner, org, err := a.Users.RegisterOwner(context.Background(), "asha", "Asha Stores")
	if err != nil {
		t.Fatal(err)
	}
	if *owner.OrganizationID != org.ID {
		t.Fatalf("owner org = %d, want %d", *owner.OrganizationID, org.ID)
	}
}
