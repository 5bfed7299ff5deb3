// Package app wires storage, the event bus and the business handlers from
// configuration. Both the HTTP gateway and the gRPC service start from it.
package app

import (
	"context"
	"fmt"

	"syntra-bizops/config"
	"syntra-bizops/internal/database"
	"syntra-bizops/internal/events"
	analytics "syntra-bizops/internal/services/analytics/handler"
	attendance "syntra-bizops/internal/services/attendance/handler"
	hr "syntra-bizops/internal/services/hr/handler"
	inventory "syntra-bizops/internal/services/inventory/handler"
	messages "syntra-bizops/internal/services/messages/handler"
	pos "syntra-bizops/internal/services/pos/handler"
	user "syntra-bizops/internal/services/user/handler"
	"syntra-bizops/internal/store"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type App struct {
	DB        *gorm.DB
	Store     store.Store
	Publisher events.Publisher

	Users      *user.UserHandler
	Attendance *attendance.AttendanceHandler
	Inventory  *inventory.InventoryHandler
	POS        *pos.POSHandler
	HR         *hr.HRHandler
	Analytics  *analytics.AnalyticsHandler
	Messages   *messages.MessageHandler
}

// New connects to postgres and the configured event bus.
func New(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*App, error) {
	db, err := database.NewConnection(ctx, cfg.DB.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	pub, err := NewPublisher(ctx, cfg, log)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, err
	}

	return Assemble(db, pub, cfg, log), nil
}

// Assemble builds the handlers over an open database and publisher.
func Assemble(db *gorm.DB, pub events.Publisher, cfg config.Config, log logrus.FieldLogger) *App {
	st := store.New(db)
	return &App{
		DB:         db,
		Store:      st,
		Publisher:  pub,
		Users:      user.NewUserHandler(st, log),
		Attendance: attendance.NewAttendanceHandler(st, pub, log),
		Inventory:  inventory.NewInventoryHandler(st, pub, log, cfg.Inventory.LowStockThreshold),
		POS:        pos.NewPOSHandler(st, pub, log),
		HR:         hr.NewHRHandler(st, pub, log, cfg.Payroll.WeeklyOff),
		Analytics:  analytics.NewAnalyticsHandler(st, log, cfg.Inventory.LowStockThreshold),
		Messages:   messages.NewMessageHandler(st, pub, log),
	}
}

// NewPublisher selects the event bus named by EVENT_BUS.
func NewPublisher(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (events.Publisher, error) {
	switch cfg.Events.Bus {
	case "redis":
		client, err := config.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return events.NewRedisPublisher(client, cfg.Events.Prefix), nil
	case "kafka":
		if len(cfg.Kafka.Brokers) == 0 {
			return nil, fmt.Errorf("EVENT_BUS=kafka requires KAFKA_BROKERS")
		}
		return events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log), nil
	case "none", "":
		return events.Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown event bus %q", cfg.Events.Bus)
	}
}

// Ping checks the database connection.
func (a *App) Ping(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (a *App) Close() error {
	var firstErr error
	if err := a.Publisher.Close(); err != nil {
		firstErr = err
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
