// Package events publishes domain events after their transaction commits.
// Delivery is best effort; a failed publish never undoes a committed change.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	AttendanceRecorded   = "attendance.recorded"
	AttendanceCheckedOut = "attendance.checked_out"
	SaleCreated          = "sale.created"
	StockAdjusted        = "stock.adjusted"
	PayslipGenerated     = "payslip.generated"
	LeaveReviewed        = "leave.reviewed"
	MessageSent          = "message.sent"
)

type Event struct {
	ID             string    `json:"id"`
	Type           string    `json:"event_type"`
	OrganizationID uint      `json:"organization_id"`
	ActorID        uint      `json:"actor_id"`
	EntityID       uint      `json:"entity_id"`
	Timestamp      time.Time `json:"timestamp"`
	Data           any       `json:"data,omitempty"`
}

func New(eventType string, orgID, actorID, entityID uint, data any) Event {
	return Event{
		ID:             uuid.NewString(),
		Type:           eventType,
		OrganizationID: orgID,
		ActorID:        actorID,
		EntityID:       entityID,
		Timestamp:      time.Now().UTC(),
		Data:           data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Recorder keeps events in memory. Handlers' tests use it to assert what
// was published.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Type)
	}
	return out
}
