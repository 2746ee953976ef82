package events

import (
	"github.com/google/uuid"

	"mealbenefits_backend/internal/orders/domain"
	platformevents "mealbenefits_backend/platform/events"
)

// Event name constants for subscription.
const (
	EventRunCompleted = "orders.run_completed"
)

// RunCompleted fires after one materialization invocation finishes: a full
// run, or one batch of a batched run. Final is true for a full run and for
// the last batch of a batched run; report delivery that should happen once
// per run keys off it.
type RunCompleted struct {
	platformevents.BaseEvent
	RunID      uuid.UUID
	BatchIndex int
	Final      bool
	WeekStart  string
	WeekEnd    string
	Report     domain.RunReport
}

// EventName returns the unique event type identifier.
func (e RunCompleted) EventName() string { return EventRunCompleted }
