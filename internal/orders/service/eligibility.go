package service

import (
	"fmt"
	"time"

	"mealbenefits_backend/internal/calendar"
	"mealbenefits_backend/internal/clients/repository"
)

// Eligibility is the outcome of the eligibility gate for one client.
type Eligibility struct {
	OK     bool
	Reason string
}

// CheckEligibility decides whether a client's configuration may be
// materialized at all. Rules run in order and the first failure wins:
// the client's status must allow deliveries, and a set expiration date must
// not be strictly before today (date-only comparison).
func CheckEligibility(client repository.Client, today time.Time) Eligibility {
	if !client.DeliveriesAllowed {
		return Eligibility{
			Reason: fmt.Sprintf("Status %q does not allow deliveries", client.StatusName),
		}
	}

	if client.ExpirationDate != nil {
		expiration := calendar.DateOnly(*client.ExpirationDate)
		if expiration.Before(calendar.DateOnly(today)) {
			return Eligibility{Reason: "Expiration date has passed"}
		}
	}

	return Eligibility{OK: true}
}
