package service

import (
	"testing"
	"time"

	clientrepo "mealbenefits_backend/internal/clients/repository"
)

func TestCheckEligibility_StatusBlocksDeliveries(t *testing.T) {
	client := clientrepo.Client{StatusName: "Closed", DeliveriesAllowed: false}

	elig := CheckEligibility(client, testToday)
	if elig.OK {
		t.Fatalf("expected ineligible client")
	}
	want := `Status "Closed" does not allow deliveries`
	if elig.Reason != want {
		t.Fatalf("expected reason %q, got %q", want, elig.Reason)
	}
}

func TestCheckEligibility_ExpirationInThePast(t *testing.T) {
	yesterday := testToday.AddDate(0, 0, -1)
	client := clientrepo.Client{StatusName: "Active", DeliveriesAllowed: true, ExpirationDate: &yesterday}

	elig := CheckEligibility(client, testToday)
	if elig.OK {
		t.Fatalf("expected expired client to be ineligible")
	}
	if elig.Reason != "Expiration date has passed" {
		t.Fatalf("unexpected reason %q", elig.Reason)
	}
}

func TestCheckEligibility_ExpirationTodayStillEligible(t *testing.T) {
	// Expiration is compared date-only; an expiration earlier on the same
	// calendar day must not count as passed.
	sameDay := time.Date(testToday.Year(), testToday.Month(), testToday.Day(), 0, 30, 0, 0, time.UTC)
	client := clientrepo.Client{StatusName: "Active", DeliveriesAllowed: true, ExpirationDate: &sameDay}

	if elig := CheckEligibility(client, testToday); !elig.OK {
		t.Fatalf("expected same-day expiration to stay eligible, got %q", elig.Reason)
	}
}

func TestCheckEligibility_NoExpiration(t *testing.T) {
	client := clientrepo.Client{StatusName: "Active", DeliveriesAllowed: true}
	if elig := CheckEligibility(client, testToday); !elig.OK {
		t.Fatalf("expected eligible client, got %q", elig.Reason)
	}
}
