// Package email delivers run report notifications over SMTP.
package email

import "context"

// DayCount is one delivery date with its order count.
type DayCount struct {
	Date  string
	Count int
}

// VendorSummary is one vendor's delivery breakdown for the report email.
type VendorSummary struct {
	Name  string
	Total int
	Days  []DayCount
}

// RunReportData feeds the run report email template.
type RunReportData struct {
	RunID        string
	WeekStart    string
	WeekEnd      string
	TotalCreated int
	FoodCount    int
	MealCount    int
	BoxesCount   int
	CustomCount  int
	Vendors      []VendorSummary
	FailureCount int
}

// Sender delivers report emails.
type Sender interface {
	SendRunReportEmail(ctx context.Context, toEmail string, data RunReportData) error
}
