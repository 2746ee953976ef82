package exports

import (
	"context"
	"fmt"
	"sort"

	"mealbenefits_backend/internal/email"
	appevents "mealbenefits_backend/internal/events"
	"mealbenefits_backend/platform/events"
	"mealbenefits_backend/platform/logger"
)

// Listener delivers run reports: it uploads the per-client CSV for every
// completed invocation and sends the vendor breakdown email when a run
// finishes. Delivery is best-effort; failures are logged and never fail the
// run itself.
type Listener struct {
	store     ObjectStore
	bucket    string
	sender    email.Sender
	recipient string
	log       *logger.Logger
}

// NewListener creates a report delivery listener. store and sender may be
// nil when the corresponding backend is not configured; the listener skips
// that delivery channel.
func NewListener(store ObjectStore, bucket string, sender email.Sender, recipient string, log *logger.Logger) *Listener {
	return &Listener{
		store:     store,
		bucket:    bucket,
		sender:    sender,
		recipient: recipient,
		log:       log,
	}
}

// RegisterHandlers subscribes the listener to run completion events.
func (l *Listener) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(appevents.EventRunCompleted, l)
}

// Handle routes events to the appropriate delivery.
func (l *Listener) Handle(ctx context.Context, event events.Event) error {
	e, ok := event.(appevents.RunCompleted)
	if !ok {
		return nil
	}

	if l.store != nil {
		if err := l.uploadReport(ctx, e); err != nil {
			l.log.Error("report upload failed", "run_id", e.RunID.String(), "error", err)
		}
	}

	if e.Final && l.sender != nil && l.recipient != "" {
		if err := l.sender.SendRunReportEmail(ctx, l.recipient, toRunReportData(e)); err != nil {
			l.log.Error("report email failed", "run_id", e.RunID.String(), "error", err)
		}
	}

	return nil
}

func (l *Listener) uploadReport(ctx context.Context, e appevents.RunCompleted) error {
	data, err := RenderClientReportCSV(e.Report.Rows)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("runs/%s/client-report.csv", e.RunID)
	if !e.Final || e.BatchIndex > 0 {
		key = fmt.Sprintf("runs/%s/client-report-batch-%d.csv", e.RunID, e.BatchIndex)
	}

	if err := l.store.EnsureBucketExists(ctx, l.bucket); err != nil {
		return err
	}
	if err := l.store.PutObject(ctx, l.bucket, key, "text/csv", data); err != nil {
		return err
	}

	l.log.Info("report uploaded", "run_id", e.RunID.String(), "bucket", l.bucket, "key", key)
	return nil
}

func toRunReportData(e appevents.RunCompleted) email.RunReportData {
	vendors := make([]email.VendorSummary, 0, len(e.Report.VendorBreakdown))
	for _, item := range e.Report.VendorBreakdown {
		days := make([]email.DayCount, 0, len(item.ByDay))
		for date, count := range item.ByDay {
			days = append(days, email.DayCount{Date: date, Count: count})
		}
		sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
		vendors = append(vendors, email.VendorSummary{
			Name:  item.VendorName,
			Total: item.Total,
			Days:  days,
		})
	}

	return email.RunReportData{
		RunID:        e.RunID.String(),
		WeekStart:    e.WeekStart,
		WeekEnd:      e.WeekEnd,
		TotalCreated: e.Report.TotalCreated,
		FoodCount:    e.Report.Breakdown["Food"],
		MealCount:    e.Report.Breakdown["Meal"],
		BoxesCount:   e.Report.Breakdown["Boxes"],
		CustomCount:  e.Report.Breakdown["Custom"],
		Vendors:      vendors,
		FailureCount: len(e.Report.UnexpectedFailures),
	}
}
