package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/max-verstappen001/wiral-node-sub001/internal/booking"
	"github.com/max-verstappen001/wiral-node-sub001/internal/timeutil"
	"github.com/max-verstappen001/wiral-node-sub001/pkg/logging"
)

// BookingResult is the calendar collaborator contract. Skipped means the
// collaborator is unconfigured; callers proceed without a calendar event and
// must not treat it as a failure.
type BookingResult struct {
	Success bool
	EventID string
	Skipped bool
	Error   string
}

// Booker places a confirmed pickup on a calendar.
type Booker interface {
	BookPickup(ctx context.Context, details booking.SchedulingDetails) BookingResult
}

// GoogleBooker books pickups as Google Calendar events.
type GoogleBooker struct {
	calendarID      string
	credentialsPath string
	location        *time.Location
	logger          *logging.Logger

	service *gcal.Service
}

// NewGoogleBooker creates a booker for the given calendar. Either an empty
// calendarID or an empty credentials path leaves the booker unconfigured; it
// then reports Skipped on every call instead of failing.
func NewGoogleBooker(calendarID, credentialsPath string, location *time.Location, logger *logging.Logger) *GoogleBooker {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &GoogleBooker{
		calendarID:      calendarID,
		credentialsPath: credentialsPath,
		location:        location,
		logger:          logger,
	}
}

func (b *GoogleBooker) configured() bool {
	return b.calendarID != "" && b.credentialsPath != ""
}

// BookPickup normalizes the free-text date/time into a concrete one-hour
// window and creates the event.
func (b *GoogleBooker) BookPickup(ctx context.Context, details booking.SchedulingDetails) BookingResult {
	if !b.configured() {
		b.logger.Info("calendar not configured, skipping event creation")
		return BookingResult{Skipped: true}
	}

	svc, err := b.client(ctx)
	if err != nil {
		return BookingResult{Error: fmt.Sprintf("calendar client: %v", err)}
	}

	event := pickupEvent(details, time.Now().In(b.location))

	created, err := svc.Events.Insert(b.calendarID, event).Context(ctx).Do()
	if err != nil {
		b.logger.Error("calendar event creation failed", "error", err)
		return BookingResult{Error: fmt.Sprintf("calendar insert: %v", err)}
	}

	b.logger.Info("calendar event created", "event_id", created.Id, "start", event.Start.DateTime)
	return BookingResult{Success: true, EventID: created.Id}
}

// pickupEvent builds the calendar event for a pickup: the free-text date and
// time are normalized into a fixed one-hour window in now's location.
func pickupEvent(details booking.SchedulingDetails, now time.Time) *gcal.Event {
	start, end := timeutil.PickupWindow(details.PickupDate, details.PickupTime, now)
	tz := now.Location().String()
	return &gcal.Event{
		Summary:     fmt.Sprintf("Pickup: %s", details.CustomerName),
		Description: eventDescription(details),
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: tz},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: tz},
	}
}

func (b *GoogleBooker) client(ctx context.Context) (*gcal.Service, error) {
	if b.service != nil {
		return b.service, nil
	}
	svc, err := gcal.NewService(ctx, option.WithCredentialsFile(b.credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("calendar: init service: %w", err)
	}
	b.service = svc
	return svc, nil
}

func eventDescription(details booking.SchedulingDetails) string {
	return fmt.Sprintf(
		"Customer: %s\nPhone: %s\nPickup address: %s\nService: %s\nNotes: %s\nUrgency: %s",
		details.CustomerName,
		details.CustomerPhone,
		details.PickupAddress,
		details.ServiceType,
		details.Notes,
		details.Urgency,
	)
}

// NoopBooker always reports Skipped. Used when a tenant has no calendar.
type NoopBooker struct{}

func (NoopBooker) BookPickup(ctx context.Context, details booking.SchedulingDetails) BookingResult {
	return BookingResult{Skipped: true}
}
