package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/max-verstappen001/wiral-node-sub001/internal/booking"
)

func TestUnconfiguredBookerSkips(t *testing.T) {
	tests := []struct {
		name            string
		calendarID      string
		credentialsPath string
	}{
		{name: "no calendar id", credentialsPath: "/etc/creds.json"},
		{name: "no credentials", calendarID: "primary"},
		{name: "neither"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewGoogleBooker(tt.calendarID, tt.credentialsPath, nil, nil)
			result := b.BookPickup(context.Background(), booking.SchedulingDetails{})
			assert.True(t, result.Skipped)
			assert.False(t, result.Success)
			assert.Empty(t, result.Error)
		})
	}
}

func TestNoopBookerSkips(t *testing.T) {
	result := NoopBooker{}.BookPickup(context.Background(), booking.SchedulingDetails{})
	assert.True(t, result.Skipped)
}

func TestPickupEventWindow(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)

	event := pickupEvent(booking.SchedulingDetails{
		CustomerName: "Ravi",
		PickupDate:   "tomorrow",
		PickupTime:   "10am",
	}, now)

	start, err := time.Parse(time.RFC3339, event.Start.DateTime)
	require.NoError(t, err)
	end, err := time.Parse(time.RFC3339, event.End.DateTime)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC), start)
	assert.Equal(t, start.Add(time.Hour), end)
	assert.Equal(t, "UTC", event.Start.TimeZone)
	assert.Equal(t, "Pickup: Ravi", event.Summary)
}

func TestEventDescription(t *testing.T) {
	desc := eventDescription(booking.SchedulingDetails{
		CustomerName:  "Ravi",
		CustomerPhone: "+919812345678",
		PickupAddress: "12 Marina Rd",
		ServiceType:   "House Shifting",
		Notes:         "third floor",
		Urgency:       "normal",
	})
	assert.Contains(t, desc, "Customer: Ravi")
	assert.Contains(t, desc, "Pickup address: 12 Marina Rd")
	assert.Contains(t, desc, "Notes: third floor")
}
