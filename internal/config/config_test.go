package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 10*time.Second, cfg.ChatwootTimeout)
	assert.Equal(t, time.Hour, cfg.BookingTTL)
	assert.Equal(t, time.Hour, cfg.FollowUpDelay)
	assert.InDelta(t, 0.8, cfg.ConfirmationThreshold, 1e-9)
	assert.InDelta(t, 0.9, cfg.SchedulingThreshold, 1e-9)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FOLLOW_UP_DELAY", "30m")
	t.Setenv("SCHEDULING_THRESHOLD", "0.95")
	t.Setenv("USE_REDIS_STORE", "true")
	t.Setenv("MESSAGE_WINDOW_SIZE", "15")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.FollowUpDelay)
	assert.InDelta(t, 0.95, cfg.SchedulingThreshold, 1e-9)
	assert.True(t, cfg.UseRedisStore)
	assert.Equal(t, 15, cfg.MessageWindowSize)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("BOOKING_TTL", "not-a-duration")
	t.Setenv("CONFIRMATION_THRESHOLD", "high")
	t.Setenv("MESSAGE_WINDOW_SIZE", "lots")

	cfg := Load()

	assert.Equal(t, time.Hour, cfg.BookingTTL)
	assert.InDelta(t, 0.8, cfg.ConfirmationThreshold, 1e-9)
	assert.Equal(t, 20, cfg.MessageWindowSize)
}
