package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/max-verstappen001/wiral-node-sub001/pkg/logging"
)

// Service owns the pending-booking state machine. States: no record, pending,
// confirmed. Confirmed is terminal and observed only transiently — the
// orchestrator clears the record right after finalizing the calendar event.
type Service struct {
	store  PendingStore
	ttl    time.Duration
	logger *logging.Logger
	now    func() time.Time
}

// NewService creates the booking state machine over the given store. ttl
// bounds how long a pending record may wait before the sweep collects it.
func NewService(store PendingStore, ttl time.Duration, logger *logging.Logger) *Service {
	if store == nil {
		panic("booking: store cannot be nil")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, ttl: ttl, logger: logger, now: time.Now}
}

// SetPendingConfirmation overwrites any existing record for the conversation
// with a fresh pending record stamped now. Message dispatch is the caller's
// responsibility.
func (s *Service) SetPendingConfirmation(ctx context.Context, key string, details SchedulingDetails) (*PendingBooking, error) {
	record := &PendingBooking{
		ID:        uuid.New(),
		Details:   details,
		Status:    StatusPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Put(ctx, key, record); err != nil {
		return nil, fmt.Errorf("booking: set pending confirmation: %w", err)
	}
	s.logger.Info("pending booking registered", "key", key, "booking_id", record.ID)
	return record, nil
}

// GetPendingBooking is a read-only lookup; returns nil when absent.
func (s *Service) GetPendingBooking(ctx context.Context, key string) (*PendingBooking, error) {
	record, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("booking: get pending booking: %w", err)
	}
	return record, nil
}

// ConfirmBooking marks the record confirmed, stamps the confirmation time and
// returns its details. Returns nil when no pending record exists.
func (s *Service) ConfirmBooking(ctx context.Context, key string) (*SchedulingDetails, error) {
	record, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("booking: confirm booking: %w", err)
	}
	if record == nil {
		return nil, nil
	}
	confirmedAt := s.now().UTC()
	record.Status = StatusConfirmed
	record.ConfirmedAt = &confirmedAt
	if err := s.store.Put(ctx, key, record); err != nil {
		return nil, fmt.Errorf("booking: confirm booking: %w", err)
	}
	s.logger.Info("booking confirmed", "key", key, "booking_id", record.ID)
	details := record.Details
	return &details, nil
}

// ClearBooking unconditionally deletes the record. Clearing an absent record
// is a no-op.
func (s *Service) ClearBooking(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("booking: clear booking: %w", err)
	}
	return nil
}

// CleanupOldBookings sweeps pending records older than the TTL. Intended to
// run on a fixed interval independent of per-turn activity.
func (s *Service) CleanupOldBookings(ctx context.Context) (int, error) {
	cutoff := s.now().UTC().Add(-s.ttl)
	removed, err := s.store.DeletePendingOlderThan(ctx, cutoff)
	if err != nil {
		return removed, fmt.Errorf("booking: cleanup old bookings: %w", err)
	}
	if removed > 0 {
		s.logger.Info("swept stale pending bookings", "removed", removed)
	}
	return removed, nil
}
