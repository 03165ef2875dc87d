package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/max-verstappen001/wiral-node-sub001/pkg/logging"
)

// Snapshot is the per-conversation state recorded when a reminder is armed.
// The send/suppress decision is re-derived from it at fire time, not at
// arming time.
type Snapshot struct {
	Attributes    map[string]string
	HasScheduling bool
	MessageCount  int
	LastUpdated   time.Time
}

// Sender dispatches the reminder text to the conversation.
type Sender interface {
	SendReply(ctx context.Context, conversationID int, content string) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, conversationID int, content string) error

func (f SenderFunc) SendReply(ctx context.Context, conversationID int, content string) error {
	return f(ctx, conversationID, content)
}

type registration struct {
	snapshot   Snapshot
	timer      *time.Timer
	generation uint64
}

// Scheduler owns the per-conversation deferred follow-up timers. At most one
// registration exists per conversation: re-arming cancels the prior timer.
// Each task fires at most once, then removes itself from the registry.
type Scheduler struct {
	sender Sender
	delay  time.Duration
	logger *logging.Logger

	mu            sync.Mutex
	registrations map[int]*registration
	generation    uint64

	// afterFunc is swapped out in tests to fire timers synchronously.
	afterFunc func(d time.Duration, f func()) *time.Timer
	now       func() time.Time
}

// NewScheduler creates a scheduler that sends nudges through sender after the
// given delay of customer silence.
func NewScheduler(sender Sender, delay time.Duration, logger *logging.Logger) *Scheduler {
	if sender == nil {
		panic("reminder: sender cannot be nil")
	}
	if delay <= 0 {
		delay = time.Hour
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{
		sender:        sender,
		delay:         delay,
		logger:        logger,
		registrations: make(map[int]*registration),
		afterFunc:     time.AfterFunc,
		now:           time.Now,
	}
}

// Observe is called once per turn, regardless of outcome. It always cancels
// any existing registration for the conversation, then arms a fresh one only
// when the triggering message came from the customer. Whether a nudge is
// actually sent is decided at fire time from the snapshot.
func (s *Scheduler) Observe(conversationID int, fromCustomer bool, snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked(conversationID)
	if !fromCustomer {
		return
	}

	if snap.LastUpdated.IsZero() {
		snap.LastUpdated = s.now()
	}
	s.generation++
	reg := &registration{snapshot: snap, generation: s.generation}
	gen := reg.generation
	reg.timer = s.afterFunc(s.delay, func() {
		s.fire(conversationID, gen)
	})
	s.registrations[conversationID] = reg
}

// Cancel drops any registration for the conversation. Idempotent.
func (s *Scheduler) Cancel(conversationID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(conversationID)
}

// Armed reports whether a registration currently exists for the conversation.
func (s *Scheduler) Armed(conversationID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.registrations[conversationID]
	return ok
}

// Stop cancels every registration. Called on shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.registrations {
		s.cancelLocked(id)
	}
}

func (s *Scheduler) cancelLocked(conversationID int) {
	if reg, ok := s.registrations[conversationID]; ok {
		reg.timer.Stop()
		delete(s.registrations, conversationID)
	}
}

// fire runs when a timer elapses. The generation check rejects a stale fire
// that raced with a re-arm; the snapshot decides suppression. The
// registration is removed either way: a task fires at most once.
func (s *Scheduler) fire(conversationID int, generation uint64) {
	s.mu.Lock()
	reg, ok := s.registrations[conversationID]
	if !ok || reg.generation != generation {
		s.mu.Unlock()
		return
	}
	delete(s.registrations, conversationID)
	snap := reg.snapshot
	s.mu.Unlock()

	if s.suppress(snap) {
		s.logger.Info("follow-up reminder suppressed",
			"conversation_id", conversationID,
			"has_scheduling", snap.HasScheduling,
			"message_count", snap.MessageCount)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.sender.SendReply(ctx, conversationID, selectNudge(snap)); err != nil {
		s.logger.Error("failed to send follow-up reminder",
			"conversation_id", conversationID,
			"error", err)
		return
	}
	s.logger.Info("follow-up reminder sent", "conversation_id", conversationID)
}

// suppress skips the nudge when the conversation already reached scheduling,
// or when the customer has shared at least two significant attributes over
// more than two messages.
func (s *Scheduler) suppress(snap Snapshot) bool {
	if snap.HasScheduling {
		return true
	}
	return countSignificant(snap.Attributes) >= 2 && snap.MessageCount > 2
}
