package turn

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/max-verstappen001/wiral-node-sub001/internal/attributes"
	"github.com/max-verstappen001/wiral-node-sub001/internal/booking"
	"github.com/max-verstappen001/wiral-node-sub001/internal/calendar"
	"github.com/max-verstappen001/wiral-node-sub001/internal/chatwoot"
	"github.com/max-verstappen001/wiral-node-sub001/internal/leads"
	"github.com/max-verstappen001/wiral-node-sub001/internal/observability/metrics"
	"github.com/max-verstappen001/wiral-node-sub001/internal/reminder"
	"github.com/max-verstappen001/wiral-node-sub001/internal/scheduling"
	"github.com/max-verstappen001/wiral-node-sub001/pkg/logging"
)

var turnTracer = otel.Tracer("wiral/turn")

const (
	defaultConfirmationThreshold = 0.8
	defaultSchedulingThreshold   = 0.9
)

// Messenger is the slice of the helpdesk client the orchestrator dispatches
// through.
type Messenger interface {
	SendReply(ctx context.Context, conversationID int, content string) (*chatwoot.Message, error)
	UpdateContactAttributes(ctx context.Context, contactID int, attrs map[string]string) error
}

// ConfirmationDetector matches booking.ConfirmationDetector.
type ConfirmationDetector interface {
	DetectConfirmation(ctx context.Context, messages []chatwoot.Message, attrs map[string]string) booking.ConfirmationResult
}

// IntentDetector matches scheduling.IntentDetector.
type IntentDetector interface {
	DetectIntent(ctx context.Context, messages []chatwoot.Message, attrs map[string]string) scheduling.IntentResult
}

// Classifier matches leads.Classifier.
type Classifier interface {
	Classify(ctx context.Context, messages []chatwoot.Message, attrs map[string]string, missing []string, hasAppointment bool) leads.Classification
}

// Config wires the orchestrator's collaborators. All fields except Metrics
// and Logger are required.
type Config struct {
	Bookings      *booking.Service
	Confirmations ConfirmationDetector
	Intents       IntentDetector
	Classifier    Classifier
	Tags          *leads.TagReconciler
	Calendar      calendar.Booker
	Reminders     *reminder.Scheduler
	Attributes    attributes.Service
	Messenger     Messenger
	Replies       ReplyGenerator
	Metrics       *metrics.TurnMetrics
	Logger        *logging.Logger

	ConfirmationThreshold float64
	SchedulingThreshold   float64
}

// Orchestrator executes the per-message decision sequence: confirmation
// check, scheduling-intent check, lead classification, reply dispatch,
// reminder re-evaluation — strictly in that order.
type Orchestrator struct {
	cfg    Config
	logger *logging.Logger
	now    func() time.Time
}

func NewOrchestrator(cfg Config) *Orchestrator {
	switch {
	case cfg.Bookings == nil:
		panic("turn: bookings service cannot be nil")
	case cfg.Confirmations == nil:
		panic("turn: confirmation detector cannot be nil")
	case cfg.Intents == nil:
		panic("turn: intent detector cannot be nil")
	case cfg.Classifier == nil:
		panic("turn: classifier cannot be nil")
	case cfg.Tags == nil:
		panic("turn: tag reconciler cannot be nil")
	case cfg.Calendar == nil:
		panic("turn: calendar booker cannot be nil")
	case cfg.Reminders == nil:
		panic("turn: reminder scheduler cannot be nil")
	case cfg.Attributes == nil:
		panic("turn: attribute service cannot be nil")
	case cfg.Messenger == nil:
		panic("turn: messenger cannot be nil")
	case cfg.Replies == nil:
		panic("turn: reply generator cannot be nil")
	}
	if cfg.ConfirmationThreshold <= 0 {
		cfg.ConfirmationThreshold = defaultConfirmationThreshold
	}
	if cfg.SchedulingThreshold <= 0 {
		cfg.SchedulingThreshold = defaultSchedulingThreshold
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Orchestrator{cfg: cfg, logger: cfg.Logger, now: time.Now}
}

// ProcessTurn runs the full decision sequence for one inbound message. The
// only fatal error is a failed reply send; every other collaborator failure
// is caught at its step boundary and the turn continues.
func (o *Orchestrator) ProcessTurn(ctx context.Context, tc *Context) (Outcome, error) {
	ctx, span := turnTracer.Start(ctx, "turn.process")
	defer span.End()

	started := o.now()
	out := Outcome{}
	skipRegularReply := false
	skipLeadClassification := false
	schedulingTriggered := false

	log := o.logger.With(
		"account_id", tc.AccountID,
		"conversation_id", tc.ConversationID,
	)

	o.runAttributeSubStep(ctx, tc, log)

	// Step 1: pending booking confirmation.
	pending, err := o.cfg.Bookings.GetPendingBooking(ctx, tc.Key())
	if err != nil {
		log.Error("pending booking lookup failed", "error", err)
		pending = nil
	}
	if pending != nil {
		out.HasScheduling = true
		o.runConfirmationStep(ctx, tc, pending, &out, &skipRegularReply, &skipLeadClassification, log)
	} else {
		// Step 2: scheduling intent.
		schedulingTriggered = o.runSchedulingStep(ctx, tc, &out, &skipRegularReply, log)
	}

	// Step 3: lead classification. A scheduling trigger that somehow left no
	// pending record counts as already resolved this turn.
	if schedulingTriggered {
		if p, err := o.cfg.Bookings.GetPendingBooking(ctx, tc.Key()); err == nil && p == nil {
			skipLeadClassification = true
		}
	}
	if !skipLeadClassification {
		o.runClassificationStep(ctx, tc, &out, log)
	}

	// Step 4: ordinary reply. A failed send here is fatal to the turn.
	if !skipRegularReply {
		if err := o.runReplyStep(ctx, tc, &out, log); err != nil {
			o.cfg.Metrics.ObserveTurn("reply_failed", o.now().Sub(started).Seconds())
			return out, err
		}
	}

	// Step 5: reminder re-evaluation, unconditional. A freshly confirmed
	// booking ends the conversation's need for nudges, so it cancels without
	// re-arming; everything else follows the customer-authored rule.
	o.cfg.Reminders.Observe(tc.ConversationID, tc.FromCustomer && !out.BookingConfirmed, reminder.Snapshot{
		Attributes:    tc.Attributes,
		HasScheduling: out.HasScheduling,
		MessageCount:  len(tc.Messages),
		LastUpdated:   o.now(),
	})
	o.cfg.Metrics.ObserveReminderEvent("evaluated")

	o.cfg.Metrics.ObserveTurn(outcomeLabel(out), o.now().Sub(started).Seconds())
	return out, nil
}

// runAttributeSubStep detects corrections, extracts newly provided values and
// pushes the merged set to the contact record. Failures are logged and the
// turn continues with whatever was merged locally.
func (o *Orchestrator) runAttributeSubStep(ctx context.Context, tc *Context, log *logging.Logger) {
	if tc.Attributes == nil {
		tc.Attributes = make(map[string]string)
	}

	changed := false
	intent := o.cfg.Attributes.DetectChangeIntent(ctx, tc.Latest().Content, tc.Attributes, tc.Definitions)
	if intent.HasChange {
		for key, value := range intent.Updates {
			tc.Attributes[key] = value
			changed = true
		}
	}
	for key, value := range o.cfg.Attributes.ExtractMissing(ctx, tc.Messages, tc.Attributes, tc.Definitions) {
		tc.Attributes[key] = value
		changed = true
	}

	if changed && tc.ContactID != 0 {
		if err := o.cfg.Messenger.UpdateContactAttributes(ctx, tc.ContactID, tc.Attributes); err != nil {
			log.Warn("contact attribute update failed", "error", err)
		}
	}
}

func (o *Orchestrator) runConfirmationStep(ctx context.Context, tc *Context, pending *booking.PendingBooking, out *Outcome, skipRegularReply, skipLeadClassification *bool, log *logging.Logger) {
	result := o.cfg.Confirmations.DetectConfirmation(ctx, tc.Messages, tc.Attributes)

	switch {
	case result.IsConfirmation && result.Confidence >= o.cfg.ConfirmationThreshold:
		booked := o.cfg.Calendar.BookPickup(ctx, pending.Details)
		if !booked.Success && !booked.Skipped {
			// Calendar failure: caught at this step's boundary, record
			// left pending so the customer can retry.
			log.Error("calendar booking failed", "error", booked.Error)
			o.cfg.Metrics.ObserveBookingEvent("calendar_failed")
			return
		}

		if _, err := o.cfg.Bookings.ConfirmBooking(ctx, tc.Key()); err != nil {
			log.Error("booking confirmation write failed", "error", err)
			return
		}
		if err := o.cfg.Bookings.ClearBooking(ctx, tc.Key()); err != nil {
			log.Error("booking clear failed", "error", err)
		}

		cls := leads.Booked()
		out.Classification = &cls
		out.BookingConfirmed = true
		out.CalendarEventID = booked.EventID
		*skipRegularReply = true
		*skipLeadClassification = true
		o.cfg.Metrics.ObserveBookingEvent("confirmed")
		o.cfg.Metrics.ObserveClassification(string(cls.Category))

		if err := o.cfg.Tags.Reconcile(ctx, tc.ConversationID, cls.Category); err != nil {
			log.Warn("booked tag reconciliation failed", "error", err)
		}

		ack := confirmationAck(pending.Details)
		if _, err := o.cfg.Messenger.SendReply(ctx, tc.ConversationID, ack); err != nil {
			log.Error("confirmation acknowledgment send failed", "error", err)
			return
		}
		out.Reply = ack

	case result.IsRejection && result.Confidence >= o.cfg.ConfirmationThreshold:
		if err := o.cfg.Bookings.ClearBooking(ctx, tc.Key()); err != nil {
			log.Error("booking clear after rejection failed", "error", err)
			return
		}
		out.BookingRejected = true
		out.HasScheduling = false
		o.cfg.Metrics.ObserveBookingEvent("rejected")

	default:
		// Below threshold either way: record untouched, ordinary reply path
		// lets the model ask a clarifying question.
	}
}

// runSchedulingStep reports whether scheduling intent triggered at or above
// the threshold.
func (o *Orchestrator) runSchedulingStep(ctx context.Context, tc *Context, out *Outcome, skipRegularReply *bool, log *logging.Logger) bool {
	intent := o.cfg.Intents.DetectIntent(ctx, tc.Messages, tc.Attributes)
	if !intent.WantsToSchedule || intent.Confidence < o.cfg.SchedulingThreshold {
		return false
	}

	details := scheduling.FormatSchedulingDetails(intent.Extracted, tc.Attributes)
	if _, err := o.cfg.Bookings.SetPendingConfirmation(ctx, tc.Key(), details); err != nil {
		log.Error("pending booking registration failed", "error", err)
		return true
	}

	summary := scheduling.SummaryMessage(details)
	if _, err := o.cfg.Messenger.SendReply(ctx, tc.ConversationID, summary); err != nil {
		// Summary never reached the customer; leaving the record pending
		// would strand the conversation awaiting a confirmation of nothing.
		log.Error("booking summary send failed", "error", err)
		if clearErr := o.cfg.Bookings.ClearBooking(ctx, tc.Key()); clearErr != nil {
			log.Error("booking rollback failed", "error", clearErr)
		}
		return true
	}

	out.Reply = summary
	out.BookingCreated = true
	out.HasScheduling = true
	*skipRegularReply = true
	o.cfg.Metrics.ObserveBookingEvent("created")
	return true
}

func (o *Orchestrator) runClassificationStep(ctx context.Context, tc *Context, out *Outcome, log *logging.Logger) {
	missing := tc.Missing()
	if !leads.ShouldClassify(tc.Messages, missing) {
		return
	}

	cls := o.cfg.Classifier.Classify(ctx, tc.Messages, tc.Attributes, missing, out.HasScheduling)
	out.Classification = &cls
	o.cfg.Metrics.ObserveClassification(string(cls.Category))

	if err := o.cfg.Tags.Reconcile(ctx, tc.ConversationID, cls.Category); err != nil {
		// Tag mutation failure: this sub-effect did not happen, turn goes on.
		log.Warn("lead tag reconciliation failed", "error", err)
	}
}

func (o *Orchestrator) runReplyStep(ctx context.Context, tc *Context, out *Outcome, log *logging.Logger) error {
	var askFor []string
	missing := tc.Missing()
	if o.cfg.Attributes.ShouldCollectNow(len(tc.Messages), missing) {
		askFor = missing
	}

	reply, err := o.cfg.Replies.GenerateReply(ctx, tc, askFor)
	if err != nil {
		// Degraded oracle: worst customer-visible outcome is a missing reply.
		log.Error("reply generation failed", "error", err)
		o.cfg.Metrics.ObserveOracleFailure("reply_generator")
		return nil
	}

	if _, err := o.cfg.Messenger.SendReply(ctx, tc.ConversationID, reply); err != nil {
		log.Error("reply send failed", "error", err)
		return fmt.Errorf("turn: send reply: %w", err)
	}
	out.Reply = reply
	return nil
}

func confirmationAck(details booking.SchedulingDetails) string {
	return fmt.Sprintf("✅ Your pickup is confirmed!\n\n📅 %s at %s\n📍 %s\n\nWe'll be in touch before the crew heads out. Thanks, %s!",
		details.PickupDate, details.PickupTime, details.PickupAddress, details.CustomerName)
}

func outcomeLabel(out Outcome) string {
	switch {
	case out.BookingConfirmed:
		return "confirmed"
	case out.BookingRejected:
		return "rejected"
	case out.BookingCreated:
		return "summary_sent"
	default:
		return "replied"
	}
}
