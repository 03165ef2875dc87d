package booking

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel"

	"github.com/max-verstappen001/wiral-node-sub001/internal/chatwoot"
	"github.com/max-verstappen001/wiral-node-sub001/internal/nlu"
	"github.com/max-verstappen001/wiral-node-sub001/pkg/logging"
)

var confirmationTracer = otel.Tracer("wiral/booking-confirmation")

// confirmationWindow is how many trailing messages the oracle sees.
const confirmationWindow = 5

// ConfirmationResult is the normalized oracle verdict on whether the customer
// just confirmed or rejected a pending booking. The zero value is the safe
// negative default.
type ConfirmationResult struct {
	IsConfirmation bool    `json:"is_confirmation"`
	IsRejection    bool    `json:"is_rejection"`
	Confidence     float64 `json:"confidence"`
	Reasoning      string  `json:"reasoning"`
}

const confirmationPrompt = `A booking summary was just sent to the customer and is awaiting their confirmation.
Read the recent conversation and decide whether the customer's latest message confirms the booking, rejects it, or does neither.

Known customer attributes:
%s

Recent conversation:
%s

Respond with JSON only:
{"is_confirmation": <bool>, "is_rejection": <bool>, "confidence": <0..1>, "reasoning": "<short>"}

Rules:
- "yes", "correct", "that works", "confirm" and similar are confirmations.
- "no", "wrong", "change it", "cancel" and similar are rejections.
- A question or an unrelated message is neither; use low confidence.
- is_confirmation and is_rejection are mutually exclusive.`

// ConfirmationDetector asks the oracle whether a pending booking was just
// confirmed or rejected. It never lets an oracle failure escape: any error or
// unusable payload yields the all-negative default.
type ConfirmationDetector struct {
	client nlu.Client
	model  string
	logger *logging.Logger
}

// NewConfirmationDetector creates a detector bound to an oracle client.
func NewConfirmationDetector(client nlu.Client, model string, logger *logging.Logger) *ConfirmationDetector {
	if client == nil {
		panic("booking: oracle client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ConfirmationDetector{client: client, model: model, logger: logger}
}

// DetectConfirmation runs the oracle over the last messages of the window.
func (d *ConfirmationDetector) DetectConfirmation(ctx context.Context, messages []chatwoot.Message, attributes map[string]string) ConfirmationResult {
	ctx, span := confirmationTracer.Start(ctx, "booking.detect_confirmation")
	defer span.End()

	window := chatwoot.TailWindow(messages, confirmationWindow)
	prompt := fmt.Sprintf(confirmationPrompt, formatAttributes(attributes), chatwoot.FormatTranscript(window))

	resp, err := d.client.Complete(ctx, nlu.Request{
		Model:       d.model,
		Messages:    []nlu.ChatMessage{{Role: nlu.ChatRoleUser, Content: prompt}},
		MaxTokens:   256,
		Temperature: 0,
	})
	if err != nil {
		d.logger.Warn("confirmation detection oracle failed", "error", err)
		return ConfirmationResult{}
	}

	payload := nlu.ExtractJSON(resp.Text)
	if payload == "" {
		d.logger.Warn("confirmation detection returned no JSON", "text", resp.Text)
		return ConfirmationResult{}
	}

	var result ConfirmationResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		d.logger.Warn("confirmation detection returned unusable JSON", "error", err)
		return ConfirmationResult{}
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		result.Confidence = 0
	}
	return result
}

func formatAttributes(attributes map[string]string) string {
	if len(attributes) == 0 {
		return "(none collected yet)"
	}
	out := ""
	for key, value := range attributes {
		if value == "" {
			continue
		}
		out += fmt.Sprintf("- %s: %s\n", key, value)
	}
	if out == "" {
		return "(none collected yet)"
	}
	return out
}
