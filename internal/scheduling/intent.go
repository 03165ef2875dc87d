package scheduling

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel"

	"github.com/max-verstappen001/wiral-node-sub001/internal/chatwoot"
	"github.com/max-verstappen001/wiral-node-sub001/internal/nlu"
	"github.com/max-verstappen001/wiral-node-sub001/pkg/logging"
)

var intentTracer = otel.Tracer("wiral/scheduling-intent")

// intentWindow is how many trailing messages the oracle sees.
const intentWindow = 10

// ExtractedDetails are the raw scheduling fields the oracle pulled from the
// conversation. Absent fields are empty strings here; FormatSchedulingDetails
// applies the downstream "Not provided"/"Not specified" contract.
type ExtractedDetails struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	Address string `json:"address"`
	Urgency string `json:"urgency"`
	Notes   string `json:"notes"`
}

// IntentResult is the normalized oracle verdict on new scheduling intent.
// The zero value is the safe negative default.
type IntentResult struct {
	WantsToSchedule bool             `json:"wants_to_schedule"`
	Confidence      float64          `json:"confidence"`
	Extracted       ExtractedDetails `json:"extracted_details"`
	Reasoning       string           `json:"reasoning"`
}

const intentPrompt = `You are watching a conversation between a moving/logistics company and a customer.
Decide whether the customer's latest messages express a NEW, explicit intent to schedule a pickup or book the service.

STRICT RULE: only report scheduling intent when the customer uses explicit scheduling or booking vocabulary ("book", "schedule", "pick up", "come on", "confirm for") or explicit date/time vocabulary ("tomorrow", "Monday", "at 3pm", "June 22"). General questions about the service, pricing, or availability are NOT scheduling intent.

Known customer attributes:
%s

Recent conversation:
%s

Respond with JSON only:
{"wants_to_schedule": <bool>, "confidence": <0..1>, "extracted_details": {"date": "", "time": "", "address": "", "urgency": "", "notes": ""}, "reasoning": "<short>"}

Leave extracted fields empty when the conversation does not mention them.`

// IntentDetector asks the oracle whether the customer just expressed
// scheduling intent. Oracle failures degrade to the negative default and
// never propagate.
type IntentDetector struct {
	client nlu.Client
	model  string
	logger *logging.Logger
}

// NewIntentDetector creates a detector bound to an oracle client.
func NewIntentDetector(client nlu.Client, model string, logger *logging.Logger) *IntentDetector {
	if client == nil {
		panic("scheduling: oracle client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &IntentDetector{client: client, model: model, logger: logger}
}

// DetectIntent runs the oracle over the last messages of the window. The
// returned Confidence is the sole gating signal for the caller; the oracle's
// reasoning is informational only.
func (d *IntentDetector) DetectIntent(ctx context.Context, messages []chatwoot.Message, attributes map[string]string) IntentResult {
	ctx, span := intentTracer.Start(ctx, "scheduling.detect_intent")
	defer span.End()

	window := chatwoot.TailWindow(messages, intentWindow)
	prompt := fmt.Sprintf(intentPrompt, formatAttributes(attributes), chatwoot.FormatTranscript(window))

	resp, err := d.client.Complete(ctx, nlu.Request{
		Model:       d.model,
		Messages:    []nlu.ChatMessage{{Role: nlu.ChatRoleUser, Content: prompt}},
		MaxTokens:   512,
		Temperature: 0,
	})
	if err != nil {
		d.logger.Warn("scheduling intent oracle failed", "error", err)
		return IntentResult{}
	}

	payload := nlu.ExtractJSON(resp.Text)
	if payload == "" {
		d.logger.Warn("scheduling intent returned no JSON", "text", resp.Text)
		return IntentResult{}
	}

	var result IntentResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		d.logger.Warn("scheduling intent returned unusable JSON", "error", err)
		return IntentResult{}
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
