package leads

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"

	"github.com/max-verstappen001/wiral-node-sub001/internal/chatwoot"
	"github.com/max-verstappen001/wiral-node-sub001/internal/nlu"
	"github.com/max-verstappen001/wiral-node-sub001/pkg/logging"
)

var classifierTracer = otel.Tracer("wiral/lead-classification")

const classifierPrompt = `You are qualifying a lead for a moving/logistics company based on their conversation with our agent.

Classify the lead into exactly one category:
- "hot": ready to move soon, concrete dates or addresses, strong buying signals.
- "warm": genuinely interested but still exploring; missing key details.
- "cold": idle, unresponsive, or clearly not a buyer.
- "rfq": the customer explicitly asked for a quotation, price estimate, or formal quote.

PRIORITY RULE: an explicit request for a quote ALWAYS wins. If the customer asked for a quote at any point, the category is "rfq" regardless of how hot or cold the lead otherwise looks.
Never output any other category.

Known customer attributes:
%s

Still missing: %s
Appointment already booked: %t

Full conversation:
%s

Respond with JSON only:
{"category": "hot|warm|cold|rfq", "score": <0..1>, "reasoning": "<short>"}`

// Classifier asks the oracle to bucket a mature lead. Oracle failures degrade
// to the warm default and never propagate.
type Classifier struct {
	client nlu.Client
	model  string
	logger *logging.Logger
}

// NewClassifier creates a classifier bound to an oracle client.
func NewClassifier(client nlu.Client, model string, logger *logging.Logger) *Classifier {
	if client == nil {
		panic("leads: oracle client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Classifier{client: client, model: model, logger: logger}
}

// Classify runs the oracle over the full accumulated window. hasAppointment
// tells the oracle a booking already exists so it can weigh engagement, but
// the booked category itself is reserved for the orchestrator.
func (c *Classifier) Classify(ctx context.Context, messages []chatwoot.Message, attributes map[string]string, missing []string, hasAppointment bool) Classification {
	ctx, span := classifierTracer.Start(ctx, "leads.classify")
	defer span.End()

	prompt := fmt.Sprintf(classifierPrompt,
		formatAttributes(attributes),
		formatMissing(missing),
		hasAppointment,
		chatwoot.FormatTranscript(messages),
	)

	resp, err := c.client.Complete(ctx, nlu.Request{
		Model:       c.model,
		Messages:    []nlu.ChatMessage{{Role: nlu.ChatRoleUser, Content: prompt}},
		MaxTokens:   256,
		Temperature: 0,
	})
	if err != nil {
		c.logger.Warn("lead classification oracle failed", "error", err)
		return DefaultClassification()
	}

	payload := nlu.ExtractJSON(resp.Text)
	if payload == "" {
		c.logger.Warn("lead classification returned no JSON", "text", resp.Text)
		return DefaultClassification()
	}

	var result Classification
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		c.logger.Warn("lead classification returned unusable JSON", "error", err)
		return DefaultClassification()
	}

	result.Category = Category(strings.ToLower(strings.TrimSpace(string(result.Category))))
	if _, ok := oracleCategories[result.Category]; !ok {
		c.logger.Warn("lead classification returned unknown category", "category", result.Category)
		return DefaultClassification()
	}
	if result.Score < 0 || result.Score > 1 {
		result.Score = DefaultClassification().Score
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

func formatMissing(missing []string) string {
	if len(missing) == 0 {
		return "(nothing)"
	}
	return strings.Join(missing, ", ")
}
