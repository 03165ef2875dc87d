package attributes

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/max-verstappen001/wiral-node-sub001/internal/chatwoot"
	"github.com/max-verstappen001/wiral-node-sub001/internal/nlu"
	"github.com/max-verstappen001/wiral-node-sub001/pkg/logging"
)

// Definition describes one attribute the agent collects during a
// conversation.
type Definition struct {
	Key         string `json:"key"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// DefaultDefinitions are the fields a moving lead is expected to provide.
var DefaultDefinitions = []Definition{
	{Key: "lead_name", Description: "the customer's name", Required: true},
	{Key: "phone_number", Description: "a phone number we can reach the customer on", Required: true},
	{Key: "origin", Description: "the pickup location", Required: true},
	{Key: "destination", Description: "the drop-off location", Required: true},
	{Key: "service_type", Description: "what kind of move this is (house shifting, office relocation, vehicle transport, ...)", Required: true},
	{Key: "cargo_details", Description: "what is being moved (rooms, items, approximate volume)", Required: false},
	{Key: "preferred_date", Description: "when the customer wants the move to happen", Required: false},
}

// ChangeIntent is the verdict on whether the customer's latest message
// corrects or updates previously collected attributes.
type ChangeIntent struct {
	HasChange bool              `json:"has_change"`
	Updates   map[string]string `json:"updates"`
	Reasoning string            `json:"reasoning"`
}

// Service is the attribute collaborator consumed by the orchestrator. All
// methods return empty/negative results on failure and never raise.
type Service interface {
	DetectChangeIntent(ctx context.Context, message string, current map[string]string, defs []Definition) ChangeIntent
	ExtractMissing(ctx context.Context, messages []chatwoot.Message, current map[string]string, defs []Definition) map[string]string
	ShouldCollectNow(messageCount int, missing []string) bool
}

// Missing lists the keys of required definitions with no collected value.
func Missing(defs []Definition, current map[string]string) []string {
	var missing []string
	for _, def := range defs {
		if !def.Required {
			continue
		}
		if strings.TrimSpace(current[def.Key]) == "" {
			missing = append(missing, def.Key)
		}
	}
	return missing
}

const changeIntentPrompt = `A customer of a moving/logistics company sent a new message. Decide whether it corrects or updates any of the details we already have on file.

Details on file:
%s

Attribute definitions:
%s

Customer message:
%s

Respond with JSON only:
{"has_change": <bool>, "updates": {"<key>": "<new value>"}, "reasoning": "<short>"}

Only include keys whose value actually changed.`

const extractionPrompt = `A customer is talking to a moving/logistics company. Extract any of the listed attributes the customer has provided that we have not yet recorded.

Already recorded:
%s

Attributes to extract:
%s

Recent conversation:
%s

Respond with JSON only, mapping attribute keys to extracted values. Use an empty object when nothing new was provided.`

// OracleService implements Service on top of the NLU oracle.
type OracleService struct {
	client          nlu.Client
	model           string
	logger          *logging.Logger
	collectEarlyMax int
	suppressAt      int
}

// NewOracleService creates the default attribute collaborator.
// collectEarlyMax is the message count under which collection always runs;
// suppressAt is the count at which collection stops nagging entirely.
func NewOracleService(client nlu.Client, model string, collectEarlyMax, suppressAt int, logger *logging.Logger) *OracleService {
	if client == nil {
		panic("attributes: oracle client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if collectEarlyMax <= 0 {
		collectEarlyMax = 4
	}
	if suppressAt <= collectEarlyMax {
		suppressAt = 10
	}
	return &OracleService{
		client:          client,
		model:           model,
		logger:          logger,
		collectEarlyMax: collectEarlyMax,
		suppressAt:      suppressAt,
	}
}

// DetectChangeIntent asks the oracle whether the message revises details
// already on file.
func (s *OracleService) DetectChangeIntent(ctx context.Context, message string, current map[string]string, defs []Definition) ChangeIntent {
	if strings.TrimSpace(message) == "" || len(current) == 0 {
		return ChangeIntent{}
	}

	prompt := fmt.Sprintf(changeIntentPrompt, formatCurrent(current), formatDefinitions(defs), message)
	result := ChangeIntent{}
	if !s.complete(ctx, prompt, &result) {
		return ChangeIntent{}
	}
	if !result.HasChange || len(result.Updates) == 0 {
		return ChangeIntent{Reasoning: result.Reasoning}
	}
	return result
}

// ExtractMissing asks the oracle for newly provided values of not-yet-known
// attributes. Returns an empty map on any failure.
func (s *OracleService) ExtractMissing(ctx context.Context, messages []chatwoot.Message, current map[string]string, defs []Definition) map[string]string {
	wanted := make([]Definition, 0, len(defs))
	for _, def := range defs {
		if strings.TrimSpace(current[def.Key]) == "" {
			wanted = append(wanted, def)
		}
	}
	if len(wanted) == 0 {
		return map[string]string{}
	}

	prompt := fmt.Sprintf(extractionPrompt, formatCurrent(current), formatDefinitions(wanted), chatwoot.FormatTranscript(messages))
	extracted := map[string]string{}
	if !s.complete(ctx, prompt, &extracted) {
		return map[string]string{}
	}

	// The oracle only fills gaps; it must never overwrite collected values.
	for key, value := range extracted {
		if strings.TrimSpace(value) == "" || strings.TrimSpace(current[key]) != "" {
			delete(extracted, key)
		}
	}
	return extracted
}

// ShouldCollectNow is the collection-timing policy: always in the opening
// messages, never once the conversation is long enough that more prompting
// would feel like nagging, and in between only while several required fields
// are still open.
func (s *OracleService) ShouldCollectNow(messageCount int, missing []string) bool {
	if len(missing) == 0 {
		return false
	}
	if messageCount <= s.collectEarlyMax {
		return true
	}
	if messageCount >= s.suppressAt {
		return false
	}
	return len(missing) >= 2
}

func (s *OracleService) complete(ctx context.Context, prompt string, out any) bool {
	resp, err := s.client.Complete(ctx, nlu.Request{
		Model:       s.model,
		Messages:    []nlu.ChatMessage{{Role: nlu.ChatRoleUser, Content: prompt}},
		MaxTokens:   512,
		Temperature: 0,
	})
	if err != nil {
		s.logger.Warn("attribute oracle failed", "error", err)
		return false
	}
	payload := nlu.ExtractJSON(resp.Text)
	if payload == "" {
		s.logger.Warn("attribute oracle returned no JSON", "text", resp.Text)
		return false
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		s.logger.Warn("attribute oracle returned unusable JSON", "error", err)
		return false
	}
	return true
}

func formatCurrent(current map[string]string) string {
	if len(current) == 0 {
		return "(nothing yet)"
	}
	out := ""
	for key, value := range current {
		if value == "" {
			continue
		}
		out += fmt.Sprintf("- %s: %s\n", key, value)
	}
	if out == "" {
		return "(nothing yet)"
	}
	return out
}

func formatDefinitions(defs []Definition) string {
	out := ""
	for _, def := range defs {
		out += fmt.Sprintf("- %s: %s\n", def.Key, def.Description)
	}
	return out
}
