package turn

import (
	"context"
	"fmt"
	"strings"

	"github.com/max-verstappen001/wiral-node-sub001/internal/nlu"
	"github.com/max-verstappen001/wiral-node-sub001/pkg/logging"
)

// ReplyGenerator produces the ordinary conversational reply for a turn.
// askFor names attributes the reply should try to collect; empty means just
// converse.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, tc *Context, askFor []string) (string, error)
}

const replySystemPrompt = `You are a friendly assistant for a moving and logistics company. You help customers plan their move, answer questions about services and pricing, and collect the details needed for a quote.
Keep replies short and conversational, suitable for a chat window. Never invent prices. Never mention that you are an AI.`

// OracleReplyGenerator generates replies with the NLU oracle, mapping the
// conversation window onto a chat completion.
type OracleReplyGenerator struct {
	client nlu.Client
	model  string
	logger *logging.Logger
}

func NewOracleReplyGenerator(client nlu.Client, model string, logger *logging.Logger) *OracleReplyGenerator {
	if client == nil {
		panic("turn: oracle client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &OracleReplyGenerator{client: client, model: model, logger: logger}
}

func (g *OracleReplyGenerator) GenerateReply(ctx context.Context, tc *Context, askFor []string) (string, error) {
	system := replySystemPrompt
	if len(askFor) > 0 {
		system += fmt.Sprintf("\nIn your reply, naturally ask the customer for: %s. Ask for at most two things at once.", strings.Join(askFor, ", "))
	}

	var msgs []nlu.ChatMessage
	for _, m := range tc.Messages {
		if m.Private || strings.TrimSpace(m.Content) == "" {
			continue
		}
		role := nlu.ChatRoleAssistant
		if m.IsIncoming() {
			role = nlu.ChatRoleUser
		}
		msgs = append(msgs, nlu.ChatMessage{Role: role, Content: m.Content})
	}
	if len(msgs) == 0 {
		return "", fmt.Errorf("turn: no usable messages in window")
	}

	resp, err := g.client.Complete(ctx, nlu.Request{
		Model:       g.model,
		System:      []string{system},
		Messages:    msgs,
		MaxTokens:   512,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("turn: generate reply: %w", err)
	}
	reply := strings.TrimSpace(resp.Text)
	if reply == "" {
		return "", fmt.Errorf("turn: oracle returned an empty reply")
	}
	return reply, nil
}
