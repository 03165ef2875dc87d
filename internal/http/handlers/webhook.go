package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/max-verstappen001/wiral-node-sub001/internal/attributes"
	"github.com/max-verstappen001/wiral-node-sub001/internal/chatwoot"
	"github.com/max-verstappen001/wiral-node-sub001/internal/tenant"
	"github.com/max-verstappen001/wiral-node-sub001/internal/turn"
	"github.com/max-verstappen001/wiral-node-sub001/pkg/logging"
)

const defaultMessageWindow = 20

// ChatwootWebhookHandler receives message_created events and runs a turn for
// each customer message. Everything ignorable is acknowledged with 200 so the
// platform never retries; only a failed reply send surfaces as a 500.
type ChatwootWebhookHandler struct {
	orchestrator *turn.Orchestrator
	client       *chatwoot.Client
	tenants      *tenant.Registry
	definitions  []attributes.Definition
	windowSize   int
	logger       *logging.Logger
}

func NewChatwootWebhookHandler(orchestrator *turn.Orchestrator, client *chatwoot.Client, tenants *tenant.Registry, windowSize int, logger *logging.Logger) *ChatwootWebhookHandler {
	if orchestrator == nil {
		panic("handlers: orchestrator cannot be nil")
	}
	if client == nil {
		panic("handlers: chatwoot client cannot be nil")
	}
	if tenants == nil {
		panic("handlers: tenant registry cannot be nil")
	}
	if windowSize <= 0 {
		windowSize = defaultMessageWindow
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatwootWebhookHandler{
		orchestrator: orchestrator,
		client:       client,
		tenants:      tenants,
		definitions:  attributes.DefaultDefinitions,
		windowSize:   windowSize,
		logger:       logger,
	}
}

// HandleMessageCreated is the POST /webhooks/chatwoot endpoint.
func (h *ChatwootWebhookHandler) HandleMessageCreated(w http.ResponseWriter, r *http.Request) {
	var event chatwoot.WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		// Malformed payloads are acknowledged, not retried.
		h.logger.Warn("malformed webhook payload", "error", err)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	if !event.IsCustomerMessage() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	accountID := strconv.Itoa(event.Account.ID)
	if _, ok := h.tenants.Lookup(accountID); !ok {
		h.logger.Warn("webhook for unknown or inactive tenant", "account_id", accountID)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	ctx := r.Context()
	messages, err := h.client.ListMessages(ctx, event.Conversation.ID, h.windowSize)
	if err != nil {
		// The triggering message alone still makes a processable window.
		h.logger.Warn("message history fetch failed, using event only", "error", err)
		messages = []chatwoot.Message{{
			ID:          event.ID,
			Content:     event.Content,
			MessageType: chatwoot.MessageTypeIncoming,
			Sender:      event.Sender,
		}}
	}

	tc := &turn.Context{
		AccountID:      accountID,
		ConversationID: event.Conversation.ID,
		ContactID:      event.Conversation.Meta.Sender.ID,
		Messages:       messages,
		Attributes:     cloneAttributes(event.Conversation.Meta.Sender.CustomAttributes),
		Definitions:    h.definitions,
		FromCustomer:   true,
	}

	out, err := h.orchestrator.ProcessTurn(ctx, tc)
	if err != nil {
		// Only a failed reply send lands here; the customer saw nothing.
		h.logger.Error("turn failed", "conversation_id", tc.ConversationID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
		return
	}

	h.logger.Info("turn completed",
		"conversation_id", tc.ConversationID,
		"booking_created", out.BookingCreated,
		"booking_confirmed", out.BookingConfirmed,
		"replied", out.Reply != "")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func cloneAttributes(attrs map[string]string) map[string]string {
	out := make(map[string]string, len(attrs))
	for key, value := range attrs {
		if strings.TrimSpace(value) == "" {
			continue
		}
		out[key] = value
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
