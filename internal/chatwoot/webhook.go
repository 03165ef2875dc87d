package chatwoot

// Webhook payloads differ from the REST shapes: message_type arrives as a
// string ("incoming"/"outgoing") and the contact rides along under
// conversation.meta.sender.

// WebhookAccount identifies the helpdesk account the event belongs to.
type WebhookAccount struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// WebhookContact is the conversation's contact as embedded in the webhook.
type WebhookContact struct {
	ID               int               `json:"id"`
	Name             string            `json:"name"`
	PhoneNumber      string            `json:"phone_number"`
	CustomAttributes map[string]string `json:"custom_attributes"`
}

// WebhookConversation carries the conversation id plus contact metadata.
type WebhookConversation struct {
	ID   int `json:"id"`
	Meta struct {
		Sender WebhookContact `json:"sender"`
	} `json:"meta"`
}

// WebhookEvent is the message_created event envelope.
type WebhookEvent struct {
	Event        string              `json:"event"`
	ID           int                 `json:"id"`
	Content      string              `json:"content"`
	MessageType  string              `json:"message_type"`
	Private      bool                `json:"private"`
	Sender       Sender              `json:"sender"`
	Account      WebhookAccount      `json:"account"`
	Conversation WebhookConversation `json:"conversation"`
}

// IsCustomerMessage reports whether the event is a public, non-empty,
// contact-authored incoming message — the only kind that starts a turn.
func (e WebhookEvent) IsCustomerMessage() bool {
	if e.Event != "message_created" {
		return false
	}
	if e.MessageType != "incoming" || e.Private || e.Content == "" {
		return false
	}
	return e.Sender.Type == "" || e.Sender.Type == "contact"
}
