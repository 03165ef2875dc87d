package chatwoot

// Chatwoot message_type values.
const (
	MessageTypeIncoming = 0
	MessageTypeOutgoing = 1
)

// Sender identifies who authored a conversation message.
type Sender struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // "contact", "user" (agent), "agent_bot"
}

// Message is a single conversation message as returned by the platform.
type Message struct {
	ID          int    `json:"id"`
	Content     string `json:"content"`
	MessageType int    `json:"message_type"`
	CreatedAt   int64  `json:"created_at"`
	Private     bool   `json:"private"`
	Sender      Sender `json:"sender"`
}

// IsIncoming reports whether the message came from the contact side.
func (m Message) IsIncoming() bool {
	return m.MessageType == MessageTypeIncoming
}

type messagesEnvelope struct {
	Payload []Message `json:"payload"`
}

type labelsEnvelope struct {
	Payload []string `json:"payload"`
}

type sendMessageRequest struct {
	Content     string `json:"content"`
	MessageType string `json:"message_type"`
	Private     bool   `json:"private"`
}

type setLabelsRequest struct {
	Labels []string `json:"labels"`
}

type updateContactRequest struct {
	CustomAttributes map[string]string `json:"custom_attributes"`
}
