package turn

import (
	"github.com/max-verstappen001/wiral-node-sub001/internal/attributes"
	"github.com/max-verstappen001/wiral-node-sub001/internal/booking"
	"github.com/max-verstappen001/wiral-node-sub001/internal/chatwoot"
	"github.com/max-verstappen001/wiral-node-sub001/internal/leads"
)

// Context carries everything one inbound message needs for a full turn. The
// handler assembles it from the webhook payload plus a message-history fetch;
// the orchestrator mutates only Attributes (via the attribute sub-step).
type Context struct {
	AccountID      string
	ConversationID int
	ContactID      int

	// Messages is the turn window, oldest first, ending with the
	// triggering message.
	Messages    []chatwoot.Message
	Attributes  map[string]string
	Definitions []attributes.Definition

	// FromCustomer is true when the triggering message is customer-authored.
	FromCustomer bool
}

// Latest returns the triggering message.
func (c *Context) Latest() chatwoot.Message {
	if len(c.Messages) == 0 {
		return chatwoot.Message{}
	}
	return c.Messages[len(c.Messages)-1]
}

// Missing lists required attribute keys not yet collected.
func (c *Context) Missing() []string {
	return attributes.Missing(c.Definitions, c.Attributes)
}

// Key identifies this conversation in the pending-booking store.
func (c *Context) Key() string {
	return booking.Key(c.AccountID, c.ConversationID)
}

// Outcome summarizes what a turn did. Consumed by the handler for logging
// and by tests.
type Outcome struct {
	Reply            string
	BookingCreated   bool
	BookingConfirmed bool
	BookingRejected  bool
	CalendarEventID  string
	Classification   *leads.Classification
	HasScheduling    bool
}
