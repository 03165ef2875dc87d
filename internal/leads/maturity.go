package leads

import (
	"strings"

	"github.com/max-verstappen001/wiral-node-sub001/internal/chatwoot"
)

const (
	minMessagesToClassify    = 6
	forceClassifyAtMessages  = 8
	earlyCustomerMessagesMin = 4
)

var questionSignals = []string{"?", "when", "how", "what"}
var urgencySignals = []string{"urgent", "asap", "quickly", "need", "immediately"}

// ShouldClassify is the maturity gate that runs before any oracle call.
// Rules, in order: never before 6 accumulated messages; always once every
// required attribute has been collected; always at 8 messages; early only
// with at least 4 customer messages one of which shows engagement.
func ShouldClassify(messages []chatwoot.Message, missingAttributes []string) bool {
	if len(messages) < minMessagesToClassify {
		return false
	}
	if len(missingAttributes) == 0 {
		return true
	}
	if len(messages) >= forceClassifyAtMessages {
		return true
	}

	customerMessages := 0
	engaged := false
	for _, msg := range messages {
		if !msg.IsIncoming() {
			continue
		}
		customerMessages++
		if hasEngagementSignal(msg.Content) {
			engaged = true
		}
	}
	return customerMessages >= earlyCustomerMessagesMin && engaged
}

func hasEngagementSignal(content string) bool {
	content = strings.ToLower(content)
	for _, signal := range questionSignals {
		if strings.Contains(content, signal) {
			return true
		}
	}
	for _, signal := range urgencySignals {
		if strings.Contains(content, signal) {
			return true
		}
	}
	return false
}
