package chatwoot

import "strings"

// FormatTranscript renders a message window as a plain-text transcript for
// oracle prompts, oldest first. Private notes are skipped.
func FormatTranscript(messages []Message) string {
	var b strings.Builder
	for _, msg := range messages {
		content := strings.TrimSpace(msg.Content)
		if content == "" || msg.Private {
			continue
		}
		if msg.IsIncoming() {
			b.WriteString("Customer: ")
		} else {
			b.WriteString("Agent: ")
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

// TailWindow returns the last n messages of the window (all of them when the
// window is shorter).
func TailWindow(messages []Message, n int) []Message {
	if n <= 0 || len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}
