package reminder

// significantAttributes is the fixed set of fields whose presence means the
// customer has already shared real information.
var significantAttributes = []string{"origin", "destination", "service_type", "cargo_details", "lead_name"}

const (
	coldOpenNudge    = "Hi! 👋 Just checking in — are you still planning a move? I'd be happy to help you get started whenever you're ready."
	partialInfoNudge = "Hi again! Looks like we didn't finish setting up your move. Could you share a few more details so I can put together the right options for you?"
	proposeTimeNudge = "Hi! I have the details of your move ready. Would you like to pick a date and time for the pickup? I can check availability right away."
	genericCheckIn   = "Hi! Just following up on your move. Let me know if there's anything else you need — happy to help."
)

func countSignificant(attributes map[string]string) int {
	n := 0
	for _, key := range significantAttributes {
		if attributes[key] != "" {
			n++
		}
	}
	return n
}

// selectNudge picks one of the four canned reminder texts, keyed by whether
// any significant attribute is populated and by the conversation state.
func selectNudge(snap Snapshot) string {
	hasDetails := countSignificant(snap.Attributes) > 0
	switch {
	case !hasDetails && snap.MessageCount <= 1:
		return coldOpenNudge
	case !hasDetails:
		return partialInfoNudge
	case !snap.HasScheduling:
		return proposeTimeNudge
	default:
		return genericCheckIn
	}
}
