package scheduling

import (
	"fmt"
	"strings"

	"github.com/max-verstappen001/wiral-node-sub001/internal/booking"
)

// The literals below are a downstream contract: summary generation and the
// calendar description consume them verbatim.
const (
	NotProvided  = "Not provided"
	NotSpecified = "Not specified"
)

// FormatSchedulingDetails merges oracle-extracted fields with known attribute
// fallbacks. Identity fields degrade to "Not provided", scheduling fields to
// "Not specified".
func FormatSchedulingDetails(extracted ExtractedDetails, attributes map[string]string) booking.SchedulingDetails {
	return booking.SchedulingDetails{
		CustomerName:  fallback(firstAttr(attributes, "lead_name", "name"), NotProvided),
		CustomerPhone: fallback(firstAttr(attributes, "phone_number", "phone"), NotProvided),
		PickupAddress: fallback(coalesce(extracted.Address, firstAttr(attributes, "pickup_address", "origin", "address")), NotProvided),
		PickupDate:    fallback(extracted.Date, NotSpecified),
		PickupTime:    fallback(extracted.Time, NotSpecified),
		ServiceType:   fallback(firstAttr(attributes, "service_type"), NotSpecified),
		Notes:         fallback(extracted.Notes, NotSpecified),
		Urgency:       fallback(extracted.Urgency, NotSpecified),
	}
}

// SummaryMessage builds the human-readable booking summary dispatched in
// place of the regular generated reply.
func SummaryMessage(details booking.SchedulingDetails) string {
	var b strings.Builder
	b.WriteString("Here's a summary of your pickup request:\n\n")
	fmt.Fprintf(&b, "👤 Name: %s\n", details.CustomerName)
	fmt.Fprintf(&b, "📞 Phone: %s\n", details.CustomerPhone)
	fmt.Fprintf(&b, "📅 Date: %s\n", details.PickupDate)
	fmt.Fprintf(&b, "🕐 Time: %s\n", details.PickupTime)
	fmt.Fprintf(&b, "📍 Pickup address: %s\n", details.PickupAddress)
	fmt.Fprintf(&b, "🚚 Service: %s\n", details.ServiceType)
	if details.Notes != NotSpecified {
		fmt.Fprintf(&b, "📝 Notes: %s\n", details.Notes)
	}
	b.WriteString("\nShall I confirm this booking? Reply YES to confirm or tell me what to change.")
	return b.String()
}

func firstAttr(attributes map[string]string, keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(attributes[key]); value != "" {
			return value
		}
	}
	return ""
}

func coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func fallback(value, def string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	return value
}
