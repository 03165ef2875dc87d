package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSchedulingDetailsMergesAttributes(t *testing.T) {
	extracted := ExtractedDetails{Date: "tomorrow", Time: "3pm", Notes: "third floor, no lift"}
	attributes := map[string]string{
		"lead_name":    "Ravi Kumar",
		"phone_number": "+919812345678",
		"origin":       "12 Marina Rd, Chennai",
		"service_type": "House Shifting",
	}

	details := FormatSchedulingDetails(extracted, attributes)

	assert.Equal(t, "Ravi Kumar", details.CustomerName)
	assert.Equal(t, "+919812345678", details.CustomerPhone)
	assert.Equal(t, "tomorrow", details.PickupDate)
	assert.Equal(t, "3pm", details.PickupTime)
	assert.Equal(t, "12 Marina Rd, Chennai", details.PickupAddress)
	assert.Equal(t, "House Shifting", details.ServiceType)
	assert.Equal(t, "third floor, no lift", details.Notes)
	assert.Equal(t, NotSpecified, details.Urgency)
}

func TestFormatSchedulingDetailsExtractedAddressWins(t *testing.T) {
	extracted := ExtractedDetails{Address: "45 Beach Rd"}
	attributes := map[string]string{"origin": "12 Marina Rd"}

	details := FormatSchedulingDetails(extracted, attributes)
	assert.Equal(t, "45 Beach Rd", details.PickupAddress)
}

func TestFormatSchedulingDetailsLiterals(t *testing.T) {
	details := FormatSchedulingDetails(ExtractedDetails{}, nil)

	// These literals are consumed verbatim downstream.
	assert.Equal(t, "Not provided", details.CustomerName)
	assert.Equal(t, "Not provided", details.CustomerPhone)
	assert.Equal(t, "Not provided", details.PickupAddress)
	assert.Equal(t, "Not specified", details.PickupDate)
	assert.Equal(t, "Not specified", details.PickupTime)
	assert.Equal(t, "Not specified", details.ServiceType)
	assert.Equal(t, "Not specified", details.Notes)
	assert.Equal(t, "Not specified", details.Urgency)
}

func TestSummaryMessage(t *testing.T) {
	details := FormatSchedulingDetails(
		ExtractedDetails{Date: "tomorrow", Time: "3pm"},
		map[string]string{"lead_name": "Ravi", "service_type": "House Shifting"},
	)
	msg := SummaryMessage(details)

	assert.Contains(t, msg, "Ravi")
	assert.Contains(t, msg, "tomorrow")
	assert.Contains(t, msg, "3pm")
	assert.Contains(t, msg, "House Shifting")
	assert.Contains(t, msg, "Not provided") // phone was never collected
	assert.Contains(t, msg, "YES")
	// Notes were not specified, so the notes line is omitted.
	assert.NotContains(t, msg, "Notes:")
}
