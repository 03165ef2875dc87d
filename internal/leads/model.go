package leads

// Category is the sales-qualification bucket for a conversation.
type Category string

const (
	CategoryCold   Category = "cold"
	CategoryWarm   Category = "warm"
	CategoryHot    Category = "hot"
	CategoryRFQ    Category = "rfq"
	CategoryBooked Category = "booked"
)

// AllCategories is the fixed label set reconciled against the platform.
var AllCategories = []Category{CategoryHot, CategoryWarm, CategoryCold, CategoryRFQ, CategoryBooked}

// oracleCategories are the categories the oracle may produce. Booked is
// assigned directly by the orchestrator when a calendar booking succeeds and
// is never an oracle output.
var oracleCategories = map[Category]struct{}{
	CategoryCold: {},
	CategoryWarm: {},
	CategoryHot:  {},
	CategoryRFQ:  {},
}

// Classification is the outcome of the lead classification gate.
type Classification struct {
	Category  Category `json:"category"`
	Score     float64  `json:"score"`
	Reasoning string   `json:"reasoning"`
}

// DefaultClassification is the named fallback when the oracle fails or
// returns an unusable verdict. Classification failure never aborts a turn.
func DefaultClassification() Classification {
	return Classification{Category: CategoryWarm, Score: 0.5}
}

// Booked builds the classification the orchestrator assigns directly after a
// successful calendar booking.
func Booked() Classification {
	return Classification{Category: CategoryBooked, Score: 1.0, Reasoning: "appointment booked"}
}
