package models

// Intent is the fixed set of message intents the classifier can produce.
type Intent string

const (
	IntentBookingRequest      Intent = "booking_request"
	IntentReschedule          Intent = "reschedule"
	IntentCancellation        Intent = "cancellation"
	IntentStatusInquiry       Intent = "status_inquiry"
	IntentConfirmation        Intent = "confirmation"
	IntentClarificationNeeded Intent = "clarification_needed"
	IntentMultiService        Intent = "multi_service"
	IntentGeneral             Intent = "general"
)

// Valid reports whether the intent is one of the known values.
func (i Intent) Valid() bool {
	switch i {
	case IntentBookingRequest, IntentReschedule, IntentCancellation,
		IntentStatusInquiry, IntentConfirmation, IntentClarificationNeeded,
		IntentMultiService, IntentGeneral:
		return true
	}
	return false
}

// IntentResult is the classifier output.
type IntentResult struct {
	Type       Intent  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// Extraction is the field-extractor output for a booking-type message.
type Extraction struct {
	Service    string   `json:"service"`
	Date       string   `json:"date"` // "YYYY-MM-DD" after normalisation
	Time       string   `json:"time"` // "HH:MM" after normalisation
	Location   string   `json:"location"`
	Missing    []string `json:"missing"`
	IsComplete bool     `json:"isComplete"`
}
