package advisor

import "strings"

// Request carries the operator-entered fields for one Action Table run.
// Every field is free text; the hosted prompt owns their interpretation.
type Request struct {
	StudentName  string
	StudentLevel string
	CurrentMode  string
	CurrentSlot  string
	RawRequest   string
	Notes        string
}

// RecommendedSlot is one candidate class option suggested by the service.
type RecommendedSlot struct {
	Label        string
	InternalCode string
	Confidence   *float64 // nil when the service gave none
}

// Response is the parsed result of one Action Table run.
type Response struct {
	Intent           string
	Summary          string
	RecommendedSlots []RecommendedSlot
	ChosenSlot       *RecommendedSlot
	WhatsAppMessage  string
	Warnings         []string
	LatencyMs        int64
}

// Intent values the Action Table prompt is configured to emit. Intent is
// free text on the wire; unknown values still render, just without a
// dedicated badge color.
const (
	IntentReschedule   = "reschedule"
	IntentNewEnrolment = "new_enrolment"
	IntentCancel       = "cancel"
	IntentGenericQuery = "generic_query"
)

// ValidationError reports a missing required form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IncompleteError reports that the service answered without the required
// intent and summary columns. Process still returns whatever parsed.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return "jamai response is missing required fields: " + strings.Join(e.Missing, ", ")
}
