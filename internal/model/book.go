package model

// Sentinel values returned when the model could not provide a field
const (
	Unknown       = "Unknown"
	UnknownTitle  = "Unknown title"
	UnknownAuthor = "Unknown author"
)

// Error messages attached to partial or failed recognitions
const (
	ErrIncompleteResponse = "Incomplete response from AI"
	ErrResponseParsing    = "Response parsing error"
	ErrAIProcessingPrefix = "AI processing error: "
)

// Outcome is the terminal state of a single recognition
type Outcome string

const (
	// OutcomeSuccess: the reply was a JSON object with both fields
	OutcomeSuccess Outcome = "success"
	// OutcomeIncomplete: the reply was JSON but a field was missing
	OutcomeIncomplete Outcome = "incomplete"
	// OutcomeRecovered: the reply was not JSON; fields were scanned from raw text
	OutcomeRecovered Outcome = "recovered"
	// OutcomeFailed: encoding, the model call, or parsing failed outright
	OutcomeFailed Outcome = "failed"
)

// RecognitionResult is the book information extracted from a cover photo
type RecognitionResult struct {
	Title                 string  `json:"title"`
	Author                string  `json:"author"`
	Error                 string  `json:"error,omitempty"`
	AIProcessingTimeMs    int64   `json:"ai_processing_time_ms"`
	TotalProcessingTimeMs int64   `json:"total_processing_time_ms,omitempty"`
	Outcome               Outcome `json:"-"`
}

// Failed reports whether no usable book information was extracted
func (r *RecognitionResult) Failed() bool {
	return r.Outcome == OutcomeFailed
}

// ScanResponse is the success envelope returned by the scan endpoint
type ScanResponse struct {
	Success bool              `json:"success"`
	Data    RecognitionResult `json:"data"`
}

// ErrorResponse is the failure envelope returned by every endpoint
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
