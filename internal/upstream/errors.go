package upstream

// SubmissionError reports a rejected document creation. Status 422 responses
// carry structured details when the backend provided any.
type SubmissionError struct {
	Status          int
	Message         string
	MissingProducts []string
}

func (e *SubmissionError) Error() string {
	return e.Message
}

// Validation reports whether the rejection was a structured 422.
func (e *SubmissionError) Validation() bool {
	return e.Status == 422
}
