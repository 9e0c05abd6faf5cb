package repository

import "fmt"

// ExtractionError marks a failed read against one of the source stores. The
// run aborts on it; retrying is the invoking scheduler's job.
type ExtractionError struct {
	Source string // "registry" or "telemetry"
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
