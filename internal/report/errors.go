package report

import "fmt"

// StructuralError means the extracted data or window cannot be aggregated at
// all, as opposed to record-level anomalies which are absorbed and logged.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("aggregate: %s", e.Reason)
}
