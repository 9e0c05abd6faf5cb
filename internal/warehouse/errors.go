package warehouse

import "fmt"

// PublishError marks a failed schema guarantee or bulk write. The whole
// batch is treated as uncommitted; no partial-success state is exposed.
type PublishError struct {
	Stage string // "schema" or "insert"
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %s: %v", e.Stage, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
