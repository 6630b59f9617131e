package engine

import "fmt"

// ValidationError reports malformed creation input, such as a missing
// template id or field values that do not match the template's definitions.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed for %q: %s", e.Field, e.Reason)
}

// NotFoundError reports that a referenced document or signer does not exist.
type NotFoundError struct {
	Kind string // "document" or "signer"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// InvalidStateError reports an operation attempted against a document or
// signer whose current state forbids it.
type InvalidStateError struct {
	Operation string
	State     string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s in state %q", e.Operation, e.State)
}

// OutOfOrderError reports a sequential-mode signature attempted before all
// preceding signers have signed.
type OutOfOrderError struct {
	SignerID string
	Waiting  string // name of the earliest signer still pending
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("signer %s cannot sign yet: waiting on %s", e.SignerID, e.Waiting)
}

// InvalidOperationError reports a structurally valid but policy-forbidden
// action, such as removing a signer who has already signed.
type InvalidOperationError struct {
	Reason string
}

func (e *InvalidOperationError) Error() string {
	return "invalid operation: " + e.Reason
}
