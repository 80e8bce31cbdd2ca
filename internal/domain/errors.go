package domain

import "fmt"

// Error taxonomy shared by all services. The API boundary maps these onto
// HTTP status codes (400/404/403/409); anything else becomes a 500 with a
// generic body.

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// ForbiddenError reports an authenticated caller acting outside its rights.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// ConflictError reports a duplicate unique key, e.g. registering an
// already-used email.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }
