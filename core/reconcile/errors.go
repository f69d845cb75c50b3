package reconcile

import (
	"errors"
	"strings"
)

var (
	// ErrValidation marks a record missing required fields.
	ErrValidation = errors.New("validation failed")

	// ErrRemoteFetch marks a blob download failure.
	ErrRemoteFetch = errors.New("remote fetch failed")

	// ErrStoreWrite marks a create or update rejected by the local store.
	ErrStoreWrite = errors.New("store write failed")

	// ErrTaxonomyNotFound marks a term for an unregistered taxonomy.
	ErrTaxonomyNotFound = errors.New("taxonomy not found")

	// ErrTermWrite marks a term that could not be created or attached.
	ErrTermWrite = errors.New("term write failed")

	// ErrNotFound marks a required local counterpart that does not exist.
	ErrNotFound = errors.New("local record not found")

	// ErrUnknownKind marks a kind with no syncer.
	ErrUnknownKind = errors.New("unknown kind")
)

// SyncError carries the failure class of a record together with the record
// it belongs to. errors.Is matches both the class and the wrapped cause.
type SyncError struct {
	Code     error
	Kind     Kind
	RemoteID string
	Message  string
	Err      error
}

// Error implements error.
func (e *SyncError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.RemoteID != "" {
		b.WriteString(" ")
		b.WriteString(e.RemoteID)
	}
	if e.Code != nil {
		b.WriteString(": ")
		b.WriteString(e.Code.Error())
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *SyncError) Unwrap() error {
	return e.Err
}

// Is matches the failure class.
func (e *SyncError) Is(target error) bool {
	return e.Code != nil && target == e.Code
}

func newSyncError(code error, rec SyncRecord, message string, err error) *SyncError {
	return &SyncError{
		Code:     code,
		Kind:     rec.Kind,
		RemoteID: rec.RemoteID,
		Message:  message,
		Err:      err,
	}
}
