package remediate

import (
	"errors"
	"fmt"
)

// Kind classifies a per-record failure.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindTransport   Kind = "transport"
	KindPersistence Kind = "persistence"
	KindUnexpected  Kind = "unexpected"
)

// Error is a non-fatal failure tied to one attachment.
type Error struct {
	Kind         Kind
	AttachmentID int64
	Err          error
}

func (e *Error) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ErrorKind returns the classification as a string.
func (e *Error) ErrorKind() string {
	if e == nil {
		return ""
	}
	return string(e.Kind)
}

// classify maps a probe error onto a Kind using its ErrorKind method when present.
func classify(err error) Kind {
	var classifier interface{ ErrorKind() string }
	if errors.As(err, &classifier) {
		switch Kind(classifier.ErrorKind()) {
		case KindValidation:
			return KindValidation
		case KindTransport:
			return KindTransport
		case KindPersistence:
			return KindPersistence
		}
	}
	return KindUnexpected
}

func missingURLError(id int64) *Error {
	return &Error{Kind: KindValidation, AttachmentID: id, Err: fmt.Errorf("Could not get URL for attachment ID %d", id)}
}

func updateDocumentError(id, parentID int64, err error) *Error {
	return &Error{Kind: KindPersistence, AttachmentID: id, Err: fmt.Errorf("Failed to update post %d: %w", parentID, err)}
}

func processingError(kind Kind, id int64, err error) *Error {
	return &Error{Kind: kind, AttachmentID: id, Err: fmt.Errorf("Error processing attachment %d: %w", id, err)}
}

// ErrorList accumulates the errors of one run. It is owned by a single call
// and is never shared between runs.
type ErrorList struct {
	errs []*Error
}

// Add appends err.
func (l *ErrorList) Add(err *Error) {
	if l == nil || err == nil {
		return
	}
	l.errs = append(l.errs, err)
}

// Len returns the number of recorded errors.
func (l *ErrorList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.errs)
}

// Errors returns the recorded errors in order.
func (l *ErrorList) Errors() []*Error {
	if l == nil {
		return nil
	}
	return append([]*Error(nil), l.errs...)
}

// Since returns the errors recorded after the first n. The slice shares the
// list's storage and must not be modified.
func (l *ErrorList) Since(n int) []*Error {
	if l == nil || n >= len(l.errs) {
		return nil
	}
	return l.errs[max(n, 0):]
}

// Messages returns the error strings in order, never nil.
func (l *ErrorList) Messages() []string {
	out := make([]string, 0, l.Len())
	if l == nil {
		return out
	}
	for _, err := range l.errs {
		out = append(out, err.Error())
	}
	return out
}
