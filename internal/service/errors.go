package service

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternalError  = errors.New("internal error")
)

// ReasonError attaches a user-facing reason to one of the sentinel errors above.
type ReasonError struct {
	Kind   error
	Reason string
}

func (e *ReasonError) Error() string {
	return e.Kind.Error() + ": " + e.Reason
}

func (e *ReasonError) Unwrap() error {
	return e.Kind
}

func withReason(kind error, reason string) error {
	return &ReasonError{Kind: kind, Reason: reason}
}

// Reason returns the user-facing reason carried by err, if any.
func Reason(err error) (string, bool) {
	var re *ReasonError
	if errors.As(err, &re) {
		return re.Reason, true
	}
	return "", false
}
