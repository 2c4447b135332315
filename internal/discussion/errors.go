package discussion

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyText    = errors.New("comment text is empty")
	ErrInvalidDelta = errors.New("vote delta must be +1 or -1")

	ErrConflict  = errors.New("conflict")
	ErrForbidden = errors.New("forbidden")
	ErrRejected  = errors.New("rejected by server")
	ErrTransport = errors.New("transport failure")

	ErrCancelled = errors.New("cancelled")
	// ErrStale is returned when the session switched to another content item
	// while the request was in flight. The result is not applied.
	ErrStale = errors.New("content changed during request")
)

// RemoteError is a failure reported by the comment service.
type RemoteError struct {
	Kind    error
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%v (status %d): %s", e.Kind, e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%v (status %d)", e.Kind, e.Status)
	}
}

func (e *RemoteError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

type Op int

const (
	OpLoad Op = iota
	OpCreate
	OpVote
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpLoad:
		return "load"
	case OpCreate:
		return "create"
	case OpVote:
		return "vote"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Outcome is where a mutation ends up before the session returns to idle.
type Outcome int

const (
	OutcomeConfirmed Outcome = iota
	OutcomeInvalid
	OutcomeRejected
	OutcomeNetworkFailed
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeRejected:
		return "rejected"
	case OutcomeNetworkFailed:
		return "network_failed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeConfirmed
	case errors.Is(err, ErrEmptyText), errors.Is(err, ErrInvalidDelta):
		return OutcomeInvalid
	case errors.Is(err, ErrConflict), errors.Is(err, ErrForbidden), errors.Is(err, ErrRejected):
		return OutcomeRejected
	case errors.Is(err, ErrCancelled), errors.Is(err, ErrStale):
		return OutcomeCancelled
	default:
		return OutcomeNetworkFailed
	}
}

const (
	MsgEmptyText       = "Please enter a comment."
	MsgInvalidDelta    = "A vote must be +1 or -1."
	MsgAlreadyVoted    = "You have already voted on this comment."
	MsgNoPermission    = "You don't have permission to delete this comment."
	MsgCancelled       = "Cancelled."
	MsgStale           = "The thread changed before the request finished."
	msgLoadFailed      = "Could not load comments."
	msgCreateFailed    = "Something went wrong while posting your comment."
	msgVoteFailed      = "Something went wrong while voting."
	msgDeleteFailed    = "Something went wrong while deleting the comment."
	msgUnknownOpFailed = "Something went wrong."
)

// MessageOf returns the text to show the user after op failed with err.
// Server-provided messages win over the fallbacks, except for transport
// failures which always get the generic text of the flow.
func MessageOf(op Op, err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyText):
		return MsgEmptyText
	case errors.Is(err, ErrInvalidDelta):
		return MsgInvalidDelta
	case errors.Is(err, ErrCancelled):
		return MsgCancelled
	case errors.Is(err, ErrStale):
		return MsgStale
	}

	var re *RemoteError
	if errors.As(err, &re) && re.Message != "" && !errors.Is(err, ErrTransport) {
		return re.Message
	}

	switch {
	case errors.Is(err, ErrConflict) && op == OpVote:
		return MsgAlreadyVoted
	case errors.Is(err, ErrForbidden) && op == OpDelete:
		return MsgNoPermission
	}
	return genericMessage(op)
}

func genericMessage(op Op) string {
	switch op {
	case OpLoad:
		return msgLoadFailed
	case OpCreate:
		return msgCreateFailed
	case OpVote:
		return msgVoteFailed
	case OpDelete:
		return msgDeleteFailed
	default:
		return msgUnknownOpFailed
	}
}
