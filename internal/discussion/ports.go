package discussion

import (
	"context"

	"bookthreads/internal/thread"
)

// Principal is the user on whose behalf a Session talks to the server.
type Principal struct {
	UserID int64
	Token  string
}

// CommentService is the authoritative comment store. Implementations report
// failures as *RemoteError wrapping ErrConflict, ErrForbidden, ErrRejected or
// ErrTransport.
//
//go:generate mockgen -source=ports.go -destination=./ports_mock.go -package=discussion
type CommentService interface {
	List(ctx context.Context, p Principal, contentID int64) ([]thread.Comment, error)
	Create(ctx context.Context, p Principal, contentID int64, parentID *int64, text string) (thread.Comment, error)
	Vote(ctx context.Context, p Principal, contentID, commentID, delta int64) (int64, error)
	Delete(ctx context.Context, p Principal, contentID, commentID int64) error
}

// Confirmer asks the user a blocking yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}
