// Package discussion runs the create, vote and delete flows of a comment
// thread against the remote comment service and reconciles the local thread
// with what the server confirms. The local thread is only changed after a
// successful response; there are no optimistic updates to roll back.
package discussion

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"bookthreads/internal/metrics"
	"bookthreads/internal/thread"
	"bookthreads/pkg/logger"
)

const deletePrompt = "Delete this comment and all of its replies?"

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
)

func (p Phase) String() string {
	if p == PhaseSubmitting {
		return "submitting"
	}
	return "idle"
}

// Session binds one user to the thread of the content item being viewed.
type Session struct {
	principal Principal
	remote    CommentService
	confirmer Confirmer
	tree      *thread.Tree
	bus       *thread.Bus

	mu       sync.Mutex
	epoch    uint64
	draft    string
	inflight map[Op]int
}

func NewSession(principal Principal, remote CommentService, confirmer Confirmer, tree *thread.Tree, bus *thread.Bus) *Session {
	return &Session{
		principal: principal,
		remote:    remote,
		confirmer: confirmer,
		tree:      tree,
		bus:       bus,
		inflight:  make(map[Op]int),
	}
}

func (s *Session) Tree() *thread.Tree {
	return s.tree
}

func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Phase reports whether a request of kind op is in flight.
func (s *Session) Phase(op Op) Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[op] > 0 {
		return PhaseSubmitting
	}
	return PhaseIdle
}

// Open discards the current thread and loads the full thread of contentID.
// Results of requests started for the previous item are dropped.
func (s *Session) Open(ctx context.Context, contentID int64) error {
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.draft = ""
	s.tree.Replace(contentID, nil)
	s.mu.Unlock()

	done := s.begin(OpLoad)
	comments, err := s.remote.List(ctx, s.principal, contentID)
	done()
	if err != nil {
		return s.fail(ctx, OpLoad, contentID, err)
	}

	applied := s.apply(epoch, func() {
		s.tree.Replace(contentID, comments)
	})
	if !applied {
		return s.fail(ctx, OpLoad, contentID, ErrStale)
	}

	size := s.tree.Len()
	metrics.ThreadSize.Set(float64(size))
	s.bus.Publish(thread.Event{Kind: thread.EventLoaded, ContentID: contentID, Count: size})
	logger.FromContext(ctx).Debug("thread loaded", "content_id", contentID, "comments", size)
	return nil
}

// Submit posts text as a new top-level comment.
func (s *Session) Submit(ctx context.Context, text string) (thread.Comment, error) {
	return s.create(ctx, nil, text)
}

// Reply posts text as a reply to parentID.
func (s *Session) Reply(ctx context.Context, parentID int64, text string) (thread.Comment, error) {
	return s.create(ctx, &parentID, text)
}

// create keeps text as the draft until the server has accepted it.
func (s *Session) create(ctx context.Context, parentID *int64, text string) (thread.Comment, error) {
	contentID, epoch := s.setDraft(text)

	if strings.TrimSpace(text) == "" {
		return thread.Comment{}, s.fail(ctx, OpCreate, contentID, ErrEmptyText)
	}

	done := s.begin(OpCreate)
	c, err := s.remote.Create(ctx, s.principal, contentID, parentID, text)
	done()
	if err != nil {
		return thread.Comment{}, s.fail(ctx, OpCreate, contentID, err)
	}

	applied := s.apply(epoch, func() {
		s.tree.Insert(c)
		if s.draft == text {
			s.draft = ""
		}
	})
	if !applied {
		return thread.Comment{}, s.fail(ctx, OpCreate, contentID, ErrStale)
	}

	s.confirmed(OpCreate)
	s.bus.Publish(thread.Event{Kind: thread.EventInserted, ContentID: contentID, Comment: c})
	return c, nil
}

// Vote casts delta on commentID and stores the score the server returns.
func (s *Session) Vote(ctx context.Context, commentID, delta int64) (int64, error) {
	contentID, epoch := s.current()

	if delta != 1 && delta != -1 {
		return 0, s.fail(ctx, OpVote, contentID, ErrInvalidDelta)
	}

	done := s.begin(OpVote)
	score, err := s.remote.Vote(ctx, s.principal, contentID, commentID, delta)
	done()
	if err != nil {
		return 0, s.fail(ctx, OpVote, contentID, err)
	}

	var updated bool
	if !s.apply(epoch, func() { updated = s.tree.UpdateScore(commentID, score) }) {
		return 0, s.fail(ctx, OpVote, contentID, ErrStale)
	}

	s.confirmed(OpVote)
	if updated {
		s.bus.Publish(thread.Event{Kind: thread.EventScoreUpdated, ContentID: contentID, CommentID: commentID, Score: score})
	}
	return score, nil
}

// Delete asks for confirmation, deletes commentID on the server and then
// removes it and its replies from the thread.
func (s *Session) Delete(ctx context.Context, commentID int64) error {
	contentID, epoch := s.current()

	ok, err := s.confirmer.Confirm(ctx, deletePrompt)
	if err != nil {
		return s.fail(ctx, OpDelete, contentID, fmt.Errorf("%w: %w", ErrCancelled, err))
	}
	if !ok {
		return s.fail(ctx, OpDelete, contentID, ErrCancelled)
	}

	done := s.begin(OpDelete)
	err = s.remote.Delete(ctx, s.principal, contentID, commentID)
	done()
	if err != nil {
		return s.fail(ctx, OpDelete, contentID, err)
	}

	var removed []int64
	if !s.apply(epoch, func() { removed = s.tree.Remove(commentID) }) {
		return s.fail(ctx, OpDelete, contentID, ErrStale)
	}

	s.confirmed(OpDelete)
	metrics.ThreadSize.Set(float64(s.tree.Len()))
	s.bus.Publish(thread.Event{Kind: thread.EventRemoved, ContentID: contentID, Removed: removed})
	return nil
}

func (s *Session) current() (int64, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.ContentID(), s.epoch
}

func (s *Session) setDraft(text string) (int64, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
	return s.tree.ContentID(), s.epoch
}

func (s *Session) begin(op Op) func() {
	s.mu.Lock()
	s.inflight[op]++
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.inflight[op]--
		s.mu.Unlock()
	}
}

// apply runs fn unless the session moved on to another content item since
// epoch was read.
func (s *Session) apply(epoch uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return false
	}
	fn()
	return true
}

func (s *Session) confirmed(op Op) {
	metrics.Mutations.WithLabelValues(op.String(), OutcomeConfirmed.String()).Inc()
}

// fail records err and tells the user about it. It returns err unchanged.
func (s *Session) fail(ctx context.Context, op Op, contentID int64, err error) error {
	outcome := OutcomeOf(err)
	metrics.Mutations.WithLabelValues(op.String(), outcome.String()).Inc()

	log := logger.FromContext(ctx).With("flow", op.String(), "content_id", contentID, "outcome", outcome.String())
	switch outcome {
	case OutcomeCancelled:
		log.Debug("comment flow cancelled", "error", err)
		return err
	case OutcomeNetworkFailed:
		log.Error("comment flow failed", "error", err)
	default:
		log.Warn("comment flow rejected", "error", err)
	}

	s.bus.Publish(thread.Event{Kind: thread.EventAlert, ContentID: contentID, Message: MessageOf(op, err)})
	return err
}
