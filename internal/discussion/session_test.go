package discussion

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookthreads/internal/metrics"
	"bookthreads/internal/thread"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const contentID = int64(7)

var principal = Principal{UserID: 10, Token: "tok"}

type fixture struct {
	remote  *MockCommentService
	confirm *MockConfirmer
	tree    *thread.Tree
	events  <-chan thread.Event
	s       *Session
}

func ref(id int64) *int64 { return &id }

// newFixture opens a session on contentID whose server thread is initial.
func newFixture(t *testing.T, initial []thread.Comment) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &fixture{
		remote:  NewMockCommentService(ctrl),
		confirm: NewMockConfirmer(ctrl),
		tree:    thread.New(),
	}
	bus := thread.NewBus(16)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	f.events = bus.Subscribe(ctx, contentID)

	f.s = NewSession(principal, f.remote, f.confirm, f.tree, bus)

	f.remote.EXPECT().List(gomock.Any(), principal, contentID).Return(initial, nil)
	require.NoError(t, f.s.Open(context.Background(), contentID))

	e := f.next(t)
	require.Equal(t, thread.EventLoaded, e.Kind)
	require.Equal(t, len(initial), e.Count)
	return f
}

func (f *fixture) next(t *testing.T) thread.Event {
	t.Helper()
	select {
	case e := <-f.events:
		return e
	case <-time.After(time.Second):
		t.Fatal("no event published")
		return thread.Event{}
	}
}

func (f *fixture) noEvent(t *testing.T) {
	t.Helper()
	select {
	case e := <-f.events:
		t.Fatalf("unexpected event %s: %+v", e.Kind, e)
	default:
	}
}

func TestSession_Vote_StoresServerScore(t *testing.T) {
	t.Parallel()

	f := newFixture(t, []thread.Comment{{ID: 1, Score: 0}})

	f.remote.EXPECT().Vote(gomock.Any(), principal, contentID, int64(1), int64(1)).Return(int64(1), nil)

	score, err := f.s.Vote(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), score)

	c, _ := f.tree.Get(1)
	require.Equal(t, int64(1), c.Score)

	e := f.next(t)
	require.Equal(t, thread.EventScoreUpdated, e.Kind)
	require.Equal(t, int64(1), e.CommentID)
	require.Equal(t, int64(1), e.Score)
}

func TestSession_Vote_NoAdditiveDrift(t *testing.T) {
	t.Parallel()

	f := newFixture(t, []thread.Comment{{ID: 1, Score: 5}})

	f.remote.EXPECT().Vote(gomock.Any(), principal, contentID, int64(1), int64(1)).Return(int64(2), nil)

	_, err := f.s.Vote(context.Background(), 1, 1)
	require.NoError(t, err)

	c, _ := f.tree.Get(1)
	require.Equal(t, int64(2), c.Score)
}

func TestSession_Vote_Conflict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "fallback message",
			err:     &RemoteError{Kind: ErrConflict, Status: 409},
			wantMsg: MsgAlreadyVoted,
		},
		{
			name:    "server message",
			err:     &RemoteError{Kind: ErrConflict, Status: 409, Message: "you have already voted on this comment"},
			wantMsg: "you have already voted on this comment",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, []thread.Comment{{ID: 1, Score: 1}})
			before := f.tree.Snapshot()

			f.remote.EXPECT().Vote(gomock.Any(), principal, contentID, int64(1), int64(1)).Return(int64(0), tt.err)

			_, err := f.s.Vote(context.Background(), 1, 1)
			require.ErrorIs(t, err, ErrConflict)
			require.Equal(t, OutcomeRejected, OutcomeOf(err))
			require.Equal(t, before, f.tree.Snapshot())

			e := f.next(t)
			require.Equal(t, thread.EventAlert, e.Kind)
			require.Equal(t, tt.wantMsg, e.Message)
		})
	}
}

func TestSession_Vote_TransportFailureLeavesThread(t *testing.T) {
	t.Parallel()

	f := newFixture(t, []thread.Comment{{ID: 1, Score: 3}})
	before := f.tree.Snapshot()

	f.remote.EXPECT().Vote(gomock.Any(), principal, contentID, int64(1), int64(-1)).
		Return(int64(0), &RemoteError{Kind: ErrTransport, Status: 502, Message: "bad gateway"})

	_, err := f.s.Vote(context.Background(), 1, -1)
	require.Equal(t, OutcomeNetworkFailed, OutcomeOf(err))
	require.Equal(t, before, f.tree.Snapshot())
	require.Equal(t, msgVoteFailed, f.next(t).Message)
}

func TestSession_Vote_InvalidDelta(t *testing.T) {
	t.Parallel()

	f := newFixture(t, []thread.Comment{{ID: 1}})

	for _, delta := range []int64{0, 2, -5} {
		_, err := f.s.Vote(context.Background(), 1, delta)
		require.ErrorIs(t, err, ErrInvalidDelta)
		require.Equal(t, OutcomeInvalid, OutcomeOf(err))
		require.Equal(t, MsgInvalidDelta, f.next(t).Message)
	}
}

func TestSession_Vote_PhaseWhileInFlight(t *testing.T) {
	t.Parallel()

	f := newFixture(t, []thread.Comment{{ID: 1}})

	f.remote.EXPECT().Vote(gomock.Any(), principal, contentID, int64(1), int64(1)).
		DoAndReturn(func(context.Context, Principal, int64, int64, int64) (int64, error) {
			require.Equal(t, PhaseSubmitting, f.s.Phase(OpVote))
			require.Equal(t, PhaseIdle, f.s.Phase(OpDelete))
			return 1, nil
		})

	require.Equal(t, PhaseIdle, f.s.Phase(OpVote))
	_, err := f.s.Vote(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Equal(t, PhaseIdle, f.s.Phase(OpVote))
}

func TestSession_Submit_WhitespaceMakesNoCall(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", " ", "\t\n  "} {
		f := newFixture(t, []thread.Comment{{ID: 1}})
		before := f.tree.Snapshot()

		_, err := f.s.Submit(context.Background(), text)
		require.ErrorIs(t, err, ErrEmptyText)
		require.Equal(t, OutcomeInvalid, OutcomeOf(err))
		require.Equal(t, before, f.tree.Snapshot())
		require.Equal(t, text, f.s.Draft())

		e := f.next(t)
		require.Equal(t, thread.EventAlert, e.Kind)
		require.Equal(t, MsgEmptyText, e.Message)
	}
}

func TestSession_Submit_InsertsExactServerRecord(t *testing.T) {
	t.Parallel()

	f := newFixture(t, []thread.Comment{{ID: 1}})
	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	created := thread.Comment{ID: 42, AuthorID: principal.UserID, Text: "hello", CreatedAt: at, Score: 0}

	f.remote.EXPECT().Create(gomock.Any(), principal, contentID, gomock.Nil(), "hello").Return(created, nil)

	got, err := f.s.Submit(context.Background(), "hello")
	require.NoError(t, err)
	require.Equal(t, created, got)
	require.Empty(t, f.s.Draft())

	snap := f.tree.Snapshot()
	require.Len(t, snap, 2)
	require.Equal(t, created, snap[1].Comment)
	require.Zero(t, snap[1].Depth)

	e := f.next(t)
	require.Equal(t, thread.EventInserted, e.Kind)
	require.Equal(t, created, e.Comment)
}

func TestSession_Submit_FailureKeepsDraft(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		outcome Outcome
		wantMsg string
	}{
		{
			name:    "server rejects",
			err:     &RemoteError{Kind: ErrRejected, Status: 400, Message: "comment text must not be empty"},
			outcome: OutcomeRejected,
			wantMsg: "comment text must not be empty",
		},
		{
			name:    "comments disabled",
			err:     &RemoteError{Kind: ErrForbidden, Status: 403, Message: "comments are disabled for this item"},
			outcome: OutcomeRejected,
			wantMsg: "comments are disabled for this item",
		},
		{
			name:    "timeout",
			err:     &RemoteError{Kind: ErrTransport, Err: context.DeadlineExceeded},
			outcome: OutcomeNetworkFailed,
			wantMsg: msgCreateFailed,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, []thread.Comment{{ID: 1}})
			before := f.tree.Snapshot()

			f.remote.EXPECT().Create(gomock.Any(), principal, contentID, gomock.Nil(), "my take").Return(thread.Comment{}, tt.err)

			_, err := f.s.Submit(context.Background(), "my take")
			require.Equal(t, tt.outcome, OutcomeOf(err))
			require.Equal(t, "my take", f.s.Draft())
			require.Equal(t, before, f.tree.Snapshot())
			require.Equal(t, tt.wantMsg, f.next(t).Message)
		})
	}
}

func TestSession_Reply(t *testing.T) {
	t.Parallel()

	f := newFixture(t, []thread.Comment{{ID: 1}, {ID: 2}})
	reply := thread.Comment{ID: 3, ParentID: ref(1), AuthorID: principal.UserID, Text: "agreed"}

	f.remote.EXPECT().Create(gomock.Any(), principal, contentID, ref(1), "agreed").Return(reply, nil)

	_, err := f.s.Reply(context.Background(), 1, "agreed")
	require.NoError(t, err)

	var order []int64
	for _, v := range f.tree.Snapshot() {
		order = append(order, v.ID)
	}
	require.Equal(t, []int64{1, 3, 2}, order)
	require.Equal(t, []thread.Comment{reply}, f.tree.Children(1))
}

func TestSession_Delete_AuthorRemovesSubtree(t *testing.T) {
	t.Parallel()

	f := newFixture(t, []thread.Comment{
		{ID: 1},
		{ID: 2, ParentID: ref(1)},
		{ID: 3, ParentID: ref(2)},
		{ID: 4},
	})

	gomock.InOrder(
		f.confirm.EXPECT().Confirm(gomock.Any(), deletePrompt).Return(true, nil),
		f.remote.EXPECT().Delete(gomock.Any(), principal, contentID, int64(1)).Return(nil),
	)

	require.NoError(t, f.s.Delete(context.Background(), 1))

	for _, id := range []int64{1, 2, 3} {
		_, ok := f.tree.Get(id)
		require.False(t, ok)
	}
	_, ok := f.tree.Get(4)
	require.True(t, ok)

	e := f.next(t)
	require.Equal(t, thread.EventRemoved, e.Kind)
	require.Equal(t, []int64{1, 2, 3}, e.Removed)
}

func TestSession_Delete_ForbiddenLeavesThread(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{name: "fallback", err: &RemoteError{Kind: ErrForbidden, Status: 403}, wantMsg: MsgNoPermission},
		{
			name:    "server message",
			err:     &RemoteError{Kind: ErrForbidden, Status: 403, Message: "only the author can delete this comment"},
			wantMsg: "only the author can delete this comment",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, []thread.Comment{{ID: 1, AuthorID: 99}, {ID: 2, ParentID: ref(1)}})
			before := f.tree.Snapshot()

			f.confirm.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(true, nil)
			f.remote.EXPECT().Delete(gomock.Any(), principal, contentID, int64(1)).Return(tt.err)

			err := f.s.Delete(context.Background(), 1)
			require.ErrorIs(t, err, ErrForbidden)
			require.Equal(t, before, f.tree.Snapshot())
			require.Equal(t, tt.wantMsg, f.next(t).Message)
		})
	}
}

func TestSession_Delete_DeclinedMakesNoCall(t *testing.T) {
	t.Parallel()

	f := newFixture(t, []thread.Comment{{ID: 1}})
	before := f.tree.Snapshot()

	f.confirm.EXPECT().Confirm(gomock.Any(), deletePrompt).Return(false, nil)

	err := f.s.Delete(context.Background(), 1)
	require.ErrorIs(t, err, ErrCancelled)
	require.Equal(t, OutcomeCancelled, OutcomeOf(err))
	require.Equal(t, before, f.tree.Snapshot())
	f.noEvent(t)
}

func TestSession_Delete_ConfirmerError(t *testing.T) {
	t.Parallel()

	f := newFixture(t, []thread.Comment{{ID: 1}})

	f.confirm.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(false, errors.New("no tty"))

	err := f.s.Delete(context.Background(), 1)
	require.ErrorIs(t, err, ErrCancelled)
	require.ErrorContains(t, err, "no tty")
	require.Equal(t, 1, f.tree.Len())
}

func TestSession_StaleResultIsDiscarded(t *testing.T) {
	t.Parallel()

	f := newFixture(t, []thread.Comment{{ID: 1}})
	other := []thread.Comment{{ID: 100}, {ID: 101}}

	f.remote.EXPECT().List(gomock.Any(), principal, int64(8)).Return(other, nil)
	f.remote.EXPECT().Create(gomock.Any(), principal, contentID, gomock.Nil(), "late").
		DoAndReturn(func(ctx context.Context, _ Principal, _ int64, _ *int64, _ string) (thread.Comment, error) {
			require.NoError(t, f.s.Open(ctx, 8))
			return thread.Comment{ID: 2, Text: "late"}, nil
		})

	_, err := f.s.Submit(context.Background(), "late")
	require.ErrorIs(t, err, ErrStale)
	require.Equal(t, OutcomeCancelled, OutcomeOf(err))

	require.Equal(t, int64(8), f.tree.ContentID())
	require.Equal(t, 2, f.tree.Len())
	_, ok := f.tree.Get(2)
	require.False(t, ok)
}

func TestSession_Open_Failure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, []thread.Comment{{ID: 1}})

	f.remote.EXPECT().List(gomock.Any(), principal, contentID).
		Return(nil, &RemoteError{Kind: ErrTransport, Err: errors.New("connection refused")})

	err := f.s.Open(context.Background(), contentID)
	require.ErrorIs(t, err, ErrTransport)
	require.Zero(t, f.tree.Len())
	require.Equal(t, contentID, f.tree.ContentID())
	require.Equal(t, msgLoadFailed, f.next(t).Message)
}

func TestSession_Delete_TransportFailureLeavesThread(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{name: "internal error", err: &RemoteError{Kind: ErrTransport, Status: 500, Message: "internal error"}},
		{name: "timeout", err: &RemoteError{Kind: ErrTransport, Err: context.DeadlineExceeded}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, []thread.Comment{{ID: 1}, {ID: 2, ParentID: ref(1)}, {ID: 3}})
			before := f.tree.Snapshot()

			f.confirm.EXPECT().Confirm(gomock.Any(), deletePrompt).Return(true, nil)
			f.remote.EXPECT().Delete(gomock.Any(), principal, contentID, int64(1)).Return(tt.err)

			err := f.s.Delete(context.Background(), 1)
			require.ErrorIs(t, err, ErrTransport)
			require.Equal(t, OutcomeNetworkFailed, OutcomeOf(err))
			require.Equal(t, before, f.tree.Snapshot())

			e := f.next(t)
			require.Equal(t, thread.EventAlert, e.Kind)
			require.Equal(t, msgDeleteFailed, e.Message)
			f.noEvent(t)
		})
	}
}

func TestSession_Vote_UnknownCommentPublishesNothing(t *testing.T) {
	t.Parallel()

	f := newFixture(t, []thread.Comment{{ID: 1, Score: 4}})
	before := f.tree.Snapshot()

	f.remote.EXPECT().Vote(gomock.Any(), principal, contentID, int64(9), int64(1)).Return(int64(1), nil)

	score, err := f.s.Vote(context.Background(), 9, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), score)
	require.Equal(t, before, f.tree.Snapshot())
	f.noEvent(t)
}

// Not parallel: reads the shared thread size gauge.
func TestSession_Open_CountsDistinctComments(t *testing.T) {
	f := newFixture(t, []thread.Comment{{ID: 1}})

	f.remote.EXPECT().List(gomock.Any(), principal, contentID).Return([]thread.Comment{
		{ID: 1, Text: "old"},
		{ID: 2},
		{ID: 1, Text: "new"},
	}, nil)

	require.NoError(t, f.s.Open(context.Background(), contentID))

	e := f.next(t)
	require.Equal(t, thread.EventLoaded, e.Kind)
	require.Equal(t, 2, e.Count)
	require.Equal(t, float64(2), testutil.ToFloat64(metrics.ThreadSize))
}
