// Package cli is the terminal front-end of the comment thread: it mounts the
// thread of a book, renders it and runs create, vote and delete flows.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"bookthreads/config"
	"bookthreads/internal/adapter/out/remote"
	"bookthreads/internal/discussion"
	"bookthreads/internal/thread"
	"bookthreads/pkg/logger"

	"github.com/spf13/cobra"
)

// reportedError marks a failure that was already shown to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Reported reports whether err was already printed by the command.
func Reported(err error) bool {
	var re *reportedError
	return errors.As(err, &re)
}

type options struct {
	client   config.ClientConfig
	logLevel string
	yes      bool
}

type runner struct {
	opts      options
	envErr    error
	confirmer discussion.Confirmer
}

// NewRootCommand builds threadctl. A nil confirmer asks on the terminal
// unless --yes is given.
func NewRootCommand(confirmer discussion.Confirmer) *cobra.Command {
	defaults, envErr := config.LoadClientConfig()
	r := &runner{
		opts:      options{client: defaults},
		envErr:    envErr,
		confirmer: confirmer,
	}

	root := &cobra.Command{
		Use:           "threadctl",
		Short:         "Read and take part in the comment threads of books",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if r.envErr != nil {
				return r.envErr
			}
			log, err := logger.New(cmd.ErrOrStderr(), r.opts.logLevel)
			if err != nil {
				return err
			}
			cmd.SetContext(logger.WithLogger(cmd.Context(), log))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&r.opts.client.BaseURL, "api-url", defaults.BaseURL, "comment service base URL (BOOKTHREADS_API_URL)")
	flags.StringVar(&r.opts.client.Token, "token", defaults.Token, "bearer token (BOOKTHREADS_TOKEN)")
	flags.Int64Var(&r.opts.client.UserID, "user-id", defaults.UserID, "id of the acting user (BOOKTHREADS_USER_ID)")
	flags.DurationVar(&r.opts.client.Timeout, "timeout", defaults.Timeout, "per-request timeout (BOOKTHREADS_TIMEOUT)")
	flags.StringVar(&r.opts.logLevel, "log-level", "error", "log level: debug, info, warn or error")

	root.AddCommand(
		r.showCommand(),
		r.postCommand(),
		r.voteCommand(),
		r.deleteCommand(),
	)
	return root
}

func (r *runner) confirm() discussion.Confirmer {
	switch {
	case r.confirmer != nil:
		return r.confirmer
	case r.opts.yes:
		return autoConfirmer{}
	default:
		return promptConfirmer{}
	}
}

// mounted is a session opened on one book together with its event feed.
type mounted struct {
	bookID  int64
	session *discussion.Session
	events  <-chan thread.Event
	close   func()
}

func (r *runner) mount(cmd *cobra.Command, bookID int64) (*mounted, error) {
	client := remote.NewClient(r.opts.client)
	bus := thread.NewBus(64)

	subCtx, cancel := context.WithCancel(cmd.Context())
	events := bus.Subscribe(subCtx, bookID)

	principal := discussion.Principal{UserID: r.opts.client.UserID, Token: r.opts.client.Token}
	session := discussion.NewSession(principal, client, r.confirm(), thread.New(), bus)

	m := &mounted{
		bookID:  bookID,
		session: session,
		events:  events,
		close: func() {
			cancel()
			_ = client.Close()
		},
	}

	if err := session.Open(cmd.Context(), bookID); err != nil {
		m.report(cmd.ErrOrStderr(), cmd.OutOrStdout())
		m.close()
		return nil, &reportedError{err: err}
	}
	m.report(cmd.ErrOrStderr(), cmd.OutOrStdout())
	return m, nil
}

// report prints the events published so far: alerts to errOut, the rest to out.
func (m *mounted) report(errOut, out io.Writer) {
	for {
		select {
		case e := <-m.events:
			line, ok := renderEvent(e)
			if !ok {
				continue
			}
			if e.Kind == thread.EventAlert {
				fmt.Fprintln(errOut, line)
			} else {
				fmt.Fprintln(out, line)
			}
		default:
			return
		}
	}
}

// finish reports the outcome of a flow and renders the resulting thread.
func (m *mounted) finish(cmd *cobra.Command, err error) error {
	m.report(cmd.ErrOrStderr(), cmd.OutOrStdout())

	switch discussion.OutcomeOf(err) {
	case discussion.OutcomeConfirmed:
		fmt.Fprint(cmd.OutOrStdout(), renderThread(m.bookID, m.session.Tree().Snapshot()))
		return nil
	case discussion.OutcomeCancelled:
		fmt.Fprintln(cmd.OutOrStdout(), styles.Muted.Render(discussion.MessageOf(discussion.OpDelete, err)))
		return nil
	default:
		return &reportedError{err: err}
	}
}

func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", name, raw)
	}
	return id, nil
}
