package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (r *runner) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show BOOK_ID",
		Short: "Print the comment thread of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := parseID("book id", args[0])
			if err != nil {
				return err
			}

			m, err := r.mount(cmd, bookID)
			if err != nil {
				return err
			}
			defer m.close()

			fmt.Fprint(cmd.OutOrStdout(), renderThread(bookID, m.session.Tree().Snapshot()))
			return nil
		},
	}
}

func (r *runner) postCommand() *cobra.Command {
	var parentID int64

	cmd := &cobra.Command{
		Use:   "post BOOK_ID [TEXT...]",
		Short: "Post a comment, or a reply with --parent",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := parseID("book id", args[0])
			if err != nil {
				return err
			}
			text := strings.Join(args[1:], " ")

			m, err := r.mount(cmd, bookID)
			if err != nil {
				return err
			}
			defer m.close()

			if parentID > 0 {
				_, err = m.session.Reply(cmd.Context(), parentID, text)
			} else {
				_, err = m.session.Submit(cmd.Context(), text)
			}
			return m.finish(cmd, err)
		},
	}

	cmd.Flags().Int64Var(&parentID, "parent", 0, "id of the comment to reply to")
	return cmd
}

func (r *runner) voteCommand() *cobra.Command {
	var delta int64

	cmd := &cobra.Command{
		Use:   "vote BOOK_ID COMMENT_ID",
		Short: "Vote a comment up (or down with --delta -1)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := parseID("book id", args[0])
			if err != nil {
				return err
			}
			commentID, err := parseID("comment id", args[1])
			if err != nil {
				return err
			}

			m, err := r.mount(cmd, bookID)
			if err != nil {
				return err
			}
			defer m.close()

			_, err = m.session.Vote(cmd.Context(), commentID, delta)
			return m.finish(cmd, err)
		},
	}

	cmd.Flags().Int64Var(&delta, "delta", 1, "vote direction, +1 or -1")
	return cmd
}

func (r *runner) deleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete BOOK_ID COMMENT_ID",
		Short: "Delete a comment and all of its replies",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := parseID("book id", args[0])
			if err != nil {
				return err
			}
			commentID, err := parseID("comment id", args[1])
			if err != nil {
				return err
			}

			m, err := r.mount(cmd, bookID)
			if err != nil {
				return err
			}
			defer m.close()

			return m.finish(cmd, m.session.Delete(cmd.Context(), commentID))
		},
	}

	cmd.Flags().BoolVarP(&r.opts.yes, "yes", "y", false, "delete without asking")
	return cmd
}
