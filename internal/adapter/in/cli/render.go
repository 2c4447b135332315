package cli

import (
	"fmt"
	"strings"

	"bookthreads/internal/thread"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

const indentWidth = 2

var (
	colorAccent = lipgloss.Color("#20B9B4")
	colorMuted  = lipgloss.Color("#5C6B73")
	colorError  = lipgloss.Color("#E74C3C")
	colorOK     = lipgloss.Color("#2CD7C7")
)

var styles = struct {
	Title   lipgloss.Style
	Meta    lipgloss.Style
	Text    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Alert   lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Meta:    lipgloss.NewStyle().Foreground(colorMuted),
	Text:    lipgloss.NewStyle(),
	Muted:   lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
	Success: lipgloss.NewStyle().Foreground(colorOK),
	Alert:   lipgloss.NewStyle().Bold(true).Foreground(colorError),
}

// renderThread draws the thread in pre-order, replies indented under their parent.
func renderThread(bookID int64, views []thread.View) string {
	title := styles.Title.Render(fmt.Sprintf("Book #%d: %d comments", bookID, len(views)))
	if len(views) == 0 {
		return title + "\n" + styles.Muted.Render("No comments yet.") + "\n"
	}

	lines := lo.Map(views, func(v thread.View, _ int) string {
		return renderComment(v)
	})
	return title + "\n" + strings.Join(lines, "\n") + "\n"
}

func renderComment(v thread.View) string {
	meta := fmt.Sprintf("#%d by user %d | score %d | %s",
		v.ID, v.AuthorID, v.Score, v.CreatedAt.Local().Format("2006-01-02 15:04"))

	block := lipgloss.JoinVertical(lipgloss.Left,
		styles.Meta.Render(meta),
		styles.Text.Render(v.Text),
	)
	return lipgloss.NewStyle().PaddingLeft(v.Depth * indentWidth).Render(block)
}

// renderEvent describes a thread event in one line. Loaded events are not
// reported since the thread itself is rendered.
func renderEvent(e thread.Event) (string, bool) {
	switch e.Kind {
	case thread.EventInserted:
		return styles.Success.Render(fmt.Sprintf("Posted comment #%d.", e.Comment.ID)), true
	case thread.EventScoreUpdated:
		return styles.Success.Render(fmt.Sprintf("Comment #%d now has score %d.", e.CommentID, e.Score)), true
	case thread.EventRemoved:
		return styles.Success.Render(fmt.Sprintf("Deleted %d comment(s).", len(e.Removed))), true
	case thread.EventAlert:
		return styles.Alert.Render(e.Message), true
	default:
		return "", false
	}
}
