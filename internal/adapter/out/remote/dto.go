package remote

import (
	"time"

	"bookthreads/internal/thread"
)

type errorBody struct {
	Message string `json:"message"`
}

type createCommentBody struct {
	UserID   int64  `json:"userId"`
	Content  string `json:"content"`
	ParentID *int64 `json:"parentId"`
}

type voteBody struct {
	UserID int64 `json:"userId"`
	Delta  int64 `json:"delta"`
}

type voteResult struct {
	CommentID int64  `json:"commentId"`
	Recommend *int64 `json:"recommend"`
}

type comment struct {
	ID        int64     `json:"commentId"`
	BookID    int64     `json:"bookId"`
	ParentID  *int64    `json:"parentId"`
	UserID    int64     `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Recommend int64     `json:"recommend"`
}

func (c comment) toThread() thread.Comment {
	return thread.Comment{
		ID:        c.ID,
		ParentID:  c.ParentID,
		AuthorID:  c.UserID,
		Text:      c.Content,
		CreatedAt: c.CreatedAt,
		Score:     c.Recommend,
	}
}

type commentPage struct {
	Items       []comment `json:"items"`
	Count       int       `json:"count"`
	EndCursor   *string   `json:"endCursor"`
	HasNextPage bool      `json:"hasNextPage"`
}
