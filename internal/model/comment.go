package model

import "time"

type Comment struct {
	ID        int64
	ContentID int64
	ParentID  *int64
	UserID    int64
	Body      string
	Score     int64
	CreatedAt time.Time
}

// Vote records that UserID voted on CommentID. A user votes at most once per comment.
type Vote struct {
	CommentID int64
	UserID    int64
	Delta     int64
	CreatedAt time.Time
}
