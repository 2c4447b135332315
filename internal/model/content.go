package model

import "time"

// Content is a commentable item (a book or an article).
type Content struct {
	ID              int64
	Title           string
	Body            string
	UserID          int64
	CommentsEnabled bool
	CreatedAt       time.Time
}
