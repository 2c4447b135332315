package service

import (
	"fmt"

	"bookthreads/internal/adapter/out/storage"
	"bookthreads/pkg/pagination"
)

type CreateContentRequest struct {
	UserID          int64  `validate:"required,gt=0"`
	Title           string `validate:"required"`
	Body            string
	CommentsEnabled bool
}

type CreateCommentRequest struct {
	ContentID int64  `validate:"required,gt=0"`
	ParentID  *int64 `validate:"omitempty,gt=0"`
	UserID    int64  `validate:"required,gt=0"`
	Text      string `validate:"required"`
}

type VoteRequest struct {
	ContentID int64 `validate:"required,gt=0"`
	CommentID int64 `validate:"required,gt=0"`
	UserID    int64 `validate:"required,gt=0"`
	Delta     int64 `validate:"oneof=-1 1"`
}

type DeleteCommentRequest struct {
	ContentID int64 `validate:"required,gt=0"`
	CommentID int64 `validate:"required,gt=0"`
	UserID    int64 `validate:"required,gt=0"`
}

func toGetCommentsParams(contentID int64, in pagination.PageRequest) (storage.GetCommentsParams, error) {
	if contentID <= 0 {
		return storage.GetCommentsParams{}, fmt.Errorf("contentID must be > 0: %w", ErrInvalidRequest)
	}

	if in.Limit <= 0 {
		in.Limit = DefaultCommentsLimit
	}
	in.Limit = min(in.Limit, MaxCommentsLimit)

	after, err := pagination.Decode(in.AfterCursor)
	if err != nil {
		return storage.GetCommentsParams{}, fmt.Errorf("decoding after-cursor: %w: %w", ErrInvalidRequest, err)
	}
	if after == nil {
		return storage.GetCommentsParams{}, fmt.Errorf("cursor is required: %w", ErrInvalidRequest)
	}

	return storage.GetCommentsParams{
		ContentID: contentID,
		Cursor:    *after,
		Limit:     in.Limit,
	}, nil
}
