package storage

import (
	"bookthreads/pkg/pagination"
)

// GetCommentsParams selects the comments of a content item strictly after Cursor
// in (created_at, id) order.
type GetCommentsParams struct {
	ContentID int64
	Cursor    pagination.Cursor
	Limit     int
}
