package rest

import (
	"time"

	"bookthreads/internal/model"
	"bookthreads/pkg/pagination"
)

type errorResponse struct {
	Message string `json:"message"`
}

type createContentRequest struct {
	UserID          int64  `json:"userId"`
	Title           string `json:"title"`
	Body            string `json:"body"`
	CommentsEnabled *bool  `json:"commentsEnabled"`
}

type contentResponse struct {
	ID              int64     `json:"bookId"`
	Title           string    `json:"title"`
	Body            string    `json:"body"`
	UserID          int64     `json:"userId"`
	CommentsEnabled bool      `json:"commentsEnabled"`
	CreatedAt       time.Time `json:"createdAt"`
}

type commentsEnabledRequest struct {
	UserID  int64 `json:"userId"`
	Enabled bool  `json:"enabled"`
}

type createCommentRequest struct {
	UserID   int64  `json:"userId"`
	Content  string `json:"content"`
	ParentID *int64 `json:"parentId"`
}

type commentResponse struct {
	ID        int64     `json:"commentId"`
	ContentID int64     `json:"bookId"`
	ParentID  *int64    `json:"parentId"`
	UserID    int64     `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Recommend int64     `json:"recommend"`
}

type commentPageResponse struct {
	Items       []commentResponse `json:"items"`
	Count       int               `json:"count"`
	StartCursor *string           `json:"startCursor,omitempty"`
	EndCursor   *string           `json:"endCursor,omitempty"`
	HasNextPage bool              `json:"hasNextPage"`
}

type voteRequest struct {
	UserID int64 `json:"userId"`
	Delta  int64 `json:"delta"`
}

type voteResponse struct {
	CommentID int64 `json:"commentId"`
	Recommend int64 `json:"recommend"`
}

func toContentResponse(c model.Content) contentResponse {
	return contentResponse{
		ID:              c.ID,
		Title:           c.Title,
		Body:            c.Body,
		UserID:          c.UserID,
		CommentsEnabled: c.CommentsEnabled,
		CreatedAt:       c.CreatedAt,
	}
}

func toCommentResponse(c model.Comment) commentResponse {
	var parent *int64
	if c.ParentID != nil {
		p := *c.ParentID
		parent = &p
	}
	return commentResponse{
		ID:        c.ID,
		ContentID: c.ContentID,
		ParentID:  parent,
		UserID:    c.UserID,
		Content:   c.Body,
		CreatedAt: c.CreatedAt,
		Recommend: c.Score,
	}
}

func toCommentPageResponse(p pagination.Page[model.Comment]) commentPageResponse {
	items := make([]commentResponse, 0, len(p.Items))
	for _, c := range p.Items {
		items = append(items, toCommentResponse(c))
	}
	return commentPageResponse{
		Items:       items,
		Count:       p.Count,
		StartCursor: p.StartCursor,
		EndCursor:   p.EndCursor,
		HasNextPage: p.HasNextPage,
	}
}
