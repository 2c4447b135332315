package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookthreads/internal/adapter/out/storage"
	"bookthreads/internal/model"
	"bookthreads/pkg/logger"
	"bookthreads/pkg/pagination"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultCommentsLimit = 50
	MaxCommentsLimit     = 250
)

//go:generate mockgen -source=comments.go -destination=./comment_storage_mock.go -package=service
type CommentStorage interface {
	CreateComment(ctx context.Context, req CreateCommentRequest) (model.Comment, error)
	GetCommentByID(ctx context.Context, commentID int64) (model.Comment, error)
	GetCommentsByContent(ctx context.Context, contentID int64, limit int) ([]model.Comment, error)
	GetCommentsByContentWithCursor(ctx context.Context, params storage.GetCommentsParams) ([]model.Comment, error)
	// AddVote returns ErrConflict when the user has already voted on the comment.
	AddVote(ctx context.Context, vote model.Vote) error
	AddScore(ctx context.Context, commentID, delta int64) (int64, error)
	// DeleteCommentTree removes the comment, its replies at any depth and their votes.
	DeleteCommentTree(ctx context.Context, commentID int64) (int64, error)
}

// TxManager runs fn inside a single storage transaction.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type CommentService struct {
	commentStorage CommentStorage
	contentStorage ContentStorage
	trManager      TxManager
}

func NewCommentService(commentStorage CommentStorage, contentStorage ContentStorage, trManager TxManager) *CommentService {
	return &CommentService{
		commentStorage: commentStorage,
		contentStorage: contentStorage,
		trManager:      trManager,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, req CreateCommentRequest) (model.Comment, error) {
	if err := validator.New().Struct(req); err != nil {
		return model.Comment{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if strings.TrimSpace(req.Text) == "" {
		return model.Comment{}, withReason(ErrInvalidRequest, "comment text must not be empty")
	}

	content, err := s.contentStorage.GetContentByID(ctx, req.ContentID)
	if err != nil {
		return model.Comment{}, err
	}
	if !content.CommentsEnabled {
		return model.Comment{}, withReason(ErrForbidden, "comments are disabled for this item")
	}

	if req.ParentID != nil {
		parent, err := s.commentStorage.GetCommentByID(ctx, *req.ParentID)
		if errors.Is(err, ErrNotFound) {
			return model.Comment{}, withReason(ErrInvalidRequest, "parent comment not found")
		}
		if err != nil {
			return model.Comment{}, err
		}
		if parent.ContentID != req.ContentID {
			return model.Comment{}, withReason(ErrInvalidRequest, "parent comment belongs to another item")
		}
	}

	return s.commentStorage.CreateComment(ctx, req)
}

func (s *CommentService) GetCommentByID(ctx context.Context, commentID int64) (model.Comment, error) {
	if commentID <= 0 {
		return model.Comment{}, ErrInvalidRequest
	}
	return s.commentStorage.GetCommentByID(ctx, commentID)
}

// ListComments pages through a content item's comments, replies included, oldest first.
func (s *CommentService) ListComments(ctx context.Context, contentID int64, in pagination.PageRequest) (pagination.Page[model.Comment], error) {
	var (
		items []model.Comment
		err   error
		page  pagination.Page[model.Comment]
	)

	if contentID <= 0 {
		return page, fmt.Errorf("contentID must be > 0: %w", ErrInvalidRequest)
	}
	if _, err := s.contentStorage.GetContentByID(ctx, contentID); err != nil {
		return page, err
	}

	limit := in.Limit
	if limit <= 0 {
		limit = DefaultCommentsLimit
	}
	if limit > MaxCommentsLimit {
		limit = MaxCommentsLimit
	}
	peek := limit + 1

	afterProvided := in.AfterCursor != nil && *in.AfterCursor != ""

	switch {
	case !afterProvided:
		items, err = s.commentStorage.GetCommentsByContent(ctx, contentID, peek)
		if err != nil {
			return page, err
		}

	default:
		params, err := toGetCommentsParams(contentID, in)
		if err != nil {
			return page, err
		}
		params.Limit = peek

		items, err = s.commentStorage.GetCommentsByContentWithCursor(ctx, params)
		if err != nil {
			return page, err
		}
	}

	if len(items) == 0 {
		return page, nil
	}

	if len(items) > limit {
		page.HasNextPage = true
		items = items[:limit]
	}

	page.Items = items
	page.Count = len(items)

	startCursor := pagination.Cursor{
		CreatedAt: items[0].CreatedAt,
		ID:        items[0].ID,
	}
	endCursor := pagination.Cursor{
		CreatedAt: items[len(items)-1].CreatedAt,
		ID:        items[len(items)-1].ID,
	}

	page.StartCursor, page.EndCursor = startCursor.Encode(), endCursor.Encode()
	return page, nil
}

// Vote records a single +1/-1 vote and returns the comment's new score.
func (s *CommentService) Vote(ctx context.Context, req VoteRequest) (int64, error) {
	if err := validator.New().Struct(req); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	var score int64
	err := s.trManager.Do(ctx, func(ctx context.Context) error {
		if _, err := s.commentOfContent(ctx, req.ContentID, req.CommentID); err != nil {
			return err
		}

		err := s.commentStorage.AddVote(ctx, model.Vote{
			CommentID: req.CommentID,
			UserID:    req.UserID,
			Delta:     req.Delta,
			CreatedAt: time.Now(),
		})
		if errors.Is(err, ErrConflict) {
			return withReason(ErrConflict, "you have already voted on this comment")
		}
		if err != nil {
			return err
		}

		score, err = s.commentStorage.AddScore(ctx, req.CommentID, req.Delta)
		return err
	})
	if err != nil {
		return 0, err
	}
	return score, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, req DeleteCommentRequest) error {
	if err := validator.New().Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	return s.trManager.Do(ctx, func(ctx context.Context) error {
		c, err := s.commentOfContent(ctx, req.ContentID, req.CommentID)
		if err != nil {
			return err
		}
		if c.UserID != req.UserID {
			return withReason(ErrForbidden, "only the author can delete this comment")
		}

		removed, err := s.commentStorage.DeleteCommentTree(ctx, req.CommentID)
		if err != nil {
			return err
		}
		logger.FromContext(ctx).Debug("comment tree deleted",
			"comment_id", req.CommentID, "removed", removed)
		return nil
	})
}

func (s *CommentService) commentOfContent(ctx context.Context, contentID, commentID int64) (model.Comment, error) {
	c, err := s.commentStorage.GetCommentByID(ctx, commentID)
	if err != nil {
		return model.Comment{}, err
	}
	if c.ContentID != contentID {
		return model.Comment{}, fmt.Errorf("comment %d of content %d: %w", commentID, contentID, ErrNotFound)
	}
	return c, nil
}
