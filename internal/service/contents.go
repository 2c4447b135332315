package service

import (
	"context"
	"fmt"

	"bookthreads/internal/model"

	"github.com/go-playground/validator/v10"
)

//go:generate mockgen -source=contents.go -destination=./content_storage_mock.go -package=service
type ContentStorage interface {
	CreateContent(ctx context.Context, content model.Content) (model.Content, error)
	GetContentByID(ctx context.Context, contentID int64) (model.Content, error)
	GetContentAuthorID(ctx context.Context, contentID int64) (int64, error)
	SetCommentsEnabled(ctx context.Context, contentID int64, enabled bool) error
}

type ContentService struct {
	contentStorage ContentStorage
}

func NewContentService(contentStorage ContentStorage) *ContentService {
	return &ContentService{
		contentStorage: contentStorage,
	}
}

func (s *ContentService) CreateContent(ctx context.Context, req CreateContentRequest) (model.Content, error) {
	if err := validator.New().Struct(req); err != nil {
		return model.Content{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return s.contentStorage.CreateContent(ctx, model.Content{
		UserID:          req.UserID,
		Title:           req.Title,
		Body:            req.Body,
		CommentsEnabled: req.CommentsEnabled,
	})
}

func (s *ContentService) GetContentByID(ctx context.Context, contentID int64) (model.Content, error) {
	if contentID <= 0 {
		return model.Content{}, fmt.Errorf("contentID must be > 0: %w", ErrInvalidRequest)
	}
	return s.contentStorage.GetContentByID(ctx, contentID)
}

func (s *ContentService) ChangeCommentPermission(ctx context.Context, contentID, userID int64, enabled bool) error {
	if contentID <= 0 || userID <= 0 {
		return ErrInvalidRequest
	}
	ownerID, err := s.contentStorage.GetContentAuthorID(ctx, contentID)
	if err != nil {
		return err
	}
	if ownerID != userID {
		return withReason(ErrForbidden, "only the owner can change comment settings")
	}
	return s.contentStorage.SetCommentsEnabled(ctx, contentID, enabled)
}
