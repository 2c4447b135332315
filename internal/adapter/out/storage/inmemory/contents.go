package inmemory

import (
	"context"
	"sync"
	"time"

	"bookthreads/internal/model"
	"bookthreads/internal/service"
)

type ContentStorage struct {
	mu       sync.RWMutex
	contents []model.Content
	byID     map[int64]model.Content
}

func NewContentStorage() *ContentStorage {
	return &ContentStorage{
		contents: []model.Content{{}},
		byID:     make(map[int64]model.Content),
	}
}

func (s *ContentStorage) CreateContent(_ context.Context, in model.Content) (model.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in.ID = int64(len(s.contents))
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	s.contents = append(s.contents, in)
	s.byID[in.ID] = in
	return in, nil
}

func (s *ContentStorage) GetContentByID(_ context.Context, contentID int64) (model.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.byID[contentID]; ok {
		return c, nil
	}
	return model.Content{}, service.ErrNotFound
}

func (s *ContentStorage) GetContentAuthorID(_ context.Context, contentID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byID[contentID]
	if !ok {
		return 0, service.ErrNotFound
	}
	return c.UserID, nil
}

func (s *ContentStorage) SetCommentsEnabled(_ context.Context, contentID int64, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[contentID]
	if !ok {
		return service.ErrNotFound
	}
	c.CommentsEnabled = enabled
	s.byID[contentID] = c
	s.contents[contentID] = c
	return nil
}
