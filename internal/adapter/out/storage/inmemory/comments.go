package inmemory

import (
	"context"
	"slices"
	"sync"
	"time"

	"bookthreads/internal/adapter/out/storage"
	"bookthreads/internal/model"
	"bookthreads/internal/service"
)

type voteKey struct {
	commentID int64
	userID    int64
}

// CommentStorage keeps comments in an id-indexed slice. Deleted comments stay
// behind as zero-valued tombstones so ids are never reused.
type CommentStorage struct {
	mu sync.RWMutex

	comments  []model.Comment
	byContent map[int64][]int64
	byParent  map[int64][]int64
	votes     map[voteKey]model.Vote
}

func NewCommentStorage() *CommentStorage {
	return &CommentStorage{
		comments:  []model.Comment{{}},
		byContent: make(map[int64][]int64),
		byParent:  make(map[int64][]int64),
		votes:     make(map[voteKey]model.Vote),
	}
}

func (s *CommentStorage) CreateComment(_ context.Context, req service.CreateCommentRequest) (model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := model.Comment{
		ID:        int64(len(s.comments)),
		ContentID: req.ContentID,
		UserID:    req.UserID,
		Body:      req.Text,
		CreatedAt: time.Now(),
	}
	if req.ParentID != nil {
		pid := *req.ParentID
		c.ParentID = &pid
	}

	s.comments = append(s.comments, c)
	s.byContent[c.ContentID] = append(s.byContent[c.ContentID], c.ID)
	if c.ParentID != nil {
		s.byParent[*c.ParentID] = append(s.byParent[*c.ParentID], c.ID)
	}

	return c, nil
}

func (s *CommentStorage) GetCommentByID(_ context.Context, commentID int64) (model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.get(commentID)
}

func (s *CommentStorage) get(commentID int64) (model.Comment, error) {
	if commentID <= 0 || int(commentID) >= len(s.comments) {
		return model.Comment{}, service.ErrNotFound
	}
	c := s.comments[commentID]
	if c.ID == 0 {
		return model.Comment{}, service.ErrNotFound
	}
	return c, nil
}

func (s *CommentStorage) GetCommentsByContent(_ context.Context, contentID int64, limit int) ([]model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byContent[contentID]
	if len(ids) == 0 {
		return nil, nil
	}

	out := make([]model.Comment, 0, min(limit, len(ids)))
	for i := 0; i < len(ids) && len(out) < limit; i++ {
		out = append(out, s.comments[ids[i]])
	}
	return out, nil
}

func (s *CommentStorage) GetCommentsByContentWithCursor(_ context.Context, p storage.GetCommentsParams) ([]model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byContent[p.ContentID]
	if len(ids) == 0 {
		return nil, nil
	}

	limit := p.Limit
	if limit <= 0 {
		limit = service.DefaultCommentsLimit
	}

	// ids are handed out in creation order, so the id alone orders the keyset.
	start, _ := slices.BinarySearch(ids, p.Cursor.ID+1)

	out := make([]model.Comment, 0, min(limit, len(ids)-start))
	for i := start; i < len(ids) && len(out) < limit; i++ {
		out = append(out, s.comments[ids[i]])
	}
	return out, nil
}

func (s *CommentStorage) AddVote(_ context.Context, vote model.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.get(vote.CommentID); err != nil {
		return err
	}
	key := voteKey{commentID: vote.CommentID, userID: vote.UserID}
	if _, ok := s.votes[key]; ok {
		return service.ErrConflict
	}
	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = time.Now()
	}
	s.votes[key] = vote
	return nil
}

func (s *CommentStorage) AddScore(_ context.Context, commentID, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(commentID)
	if err != nil {
		return 0, err
	}
	c.Score += delta
	s.comments[commentID] = c
	return c.Score, nil
}

func (s *CommentStorage) DeleteCommentTree(_ context.Context, commentID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	root, err := s.get(commentID)
	if err != nil {
		return 0, err
	}

	removed := make(map[int64]struct{})
	stack := []int64{root.ID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := removed[id]; seen {
			continue
		}
		removed[id] = struct{}{}
		stack = append(stack, s.byParent[id]...)
	}

	for id := range removed {
		delete(s.byParent, id)
		s.comments[id] = model.Comment{}
	}
	s.byContent[root.ContentID] = slices.DeleteFunc(s.byContent[root.ContentID], func(id int64) bool {
		_, ok := removed[id]
		return ok
	})
	if root.ParentID != nil {
		s.byParent[*root.ParentID] = slices.DeleteFunc(s.byParent[*root.ParentID], func(id int64) bool {
			return id == root.ID
		})
	}
	for key := range s.votes {
		if _, ok := removed[key.commentID]; ok {
			delete(s.votes, key)
		}
	}

	return int64(len(removed)), nil
}
