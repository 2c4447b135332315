package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookthreads/internal/adapter/out/storage/inmemory"
	"bookthreads/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	contents := inmemory.NewContentStorage()
	comments := inmemory.NewCommentStorage()

	h := NewHandler(
		service.NewContentService(contents),
		service.NewCommentService(comments, contents, inmemory.NewTxManager()),
	)
	return NewRouter(slog.New(slog.NewTextHandler(io.Discard, nil)), h)
}

func do(t *testing.T, r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func createBook(t *testing.T, r http.Handler, ownerID int64, enabled bool) int64 {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/books", map[string]any{
		"userId": ownerID, "title": "Dune", "commentsEnabled": enabled,
	}, "tok")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[contentResponse](t, w).ID
}

func postComment(t *testing.T, r http.Handler, bookID, userID int64, text string, parent *int64) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, r, http.MethodPost, fmt.Sprintf("/api/books/%d/comments", bookID), map[string]any{
		"userId": userID, "content": text, "parentId": parent,
	}, "tok")
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/healthz", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", w.Body.String())
	require.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRouter_RequestIDIsEchoed(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestRouter_MutationsRequireBearer(t *testing.T) {
	r := newTestRouter(t)
	bookID := createBook(t, r, 1, true)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/books"},
		{http.MethodPost, fmt.Sprintf("/api/books/%d/comments", bookID)},
		{http.MethodPost, fmt.Sprintf("/api/books/%d/comments/1/like", bookID)},
		{http.MethodDelete, fmt.Sprintf("/api/books/%d/comments/1?userId=1", bookID)},
		{http.MethodPut, fmt.Sprintf("/api/books/%d/comments-enabled", bookID)},
	}
	for _, tt := range tests {
		w := do(t, r, tt.method, tt.path, map[string]any{}, "")
		require.Equal(t, http.StatusUnauthorized, w.Code, tt.path)
		require.Equal(t, errMissingToken.Error(), decode[errorResponse](t, w).Message)
	}
}

func TestRouter_CreateComment(t *testing.T) {
	r := newTestRouter(t)
	bookID := createBook(t, r, 1, true)

	w := postComment(t, r, bookID, 7, "first!", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	got := decode[commentResponse](t, w)
	require.Equal(t, int64(1), got.ID)
	require.Equal(t, bookID, got.ContentID)
	require.Equal(t, "first!", got.Content)
	require.Equal(t, int64(7), got.UserID)
	require.Zero(t, got.Recommend)
	require.Nil(t, got.ParentID)

	reply := postComment(t, r, bookID, 8, "reply", &got.ID)
	require.Equal(t, http.StatusCreated, reply.Code)
	require.Equal(t, got.ID, *decode[commentResponse](t, reply).ParentID)

	blank := postComment(t, r, bookID, 7, "   ", nil)
	require.Equal(t, http.StatusBadRequest, blank.Code)
	require.Equal(t, "comment text must not be empty", decode[errorResponse](t, blank).Message)

	missing := postComment(t, r, 999, 7, "hi", nil)
	require.Equal(t, http.StatusNotFound, missing.Code)

	badID := do(t, r, http.MethodPost, "/api/books/abc/comments", map[string]any{"userId": 1, "content": "x"}, "tok")
	require.Equal(t, http.StatusBadRequest, badID.Code)
}

func TestRouter_CommentsDisabled(t *testing.T) {
	r := newTestRouter(t)
	bookID := createBook(t, r, 1, false)

	w := postComment(t, r, bookID, 7, "hello", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "comments are disabled for this item", decode[errorResponse](t, w).Message)

	notOwner := do(t, r, http.MethodPut, fmt.Sprintf("/api/books/%d/comments-enabled", bookID),
		map[string]any{"userId": 2, "enabled": true}, "tok")
	require.Equal(t, http.StatusForbidden, notOwner.Code)

	owner := do(t, r, http.MethodPut, fmt.Sprintf("/api/books/%d/comments-enabled", bookID),
		map[string]any{"userId": 1, "enabled": true}, "tok")
	require.Equal(t, http.StatusNoContent, owner.Code)

	require.Equal(t, http.StatusCreated, postComment(t, r, bookID, 7, "hello", nil).Code)
}

func TestRouter_ListCommentsPages(t *testing.T) {
	r := newTestRouter(t)
	bookID := createBook(t, r, 1, true)
	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusCreated, postComment(t, r, bookID, 7, fmt.Sprintf("c%d", i), nil).Code)
	}

	var (
		ids   []int64
		after string
	)
	for {
		path := fmt.Sprintf("/api/books/%d/comments?limit=2", bookID)
		if after != "" {
			path += "&after=" + after
		}
		w := do(t, r, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		page := decode[commentPageResponse](t, w)
		for _, c := range page.Items {
			ids = append(ids, c.ID)
		}
		if !page.HasNextPage {
			break
		}
		after = *page.EndCursor
	}
	require.Equal(t, []int64{1, 2, 3, 4, 5}, ids)

	bad := do(t, r, http.MethodGet, fmt.Sprintf("/api/books/%d/comments?limit=x", bookID), nil, "")
	require.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestRouter_Vote(t *testing.T) {
	r := newTestRouter(t)
	bookID := createBook(t, r, 1, true)
	require.Equal(t, http.StatusCreated, postComment(t, r, bookID, 7, "hi", nil).Code)

	path := fmt.Sprintf("/api/books/%d/comments/1/like", bookID)

	w := do(t, r, http.MethodPost, path, map[string]any{"userId": 9, "delta": 1}, "tok")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, voteResponse{CommentID: 1, Recommend: 1}, decode[voteResponse](t, w))

	again := do(t, r, http.MethodPost, path, map[string]any{"userId": 9, "delta": -1}, "tok")
	require.Equal(t, http.StatusConflict, again.Code)
	require.Equal(t, "you have already voted on this comment", decode[errorResponse](t, again).Message)

	bad := do(t, r, http.MethodPost, path, map[string]any{"userId": 10, "delta": 3}, "tok")
	require.Equal(t, http.StatusBadRequest, bad.Code)

	down := do(t, r, http.MethodPost, path, map[string]any{"userId": 10, "delta": -1}, "tok")
	require.Equal(t, int64(0), decode[voteResponse](t, down).Recommend)

	missing := do(t, r, http.MethodPost, fmt.Sprintf("/api/books/%d/comments/99/like", bookID),
		map[string]any{"userId": 10, "delta": 1}, "tok")
	require.Equal(t, http.StatusNotFound, missing.Code)
}

func TestRouter_DeleteComment(t *testing.T) {
	r := newTestRouter(t)
	bookID := createBook(t, r, 1, true)
	root := decode[commentResponse](t, postComment(t, r, bookID, 7, "root", nil))
	child := decode[commentResponse](t, postComment(t, r, bookID, 8, "child", &root.ID))
	_ = postComment(t, r, bookID, 9, "grandchild", &child.ID)
	_ = postComment(t, r, bookID, 9, "other", nil)

	path := fmt.Sprintf("/api/books/%d/comments/%d", bookID, root.ID)

	forbidden := do(t, r, http.MethodDelete, path+"?userId=8", nil, "tok")
	require.Equal(t, http.StatusForbidden, forbidden.Code)
	require.Equal(t, "only the author can delete this comment", decode[errorResponse](t, forbidden).Message)

	noUser := do(t, r, http.MethodDelete, path, nil, "tok")
	require.Equal(t, http.StatusBadRequest, noUser.Code)

	ok := do(t, r, http.MethodDelete, path+"?userId=7", nil, "tok")
	require.Equal(t, http.StatusNoContent, ok.Code)

	list := decode[commentPageResponse](t, do(t, r, http.MethodGet, fmt.Sprintf("/api/books/%d/comments", bookID), nil, ""))
	require.Equal(t, 1, list.Count)
	require.Equal(t, "other", list.Items[0].Content)

	gone := do(t, r, http.MethodDelete, path+"?userId=7", nil, "tok")
	require.Equal(t, http.StatusNotFound, gone.Code)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"", ""},
		{"abc123", ""},
		{"Basic abc123", ""},
		{"Bearer ", ""},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			c.Request.Header.Set("Authorization", tt.header)
		}
		require.Equal(t, tt.want, extractBearerToken(c), tt.header)
	}
}
