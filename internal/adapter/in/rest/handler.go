package rest

import (
	"context"
	"net/http"
	"strconv"

	"bookthreads/internal/model"
	"bookthreads/internal/service"
	"bookthreads/pkg/pagination"

	"github.com/gin-gonic/gin"
)

type ContentService interface {
	CreateContent(ctx context.Context, req service.CreateContentRequest) (model.Content, error)
	GetContentByID(ctx context.Context, contentID int64) (model.Content, error)
	ChangeCommentPermission(ctx context.Context, contentID, userID int64, enabled bool) error
}

type CommentService interface {
	CreateComment(ctx context.Context, req service.CreateCommentRequest) (model.Comment, error)
	ListComments(ctx context.Context, contentID int64, in pagination.PageRequest) (pagination.Page[model.Comment], error)
	Vote(ctx context.Context, req service.VoteRequest) (int64, error)
	DeleteComment(ctx context.Context, req service.DeleteCommentRequest) error
}

type Handler struct {
	contentService ContentService
	commentService CommentService
}

func NewHandler(contentService ContentService, commentService CommentService) *Handler {
	return &Handler{
		contentService: contentService,
		commentService: commentService,
	}
}

func (h *Handler) createContent(c *gin.Context) {
	var body createContentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "malformed request body")
		return
	}

	enabled := true
	if body.CommentsEnabled != nil {
		enabled = *body.CommentsEnabled
	}

	content, err := h.contentService.CreateContent(c.Request.Context(), service.CreateContentRequest{
		UserID:          body.UserID,
		Title:           body.Title,
		Body:            body.Body,
		CommentsEnabled: enabled,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toContentResponse(content))
}

func (h *Handler) getContent(c *gin.Context) {
	contentID, ok := pathID(c, "bookId")
	if !ok {
		return
	}
	content, err := h.contentService.GetContentByID(c.Request.Context(), contentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContentResponse(content))
}

func (h *Handler) setCommentsEnabled(c *gin.Context) {
	contentID, ok := pathID(c, "bookId")
	if !ok {
		return
	}
	var body commentsEnabledRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	if err := h.contentService.ChangeCommentPermission(c.Request.Context(), contentID, body.UserID, body.Enabled); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listComments(c *gin.Context) {
	contentID, ok := pathID(c, "bookId")
	if !ok {
		return
	}

	var in pagination.PageRequest
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			badRequest(c, "limit must be a non-negative integer")
			return
		}
		in.Limit = limit
	}
	if after := c.Query("after"); after != "" {
		in.AfterCursor = &after
	}

	page, err := h.commentService.ListComments(c.Request.Context(), contentID, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCommentPageResponse(page))
}

func (h *Handler) createComment(c *gin.Context) {
	contentID, ok := pathID(c, "bookId")
	if !ok {
		return
	}
	var body createCommentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "malformed request body")
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), service.CreateCommentRequest{
		ContentID: contentID,
		ParentID:  body.ParentID,
		UserID:    body.UserID,
		Text:      body.Content,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCommentResponse(comment))
}

func (h *Handler) voteComment(c *gin.Context) {
	contentID, ok := pathID(c, "bookId")
	if !ok {
		return
	}
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}
	var body voteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "malformed request body")
		return
	}

	score, err := h.commentService.Vote(c.Request.Context(), service.VoteRequest{
		ContentID: contentID,
		CommentID: commentID,
		UserID:    body.UserID,
		Delta:     body.Delta,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, voteResponse{CommentID: commentID, Recommend: score})
}

func (h *Handler) deleteComment(c *gin.Context) {
	contentID, ok := pathID(c, "bookId")
	if !ok {
		return
	}
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil {
		badRequest(c, "userId query parameter is required")
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), service.DeleteCommentRequest{
		ContentID: contentID,
		CommentID: commentID,
		UserID:    userID,
	}); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
