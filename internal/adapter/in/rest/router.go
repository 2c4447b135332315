package rest

import (
	"log/slog"
	"net/http"

	"bookthreads/internal/metrics"

	"github.com/gin-gonic/gin"
)

func NewRouter(log *slog.Logger, h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log), Metrics())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	books := r.Group("/api/books")
	books.GET("/:bookId", h.getContent)
	books.GET("/:bookId/comments", h.listComments)

	guarded := books.Group("", RequireBearer())
	guarded.POST("", h.createContent)
	guarded.PUT("/:bookId/comments-enabled", h.setCommentsEnabled)
	guarded.POST("/:bookId/comments", h.createComment)
	guarded.POST("/:bookId/comments/:commentId/like", h.voteComment)
	guarded.DELETE("/:bookId/comments/:commentId", h.deleteComment)

	return r
}
