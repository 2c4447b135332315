package rest

import (
	"errors"
	"net/http"

	"bookthreads/internal/service"
	"bookthreads/pkg/logger"

	"github.com/gin-gonic/gin"
)

var errMissingToken = errors.New("missing bearer token")

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"message": ...}. Internal failures are logged and
// reported without detail.
func writeError(c *gin.Context, err error) {
	status := statusOf(err)
	msg := err.Error()
	if reason, ok := service.Reason(err); ok {
		msg = reason
	}
	if status == http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("request failed", "error", err)
		msg = service.ErrInternalError.Error()
	}
	c.AbortWithStatusJSON(status, errorResponse{Message: msg})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Message: msg})
}
