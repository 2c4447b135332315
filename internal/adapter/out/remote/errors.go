package remote

import (
	"errors"
	"net/http"

	"bookthreads/internal/discussion"

	"resty.dev/v3"
)

var errMalformedResponse = errors.New("malformed response")

func transportError(err error) error {
	return &discussion.RemoteError{Kind: discussion.ErrTransport, Err: err}
}

// statusError classifies a non-2xx response. The server's {"message": ...}
// body is carried along when it has one.
func statusError(res *resty.Response) error {
	status := res.StatusCode()

	var msg string
	if body, ok := res.Error().(*errorBody); ok && body != nil {
		msg = body.Message
	}

	return &discussion.RemoteError{
		Kind:    kindOf(status),
		Status:  status,
		Message: msg,
	}
}

func kindOf(status int) error {
	switch status {
	case http.StatusConflict:
		return discussion.ErrConflict
	case http.StatusForbidden:
		return discussion.ErrForbidden
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return discussion.ErrRejected
	default:
		return discussion.ErrTransport
	}
}
