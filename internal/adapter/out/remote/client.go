// Package remote talks to the comment service over its REST API.
package remote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookthreads/config"
	"bookthreads/internal/metrics"

	"resty.dev/v3"
)

const (
	commentsPath = "/api/books/{bookId}/comments"
	commentPath  = "/api/books/{bookId}/comments/{commentId}"
	likePath     = "/api/books/{bookId}/comments/{commentId}/like"

	pageSize = 100
)

var DefaultTransportSettings = &resty.TransportSettings{
	DialerTimeout:         2 * time.Second,
	DialerKeepAlive:       30 * time.Second,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   2 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ResponseHeaderTimeout: 5 * time.Second,
}

// Client implements discussion.CommentService. Every call is bounded by the
// configured timeout.
type Client struct {
	client  *resty.Client
	timeout time.Duration
}

func NewClient(cfg config.ClientConfig) *Client {
	client := resty.NewWithTransportSettings(DefaultTransportSettings).
		SetBaseURL(cfg.BaseURL).
		SetResponseBodyUnlimitedReads(true)
	client.AddResponseMiddleware(metricMiddleware)

	// Plain HTTP was asked for explicitly; resty would otherwise warn about the
	// bearer token on every request.
	if strings.HasPrefix(cfg.BaseURL, "http://") {
		client.SetDisableWarn(true)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultClientTimeout
	}

	return &Client{
		client:  client,
		timeout: timeout,
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) r(ctx context.Context, token string) *resty.Request {
	r := c.client.R().WithContext(ctx).SetError(&errorBody{})
	if token != "" {
		r.SetAuthToken(token)
	}
	return r
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

func metricMiddleware(_ *resty.Client, response *resty.Response) error {
	metrics.RemoteLatency.WithLabelValues(
		response.Request.Method,
		fmt.Sprintf("%d", response.StatusCode()),
	).Observe(response.Duration().Seconds())

	return nil
}
