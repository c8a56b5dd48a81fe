package sharepoint

import (
	"context"
	"net/http"
	"time"
)

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(c *http.Client) Options {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithPollInterval sets the download existence poll interval.
func WithPollInterval(d time.Duration) Options {
	return func(o *options) {
		o.pollInterval = d
	}
}

// WithWaitLimit sets the download existence wait limit.
func WithWaitLimit(d time.Duration) Options {
	return func(o *options) {
		o.waitLimit = d
	}
}

// ServerRelative exposes serverRelative for tests.
func (c *Client) ServerRelative(parts ...string) string {
	return c.serverRelative(parts...)
}

// WaitForFile exposes waitForFile for tests.
func (c *Client) WaitForFile(ctx context.Context, path string) error {
	return c.waitForFile(ctx, path)
}
