// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP helpers used by the search client.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

// maxErrorBody caps how much of a failed response body is kept in a StatusError.
const maxErrorBody = 512

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Do waits for the limiter (when non-nil) and executes req exactly once.
// There is no retry: a failed request is reported to the caller as-is.
// If the context is cancelled while waiting, ctx.Err() is returned.
func Do(ctx context.Context, client *http.Client, req *http.Request, lim *rate.Limiter) (*http.Response, error) {
	if lim != nil {
		if err := lim.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return client.Do(req.Clone(ctx))
}

// ReadBody reads the full body of a 2xx response and closes it. Any other
// status is drained into a *StatusError.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return data, nil
}

// NewLimiter builds a limiter allowing perSecond requests with the given
// burst. A non-positive rate disables limiting and returns nil.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}
