// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/pdiddy/kanoon-match/internal/httputil"
	"github.com/pdiddy/kanoon-match/internal/storage"
	"github.com/pdiddy/kanoon-match/pkg/types"
)

// DefaultBaseURL is the Indian Kanoon API root.
const DefaultBaseURL = "https://api.indiankanoon.org"

// Client queries the Indian Kanoon search endpoint.
type Client struct {
	HTTP  *http.Client
	Token string

	// BaseURL overrides DefaultBaseURL (tests point it at httptest servers).
	BaseURL   string
	UserAgent string

	// Limiter paces requests when set.
	Limiter *rate.Limiter

	// Cache, when set, serves repeated queries from storage. Only payloads
	// that parse into a valid response are stored.
	Cache Cache

	Log *logrus.Logger
}

func (c *Client) logger() *logrus.Logger {
	if c.Log != nil {
		return c.Log
	}
	return logrus.StandardLogger()
}

// Search posts a title query and returns the response body unparsed.
// Transport failures and non-2xx responses are returned as errors; there
// is no retry.
func (c *Client) Search(ctx context.Context, title string, pageNum, maxPages int) (string, error) {
	key := storage.Key(title, pageNum, maxPages)
	if c.Cache != nil {
		payload, ok, err := c.Cache.Get(ctx, key)
		if err != nil {
			c.logger().WithError(err).Warn("cache read failed")
		} else if ok {
			c.logger().WithField("query", title).Debug("cache hit")
			return payload, nil
		}
	}

	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	params := url.Values{
		"formInput": {title},
		"pagenum":   {strconv.Itoa(pageNum)},
		"maxpages":  {strconv.Itoa(maxPages)},
	}
	reqURL := base + "/search/?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.Token)
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	c.logger().WithFields(logrus.Fields{
		"url":      reqURL,
		"pagenum":  pageNum,
		"maxpages": maxPages,
	}).Debug("searching")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.Do(ctx, client, req, c.Limiter)
	if err != nil {
		return "", fmt.Errorf("search API request: %w", err)
	}
	body, err := httputil.ReadBody(resp)
	if err != nil {
		return "", fmt.Errorf("search API: %w", err)
	}

	payload := string(body)
	if c.Cache != nil && cacheable(payload) {
		if err := c.Cache.Put(ctx, key, title, payload); err != nil {
			c.logger().WithError(err).Warn("cache write failed")
		}
	}
	return payload, nil
}

// cacheable validates the same leading records a lookup reads.
func cacheable(payload string) bool {
	_, err := ParseResponse(payload, types.DefaultMaxResults)
	return err == nil
}
