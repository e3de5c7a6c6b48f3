// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/kanoon-match/pkg/types"
)

// ErrMalformed marks a payload that is empty, not JSON, lacks the docs list,
// or holds a document without a usable title or identifier.
var ErrMalformed = errors.New("malformed search response")

// APIError is an error message reported by the API inside a response body.
// A payload carrying only an error message has no documents, so ParseResponse
// returns it joined with ErrMalformed.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "search API error: " + e.Message
}

// Response is a validated search payload. Message holds the API's errmsg
// when one accompanied the documents.
type Response struct {
	Docs    []types.Document
	Message string
}

type rawResponse struct {
	Docs   *[]json.RawMessage `json:"docs"`
	ErrMsg string             `json:"errmsg"`
}

type rawDoc struct {
	Title *string         `json:"title"`
	TID   json.RawMessage `json:"tid"`
}

// ParseResponse decodes raw and validates the first limit documents
// (all of them when limit <= 0); later records are dropped unread. Every
// defect wraps ErrMalformed. A payload with an errmsg and no docs list also
// wraps *APIError. A present but empty docs list is valid.
func ParseResponse(raw string, limit int) (Response, error) {
	if strings.TrimSpace(raw) == "" {
		return Response{}, fmt.Errorf("%w: empty payload", ErrMalformed)
	}

	var rr rawResponse
	if err := json.Unmarshal([]byte(raw), &rr); err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if rr.Docs == nil {
		if rr.ErrMsg != "" {
			return Response{}, fmt.Errorf("%w: %w", ErrMalformed, &APIError{Message: rr.ErrMsg})
		}
		return Response{}, fmt.Errorf("%w: missing docs", ErrMalformed)
	}

	records := *rr.Docs
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	docs := make([]types.Document, 0, len(records))
	for i, rec := range records {
		doc, err := parseDoc(rec)
		if err != nil {
			return Response{}, fmt.Errorf("%w: doc %d: %v", ErrMalformed, i, err)
		}
		docs = append(docs, doc)
	}
	return Response{Docs: docs, Message: rr.ErrMsg}, nil
}

func parseDoc(rec json.RawMessage) (types.Document, error) {
	var rd rawDoc
	if err := json.Unmarshal(rec, &rd); err != nil {
		return types.Document{}, err
	}
	if rd.Title == nil {
		return types.Document{}, errors.New("missing title")
	}
	id, err := parseID(rd.TID)
	if err != nil {
		return types.Document{}, err
	}
	return types.Document{Title: *rd.Title, ID: id}, nil
}

// parseID accepts a JSON number (kept digit for digit) or a non-empty string.
func parseID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", errors.New("missing tid")
	}
	switch c := raw[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("tid: %v", err)
		}
		if s == "" {
			return "", errors.New("empty tid")
		}
		return s, nil
	case c == '-' || (c >= '0' && c <= '9'):
		return string(raw), nil
	default:
		return "", fmt.Errorf("tid has unsupported type: %s", raw)
	}
}
