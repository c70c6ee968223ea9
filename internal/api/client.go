// Package api provides a REST client for the BI server's v1 API.
// It implements a deep module interface - simple typed methods hiding the
// list-query encoding and response envelope handling.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/umarmehmood-wq/superset/internal/selector"
)

// ErrNotFound indicates the requested entity does not exist on the server.
var ErrNotFound = errors.New("entity not found")

const requestTimeout = 15 * time.Second

// Client is a BI server API client. It is safe for concurrent outstanding
// calls; it holds no per-request state.
type Client struct {
	base  *url.URL
	http  *http.Client
	token string
}

// New creates a new API client for the server at baseURL, authenticating
// every request with token.
func New(baseURL, token string) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must include scheme and host", baseURL)
	}

	return &Client{
		base:  base,
		http:  &http.Client{Timeout: requestTimeout},
		token: token,
	}, nil
}

// BaseURL returns the server base URL, without a trailing slash.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// listQuery is the wire shape of the "q" parameter on list endpoints.
type listQuery struct {
	Filters        []wireFilter `json:"filters,omitempty"`
	OrderColumn    string       `json:"order_column,omitempty"`
	OrderDirection string       `json:"order_direction,omitempty"`
	Page           int          `json:"page"`
	PageSize       int          `json:"page_size"`
}

type wireFilter struct {
	Col   string `json:"col"`
	Opr   string `json:"opr"`
	Value string `json:"value"`
}

// listEnvelope is the common list response shape: total match count plus one
// page of records.
type listEnvelope[T any] struct {
	Count  int `json:"count"`
	Result []T `json:"result"`
}

// itemEnvelope is the common single-entity response shape.
type itemEnvelope[T any] struct {
	Result T `json:"result"`
}

// encodeListQuery turns a logical query request into the "q" parameter.
func encodeListQuery(req selector.QueryRequest) (string, error) {
	q := listQuery{
		OrderColumn: req.OrderColumn,
		Page:        req.PageIndex,
		PageSize:    req.PageSize,
	}
	if req.OrderColumn != "" {
		q.OrderDirection = "asc"
		if req.OrderDesc {
			q.OrderDirection = "desc"
		}
	}
	for _, f := range req.Filters {
		q.Filters = append(q.Filters, wireFilter{Col: f.Field, Opr: string(f.Op), Value: f.Value})
	}

	raw, err := json.Marshal(q)
	if err != nil {
		return "", fmt.Errorf("encode list query: %w", err)
	}
	return string(raw), nil
}

// get executes an authenticated GET and decodes the JSON response into out.
// Every request carries a fresh correlation ID so server logs can be matched
// to client calls.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("GET %s: %w", path, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: server returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode response: %w", path, err)
	}
	return nil
}

// list runs one paged list query against path and returns the records plus
// the total match count.
func list[T any](ctx context.Context, c *Client, path string, req selector.QueryRequest) ([]T, int, error) {
	q, err := encodeListQuery(req)
	if err != nil {
		return nil, 0, err
	}

	var envelope listEnvelope[T]
	query := url.Values{"q": []string{q}}
	if err := c.get(ctx, path, query, &envelope); err != nil {
		return nil, 0, err
	}
	return envelope.Result, envelope.Count, nil
}

// fetch retrieves one entity record by ID from path.
func fetch[T any](ctx context.Context, c *Client, path string) (T, error) {
	var envelope itemEnvelope[T]
	if err := c.get(ctx, path, nil, &envelope); err != nil {
		var zero T
		return zero, err
	}
	return envelope.Result, nil
}
