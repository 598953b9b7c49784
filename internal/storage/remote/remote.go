// Package remote forwards document snapshots to the surrounding
// application's REST API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-docbind/pkg/document"
)

// ErrUnexpectedStatus is wrapped by StatusError.
var ErrUnexpectedStatus = errors.New("remote: unexpected status")

// StatusError reports a non-2xx response.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("remote: %s: unexpected status %d", e.Op, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client. Defaults to a 10s timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithToken sends the token as a bearer Authorization header.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// Client implements document.Repository over HTTP.
type Client struct {
	base  string
	http  *http.Client
	token string
	now   func() time.Time
}

var _ document.Repository = (*Client)(nil)

// New creates a client for the API rooted at baseURL.
func New(baseURL string, options ...Option) (*Client, error) {
	parsed, err := url.ParseRequestURI(strings.TrimSpace(baseURL))
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("remote: invalid base url %q", baseURL)
	}
	c := &Client{
		base: strings.TrimRight(parsed.String(), "/"),
		http: &http.Client{Timeout: 10 * time.Second},
		now:  time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Save posts the snapshot as JSON to {base}/documents.
func (c *Client) Save(ctx context.Context, s *document.Snapshot) error {
	if err := document.Prepare(s, c.now); err != nil {
		return err
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("remote: marshal snapshot: %w", err)
	}
	return c.do(ctx, "save document", http.MethodPost, "/documents", bytes.NewReader(payload), nil)
}

// Get fetches {base}/documents/{id}.
func (c *Client) Get(ctx context.Context, id string) (*document.Snapshot, error) {
	var out document.Snapshot
	err := c.do(ctx, "get document", http.MethodGet, "/documents/"+url.PathEscape(id), nil, &out)
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %q", document.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List fetches {base}/documents with the query encoded as parameters.
func (c *Client) List(ctx context.Context, q document.Query) ([]*document.Snapshot, error) {
	params := url.Values{}
	if q.TemplateID != "" {
		params.Set("templateId", q.TemplateID)
	}
	if q.Since != nil {
		params.Set("since", q.Since.UTC().Format(time.RFC3339))
	}
	if q.Until != nil {
		params.Set("until", q.Until.UTC().Format(time.RFC3339))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	path := "/documents"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var out []*document.Snapshot
	if err := c.do(ctx, "list documents", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("remote: %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("remote: %s: decode response: %w", op, err)
	}
	return nil
}
