package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenSource returns the current bearer token, or "" for anonymous calls.
type TokenSource func() string

// Record is a raw server row used by the generic admin engine; typed wrappers
// in the per-resource files cover the storefront paths.
type Record = map[string]any

// APIError carries the HTTP status together with the message extracted from
// the response body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource

	Auth      *AuthAPI
	Products  *ProductsAPI
	Orders    *OrdersAPI
	Users     *UsersAPI
	Carts     *CartsAPI
	Favorites *FavoritesAPI
	Reviews   *ReviewsAPI
	Addresses *AddressesAPI
	AuditLogs *AuditLogsAPI
	Backup    *BackupAPI
	Lookups   *LookupsAPI
}

func NewClient(baseURL string, token TokenSource) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	c.bind()
	return c
}

func (c *Client) bind() {
	c.Auth = &AuthAPI{c}
	c.Products = &ProductsAPI{c}
	c.Orders = &OrdersAPI{c}
	c.Users = &UsersAPI{c}
	c.Carts = &CartsAPI{c}
	c.Favorites = &FavoritesAPI{c}
	c.Reviews = &ReviewsAPI{c}
	c.Addresses = &AddressesAPI{c}
	c.AuditLogs = &AuditLogsAPI{c}
	c.Backup = &BackupAPI{c}
	c.Lookups = &LookupsAPI{c}
}

// WithToken returns a client that authenticates every call with the given
// bearer token. The HTTP transport is shared with the receiver. An empty
// token returns the receiver unchanged.
func (c *Client) WithToken(token string) *Client {
	if token == "" {
		return c
	}
	clone := &Client{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		token:      func() string { return token },
	}
	clone.bind()
	return clone
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, extra http.Header) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if t := c.token(); t != "" {
			req.Header.Set("Authorization", "Bearer "+t)
		}
	}
	for k, vs := range extra {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(raw, resp.Header.Get("Content-Type"), resp.Status),
		}
	}

	if out == nil {
		return nil
	}
	// Non-JSON success bodies (and empty 204 responses) leave out at its zero value.
	if len(raw) == 0 || !strings.Contains(resp.Header.Get("Content-Type"), "json") {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, nil)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out, nil)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Raw record operations back the generic admin tables.

func (c *Client) ListRaw(ctx context.Context, path string, query url.Values) ([]Record, error) {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	var recs []Record
	if err := c.get(ctx, path, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (c *Client) CreateRaw(ctx context.Context, path string, rec Record) (Record, error) {
	var created Record
	if err := c.post(ctx, path, rec, &created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *Client) UpdateRaw(ctx context.Context, path string, id int, rec Record) error {
	return c.put(ctx, fmt.Sprintf("%s/%d", path, id), rec, nil)
}

func (c *Client) DeleteRaw(ctx context.Context, path string, id int) error {
	return c.delete(ctx, fmt.Sprintf("%s/%d", path, id))
}

const maxMessageLen = 200

// extractMessage normalizes an error body to a single human-readable string.
// JSON problem-details bodies yield the validation dictionary, title or detail;
// plain-text bodies yield their first meaningful line.
func extractMessage(raw []byte, contentType, fallback string) string {
	body := strings.TrimSpace(string(raw))
	if body == "" {
		return fallback
	}

	var problem struct {
		Errors map[string][]string `json:"errors"`
		Title  string              `json:"title"`
		Detail string              `json:"detail"`
	}
	if err := json.Unmarshal(raw, &problem); err == nil {
		if len(problem.Errors) > 0 {
			var parts []string
			for field, msgs := range problem.Errors {
				for _, m := range msgs {
					parts = append(parts, field+": "+m)
				}
			}
			return strings.Join(parts, "\n")
		}
		if problem.Title != "" {
			if problem.Detail != "" {
				return problem.Title + ": " + problem.Detail
			}
			return problem.Title
		}
		if problem.Detail != "" {
			return problem.Detail
		}
	}
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil && plain != "" {
		return clip(plain)
	}

	return firstMeaningfulLine(body, fallback)
}

func firstMeaningfulLine(body, fallback string) string {
	lines := strings.Split(body, "\n")
	for _, line := range lines {
		if strings.Contains(line, "Exception") {
			return clip(strings.TrimSpace(line))
		}
	}
	for _, line := range lines {
		if l := strings.TrimSpace(line); l != "" {
			return clip(l)
		}
	}
	return fallback
}

func clip(s string) string {
	if len(s) > maxMessageLen {
		return s[:maxMessageLen]
	}
	return s
}
