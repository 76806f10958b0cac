package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/sharecount/sharecount/internal/models"
)

// Ensure HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)

// HTTPClient implements Client against the remote REST API.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewHTTP creates a client for the given base URL. The underlying
// http.Client carries a cookie jar so the session cookie set by the
// remote survives across calls. Timeouts are the caller's business via
// context; the client itself does not impose one.
func NewHTTP(baseURL string) (*HTTPClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &HTTPClient{
		httpClient: &http.Client{Jar: jar},
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}, nil
}

func (c *HTTPClient) GetGroup(ctx context.Context, token string) (*models.Group, error) {
	var out models.Group
	if err := c.do(ctx, http.MethodGet, "/groups/"+token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpsertGroup(ctx context.Context, group models.Group) error {
	return c.do(ctx, http.MethodPost, "/groups", group, nil)
}

func (c *HTTPClient) DeleteGroup(ctx context.Context, group models.Group) error {
	return c.do(ctx, http.MethodDelete, "/groups", group, nil)
}

func (c *HTTPClient) ListMembers(ctx context.Context, token string) ([]models.Member, error) {
	var out []models.Member
	if err := c.do(ctx, http.MethodGet, "/groups/"+token+"/group_members", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateMembers(ctx context.Context, token string, members []models.Member) ([]models.Member, error) {
	if len(members) == 0 {
		return nil, nil
	}
	var out []models.Member
	if err := c.do(ctx, http.MethodPost, "/groups/"+token+"/group_members", members, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) DeleteMembers(ctx context.Context, token string, members []models.Member) error {
	if len(members) == 0 {
		return nil
	}
	return c.do(ctx, http.MethodDelete, "/groups/"+token+"/group_members", members, nil)
}

func (c *HTTPClient) ListTransactions(ctx context.Context, token string) ([]models.Transaction, error) {
	var out []models.Transaction
	if err := c.do(ctx, http.MethodGet, "/groups/"+token+"/transactions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateTransactions(ctx context.Context, token string, txs []models.Transaction) ([]models.Transaction, error) {
	if len(txs) == 0 {
		return nil, nil
	}
	var out []models.Transaction
	if err := c.do(ctx, http.MethodPost, "/groups/"+token+"/transactions", txs, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) DeleteTransactions(ctx context.Context, token string, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	return c.do(ctx, http.MethodDelete, "/groups/"+token+"/transactions", txs, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused; the body carries no
		// contract we can act on.
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s %s: status %d", ErrRequestFailed, method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty 2xx body; some deployments answer batch POSTs with
			// no content.
			return nil
		}
		return fmt.Errorf("%w: decode response: %v", ErrRequestFailed, err)
	}
	return nil
}
