package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ndnc-automation/ndncctl/internal/models"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// HTTPError is returned when an endpoint answers with a non-2xx status.
type HTTPError struct {
	Op         string
	StatusCode int
	Message    string // server-provided "error" field, if any
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s: server returned HTTP %d", e.Op, e.StatusCode)
}

// IsRejection reports whether err is the server refusing a request, as
// opposed to a transport or decode failure.
func IsRejection(err error) bool {
	var he *HTTPError
	return errors.As(err, &he)
}

// Client talks to the automation server's REST endpoints.
type Client struct {
	baseURL      *url.URL
	httpClient   *http.Client
	stopContract string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// WithStopContract selects the body sent by Stop when shutdown is false.
func WithStopContract(contract string) Option {
	return func(c *Client) {
		c.stopContract = contract
	}
}

// New creates a client for the server at rawURL.
func New(rawURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", rawURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q: missing host", rawURL)
	}

	c := &Client{
		baseURL:      u,
		httpClient:   &http.Client{},
		stopContract: models.StopContractShutdownFlag,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the server URL the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Status fetches the authoritative snapshot.
func (c *Client) Status(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	if err := c.do(ctx, "status", http.MethodGet, "/api/status", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Health probes the server.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, "health", http.MethodGet, "/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Start asks the server to begin draining the selected folders.
func (c *Client) Start(ctx context.Context, sel models.Selection) (string, error) {
	return c.command(ctx, "start", "/api/start", startRequest{Workflow: sel})
}

// Pause asks the server to pause the running workflow.
func (c *Client) Pause(ctx context.Context) (string, error) {
	return c.command(ctx, "pause", "/api/pause", nil)
}

// Resume asks the server to resume a paused workflow.
func (c *Client) Resume(ctx context.Context) (string, error) {
	return c.command(ctx, "resume", "/api/resume", nil)
}

// Stop asks the server to stop the workflow. With shutdown set the server
// process exits as well.
func (c *Client) Stop(ctx context.Context, shutdown bool) (string, error) {
	var body any = stopRequest{Shutdown: shutdown}
	if !shutdown && c.stopContract == models.StopContractEmptyBody {
		body = nil
	}
	return c.command(ctx, "stop", "/api/stop", body)
}

func (c *Client) command(ctx context.Context, op, path string, body any) (string, error) {
	var resp commandResponse
	if err := c.do(ctx, op, http.MethodPost, path, body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var cr commandResponse
		_ = json.Unmarshal(data, &cr)
		return &HTTPError{Op: op, StatusCode: resp.StatusCode, Message: cr.Error}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}
