package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vovakirdan/chatview-go/chatroom/internal"
)

// recordSeparator splits packets in an Engine.IO polling payload.
const recordSeparator = 0x1e

// Client checks that a chat endpoint answers the Engine.IO handshake over
// HTTP long-polling, which also wakes servers that sleep when idle.
type Client struct {
	baseURL    string
	path       string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a new probe client.
// baseURL is the chat server origin, e.g., "https://chat.example.com/".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		path:    "/socket.io/",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		now: time.Now,
	}
}

// SetHTTPClient allows setting a custom HTTP client.
func (c *Client) SetHTTPClient(client *http.Client) {
	if client != nil {
		c.httpClient = client
	}
}

// SetPath overrides the Engine.IO mount point.
func (c *Client) SetPath(path string) {
	if path != "" {
		c.path = path
	}
}

// Handshake opens a polling session and returns its parameters.
func (c *Client) Handshake(ctx context.Context) (*Result, error) {
	endpoint, err := c.handshakeURL()
	if err != nil {
		return nil, err
	}

	start := c.now()
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	latency := c.now().Sub(start)

	first := body
	if i := bytes.IndexByte(body, recordSeparator); i >= 0 {
		first = body[:i]
	}
	open, err := internal.DecodeOpen(first)
	if err != nil {
		return nil, fmt.Errorf("parse handshake: %w", err)
	}
	return &Result{
		Open: OpenPacket{
			SID:          open.SID,
			Upgrades:     open.Upgrades,
			PingInterval: open.PingInterval,
			PingTimeout:  open.PingTimeout,
			MaxPayload:   open.MaxPayload,
		},
		Latency: latency,
	}, nil
}

func (c *Client) handshakeURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}
	switch u.Scheme {
	case "ws":
		u.Scheme = "http"
	case "wss":
		u.Scheme = "https"
	case "http", "https":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = c.path
	q := u.Query()
	q.Set("EIO", "4")
	q.Set("transport", "polling")
	q.Set("t", strconv.FormatInt(c.now().UnixNano(), 36))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Helper methods

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	// Handle error responses
	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
			return nil, fmt.Errorf("api error (status %d): %s", resp.StatusCode, errResp.Message)
		}
		return nil, fmt.Errorf("http error: %s (status %d)", string(body), resp.StatusCode)
	}
	return body, nil
}
