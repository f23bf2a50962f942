package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// Client talks to the scoring service over HTTP/JSON.
type Client struct {
	baseURL string
	user    string
	client  *http.Client
}

var _ Service = (*Client)(nil)

// NewClient creates a Client from configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		user:    cfg.User,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// BaseURL returns the scoring service root this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) StartSession(ctx context.Context) (string, error) {
	var resp startSessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/start-session", struct{}{}, &resp); err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}
	if resp.SessionID == "" {
		return "", fmt.Errorf("start session: %w", &ErrInvalidResponse{Err: fmt.Errorf("empty session_id")})
	}
	return resp.SessionID, nil
}

func (c *Client) EndSession(ctx context.Context, sessionID string) error {
	if err := c.do(ctx, http.MethodPost, "/api/end-session", endSessionRequest{SessionID: sessionID}, nil); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, &stats); err != nil {
		return Stats{}, fmt.Errorf("load stats: %w", err)
	}
	return stats, nil
}

func (c *Client) GetQuestion(ctx context.Context) (Question, error) {
	var q Question
	if err := c.do(ctx, http.MethodGet, "/api/get-question", nil, &q); err != nil {
		return Question{}, fmt.Errorf("get question: %w", err)
	}
	if q.ID == "" {
		return Question{}, fmt.Errorf("get question: %w", &ErrInvalidResponse{Err: fmt.Errorf("empty question id")})
	}
	return q, nil
}

func (c *Client) SubmitAnswer(ctx context.Context, sub Submission) (Result, error) {
	var res Result
	if err := c.do(ctx, http.MethodPost, "/api/submit-answer", sub, &res); err != nil {
		return Result{}, fmt.Errorf("submit answer: %w", err)
	}
	return res, nil
}

// Dashboard fetches the learner overview.
func (c *Client) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	if err := c.do(ctx, http.MethodGet, "/api/dashboard", nil, &d); err != nil {
		return Dashboard{}, fmt.Errorf("load dashboard: %w", err)
	}
	return d, nil
}

// Mistakes fetches every question answered incorrectly at least once,
// most-missed first.
func (c *Client) Mistakes(ctx context.Context) ([]Mistake, error) {
	var out struct {
		Mistakes []Mistake `json:"mistakes"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/mistakes", nil, &out); err != nil {
		return nil, fmt.Errorf("load mistakes: %w", err)
	}
	return out.Mistakes, nil
}

// do sends a JSON request and decodes a JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.user != "" {
		req.Header.Set(UserHeader, c.user)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &ErrUnavailable{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if err := CheckAPIVersion(resp.Header.Get(APIVersionHeader)); err != nil {
		return err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &ErrUnavailable{Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ErrInvalidResponse{Body: data, Err: err}
	}
	return nil
}

// errorMessage extracts the "error" field from a JSON error body.
func errorMessage(data []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Error
}
