// Package apiclient talks to a running tech-debt API server.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"tech-debt-manager/src/config"
	"tech-debt-manager/src/model"
	"tech-debt-manager/src/util"
)

// ErrUnauthorized is returned when the server rejects the credentials or token
var ErrUnauthorized = errors.New("unauthorized")

// Client provides access to the tech-debt API endpoints
type Client struct {
	baseURL    string
	httpClient *http.Client
	retryConf  config.RetryConfig
}

// NewClient creates a new API client
func NewClient(cfg config.ClientConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		retryConf: cfg.Retry,
	}
}

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	util.Debug("Logging in to %s as %s", c.baseURL, email)

	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", "", LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("login response carries no token")
	}
	return resp.Token, nil
}

// User returns the user a token belongs to
func (c *Client) User(ctx context.Context, token string) (*UserResponse, error) {
	var resp UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/user", token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TechnicalDebts fetches a fresh aggregation from the server
func (c *Client) TechnicalDebts(ctx context.Context, token string) ([]model.DebtItem, error) {
	var resp TechnicalDebtResponse
	if err := c.do(ctx, http.MethodGet, "/api/technical-debt", token, nil, &resp); err != nil {
		util.Error("Fetching technical debt failed: %v", err)
		return nil, err
	}

	util.Debug("Server returned %d debt items", len(resp))
	if resp == nil {
		return []model.DebtItem{}, nil
	}
	return resp, nil
}

// Metrics fetches the debt summary from the server
func (c *Client) Metrics(ctx context.Context, token string) (*model.DebtMetrics, error) {
	var resp model.DebtMetrics
	if err := c.do(ctx, http.MethodGet, "/api/technical-debt/metrics", token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body any, result any) error {
	var lastErr error
	attempts := max(1, c.retryConf.MaxAttempts)

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := c.calculateBackoff(attempt)
			util.Warn("Retrying request to %s (attempt %d/%d) after %v", path, attempt+1, attempts, delay)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := c.doRequest(ctx, method, path, token, body, result)
		if err == nil {
			return nil
		}

		lastErr = err
		if !c.shouldRetry(err) {
			break
		}
	}

	return lastErr
}

func (c *Client) doRequest(ctx context.Context, method, path, token string, body any, result any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return newAPIError(resp.StatusCode, respBody)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	delay := float64(c.retryConf.InitialDelay)
	for i := 1; i < attempt; i++ {
		delay *= c.retryConf.BackoffFactor
	}
	if c.retryConf.MaxDelay > 0 && delay > float64(c.retryConf.MaxDelay) {
		delay = float64(c.retryConf.MaxDelay)
	}
	return time.Duration(delay)
}

func (c *Client) shouldRetry(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return slices.Contains(c.retryConf.RetryOnStatus, apiErr.StatusCode)
	}
	return false
}

// APIError represents an error response from the API
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: string(body)}
	var msg MessageResponse
	if json.Unmarshal(body, &msg) == nil {
		apiErr.Message = msg.Message
	}
	return apiErr
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// Unwrap maps 401 responses to ErrUnauthorized
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}
