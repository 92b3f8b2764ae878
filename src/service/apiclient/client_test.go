package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tech-debt-manager/src/config"
	"tech-debt-manager/src/model"
)

func newTestClient(url string) *Client {
	return NewClient(config.ClientConfig{
		URL:     url + "/",
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:   3,
			BackoffFactor: 2,
			InitialDelay:  time.Millisecond,
			MaxDelay:      5 * time.Millisecond,
			RetryOnStatus: []int{502, 503},
		},
	})
}

func TestClient_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Email != "dev@example.com" || req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"abc|def"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	token, err := c.Login(context.Background(), "dev@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "abc|def", token)

	_, err = c.Login(context.Background(), "dev@example.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestClient_TechnicalDebts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Unauthenticated."}`))
			return
		}
		switch r.URL.Path {
		case "/api/technical-debt":
			_, _ = w.Write([]byte(`[{"file":"app/A.php","type":"MissingTest","priority":"High"}]`))
		case "/api/technical-debt/metrics":
			_, _ = w.Write([]byte(`{"total_items":1,"by_type":{"MissingTest":1}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	items, err := c.TechnicalDebts(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, []model.DebtItem{model.NewDebtItem("app/A.php", model.TypeMissingTest)}, items)

	metrics, err := c.Metrics(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.TotalItems)
	assert.Equal(t, 1, metrics.ByType[model.TypeMissingTest])

	_, err = c.TechnicalDebts(context.Background(), "other")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_EmptyArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	items, err := newTestClient(srv.URL).TechnicalDebts(context.Background(), "tok")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestClient_RetriesConfiguredStatuses(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).TechnicalDebts(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).TechnicalDebts(context.Background(), "tok")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DoesNotRetryOtherStatuses(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).TechnicalDebts(context.Background(), "tok")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCalculateBackoff(t *testing.T) {
	c := NewClient(config.ClientConfig{Retry: config.RetryConfig{
		BackoffFactor: 2,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      300 * time.Millisecond,
	}})

	assert.Equal(t, 100*time.Millisecond, c.calculateBackoff(1))
	assert.Equal(t, 200*time.Millisecond, c.calculateBackoff(2))
	assert.Equal(t, 300*time.Millisecond, c.calculateBackoff(3))
}
