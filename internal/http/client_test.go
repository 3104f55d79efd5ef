package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	internalhttp "github.com/nexus-tools/nexus-cli/internal/http"
	"github.com/nexus-tools/nexus-cli/pkg/nexus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLogger captures log calls for assertions.
type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) {
	l.messages = append(l.messages, msg)
}
func (l *recordingLogger) Info(msg string, fields map[string]interface{})  {}
func (l *recordingLogger) Warn(msg string, fields map[string]interface{})  {}
func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {}

func TestClient_Get(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/orgs/bbp", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("rev"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"_label":"bbp","_rev":3}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, "secret-token")

	query := url.Values{}
	query.Set("rev", "3")

	resp, err := client.Get(context.Background(), "/v1/orgs/bbp", query)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"_label":"bbp","_rev":3}`, string(resp.Body))
}

func TestClient_PostSendsJSONBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"@id":"https://nexus.test/v1/orgs/bbp","_rev":1}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, "")

	resp, err := client.Post(context.Background(), "/v1/orgs/bbp", map[string]interface{}{"name": "Blue Brain"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestClient_NoAuthorizationWithoutToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, "")

	_, err := client.Get(context.Background(), "/v0/contexts", nil)
	require.NoError(t, err)
}

func TestClient_NonSuccessReturnsTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"IncorrectRevision"}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, "")

	resp, err := client.Put(context.Background(), "/v1/orgs/bbp", nil, map[string]interface{}{})
	require.Error(t, err)

	transportErr := &nexus.TransportError{}
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusConflict, transportErr.StatusCode)
	assert.JSONEq(t, `{"code":"IncorrectRevision"}`, string(transportErr.Body))
	assert.Contains(t, transportErr.URL, "/v1/orgs/bbp")

	// Response is returned alongside the error for callers that want the body
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestClient_GetURLBypassesBaseURL(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v0/contexts", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("from"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient("https://unused.example", "")

	resp, err := client.GetURL(context.Background(), server.URL+"/v0/contexts?from=2")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClient_NoRetriesByDefault(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, "")

	_, err := client.Get(context.Background(), "/v0/contexts", nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_RetryOptIn(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, "",
		internalhttp.WithRetryConfig(3, time.Millisecond, 5*time.Millisecond))

	resp, err := client.Get(context.Background(), "/v0/contexts", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DebugLogging(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	logger := &recordingLogger{}
	client := internalhttp.NewClient(server.URL, "",
		internalhttp.WithLogger(logger),
		internalhttp.WithDebug(true))

	_, err := client.Get(context.Background(), "/v0/contexts", nil)
	require.NoError(t, err)

	assert.Contains(t, logger.messages, "HTTP Request")
	assert.Contains(t, logger.messages, "HTTP Response")
}

func TestClient_CachesGETResponses(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"_label":"bbp"}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, "",
		internalhttp.WithCache(nexus.NewMemoryCache(10), time.Minute))

	first, err := client.Get(context.Background(), "/v1/orgs/bbp", nil)
	require.NoError(t, err)

	second, err := client.Get(context.Background(), "/v1/orgs/bbp", nil)
	require.NoError(t, err)

	assert.Equal(t, first.Body, second.Body)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_DoesNotCacheWrites(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, "",
		internalhttp.WithCache(nexus.NewMemoryCache(10), time.Minute))

	_, err := client.Post(context.Background(), "/v1/orgs/bbp", map[string]interface{}{})
	require.NoError(t, err)

	_, err = client.Post(context.Background(), "/v1/orgs/bbp", map[string]interface{}{})
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
}
