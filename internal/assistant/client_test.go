package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"legalai/internal/errors"
)

func newTestClient(baseURL string) *HTTPClient {
	c := NewHTTPClient(baseURL, "test-key", "asst_test", "", time.Millisecond, 3)
	return c
}

func TestHTTPClient_CreateThread(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/threads", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "assistants=v2", r.Header.Get("OpenAI-Beta"))
		json.NewEncoder(w).Encode(map[string]string{"id": "thread_123"})
	}))
	defer server.Close()

	threadID, err := newTestClient(server.URL).CreateThread(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "thread_123", threadID)
}

func TestHTTPClient_Ask_CompletedAfterPolling(t *testing.T) {
	var polls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/threads/thread_123/messages":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "user", body["role"])
			assert.Equal(t, "What is a lease?", body["content"])
			w.Write([]byte(`{}`))
		case r.Method == http.MethodPost && r.URL.Path == "/threads/thread_123/runs":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "asst_test", body["assistant_id"])
			json.NewEncoder(w).Encode(map[string]string{"id": "run_1", "status": "queued"})
		case r.Method == http.MethodGet && r.URL.Path == "/threads/thread_123/runs/run_1":
			status := "in_progress"
			if atomic.AddInt32(&polls, 1) >= 2 {
				status = "completed"
			}
			json.NewEncoder(w).Encode(map[string]string{"id": "run_1", "status": status})
		case r.Method == http.MethodGet && r.URL.Path == "/threads/thread_123/messages":
			assert.Equal(t, "1", r.URL.Query().Get("limit"))
			fmt.Fprint(w, `{"data":[{"role":"assistant","content":[{"type":"text","text":{"value":"A lease is..."}}]}]}`)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	reply, err := newTestClient(server.URL).Ask(context.Background(), "thread_123", "What is a lease?")

	assert.NoError(t, err)
	assert.Equal(t, "A lease is...", reply)
	assert.Equal(t, int32(2), atomic.LoadInt32(&polls))
}

func TestHTTPClient_Ask_TimesOutAfterMaxPolls(t *testing.T) {
	var polls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/threads/thread_123/messages":
			w.Write([]byte(`{}`))
		case r.Method == http.MethodPost && r.URL.Path == "/threads/thread_123/runs":
			json.NewEncoder(w).Encode(map[string]string{"id": "run_1", "status": "queued"})
		case r.Method == http.MethodGet && r.URL.Path == "/threads/thread_123/runs/run_1":
			atomic.AddInt32(&polls, 1)
			json.NewEncoder(w).Encode(map[string]string{"id": "run_1", "status": "in_progress"})
		}
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Ask(context.Background(), "thread_123", "hello")

	assert.ErrorIs(t, err, errors.ErrAssistantTimeout)
	assert.Equal(t, int32(3), atomic.LoadInt32(&polls))
}

func TestHTTPClient_Ask_FailedRun(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/threads/thread_123/messages":
			w.Write([]byte(`{}`))
		case r.Method == http.MethodPost && r.URL.Path == "/threads/thread_123/runs":
			json.NewEncoder(w).Encode(map[string]string{"id": "run_1", "status": "failed"})
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Ask(context.Background(), "thread_123", "hello")

	assert.ErrorIs(t, err, errors.ErrAssistantFailed)
}

func TestHTTPClient_Ask_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/threads/thread_123/messages":
			w.Write([]byte(`{}`))
		case r.Method == http.MethodPost && r.URL.Path == "/threads/thread_123/runs":
			json.NewEncoder(w).Encode(map[string]string{"id": "run_1", "status": "queued"})
		}
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "test-key", "asst_test", "", time.Minute, 10)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Ask(ctx, "thread_123", "hello")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHTTPClient_Ask_MissingAssistantID(t *testing.T) {
	client := NewHTTPClient("http://localhost:0", "test-key", "", "", time.Millisecond, 1)

	_, err := client.Ask(context.Background(), "thread_123", "hello")

	assert.Error(t, err)
}

func TestHTTPClient_CreateThread_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CreateThread(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}
