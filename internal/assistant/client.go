// Package assistant talks to the hosted conversational AI API. A conversation
// lives in a remote thread; each question creates a run that is polled until
// it reaches a terminal state, bounded by a maximum attempt count.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"legalai/internal/errors"
)

// Client is the surface the chat service depends on.
type Client interface {
	// CreateThread opens a new remote conversation and returns its handle.
	CreateThread(ctx context.Context) (string, error)
	// Ask posts the user text to the thread, waits for the assistant run to
	// finish, and returns the assistant's reply text.
	Ask(ctx context.Context, threadID, message string) (string, error)
}

// HTTPClient implements Client against the OpenAI Assistants REST API.
type HTTPClient struct {
	BaseURL      string
	APIKey       string
	AssistantID  string
	Model        string
	PollInterval time.Duration
	MaxPolls     int
	Client       *http.Client
}

// NewHTTPClient creates a client with bounded polling defaults.
func NewHTTPClient(baseURL, apiKey, assistantID, model string, pollInterval time.Duration, maxPolls int) *HTTPClient {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	if maxPolls <= 0 {
		maxPolls = 60
	}
	return &HTTPClient{
		BaseURL:      baseURL,
		APIKey:       apiKey,
		AssistantID:  assistantID,
		Model:        model,
		PollInterval: pollInterval,
		MaxPolls:     maxPolls,
		Client:       &http.Client{Timeout: 30 * time.Second},
	}
}

type threadResp struct {
	ID string `json:"id"`
}

type runResp struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type messageListResp struct {
	Data []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text struct {
				Value string `json:"value"`
			} `json:"text"`
		} `json:"content"`
	} `json:"data"`
}

// CreateThread opens a new remote conversation.
func (c *HTTPClient) CreateThread(ctx context.Context) (string, error) {
	var thread threadResp
	if err := c.do(ctx, http.MethodPost, "/threads", nil, &thread); err != nil {
		return "", err
	}
	if thread.ID == "" {
		return "", fmt.Errorf("assistant: empty thread id")
	}
	return thread.ID, nil
}

// Ask relays the user text and polls the run until completion, a terminal
// failure, context cancellation, or the attempt budget is spent.
func (c *HTTPClient) Ask(ctx context.Context, threadID, message string) (string, error) {
	if strings.TrimSpace(c.AssistantID) == "" {
		return "", fmt.Errorf("assistant: assistant id is required")
	}

	msgBody := map[string]string{"role": "user", "content": message}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/threads/%s/messages", threadID), msgBody, nil); err != nil {
		return "", fmt.Errorf("post message: %w", err)
	}

	runBody := map[string]string{"assistant_id": c.AssistantID}
	if c.Model != "" {
		runBody["model"] = c.Model
	}
	var run runResp
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/threads/%s/runs", threadID), runBody, &run); err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}

	status := run.Status
	for attempt := 0; status == "queued" || status == "in_progress"; attempt++ {
		if attempt >= c.MaxPolls {
			return "", errors.ErrAssistantTimeout
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.PollInterval):
		}

		var polled runResp
		if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/threads/%s/runs/%s", threadID, run.ID), nil, &polled); err != nil {
			return "", fmt.Errorf("poll run: %w", err)
		}
		status = polled.Status
	}

	if status != "completed" {
		return "", errors.ErrAssistantFailed
	}

	var list messageListResp
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/threads/%s/messages?limit=1", threadID), nil, &list); err != nil {
		return "", fmt.Errorf("list messages: %w", err)
	}
	if len(list.Data) == 0 || len(list.Data[0].Content) == 0 {
		return "", errors.ErrAssistantFailed
	}
	return list.Data[0].Content[0].Text.Value, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("OpenAI-Beta", "assistants=v2")

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return fmt.Errorf("assistant: %s", msg)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
