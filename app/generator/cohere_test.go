package generator

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
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newStubServer(t *testing.T, reply string, failures int) (*httptest.Server, *chatRequest) {
	t.Helper()
	var got chatRequest
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		if int(calls.Add(1)) <= failures {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"` + reply + `"}}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(Config{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	return c
}

func TestGenerateBuildsPrompt(t *testing.T) {
	srv, got := newStubServer(t, "Here is your email.", 0)
	c := newTestClient(t, srv.URL)

	body, err := c.Generate(context.Background(), "Developer", "Formal", "Q3 report", "Regarding: Q3 report")
	require.NoError(t, err)
	assert.Equal(t, "Here is your email.", body)

	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t,
		`Write a Formal email from a Developer about: Q3 report. Subject: "Regarding: Q3 report".`,
		got.Messages[0].Content,
	)
	assert.Equal(t, "command", got.Model)
}

func TestGenerateRetriesOnce(t *testing.T) {
	srv, _ := newStubServer(t, "Recovered.", 1)
	c := newTestClient(t, srv.URL)

	body, err := c.Generate(context.Background(), "Developer", "Casual", "lunch", "Let's talk about lunch")
	require.NoError(t, err)
	assert.Equal(t, "Recovered.", body)
}

func TestGenerateFailsAfterAllAttempts(t *testing.T) {
	srv, _ := newStubServer(t, "never", 10)
	c := newTestClient(t, srv.URL)

	_, err := c.Generate(context.Background(), "Developer", "Formal", "x", "y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attempts failed")
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}
