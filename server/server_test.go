package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attiklabs/recall/agent"
	"github.com/attiklabs/recall/core"
	"github.com/attiklabs/recall/memory"
	"github.com/attiklabs/recall/provider"
	"github.com/attiklabs/recall/server"
)

// newTestServer wires an agent over the scripted provider and an in-memory
// store behind a running httptest server.
func newTestServer(t *testing.T, scripted *provider.Scripted, cfg server.Config) (*httptest.Server, memory.Store) {
	t.Helper()

	store := memory.NewInMemoryStore()
	a := agent.New(store, scripted)
	srv, err := server.New(a, store, cfg, nil)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, store
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func toolCallResponse(newInformation string) *provider.Response {
	args, _ := json.Marshal(map[string]string{"new_information": newInformation})
	return &provider.Response{
		ToolCalls: []core.ToolCall{{ID: "tu_1", Name: agent.ToolName, Arguments: args}},
	}
}

func TestChat(t *testing.T) {
	scripted := provider.NewScripted(
		toolCallResponse("User has a dog named Max"),
		&provider.Response{Text: "I have a dog named Max. [recorded:2025-03-10]"},
		&provider.Response{Text: "Max sounds lovely!"},
	)
	ts, store := newTestServer(t, scripted, server.Config{})

	resp := postJSON(t, ts.URL+"/api/v1/chat", map[string]string{
		"user_id": "alice",
		"message": "I adopted a dog named Max!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]any](t, resp)
	assert.Equal(t, "Max sounds lovely!", body["reply"])
	assert.Equal(t, true, body["memory_updated"])

	stored, err := store.Read(context.Background(), "alice")
	require.NoError(t, err)
	assert.Contains(t, stored, "Max")
}

func TestChat_Validation(t *testing.T) {
	ts, _ := newTestServer(t, provider.NewScripted(), server.Config{})

	resp := postJSON(t, ts.URL+"/api/v1/chat", map[string]string{"user_id": "alice"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp2, err := http.Post(ts.URL+"/api/v1/chat", "application/json",
		strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestChat_ProviderErrorReturns500(t *testing.T) {
	scripted := provider.NewScripted() // empty queue fails the first call
	ts, _ := newTestServer(t, scripted, server.Config{})

	resp := postJSON(t, ts.URL+"/api/v1/chat", map[string]string{
		"user_id": "alice",
		"message": "hello",
	})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body := decodeBody[map[string]string](t, resp)
	assert.NotEmpty(t, body["error"])
}

func TestChat_RateLimited(t *testing.T) {
	scripted := provider.NewScripted(
		&provider.Response{Text: "hi"},
		&provider.Response{Text: "hi again"},
	)
	ts, _ := newTestServer(t, scripted, server.Config{
		RateLimit:  1,
		RateWindow: time.Minute,
	})

	resp := postJSON(t, ts.URL+"/api/v1/chat", map[string]string{
		"user_id": "alice", "message": "one",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/api/v1/chat", map[string]string{
		"user_id": "alice", "message": "two",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// A different user is not affected.
	resp = postJSON(t, ts.URL+"/api/v1/chat", map[string]string{
		"user_id": "bob", "message": "one",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMemoryCRUD(t *testing.T) {
	ts, _ := newTestServer(t, provider.NewScripted(), server.Config{})
	client := ts.Client()

	// Absent memory reads as empty.
	resp, err := client.Get(ts.URL + "/api/v1/memory/alice")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "alice", body["user_id"])
	assert.Empty(t, body["memory"])

	// PUT replaces the whole string.
	payload, _ := json.Marshal(map[string]string{"memory": "I like tea. [recorded:2025-01-01]"})
	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/v1/memory/alice", bytes.NewReader(payload))
	require.NoError(t, err)
	resp, err = client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.Get(ts.URL + "/api/v1/memory/alice")
	require.NoError(t, err)
	body = decodeBody[map[string]string](t, resp)
	assert.Equal(t, "I like tea. [recorded:2025-01-01]", body["memory"])

	// Users list reflects the write.
	resp, err = client.Get(ts.URL + "/api/v1/users")
	require.NoError(t, err)
	users := decodeBody[map[string][]string](t, resp)
	assert.Equal(t, []string{"alice"}, users["users"])

	// DELETE removes it; subsequent reads are empty again.
	req, err = http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/memory/alice", nil)
	require.NoError(t, err)
	resp, err = client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.Get(ts.URL + "/api/v1/memory/alice")
	require.NoError(t, err)
	body = decodeBody[map[string]string](t, resp)
	assert.Empty(t, body["memory"])
}

func TestListUsers_EmptyIsAnArray(t *testing.T) {
	ts, _ := newTestServer(t, provider.NewScripted(), server.Config{})

	resp, err := http.Get(ts.URL + "/api/v1/users")
	require.NoError(t, err)
	users := decodeBody[map[string][]string](t, resp)
	require.NotNil(t, users["users"])
	assert.Empty(t, users["users"])
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t, provider.NewScripted(), server.Config{})

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "healthy", body["status"])
}

func TestIndexServesWebPage(t *testing.T) {
	ts, _ := newTestServer(t, provider.NewScripted(), server.Config{})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, provider.NewScripted(), server.Config{})

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChatWS(t *testing.T) {
	scripted := provider.NewScripted(
		toolCallResponse("User has a dog named Max"),
		&provider.Response{Text: "I have a dog named Max. [recorded:2025-03-10]"},
		&provider.Response{Text: "Max sounds lovely!"},
	)
	ts, _ := newTestServer(t, scripted, server.Config{})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{
		"user_id": "alice",
		"message": "I adopted a dog named Max!",
	}))

	var event struct {
		Type   string `json:"type"`
		Reply  string `json:"reply"`
		Memory string `json:"memory"`
		Error  string `json:"error"`
	}
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "reply", event.Type)
	assert.Equal(t, "Max sounds lovely!", event.Reply)

	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "memory_updated", event.Type)
	assert.Contains(t, event.Memory, "Max")

	// Validation errors come back as error events without closing the
	// connection.
	require.NoError(t, conn.WriteJSON(map[string]string{"user_id": "alice"}))
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "error", event.Type)
	assert.NotEmpty(t, event.Error)
}
