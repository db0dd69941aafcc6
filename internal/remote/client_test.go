package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPayload() ChatSessionPayload {
	return ChatSessionPayload{
		UserID:             "jan.kowalski@example.com",
		Title:              "CloudStorage Pro",
		Difficulty:         "Łatwy",
		IsOwnConfiguration: true,
		ClientDescription:  "Właściciel małej firmy",
		Constraints:        []string{"budget"},
		Goal:               "",
		ProductDescription: "storage",
		SalesPlaybook:      "playbook",
	}
}

func TestCreateChatSession_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat-sessions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got ChatSessionPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, testPayload(), got)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"abc"}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).CreateChatSession(context.Background(), testPayload())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc"}`, string(resp))
}

func TestCreateChatSession_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).CreateChatSession(context.Background(), testPayload())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.True(t, apiErr.HasStatus())
	assert.JSONEq(t, `{"error":"boom"}`, string(apiErr.Body))
	assert.Equal(t, "failed to create chat session: Internal Server Error", apiErr.Message)
}

func TestCreateChatSession_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).CreateChatSession(context.Background(), testPayload())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.JSONEq(t, `{}`, string(apiErr.Body))
}

func TestCreateChatSession_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).CreateChatSession(context.Background(), testPayload())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.False(t, apiErr.HasStatus())
	assert.Zero(t, apiErr.Status)
	assert.Contains(t, apiErr.Message, "network error: ")
	require.NotNil(t, apiErr.Err)
	assert.Contains(t, apiErr.Message, apiErr.Err.Error())
}

// truncatedServer answers with status, then closes the connection part way
// through a body it announced as 100 bytes.
func truncatedServer(t *testing.T, status string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hj, ok := w.(http.Hijacker)
		require.True(t, ok)
		conn, buf, err := hj.Hijack()
		require.NoError(t, err)
		defer conn.Close()
		_, _ = buf.WriteString("HTTP/1.1 " + status + "\r\nContent-Type: application/json\r\nContent-Length: 100\r\n\r\n{\"err")
		_ = buf.Flush()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCreateChatSession_TruncatedErrorBodyKeepsStatus(t *testing.T) {
	srv := truncatedServer(t, "500 Internal Server Error")

	_, err := NewClient(srv.URL).CreateChatSession(context.Background(), testPayload())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.JSONEq(t, `{}`, string(apiErr.Body))
	assert.Equal(t, "failed to create chat session: Internal Server Error", apiErr.Message)
}

func TestCreateChatSession_TruncatedSuccessBodyIsNetworkError(t *testing.T) {
	srv := truncatedServer(t, "200 OK")

	_, err := NewClient(srv.URL).CreateChatSession(context.Background(), testPayload())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.False(t, apiErr.HasStatus())
	assert.Contains(t, apiErr.Message, "network error: ")
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c := NewClient("")
	assert.Equal(t, DefaultBaseURL, c.baseURL)

	c = NewClient("http://example.test/")
	assert.Equal(t, "http://example.test", c.baseURL)
}
