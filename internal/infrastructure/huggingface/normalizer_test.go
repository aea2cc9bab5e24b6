package huggingface

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNormalizer(t *testing.T) {
	n := NewNormalizer("test-token", "https://api.example.com", "test/model", 10*time.Second)

	assert.NotNil(t, n)
	assert.Equal(t, "test-token", n.token)
	assert.Equal(t, "test/model", n.model)
	assert.Equal(t, 10*time.Second, n.httpClient.Timeout)
}

func TestNewNormalizer_DefaultTimeout(t *testing.T) {
	n := NewNormalizer("test-token", "https://api.example.com", "test/model", 0)

	assert.Equal(t, 30*time.Second, n.httpClient.Timeout)
}

func TestNormalize_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/test/model", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Normalize this product search: logi mouse wrlss", payload["inputs"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"generated_text": "Logitech wireless mouse"}]`))
	}))
	defer server.Close()

	n := NewNormalizer("test-token", server.URL, "test/model", time.Second)

	result := n.Normalize(context.Background(), "logi mouse wrlss")

	assert.Equal(t, "Logitech wireless mouse", result)
}

func TestNormalize_FallsBackToOriginal(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-success status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
		},
		{
			name: "malformed payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
		},
		{
			name: "empty array",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("[]"))
			},
		},
		{
			name: "blank generation",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[{"generated_text": "  "}]`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			n := NewNormalizer("test-token", server.URL, "test/model", time.Second)

			result := n.Normalize(context.Background(), "wireless mouse")

			assert.Equal(t, "wireless mouse", result)
		})
	}
}

func TestNormalize_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	n := NewNormalizer("test-token", server.URL, "test/model", time.Second)

	result := n.Normalize(context.Background(), "wireless mouse")

	assert.Equal(t, "wireless mouse", result)
}

func TestNormalize_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	n := NewNormalizer("test-token", server.URL, "test/model", 50*time.Millisecond)

	result := n.Normalize(context.Background(), "wireless mouse")

	assert.Equal(t, "wireless mouse", result)
}
