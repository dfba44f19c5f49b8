package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"intentbot/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClient_Predict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)

		var in dto.QueryInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(dto.QueryResponse{ResponseText: "echo: " + in.Text})
	}))
	defer srv.Close()

	c := New(srv.URL+"/predict", 2*time.Second, zap.NewNop())
	got, err := c.Predict(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "echo: hello", got)
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, 2*time.Second, zap.NewNop())
	_, err := c.Respond(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, time.Second, zap.NewNop())
	_, err := c.Predict(context.Background(), "hello")
	assert.Error(t, err)
}

func TestClient_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New("http://127.0.0.1:1/predict", time.Second, zap.NewNop())
	_, err := c.Predict(ctx, "hello")
	assert.ErrorIs(t, err, context.Canceled)
}
