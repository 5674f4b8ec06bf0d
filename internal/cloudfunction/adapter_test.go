package cloudfunction

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"method": r.Method,
			"path":   r.URL.Path,
			"limit":  r.URL.Query().Get("limit"),
			"auth":   r.Header.Get("Authorization"),
			"body":   string(body),
		})
	})
}

func TestServe_TranslatesRequest(t *testing.T) {
	event, err := json.Marshal(CloudFunctionRequest{
		HTTPMethod:        "POST",
		Path:              "/videos/upload",
		Headers:           map[string]string{"Authorization": "Bearer abc"},
		QueryStringParams: map[string]string{"limit": "5"},
		Body:              base64.StdEncoding.EncodeToString([]byte("binary-form")),
		IsBase64Encoded:   true,
	})
	require.NoError(t, err)

	out, err := Serve(context.Background(), echoHandler(), event)
	require.NoError(t, err)

	var resp CloudFunctionResponse
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])

	var echoed map[string]string
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &echoed))
	assert.Equal(t, "POST", echoed["method"])
	assert.Equal(t, "/videos/upload", echoed["path"])
	assert.Equal(t, "5", echoed["limit"])
	assert.Equal(t, "Bearer abc", echoed["auth"])
	assert.Equal(t, "binary-form", echoed["body"])
}

func TestServe_InvalidEvent(t *testing.T) {
	out, err := Serve(context.Background(), echoHandler(), []byte("{not json"))
	require.NoError(t, err)

	var resp CloudFunctionResponse
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, resp.Body, "Invalid request format")
}

func TestServe_BadBase64Body(t *testing.T) {
	event := []byte(`{"httpMethod":"POST","path":"/videos/upload","body":"%%%","isBase64Encoded":true}`)

	out, err := Serve(context.Background(), echoHandler(), event)
	require.NoError(t, err)

	var resp CloudFunctionResponse
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_RetriesFailedInitialization(t *testing.T) {
	origNewRouter := newRouter
	t.Cleanup(func() {
		newRouter = origNewRouter
		router = nil
		initialized = false
	})
	router = nil
	initialized = false

	calls := 0
	newRouter = func(ctx context.Context) (http.Handler, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("ydb: connection refused")
		}
		return echoHandler(), nil
	}

	event := []byte(`{"httpMethod":"GET","path":"/videos"}`)

	out, err := Handler(context.Background(), event)
	require.NoError(t, err)
	var resp CloudFunctionResponse
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	out, err = Handler(context.Background(), event)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Успешная инициализация больше не повторяется
	_, err = Handler(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
