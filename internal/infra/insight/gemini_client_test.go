package insight

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 送られてきた generateContent のボディ（見たいところだけ）
type capturedRequest struct {
	Contents []struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		ResponseMimeType string `json:"responseMimeType"`
	} `json:"generationConfig"`
}

func newTestClient(t *testing.T, key, modelName, baseURL string) *GeminiClient {
	t.Helper()
	c, err := NewGeminiClient(context.Background(), key, modelName, WithBaseURL(baseURL))
	require.NoError(t, err)
	return c
}

func TestGeminiClient_Generate(t *testing.T) {
	var gotPath, gotKey string
	var gotReq capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"summary\":\"Busy evening\",\"insights\":[\"Push biryani\",\"Staff up at 8pm\"]}"}]}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, "k-123", "gemini-2.5-flash", srv.URL)
	got, err := c.Generate(context.Background(), "analyse this")
	require.NoError(t, err)

	assert.Contains(t, gotPath, "models/gemini-2.5-flash:generateContent")
	assert.Equal(t, "k-123", gotKey)
	require.Len(t, gotReq.Contents, 1)
	require.Len(t, gotReq.Contents[0].Parts, 1)
	assert.Equal(t, "analyse this", gotReq.Contents[0].Parts[0].Text)
	assert.Equal(t, "application/json", gotReq.GenerationConfig.ResponseMimeType)

	assert.Equal(t, "Busy evening", got.Summary)
	assert.Equal(t, []string{"Push biryani", "Staff up at 8pm"}, got.Insights)
	assert.False(t, got.Fallback)
}

func TestGeminiClient_FencedJSON(t *testing.T) {
	out, err := parseInsight("```json\n{\"summary\":\"ok\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Summary)
	assert.Empty(t, out.Insights)
	assert.NotNil(t, out.Insights)
}

func TestGeminiClient_Errors(t *testing.T) {
	t.Run("no key", func(t *testing.T) {
		_, err := NewGeminiClient(context.Background(), "", "m")
		assert.True(t, errors.Is(err, ErrNoAPIKey))
	})

	t.Run("status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`))
		}))
		defer srv.Close()

		_, err := newTestClient(t, "bad", "m", srv.URL).Generate(context.Background(), "p")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "API key not valid")
	})

	t.Run("not json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"sorry, no"}]}}]}`))
		}))
		defer srv.Close()

		_, err := newTestClient(t, "k", "m", srv.URL).Generate(context.Background(), "p")
		assert.Error(t, err)
	})

	t.Run("no candidates", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		}))
		defer srv.Close()

		_, err := newTestClient(t, "k", "m", srv.URL).Generate(context.Background(), "p")
		assert.Error(t, err)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := newTestClient(t, "k", "m", srv.URL).Generate(ctx, "p")
		assert.Error(t, err)
		assert.True(t, errors.Is(ctx.Err(), context.DeadlineExceeded))
	})
}
