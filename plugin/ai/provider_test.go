package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qerrors "github.com/hrygo/quizflow/internal/errors"
)

func newTestProvider(t *testing.T, cfg *Config, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.APIKey == "" {
		cfg.APIKey = "test-key"
	}
	cfg.BaseURL = srv.URL + "/v1"
	return NewProvider(cfg)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestEmbeddingNotConfigured(t *testing.T) {
	p := NewProvider(&Config{})
	_, err := p.Embedding(context.Background(), "arrays", EmbeddingModeQuery)
	require.Error(t, err)
	assert.True(t, qerrors.IsCode(err, qerrors.ErrCodeConfiguration))
}

func TestEmbeddingSuccess(t *testing.T) {
	p := newTestProvider(t, &Config{Dimensions: 4}, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.1,0.2,0.3,0.4]}],"model":"text-embedding-3-small"}`)
	})

	vec, err := p.Embedding(context.Background(), "arrays", EmbeddingModeQuery)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3, 0.4}, vec)
}

func TestEmbeddingAsymmetricPrefixes(t *testing.T) {
	var inputs []string
	p := newTestProvider(t, &Config{EmbeddingModel: "BAAI/bge-m3", Dimensions: 2}, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		inputs = append(inputs, req.Input...)
		writeJSON(w, http.StatusOK, `{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.5,0.5]}]}`)
	})

	_, err := p.Embedding(context.Background(), "arrays", EmbeddingModeQuery)
	require.NoError(t, err)
	_, err = p.Embedding(context.Background(), "arrays", EmbeddingModeDocument)
	require.NoError(t, err)

	require.Len(t, inputs, 2)
	assert.Equal(t, "query: arrays", inputs[0])
	assert.Equal(t, "passage: arrays", inputs[1])
}

func TestEmbeddingNoPrefixForSymmetricModel(t *testing.T) {
	var input string
	p := newTestProvider(t, &Config{Dimensions: 2}, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		input = req.Input[0]
		writeJSON(w, http.StatusOK, `{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.5,0.5]}]}`)
	})

	_, err := p.Embedding(context.Background(), "arrays", EmbeddingModeQuery)
	require.NoError(t, err)
	assert.Equal(t, "arrays", input)
}

func TestCompleteRateLimited(t *testing.T) {
	p := newTestProvider(t, nil, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusTooManyRequests, `{"error":{"message":"rate limited","type":"requests"}}`)
	})

	_, err := p.Complete(context.Background(), "explain arrays")
	require.Error(t, err)
	assert.True(t, qerrors.IsCode(err, qerrors.ErrCodeRateLimitExceeded))
}

func TestCompleteTransportError(t *testing.T) {
	p := newTestProvider(t, nil, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`)
	})

	_, err := p.Complete(context.Background(), "explain arrays")
	require.Error(t, err)
	assert.True(t, qerrors.IsCode(err, qerrors.ErrCodeTransport))
}

func TestCompleteEmptyChoices(t *testing.T) {
	p := newTestProvider(t, nil, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":"1","object":"chat.completion","choices":[]}`)
	})

	text, err := p.Complete(context.Background(), "explain arrays")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestCompleteSuccess(t *testing.T) {
	p := newTestProvider(t, nil, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":"1","object":"chat.completion","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Arrays give O(1) access."}}]}`)
	})

	text, err := p.Complete(context.Background(), "explain arrays")
	require.NoError(t, err)
	assert.Equal(t, "Arrays give O(1) access.", text)
}
