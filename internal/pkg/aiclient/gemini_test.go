package aiclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	g, err := NewGemini(context.Background(), &Config{
		GeminiAPIKey:     "gm-test",
		GeminiBaseURL:    srv.URL,
		GeminiTextModel:  "gemini-test",
		GeminiImageModel: "imagen-test",
		HTTPTimeout:      5 * time.Second,
	})
	require.NoError(t, err)
	return g
}

func TestAspectRatio(t *testing.T) {
	for size, want := range map[string]string{
		"1024x1024": "1:1",
		"1024x1792": "9:16",
		"1024x1536": "9:16",
		"1080x1920": "9:16",
		"1792x1024": "16:9",
		"1536x1024": "16:9",
		"":          "1:1",
	} {
		assert.Equal(t, want, AspectRatio(size), size)
	}
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), &Config{})
	assert.Error(t, err)
}

func TestGeminiGenerateText(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-test:generateContent"), r.URL.Path)
		assert.Equal(t, "gm-test", r.Header.Get("x-goog-api-key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "systemInstruction")
		cfg, _ := body["generationConfig"].(map[string]any)
		assert.Equal(t, "application/json", cfg["responseMimeType"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"captions\":[]}"}]}}]}`))
	})

	text, err := g.GenerateText(context.Background(), "sys", "usr")
	require.NoError(t, err)
	assert.Equal(t, `{"captions":[]}`, text)
	assert.Equal(t, "gemini-test", g.TextModel())
}

func TestGeminiGenerateImageSendsAspectRatio(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nfake")
	var gotRatio any
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/imagen-test:predict"), r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		params, _ := body["parameters"].(map[string]any)
		gotRatio = params["aspectRatio"]

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"predictions": []map[string]any{{
				"bytesBase64Encoded": base64.StdEncoding.EncodeToString(png),
				"mimeType":           "image/png",
				"prompt":             "  enhanced  ",
			}},
		})
	})

	img, err := g.GenerateImage(context.Background(), "a headlight", "1024x1792")
	require.NoError(t, err)
	assert.Equal(t, "9:16", gotRatio)
	assert.Equal(t, png, img.Data)
	assert.Equal(t, "image/png", img.MimeType)
	assert.Equal(t, "enhanced", img.RevisedPrompt)
	assert.Empty(t, img.URL)
}

func TestGeminiGenerateImageWithoutPredictions(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predictions":[]}`))
	})

	_, err := g.GenerateImage(context.Background(), "x", "1024x1024")
	assert.Error(t, err)
}
