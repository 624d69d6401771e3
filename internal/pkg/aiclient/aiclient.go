// Package aiclient talks to the external text and image generation services.
package aiclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vitrinepost/vitrinepost/internal/pkg/env"
)

// TextGenerator completes a system + user instruction pair into raw text.
type TextGenerator interface {
	GenerateText(ctx context.Context, system, user string) (string, error)
	TextModel() string
}

// ImageGenerator renders exactly one image for prompt at size ("WxH").
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt, size string) (GeneratedImage, error)
	ImageModel() string
}

// GeneratedImage references the rendered image. Providers return either a
// short-lived URL or the inline bytes.
type GeneratedImage struct {
	URL           string
	Data          []byte
	MimeType      string
	RevisedPrompt string
}

// Empty reports whether the provider returned no usable image reference.
func (g GeneratedImage) Empty() bool {
	return strings.TrimSpace(g.URL) == "" && len(g.Data) == 0
}

// HTTPError carries a non-2xx provider response.
type HTTPError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s http %d: %s", e.Provider, e.StatusCode, truncate(e.Body, 512))
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config selects and configures the providers.
type Config struct {
	TextProvider  string
	ImageProvider string

	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAITextModel  string
	OpenAIImageModel string

	GeminiAPIKey     string
	GeminiBaseURL    string
	GeminiTextModel  string
	GeminiImageModel string

	// HTTPTimeout bounds any single provider round trip.
	HTTPTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		TextProvider:     strings.ToLower(env.GetEnv("AI_TEXT_PROVIDER", ProviderOpenAI)),
		ImageProvider:    strings.ToLower(env.GetEnv("AI_IMAGE_PROVIDER", ProviderOpenAI)),
		OpenAIAPIKey:     strings.TrimSpace(env.GetEnv("OPENAI_API_KEY", "")),
		OpenAIBaseURL:    strings.TrimRight(env.GetEnv("OPENAI_BASE_URL", "https://api.openai.com"), "/"),
		OpenAITextModel:  env.GetEnv("OPENAI_TEXT_MODEL", "gpt-4o-mini"),
		OpenAIImageModel: env.GetEnv("OPENAI_IMAGE_MODEL", "dall-e-3"),
		GeminiAPIKey:     strings.TrimSpace(env.GetEnv("GEMINI_API_KEY", "")),
		GeminiBaseURL:    strings.TrimSpace(env.GetEnv("GEMINI_BASE_URL", "")),
		GeminiTextModel:  env.GetEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		GeminiImageModel: env.GetEnv("GEMINI_IMAGE_MODEL", "imagen-4.0-generate-001"),
		HTTPTimeout:      env.GetEnvDuration("AI_HTTP_TIMEOUT", 120*time.Second),
	}
}

// New builds the configured text and image generators.
func New(ctx context.Context, cfg *Config) (TextGenerator, ImageGenerator, error) {
	var (
		openai *OpenAI
		gemini *Gemini
		err    error
	)
	needs := map[string]bool{cfg.TextProvider: true, cfg.ImageProvider: true}
	for provider := range needs {
		switch provider {
		case ProviderOpenAI:
			if openai, err = NewOpenAI(cfg); err != nil {
				return nil, nil, err
			}
		case ProviderGemini:
			if gemini, err = NewGemini(ctx, cfg); err != nil {
				return nil, nil, err
			}
		default:
			return nil, nil, fmt.Errorf("unknown AI provider %q", provider)
		}
	}

	var text TextGenerator = openai
	if cfg.TextProvider == ProviderGemini {
		text = gemini
	}
	var image ImageGenerator = openai
	if cfg.ImageProvider == ProviderGemini {
		image = gemini
	}
	return text, image, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
