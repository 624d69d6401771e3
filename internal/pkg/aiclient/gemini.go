package aiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// Gemini implements both generators on top of the Gemini API.
type Gemini struct {
	client     *genai.Client
	textModel  string
	imageModel string
}

func NewGemini(ctx context.Context, cfg *Config) (*Gemini, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.GeminiAPIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}
	// Empty keeps the SDK default endpoint.
	if cfg.GeminiBaseURL != "" {
		cc.HTTPOptions.BaseURL = strings.TrimRight(cfg.GeminiBaseURL, "/") + "/"
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, textModel: cfg.GeminiTextModel, imageModel: cfg.GeminiImageModel}, nil
}

func (g *Gemini) TextModel() string  { return g.textModel }
func (g *Gemini) ImageModel() string { return g.imageModel }

func (g *Gemini) GenerateText(ctx context.Context, system, user string) (string, error) {
	temperature := float32(0.8)
	resp, err := g.client.Models.GenerateContent(ctx, g.textModel, genai.Text(user), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       &temperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func (g *Gemini) GenerateImage(ctx context.Context, prompt, size string) (GeneratedImage, error) {
	var out GeneratedImage
	resp, err := g.client.Models.GenerateImages(ctx, g.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    AspectRatio(size),
	})
	if err != nil {
		return out, err
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return out, errors.New("no image returned")
	}
	img := resp.GeneratedImages[0]
	out.Data = img.Image.ImageBytes
	out.MimeType = img.Image.MIMEType
	out.RevisedPrompt = strings.TrimSpace(img.EnhancedPrompt)
	if out.Empty() {
		return out, errors.New("image response missing bytes")
	}
	return out, nil
}

// AspectRatio converts a "WxH" size into the ratio names Imagen accepts.
func AspectRatio(size string) string {
	switch size {
	case "1024x1792", "1024x1536", "1080x1920":
		return "9:16"
	case "1792x1024", "1536x1024":
		return "16:9"
	default:
		return "1:1"
	}
}
