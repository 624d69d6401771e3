package aiclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2/log"
)

// OpenAI implements TextGenerator over the Responses API and ImageGenerator
// over the Images API. Each call is attempted once.
type OpenAI struct {
	baseURL    string
	apiKey     string
	textModel  string
	imageModel string
	httpClient *http.Client
}

func NewOpenAI(cfg *Config) (*OpenAI, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, errors.New("missing OPENAI_API_KEY")
	}
	baseURL := cfg.OpenAIBaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	return &OpenAI{
		baseURL:    baseURL,
		apiKey:     cfg.OpenAIAPIKey,
		textModel:  cfg.OpenAITextModel,
		imageModel: cfg.OpenAIImageModel,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}, nil
}

func (c *OpenAI) TextModel() string  { return c.textModel }
func (c *OpenAI) ImageModel() string { return c.imageModel }

func (c *OpenAI) do(ctx context.Context, path string, body, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{Provider: ProviderOpenAI, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("openai decode error: %w; raw=%s", err, truncate(string(raw), 512))
	}
	return nil
}

type responsesInput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model       string           `json:"model"`
	Input       []responsesInput `json:"input"`
	Temperature float64          `json:"temperature,omitempty"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
	Refusal string `json:"refusal,omitempty"`
}

func extractOutputText(resp responsesResponse) string {
	var out strings.Builder
	for _, item := range resp.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, c := range item.Content {
			if c.Type == "output_text" {
				out.WriteString(c.Text)
			}
		}
	}
	return out.String()
}

// GenerateText returns the assistant's raw output text. An empty completion is
// not an error here; judging usability is left to the caller.
func (c *OpenAI) GenerateText(ctx context.Context, system, user string) (string, error) {
	req := responsesRequest{
		Model: c.textModel,
		Input: []responsesInput{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.8,
	}
	var resp responsesResponse
	if err := c.do(ctx, "/v1/responses", req, &resp); err != nil {
		return "", err
	}
	if resp.Refusal != "" {
		return "", fmt.Errorf("model refused: %s", resp.Refusal)
	}
	return extractOutputText(resp), nil
}

type imagesRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
}

type imagesResponse struct {
	Data []struct {
		URL           string `json:"url"`
		B64JSON       string `json:"b64_json"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
}

// GenerateImage requests a single image. DALL-E models answer with a
// short-lived URL; gpt-image models always answer with base64 data.
func (c *OpenAI) GenerateImage(ctx context.Context, prompt, size string) (GeneratedImage, error) {
	var out GeneratedImage
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return out, errors.New("image prompt required")
	}

	req := imagesRequest{Model: c.imageModel, Prompt: prompt, N: 1, Size: size}
	if c.isGPTImage() {
		req.Size = gptImageSize(size)
	} else {
		req.ResponseFormat = "url"
	}

	var resp imagesResponse
	if err := c.do(ctx, "/v1/images/generations", req, &resp); err != nil {
		return out, err
	}
	if len(resp.Data) == 0 {
		return out, errors.New("no image returned")
	}
	item := resp.Data[0]
	out.URL = strings.TrimSpace(item.URL)
	out.RevisedPrompt = strings.TrimSpace(item.RevisedPrompt)
	if b64 := strings.TrimSpace(item.B64JSON); b64 != "" {
		raw, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return out, fmt.Errorf("decode image base64: %w", err)
		}
		out.Data = raw
		out.MimeType = "image/png"
	}
	if out.Empty() {
		return out, errors.New("image response missing url and b64_json")
	}
	log.Debugf("[OpenAI] Image generated with %s (%s)", c.imageModel, req.Size)
	return out, nil
}

func (c *OpenAI) isGPTImage() bool {
	return strings.HasPrefix(strings.ToLower(c.imageModel), "gpt-image")
}

// gptImageSize maps the DALL-E portrait size onto the one gpt-image supports.
func gptImageSize(size string) string {
	if size == "1024x1792" {
		return "1024x1536"
	}
	return size
}
