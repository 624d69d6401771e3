package artwork

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/vitrinepost/vitrinepost/internal/pkg/aiclient"
)

// ErrNoImage is returned when the service answered without an image reference.
var ErrNoImage = errors.New("image service returned no image")

// Result is the transient image plus the instruction that produced it.
type Result struct {
	Image  aiclient.GeneratedImage
	Prompt string
	Size   string
	Model  string
}

type Synthesizer struct {
	images  aiclient.ImageGenerator
	timeout time.Duration
}

func NewSynthesizer(images aiclient.ImageGenerator, timeout time.Duration) *Synthesizer {
	return &Synthesizer{images: images, timeout: timeout}
}

// Synthesize requests exactly one image. There is no placeholder fallback.
func (s *Synthesizer) Synthesize(ctx context.Context, r Request) (Result, error) {
	prompt := BuildPrompt(r)
	size := SizeFor(r.Format)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	img, err := s.images.GenerateImage(callCtx, prompt, size)
	if err != nil {
		return Result{}, fmt.Errorf("generate image: %w", err)
	}
	if img.Empty() {
		return Result{}, ErrNoImage
	}
	log.Infof("[Artwork] Image generated (%s, model=%s)", size, s.images.ImageModel())
	return Result{Image: img, Prompt: prompt, Size: size, Model: s.images.ImageModel()}, nil
}
