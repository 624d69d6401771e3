package caption

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vitrinepost/vitrinepost/internal/pkg/aiclient"
	"github.com/vitrinepost/vitrinepost/internal/pkg/marketing"
)

// ErrServiceFailed wraps transport, status and timeout failures of the text service.
var ErrServiceFailed = errors.New("text generation service failed")

// Result is the outcome of one synthesis call.
type Result struct {
	Variants []Variant
	Main     string
	Tier     Tier
	Model    string
}

type Synthesizer struct {
	text    aiclient.TextGenerator
	timeout time.Duration
}

func NewSynthesizer(text aiclient.TextGenerator, timeout time.Duration) *Synthesizer {
	return &Synthesizer{text: text, timeout: timeout}
}

// Synthesize makes exactly one call to the text service and parses the reply.
// Service failures wrap ErrServiceFailed, unusable replies ErrUnusableResponse.
func (s *Synthesizer) Synthesize(ctx context.Context, mc marketing.Context, opts Options) (Result, error) {
	if opts.ProductName == "" {
		opts.ProductName = mc.Product.Name
	}
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.text.GenerateText(callCtx, BuildSystemPrompt(mc), BuildUserPrompt(opts))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrServiceFailed, err)
	}

	parsed, err := ParseVariants(raw)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Variants: parsed.Variants,
		Main:     MainCaption(parsed.Variants),
		Tier:     parsed.Tier,
		Model:    s.text.TextModel(),
	}, nil
}
