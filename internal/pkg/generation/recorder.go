package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/vitrinepost/vitrinepost/app/models"
	"github.com/vitrinepost/vitrinepost/internal/pkg/quota"
)

// ErrRecordWrite wraps failures writing the generation row.
var ErrRecordWrite = errors.New("write generation record")

type GenerationWriter interface {
	Create(ctx context.Context, generation *models.Generation) error
}

type UsageIncrementer interface {
	Increment(ctx context.Context, userID, month string) (int, error)
}

// RecordInput is one completed pipeline run.
type RecordInput struct {
	UserID     string
	ProductID  string
	TemplateID string
	ImageURL   string
	Caption    string
	Format     string
	Provenance Provenance

	// Month and PreviousCount come from the quota check of this request.
	Month         string
	PreviousCount int
}

// Recorder writes the generation row and then advances the ledger. The order
// matters: a crash between the two writes under-counts usage, never over-counts.
type Recorder struct {
	generations GenerationWriter
	ledger      UsageIncrementer
}

func NewRecorder(generations GenerationWriter, ledger UsageIncrementer) *Recorder {
	return &Recorder{generations: generations, ledger: ledger}
}

// Record returns the stored row and the usage count to report. When the
// ledger increment fails after the row is durable the run still succeeds and
// the previous count is reported.
func (r *Recorder) Record(ctx context.Context, in RecordInput) (*models.Generation, int, error) {
	fields, err := in.Provenance.JSON()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: encode fields_data: %w", ErrRecordWrite, err)
	}

	g := &models.Generation{
		UserID:     in.UserID,
		ProductID:  nullable(in.ProductID),
		TemplateID: nullable(in.TemplateID),
		ImageURL:   in.ImageURL,
		Caption:    in.Caption,
		Format:     in.Format,
		FieldsData: fields,
	}
	if err := r.generations.Create(ctx, g); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrRecordWrite, err)
	}

	count, err := r.ledger.Increment(ctx, in.UserID, in.Month)
	if err != nil {
		log.Errorf("[Recorder] Generation %s stored but usage increment failed for user %s month %s: %v",
			g.ID, in.UserID, in.Month, err)
		return g, in.PreviousCount, nil
	}
	return g, count, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ UsageIncrementer = (*quota.Ledger)(nil)
