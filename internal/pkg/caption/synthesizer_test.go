package caption

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitrinepost/vitrinepost/app/models"
	"github.com/vitrinepost/vitrinepost/internal/pkg/marketing"
)

type fakeText struct {
	reply      string
	err        error
	calls      int
	system     string
	user       string
	hasTimeout bool
}

func (f *fakeText) GenerateText(ctx context.Context, system, user string) (string, error) {
	f.calls++
	f.system, f.user = system, user
	_, f.hasTimeout = ctx.Deadline()
	return f.reply, f.err
}

func (f *fakeText) TextModel() string { return "fake-text" }

func testContext() marketing.Context {
	return marketing.Assemble(marketing.Records{Product: &models.Product{Name: "Farol LED H7"}})
}

func TestSynthesizeSuccess(t *testing.T) {
	text := &fakeText{reply: validReply}
	s := NewSynthesizer(text, 45*time.Second)

	res, err := s.Synthesize(context.Background(), testContext(), Options{Format: "feed"})
	require.NoError(t, err)
	assert.Equal(t, 1, text.calls)
	assert.True(t, text.hasTimeout)
	assert.Contains(t, text.user, "Farol LED H7")
	assert.Len(t, res.Variants, 3)
	assert.Equal(t, MainCaption(res.Variants), res.Main)
	assert.Equal(t, "fake-text", res.Model)
	assert.Equal(t, TierStrict, res.Tier)
}

func TestSynthesizeServiceFailure(t *testing.T) {
	text := &fakeText{err: errors.New("dial tcp: timeout")}
	s := NewSynthesizer(text, time.Second)

	_, err := s.Synthesize(context.Background(), testContext(), Options{Format: "feed"})
	assert.ErrorIs(t, err, ErrServiceFailed)
	assert.Equal(t, 1, text.calls)
}

func TestSynthesizeUnusableReply(t *testing.T) {
	s := NewSynthesizer(&fakeText{reply: "  "}, time.Second)

	_, err := s.Synthesize(context.Background(), testContext(), Options{Format: "feed"})
	assert.ErrorIs(t, err, ErrUnusableResponse)
	assert.NotErrorIs(t, err, ErrServiceFailed)
}

type hangingText struct{}

func (hangingText) GenerateText(ctx context.Context, _, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (hangingText) TextModel() string { return "hanging" }

func TestSynthesizeTimesOut(t *testing.T) {
	s := NewSynthesizer(hangingText{}, 20*time.Millisecond)

	start := time.Now()
	_, err := s.Synthesize(context.Background(), testContext(), Options{Format: "feed"})
	assert.ErrorIs(t, err, ErrServiceFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}
