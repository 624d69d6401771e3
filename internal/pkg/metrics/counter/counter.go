// Package counter keeps pipeline outcome counters in a Redis hash.
package counter

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

const pipelineKey = "pipeline:counters"

const (
	fieldSuccess     = "success"
	fieldFailure     = "failure"
	fieldCaptionTier = "caption_tier"
)

// PipelineCounter counts completed runs, failures per stage and kind, and the
// caption parse tier that produced each result. Counter errors are logged and
// never surface to the request.
type PipelineCounter struct {
	rdb *redis.Client
	key string
}

func NewPipelineCounter(rdb *redis.Client) *PipelineCounter {
	return &PipelineCounter{rdb: rdb, key: pipelineKey}
}

func (c *PipelineCounter) Success(ctx context.Context) {
	c.incr(ctx, fieldSuccess)
}

func (c *PipelineCounter) Failure(ctx context.Context, stage, kind string) {
	c.incr(ctx, fieldFailure)
	c.incr(ctx, fieldFailure+":"+stage+":"+kind)
}

func (c *PipelineCounter) CaptionTier(ctx context.Context, tier string) {
	c.incr(ctx, fieldCaptionTier+":"+tier)
}

func (c *PipelineCounter) incr(ctx context.Context, field string) {
	if err := c.rdb.HIncrBy(context.WithoutCancel(ctx), c.key, field, 1).Err(); err != nil {
		log.Warnf("[Counter] HINCRBY %s %s failed: %v", c.key, field, err)
	}
}

// Snapshot groups the counters for reporting.
type Snapshot struct {
	Success      int64            `json:"success"`
	Failure      int64            `json:"failure"`
	Failures     map[string]int64 `json:"failures"`
	CaptionTiers map[string]int64 `json:"caption_tiers"`
}

func (c *PipelineCounter) Snapshot(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{Failures: map[string]int64{}, CaptionTiers: map[string]int64{}}
	data, err := c.rdb.HGetAll(ctx, c.key).Result()
	if err != nil {
		return snap, err
	}
	for field, raw := range data {
		n, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil {
			continue
		}
		switch {
		case field == fieldSuccess:
			snap.Success = n
		case field == fieldFailure:
			snap.Failure = n
		case strings.HasPrefix(field, fieldFailure+":"):
			snap.Failures[strings.TrimPrefix(field, fieldFailure+":")] = n
		case strings.HasPrefix(field, fieldCaptionTier+":"):
			snap.CaptionTiers[strings.TrimPrefix(field, fieldCaptionTier+":")] = n
		}
	}
	return snap, nil
}
