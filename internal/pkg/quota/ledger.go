package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/vitrinepost/vitrinepost/internal/pkg/entitlements"
)

// ErrPlanLimitReached is matched by every *LimitError.
var ErrPlanLimitReached = errors.New("plan limit reached")

// LimitError reports a rejected request together with the plan and its ceiling.
type LimitError struct {
	Plan  entitlements.Plan
	Limit int
	Count int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("plan %s limit of %d generations per month reached (used %d)", e.Plan, e.Limit, e.Count)
}

func (e *LimitError) Is(target error) bool {
	return target == ErrPlanLimitReached
}

// Store is the storage contract of the ledger. Increment must be a single
// atomic add at the storage layer.
type Store interface {
	GetCount(ctx context.Context, userID, month string) (int, error)
	Increment(ctx context.Context, userID, month string) (int, error)
}

// Status is a snapshot of a user's monthly usage.
type Status struct {
	Month string
	Count int
	Limit int
	Plan  entitlements.Plan
}

// Remaining returns how many generations are left this month.
func (s Status) Remaining() int {
	if s.Count >= s.Limit {
		return 0
	}
	return s.Limit - s.Count
}

type Ledger struct {
	store Store
	now   func() time.Time
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// WithClock overrides the clock used to derive the current month.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// MonthKey returns the calendar month of t in UTC as "YYYY-MM".
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// CurrentMonth returns the month key for the ledger's clock.
func (l *Ledger) CurrentMonth() string {
	return MonthKey(l.now())
}

// Current reads the usage of userID for the current month.
func (l *Ledger) Current(ctx context.Context, userID, plan string) (Status, error) {
	month := l.CurrentMonth()
	p := entitlements.NormalizePlan(plan)
	count, err := l.store.GetCount(ctx, userID, month)
	if err != nil {
		return Status{}, fmt.Errorf("read usage: %w", err)
	}
	return Status{Month: month, Count: count, Limit: entitlements.GenerationLimit(p), Plan: p}, nil
}

// Check returns the current status, or a *LimitError when the ceiling is reached.
// It has no side effects.
func (l *Ledger) Check(ctx context.Context, userID, plan string) (Status, error) {
	st, err := l.Current(ctx, userID, plan)
	if err != nil {
		return Status{}, err
	}
	if st.Count >= st.Limit {
		return st, &LimitError{Plan: st.Plan, Limit: st.Limit, Count: st.Count}
	}
	return st, nil
}

// Increment adds one generation to the month and returns the stored count.
func (l *Ledger) Increment(ctx context.Context, userID, month string) (int, error) {
	n, err := l.store.Increment(ctx, userID, month)
	if err != nil {
		return 0, fmt.Errorf("increment usage: %w", err)
	}
	log.Debugf("[Quota] user %s month %s count=%d", userID, month, n)
	return n, nil
}
