package embedding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/transcriptqa/internal/domain"
	logpkg "github.com/kailas-cloud/transcriptqa/internal/logger"
)

// BudgetKeyPrefix namespaces persisted budget counters.
const BudgetKeyPrefix = "transcriptqa:budget:"

// Persisted counters outlive their period so a late run still sees the total.
const (
	dailyCounterTTL   = 48 * time.Hour
	monthlyCounterTTL = 62 * 24 * time.Hour
)

// BudgetAction defines behavior when token budget is exceeded.
type BudgetAction string

const (
	// BudgetActionWarn logs a warning but allows the request.
	BudgetActionWarn BudgetAction = "warn"
	// BudgetActionReject blocks the request.
	BudgetActionReject BudgetAction = "reject"
)

// BudgetStore persists per-period token counters shared between runs.
type BudgetStore interface {
	Add(ctx context.Context, key string, tokens int64, ttl time.Duration) error
	Load(ctx context.Context, key string) (int64, error)
}

// budgetPeriod is one accounting window (a UTC day or month).
type budgetPeriod struct {
	name     string
	layout   string
	ttl      time.Duration
	truncate func(time.Time) time.Time

	limit int64
	used  int64
	start time.Time
}

// roll starts a new window when now has left the current one.
func (p *budgetPeriod) roll(now time.Time) {
	if s := p.truncate(now); s.After(p.start) {
		p.start = s
		p.used = 0
	}
}

func (p *budgetPeriod) exceeded() bool {
	return p.limit > 0 && p.used >= p.limit
}

// remaining returns tokens left, or -1 when the period is unlimited.
func (p *budgetPeriod) remaining() int64 {
	if p.limit == 0 {
		return -1
	}
	return max(p.limit-p.used, 0)
}

// BudgetTracker enforces daily and monthly embedding token limits.
// Check only reads memory; Record writes through to the store when attached,
// so separate CLI runs add up against the same counters.
type BudgetTracker struct {
	mu       sync.Mutex
	daily    budgetPeriod
	monthly  budgetPeriod
	action   BudgetAction
	provider string
	now      func() time.Time
	store    BudgetStore
	logger   *zap.Logger
}

// NewBudgetTracker creates a budget tracker. A zero limit disables that period.
func NewBudgetTracker(
	provider string, dailyLimit, monthlyLimit int64,
	action BudgetAction, logger *zap.Logger,
) *BudgetTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &BudgetTracker{
		daily: budgetPeriod{
			name: "daily", layout: "2006-01-02", ttl: dailyCounterTTL,
			truncate: truncateToDay, limit: dailyLimit,
		},
		monthly: budgetPeriod{
			name: "monthly", layout: "2006-01", ttl: monthlyCounterTTL,
			truncate: truncateToMonth, limit: monthlyLimit,
		},
		action:   action,
		provider: provider,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
	b.rollLocked()
	return b
}

// withClock replaces the time source.
func (b *BudgetTracker) withClock(now func() time.Time) *BudgetTracker {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
	b.daily.start, b.monthly.start = time.Time{}, time.Time{}
	b.rollLocked()
	return b
}

// WithStore attaches a persistence store and loads the current counters.
func (b *BudgetTracker) WithStore(ctx context.Context, store BudgetStore) *BudgetTracker {
	b.mu.Lock()
	defer b.mu.Unlock()

	log := logpkg.From(ctx, b.logger)
	b.store = store
	b.rollLocked()
	for _, p := range b.periods() {
		key := b.key(p)
		used, err := store.Load(ctx, key)
		if err != nil {
			log.Warn("Failed to load token budget", zap.String("key", key), zap.Error(err))
			continue
		}
		p.used = used
	}

	log.Debug("Token budget loaded",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.daily.used),
		zap.Int64("monthly_used", b.monthly.used),
	)
	return b
}

func (b *BudgetTracker) periods() []*budgetPeriod {
	return []*budgetPeriod{&b.daily, &b.monthly}
}

func (b *BudgetTracker) rollLocked() {
	now := b.now()
	b.daily.roll(now)
	b.monthly.roll(now)
}

// key names the persisted counter of the period's current window.
func (b *BudgetTracker) key(p *budgetPeriod) string {
	return fmt.Sprintf("%s%s:%s:%s", BudgetKeyPrefix, b.provider, p.name, p.start.Format(p.layout))
}

// Check returns ErrEmbeddingQuotaExceeded when a limit is reached and the action is reject.
func (b *BudgetTracker) Check(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rollLocked()
	for _, p := range b.periods() {
		if !p.exceeded() {
			continue
		}
		if b.action == BudgetActionReject {
			return fmt.Errorf("%s limit of %d tokens reached: %w", p.name, p.limit, domain.ErrEmbeddingQuotaExceeded)
		}
		b.logger.Warn("Token budget exceeded",
			zap.String("provider", b.provider),
			zap.String("period", p.name),
			zap.Int64("used", p.used),
			zap.Int64("limit", p.limit),
		)
		return nil
	}
	return nil
}

// Record adds consumed tokens to both periods and persists them when a store is attached.
func (b *BudgetTracker) Record(tokens int64) {
	type pending struct {
		key string
		ttl time.Duration
	}

	b.mu.Lock()
	b.rollLocked()
	writes := make([]pending, 0, 2)
	for _, p := range b.periods() {
		p.used += tokens
		writes = append(writes, pending{key: b.key(p), ttl: p.ttl})
	}
	store := b.store
	b.mu.Unlock()

	if store == nil {
		return
	}

	// Detached from the caller's context so a cancelled request still gets counted.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, w := range writes {
		if err := store.Add(ctx, w.key, tokens, w.ttl); err != nil {
			b.logger.Warn("Failed to persist token budget", zap.String("key", w.key), zap.Error(err))
		}
	}
}

// RemainingDaily returns tokens left today (-1 if unlimited).
func (b *BudgetTracker) RemainingDaily() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollLocked()
	return b.daily.remaining()
}

// RemainingMonthly returns tokens left this month (-1 if unlimited).
func (b *BudgetTracker) RemainingMonthly() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollLocked()
	return b.monthly.remaining()
}

// DailyUsed returns tokens consumed today.
func (b *BudgetTracker) DailyUsed() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollLocked()
	return b.daily.used
}

// MonthlyUsed returns tokens consumed this month.
func (b *BudgetTracker) MonthlyUsed() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollLocked()
	return b.monthly.used
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func truncateToMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
