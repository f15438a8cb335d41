package expiry

import (
	"context"
	"sync"
	"time"

	"github.com/vk82313/crypto-arbitrage-bot/internal/notify"
	"go.uber.org/zap"
)

// IST is the exchange's local zone. Daily contracts roll over against
// the 17:30 IST settlement, not the host clock's zone.
var IST = time.FixedZone("IST", 5*60*60+30*60)

const (
	dateCodeLayout = "020106" // DDMMYY
	rolloverMinute = 17*60 + 30
)

// DateCode formats a time as the venue's DDMMYY expiry code in IST.
func DateCode(t time.Time) string {
	return t.In(IST).Format(dateCodeLayout)
}

// InitialActiveExpiry computes the expiry code that should be active at
// startup: tomorrow's date if IST time is at or past 17:30, today's before.
func InitialActiveExpiry(now time.Time) string {
	local := now.In(IST)
	if local.Hour()*60+local.Minute() >= rolloverMinute {
		local = local.AddDate(0, 0, 1)
	}
	return local.Format(dateCodeLayout)
}

// NextAvailableExpiry returns the smallest available code strictly after
// current, comparing codes as dates rather than strings. If none is later
// it returns the largest available code. An empty available set returns
// current unchanged.
func NextAvailableExpiry(current string, available []string) string {
	if len(available) == 0 {
		return current
	}

	currentDate, err := time.ParseInLocation(dateCodeLayout, current, IST)
	if err != nil {
		// Unparseable active code: any real code is an improvement.
		currentDate = time.Time{}
	}

	var nextCode, largestCode string
	var nextDate, largestDate time.Time

	for _, code := range available {
		date, err := time.ParseInLocation(dateCodeLayout, code, IST)
		if err != nil {
			continue
		}
		if largestCode == "" || date.After(largestDate) {
			largestCode, largestDate = code, date
		}
		if date.After(currentDate) && (nextCode == "" || date.Before(nextDate)) {
			nextCode, nextDate = code, date
		}
	}

	if nextCode != "" {
		return nextCode
	}
	if largestCode != "" {
		return largestCode
	}
	return current
}

// FetchFunc returns the expiry codes currently listed by the venue.
type FetchFunc func(ctx context.Context) ([]string, error)

// Oracle tracks which contract expiry is active for one asset and decides
// when to roll to the next one. CheckAndUpdate must only be called from the
// owning worker's goroutine; Active is safe to call from any goroutine (the
// status endpoint polls it).
type Oracle struct {
	asset         string
	checkInterval time.Duration
	logger        *zap.Logger
	notifier      notify.Notifier
	now           func() time.Time

	mu            sync.RWMutex
	active        string
	lastChecked   time.Time
	hasChecked    bool
	lastRolledDay string // IST calendar day of the last time-based roll
}

// Config holds oracle configuration.
type Config struct {
	Asset         string
	CheckInterval time.Duration
	Logger        *zap.Logger
	Notifier      notify.Notifier
	Now           func() time.Time // optional clock override
}

// New creates an oracle with the initial active expiry resolved from the clock.
func New(cfg *Config) *Oracle {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	o := &Oracle{
		asset:         cfg.Asset,
		checkInterval: cfg.CheckInterval,
		logger:        cfg.Logger,
		notifier:      cfg.Notifier,
		now:           now,
	}
	o.active = InitialActiveExpiry(now())

	o.logger.Info("expiry-oracle-initialized",
		zap.String("asset", o.asset),
		zap.String("active-expiry", o.active))

	return o
}

// Active returns the currently active expiry code.
func (o *Oracle) Active() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.active
}

// ShouldRollover returns the next day's code iff IST time is at or past
// 17:30 and no time-based roll has happened yet on this IST calendar day.
// The day latch keeps the roll from re-firing on every check after 17:30.
func (o *Oracle) ShouldRollover(now time.Time) (string, bool) {
	local := now.In(IST)
	if local.Hour()*60+local.Minute() < rolloverMinute {
		return "", false
	}

	day := local.Format("2006-01-02")
	if day == o.lastRolledDay {
		return "", false
	}

	return local.AddDate(0, 0, 1).Format(dateCodeLayout), true
}

// CheckAndUpdate re-evaluates the active expiry, at most once per check
// interval. A time-based rollover candidate is resolved first; separately,
// an active code no longer listed by the venue is corrected to the next
// available one. Returns true when the active code changed.
//
// A failing fetch is non-fatal: the cycle is treated as "no expiries known"
// and the previous active code is kept.
func (o *Oracle) CheckAndUpdate(ctx context.Context, fetch FetchFunc) bool {
	now := o.now()
	if o.hasChecked && now.Sub(o.lastChecked) < o.checkInterval {
		return false
	}
	o.lastChecked = now
	o.hasChecked = true

	available, err := fetch(ctx)
	if err != nil {
		o.logger.Warn("expiry-fetch-failed",
			zap.String("asset", o.asset),
			zap.String("active-expiry", o.active),
			zap.Error(err))
		return false
	}

	changed := false
	active := o.Active()

	if candidate, ok := o.ShouldRollover(now); ok && candidate != active {
		next := NextAvailableExpiry(active, available)
		if next != active {
			o.roll(ctx, next, "rollover", now)
			active = next
			changed = true
		}
	}

	// Availability correction is never latched: the venue delisting the
	// active contract must be acted on whenever it happens.
	if len(available) > 0 && !contains(available, active) {
		next := NextAvailableExpiry(active, available)
		if next != active {
			o.roll(ctx, next, "correction", now)
			changed = true
		}
	}

	return changed
}

func (o *Oracle) roll(ctx context.Context, next string, reason string, now time.Time) {
	o.mu.Lock()
	previous := o.active
	o.active = next
	o.mu.Unlock()

	if reason == "rollover" {
		o.lastRolledDay = now.In(IST).Format("2006-01-02")
	}

	RolloversTotal.WithLabelValues(o.asset, reason).Inc()

	o.logger.Info("expiry-rolled",
		zap.String("asset", o.asset),
		zap.String("previous", previous),
		zap.String("active", next),
		zap.String("reason", reason))

	if o.notifier != nil {
		err := o.notifier.Send(ctx, notify.FormatExpiryRollover(o.asset, previous, next, reason))
		if err != nil {
			o.logger.Warn("rollover-alert-failed", zap.Error(err))
		}
	}
}

func contains(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
