package quotes

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vk82313/crypto-arbitrage-bot/internal/marketdata"
	"github.com/vk82313/crypto-arbitrage-bot/pkg/cache"
	"github.com/vk82313/crypto-arbitrage-bot/pkg/types"
	"go.uber.org/zap"
)

// TickerFetcher fetches the raw option tickers for one asset.
type TickerFetcher interface {
	FetchTickers(ctx context.Context, asset string) ([]marketdata.Ticker, error)
}

// ExpiryProvider exposes the currently active expiry code.
type ExpiryProvider interface {
	Active() string
}

// Store holds the latest quote snapshot for one asset, refreshed on a
// fixed cadence. Each store is owned by a single asset worker.
type Store struct {
	asset        string
	fetcher      TickerFetcher
	expiries     ExpiryProvider
	pollInterval time.Duration
	parseCache   cache.Cache
	logger       *zap.Logger
	now          func() time.Time

	lastFetch  time.Time
	hasFetched bool
	snapshot   map[string]types.Quote
}

// Config holds quote store configuration.
type Config struct {
	Asset        string
	Fetcher      TickerFetcher
	Expiries     ExpiryProvider
	PollInterval time.Duration
	ParseCache   cache.Cache
	Logger       *zap.Logger
	Now          func() time.Time // optional clock override
}

// New creates a quote store with an empty snapshot.
func New(cfg *Config) *Store {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Store{
		asset:        cfg.Asset,
		fetcher:      cfg.Fetcher,
		expiries:     cfg.Expiries,
		pollInterval: cfg.PollInterval,
		parseCache:   cfg.ParseCache,
		logger:       cfg.Logger,
		now:          now,
		snapshot:     make(map[string]types.Quote),
	}
}

// Refresh returns the current quote snapshot, fetching at most once per
// polling interval. Calls within the interval return the cached snapshot
// unmodified. On transport failure or a malformed payload the previous
// snapshot is returned together with the recoverable error so the caller
// can log it; the error never destroys history.
func (s *Store) Refresh(ctx context.Context) (map[string]types.Quote, error) {
	now := s.now()
	if s.hasFetched && now.Sub(s.lastFetch) < s.pollInterval {
		return s.snapshot, nil
	}
	s.lastFetch = now
	s.hasFetched = true

	start := now
	tickers, err := s.fetcher.FetchTickers(ctx, s.asset)
	if err != nil {
		FetchesTotal.WithLabelValues(s.asset, "error").Inc()
		return s.snapshot, err
	}
	FetchesTotal.WithLabelValues(s.asset, "ok").Inc()
	RefreshDurationSeconds.Observe(time.Since(start).Seconds())

	activeExpiry := s.expiries.Active()
	fresh := make(map[string]types.Quote, len(tickers))

	for _, t := range tickers {
		parsed, perr := s.parseSymbol(t.Symbol)
		if perr != nil {
			MalformedDroppedTotal.WithLabelValues(s.asset).Inc()
			s.logger.Debug("quote-dropped-malformed",
				zap.String("symbol", t.Symbol),
				zap.Error(perr))
			continue
		}

		if parsed.Asset != s.asset || parsed.ExpiryCode != activeExpiry {
			continue
		}

		bid, berr := decimal.NewFromString(t.Quotes.BestBid)
		ask, aerr := decimal.NewFromString(t.Quotes.BestAsk)
		if berr != nil || aerr != nil {
			MalformedDroppedTotal.WithLabelValues(s.asset).Inc()
			s.logger.Debug("quote-dropped-bad-price", zap.String("symbol", t.Symbol))
			continue
		}

		if !bid.IsPositive() || !ask.IsPositive() {
			continue
		}

		fresh[t.Symbol] = types.Quote{
			Symbol:       t.Symbol,
			Asset:        parsed.Asset,
			Strike:       parsed.Strike,
			OptionType:   parsed.OptionType,
			Bid:          bid,
			Ask:          ask,
			AvailableQty: availableQty(t.Quotes),
		}
	}

	s.snapshot = fresh
	QuotesTracked.WithLabelValues(s.asset).Set(float64(len(fresh)))

	return s.snapshot, nil
}

// Snapshot returns the last cached snapshot without fetching.
func (s *Store) Snapshot() map[string]types.Quote {
	return s.snapshot
}

// parseSymbol memoises ParseSymbol results: the instrument universe is
// stable within an expiry, so most symbols repeat every refresh.
func (s *Store) parseSymbol(symbol string) (types.ParsedSymbol, error) {
	if s.parseCache != nil {
		if v, ok := s.parseCache.Get(symbol); ok {
			if parsed, ok := v.(types.ParsedSymbol); ok {
				return parsed, nil
			}
		}
	}

	parsed, err := types.ParseSymbol(symbol)
	if err != nil {
		return types.ParsedSymbol{}, err
	}

	if s.parseCache != nil {
		s.parseCache.Set(symbol, parsed, 24*time.Hour)
	}

	return parsed, nil
}

// availableQty is the quantity usable on either side of the book,
// bounded by the thinner side.
func availableQty(q marketdata.TickerQuotes) int {
	bidSize := sizeToLots(q.BidSize)
	askSize := sizeToLots(q.AskSize)
	if bidSize < askSize {
		return bidSize
	}
	return askSize
}

func sizeToLots(size string) int {
	if size == "" {
		return 0
	}
	d, err := decimal.NewFromString(size)
	if err != nil {
		return 0
	}
	return int(d.IntPart())
}
