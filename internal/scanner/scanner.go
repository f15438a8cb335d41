package scanner

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vk82313/crypto-arbitrage-bot/pkg/types"
	"go.uber.org/zap"
)

// Params holds the per-asset thresholds applied during a scan.
type Params struct {
	MaxPremium decimal.Decimal
	MinProfit  decimal.Decimal
}

// strikeBucket pairs the two legs quoted at one strike. Derived per scan,
// never persisted.
type strikeBucket struct {
	call *types.Quote
	put  *types.Quote
}

// Scanner enumerates profitable adjacent-strike spreads in a quote snapshot.
type Scanner struct {
	topN   int
	logger *zap.Logger
}

// Config holds scanner configuration.
type Config struct {
	TopOpportunities int
	Logger           *zap.Logger
}

// New creates a spread scanner.
func New(cfg *Config) *Scanner {
	topN := cfg.TopOpportunities
	if topN <= 0 {
		topN = 3
	}
	return &Scanner{
		topN:   topN,
		logger: cfg.Logger,
	}
}

// Scan groups quotes by strike and tests every adjacent strike pair for
// CALL and PUT spread arbitrage. One pass per leg type over adjacent pairs
// only; non-adjacent combinations are out of scope. Returns at most the
// configured top N opportunities in descending profit order; ties keep
// lower strike pairs first (stable sort).
func (s *Scanner) Scan(asset string, quotes map[string]types.Quote, params Params) []*Opportunity {
	start := time.Now()
	defer func() {
		ScanDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	buckets := bucketByStrike(quotes)

	strikes := make([]int, 0, len(buckets))
	for strike := range buckets {
		strikes = append(strikes, strike)
	}
	sort.Ints(strikes)

	var opportunities []*Opportunity

	for i := 0; i+1 < len(strikes); i++ {
		lower, upper := strikes[i], strikes[i+1]

		if opp := s.checkCallSpread(asset, buckets, lower, upper, params); opp != nil {
			opportunities = append(opportunities, opp)
		}
		if opp := s.checkPutSpread(asset, buckets, lower, upper, params); opp != nil {
			opportunities = append(opportunities, opp)
		}
	}

	// Stable: equal profits keep strike-pair order.
	sort.SliceStable(opportunities, func(a, b int) bool {
		return opportunities[a].ProfitPerLot.GreaterThan(opportunities[b].ProfitPerLot)
	})

	if len(opportunities) > s.topN {
		opportunities = opportunities[:s.topN]
	}

	OpportunitiesDetectedTotal.WithLabelValues(asset).Add(float64(len(opportunities)))

	for _, opp := range opportunities {
		s.logger.Debug("opportunity-found",
			zap.String("asset", asset),
			zap.String("leg-type", string(opp.LegType)),
			zap.Int("lower-strike", opp.LowerStrike),
			zap.Int("upper-strike", opp.UpperStrike),
			zap.String("profit-per-lot", opp.ProfitPerLot.String()))
	}

	return opportunities
}

// checkCallSpread buys the lower-strike call at its ask and sells the
// upper-strike call at its bid.
func (s *Scanner) checkCallSpread(asset string, buckets map[int]*strikeBucket, lower, upper int, params Params) *Opportunity {
	buy := buckets[lower].call
	sell := buckets[upper].call
	if buy == nil || sell == nil {
		// A strike missing one leg is skipped for that leg type.
		return nil
	}

	return s.buildOpportunity(asset, types.Call, lower, upper, *buy, *sell, buy.Ask, sell.Bid, params)
}

// checkPutSpread buys the upper-strike put at its ask and sells the
// lower-strike put at its bid; the direction mirrors calls because put
// value decreases with strike.
func (s *Scanner) checkPutSpread(asset string, buckets map[int]*strikeBucket, lower, upper int, params Params) *Opportunity {
	buy := buckets[upper].put
	sell := buckets[lower].put
	if buy == nil || sell == nil {
		return nil
	}

	return s.buildOpportunity(asset, types.Put, lower, upper, *buy, *sell, buy.Ask, sell.Bid, params)
}

func (s *Scanner) buildOpportunity(
	asset string,
	legType types.OptionType,
	lower, upper int,
	buy, sell types.Quote,
	buyPrice, sellPrice decimal.Decimal,
	params Params,
) *Opportunity {
	if !buyPrice.IsPositive() || !sellPrice.IsPositive() {
		OpportunitiesRejectedTotal.WithLabelValues(asset, "invalid_price").Inc()
		return nil
	}

	if buyPrice.GreaterThan(params.MaxPremium) || sellPrice.GreaterThan(params.MaxPremium) {
		OpportunitiesRejectedTotal.WithLabelValues(asset, "above_max_premium").Inc()
		return nil
	}

	profit := sellPrice.Sub(buyPrice)
	if profit.LessThan(params.MinProfit) {
		OpportunitiesRejectedTotal.WithLabelValues(asset, "below_min_profit").Inc()
		return nil
	}

	opp := newOpportunity(asset, legType, lower, upper, buy, sell, buyPrice, sellPrice)
	profitFloat, _ := profit.Float64()
	OpportunityProfitPerLot.Observe(profitFloat)

	return opp
}

func bucketByStrike(quotes map[string]types.Quote) map[int]*strikeBucket {
	buckets := make(map[int]*strikeBucket)
	for symbol := range quotes {
		q := quotes[symbol]
		bucket, ok := buckets[q.Strike]
		if !ok {
			bucket = &strikeBucket{}
			buckets[q.Strike] = bucket
		}
		switch q.OptionType {
		case types.Call:
			bucket.call = &q
		case types.Put:
			bucket.put = &q
		}
	}
	return buckets
}
