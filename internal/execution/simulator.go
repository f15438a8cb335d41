package execution

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vk82313/crypto-arbitrage-bot/pkg/types"
	"go.uber.org/zap"
)

// Simulator runs the order-fill state machines for both legs of a spread
// against a FillOracle. Waits are blocking from the caller's point of view
// and bounded at every point: the sell leg by the fill timeout, each buy
// price tier by its wait window.
type Simulator struct {
	oracle           FillOracle
	sellFillTimeout  time.Duration
	sellPollInterval time.Duration
	buyTierWait      time.Duration
	logger           *zap.Logger
}

// SimulatorConfig holds simulator configuration.
type SimulatorConfig struct {
	Oracle           FillOracle
	SellFillTimeout  time.Duration
	SellPollInterval time.Duration
	BuyTierWait      time.Duration
	Logger           *zap.Logger
}

// NewSimulator creates a fill simulator.
func NewSimulator(cfg *SimulatorConfig) *Simulator {
	return &Simulator{
		oracle:           cfg.Oracle,
		sellFillTimeout:  cfg.SellFillTimeout,
		sellPollInterval: cfg.SellPollInterval,
		buyTierWait:      cfg.BuyTierWait,
		logger:           cfg.Logger,
	}
}

// ExecuteSellLeg places the sell order and polls for a fill until the
// timeout. Exceeding the timeout with no fill yields FilledQty zero.
func (s *Simulator) ExecuteSellLeg(ctx context.Context, symbol string, price decimal.Decimal, qty int) types.FillOutcome {
	start := time.Now()
	defer func() {
		LegDurationSeconds.WithLabelValues("sell").Observe(time.Since(start).Seconds())
	}()

	tl := types.NewTimeline()
	tl.Add("SELL: %d lots %s @ $%s", qty, symbol, price.StringFixed(2))

	filled, ok := s.oracle.SellFill(qty, 0)
	for !ok {
		if !s.wait(ctx, s.sellPollInterval) {
			break
		}
		elapsed := time.Since(start)
		if elapsed >= s.sellFillTimeout {
			break
		}
		filled, ok = s.oracle.SellFill(qty, elapsed)
	}

	if !ok {
		tl.Add("SELL TIMEOUT: 0/%d lots filled, order cancelled", qty)
		SellTimeoutsTotal.Inc()
		s.logger.Info("sell-leg-timeout",
			zap.String("symbol", symbol),
			zap.Int("requested-qty", qty))
		return types.FillOutcome{
			RequestedQty: qty,
			FilledQty:    0,
			FinalPrice:   price,
			Timeline:     tl,
		}
	}

	if filled > qty {
		filled = qty
	}

	if filled == qty {
		tl.Add("SELL filled: %d lots @ $%s", filled, price.StringFixed(2))
	} else {
		tl.Add("SELL filled: %d/%d lots @ $%s", filled, qty, price.StringFixed(2))
		tl.Add("SELL: %d lots CANCELLED", qty-filled)
	}

	s.logger.Info("sell-leg-filled",
		zap.String("symbol", symbol),
		zap.Int("requested-qty", qty),
		zap.Int("filled-qty", filled))

	return types.FillOutcome{
		RequestedQty: qty,
		FilledQty:    filled,
		FinalPrice:   price,
		Timeline:     tl,
	}
}

// ExecuteBuyLeg works the buy order through at most three price tiers:
// the original ask, the ask plus one increment, then the sell price
// itself. Clamping the final tier to the sell price guarantees the spread
// can never invert beyond zero cost. Exhausting all tiers without a fill
// yields FilledQty zero (abandoned).
func (s *Simulator) ExecuteBuyLeg(
	ctx context.Context,
	symbol string,
	askPrice, sellPrice, increment decimal.Decimal,
	qty int,
) types.FillOutcome {
	start := time.Now()
	defer func() {
		LegDurationSeconds.WithLabelValues("buy").Observe(time.Since(start).Seconds())
	}()

	tl := types.NewTimeline()
	tiers := buyTiers(askPrice, sellPrice, increment)
	price := tiers[0]

	for tier, tierPrice := range tiers {
		price = tierPrice

		switch tier {
		case 0:
			tl.Add("BUY: %d lots %s @ $%s", qty, symbol, price.StringFixed(2))
		case len(tiers) - 1:
			tl.Add("BUY not filled → $%s (sell price)", price.StringFixed(2))
		default:
			tl.Add("BUY not filled → $%s", price.StringFixed(2))
		}

		tierStart := time.Now()
		for {
			if s.oracle.BuyFill(qty, tier, time.Since(tierStart)) {
				tl.Add("BUY filled: %d lots @ $%s", qty, price.StringFixed(2))
				s.logger.Info("buy-leg-filled",
					zap.String("symbol", symbol),
					zap.Int("qty", qty),
					zap.Int("tier", tier),
					zap.String("price", price.String()))
				return types.FillOutcome{
					RequestedQty: qty,
					FilledQty:    qty,
					FinalPrice:   price,
					Timeline:     tl,
				}
			}
			if time.Since(tierStart) >= s.buyTierWait {
				break
			}
			if !s.wait(ctx, s.sellPollInterval) {
				break
			}
		}
	}

	tl.Add("BUY ABANDONED: not filled at any tier")
	BuyAbandonsTotal.Inc()
	s.logger.Warn("buy-leg-abandoned",
		zap.String("symbol", symbol),
		zap.Int("qty", qty),
		zap.String("final-price", price.String()))

	return types.FillOutcome{
		RequestedQty: qty,
		FilledQty:    0,
		FinalPrice:   price,
		Timeline:     tl,
	}
}

// buyTiers builds the escalation ladder. Prices are monotonically
// non-decreasing and never exceed the sell price.
func buyTiers(askPrice, sellPrice, increment decimal.Decimal) []decimal.Decimal {
	clamp := func(p decimal.Decimal) decimal.Decimal {
		if p.GreaterThan(sellPrice) {
			return sellPrice
		}
		return p
	}

	return []decimal.Decimal{
		clamp(askPrice),
		clamp(askPrice.Add(increment)),
		sellPrice,
	}
}

// wait blocks for d or until the context is cancelled.
// Returns false on cancellation.
func (s *Simulator) wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
