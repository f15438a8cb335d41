package execution

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vk82313/crypto-arbitrage-bot/internal/notify"
	"github.com/vk82313/crypto-arbitrage-bot/internal/scanner"
	"github.com/vk82313/crypto-arbitrage-bot/pkg/types"
	"go.uber.org/zap"
)

// Coordinator orchestrates one full arbitrage trade: size it, execute the
// sell leg, propagate the actual filled quantity into the buy leg, iterate
// while residual size remains.
type Coordinator struct {
	sim         *Simulator
	perTradeCap int
	perCycleCap int
	notifier    notify.Notifier
	logger      *zap.Logger
}

// CoordinatorConfig holds coordinator configuration.
type CoordinatorConfig struct {
	Simulator   *Simulator
	PerTradeCap int
	PerCycleCap int
	Notifier    notify.Notifier
	Logger      *zap.Logger
}

// NewCoordinator creates a trade coordinator.
func NewCoordinator(cfg *CoordinatorConfig) *Coordinator {
	perCycle := cfg.PerCycleCap
	if perCycle <= 0 {
		perCycle = cfg.PerTradeCap
	}
	return &Coordinator{
		sim:         cfg.Simulator,
		perTradeCap: cfg.PerTradeCap,
		perCycleCap: perCycle,
		notifier:    cfg.Notifier,
		logger:      cfg.Logger,
	}
}

// ExecuteOpportunity runs sell→buy cycles against one opportunity until
// the tradable quantity is exhausted or a leg fails. The buy leg of each
// cycle is sized to exactly the sell leg's filled quantity: the strategy
// never goes long more than it sold, and never drops a short without
// flagging it for manual intervention.
func (c *Coordinator) ExecuteOpportunity(
	ctx context.Context,
	opp *scanner.Opportunity,
	priceIncrement decimal.Decimal,
) *types.TradeResult {
	res := &types.TradeResult{
		ID:            uuid.New().String(),
		Asset:         opp.Asset,
		OpportunityID: opp.ID,
		LegType:       opp.LegType,
		LowerStrike:   opp.LowerStrike,
		UpperStrike:   opp.UpperStrike,
		BuySymbol:     opp.BuySymbol,
		SellSymbol:    opp.SellSymbol,
		BuyPrice:      opp.BuyPrice,
		SellPrice:     opp.SellPrice,
		FinalBuyPrice: opp.BuyPrice,
		TotalPnL:      decimal.Zero,
		Timeline:      types.NewTimeline(),
		Status:        types.StatusExecuted,
	}

	maxQty := minInt(opp.BuyQtyAvailable, opp.SellQtyAvailable, c.perTradeCap)
	res.OrderedQty = maxQty

	if maxQty < 1 {
		res.Status = types.StatusNoQuantity
		res.CompletedAt = time.Now()
		c.logger.Info("trade-skipped-no-quantity",
			zap.String("asset", opp.Asset),
			zap.Int("buy-qty-available", opp.BuyQtyAvailable),
			zap.Int("sell-qty-available", opp.SellQtyAvailable))
		return res
	}

	c.logger.Info("trade-starting",
		zap.String("trade-id", res.ID),
		zap.String("asset", opp.Asset),
		zap.String("leg-type", string(opp.LegType)),
		zap.Int("lower-strike", opp.LowerStrike),
		zap.Int("upper-strike", opp.UpperStrike),
		zap.Int("max-qty", maxQty))

	residual := maxQty

	for residual > 0 {
		cycleQty := residual
		if cycleQty > c.perCycleCap {
			cycleQty = c.perCycleCap
		}

		sellOut := c.sim.ExecuteSellLeg(ctx, opp.SellSymbol, opp.SellPrice, cycleQty)
		res.Timeline.Append(sellOut.Timeline)

		if sellOut.FilledQty == 0 {
			res.Status = types.StatusSellTimeout
			break
		}

		res.SellFilledQty += sellOut.FilledQty

		if sellOut.FilledQty < cycleQty {
			c.notify(ctx, notify.FormatPartialFill(res, cycleQty, sellOut.FilledQty))
		}

		// Buy exactly what was sold this cycle, never the requested size.
		buyOut := c.sim.ExecuteBuyLeg(ctx, opp.BuySymbol, opp.BuyPrice, opp.SellPrice, priceIncrement, sellOut.FilledQty)
		res.Timeline.Append(buyOut.Timeline)
		res.FinalBuyPrice = buyOut.FinalPrice

		if buyOut.FilledQty == 0 {
			res.Status = types.StatusManualIntervention
			res.ShortPosition = res.SellFilledQty - res.BuyFilledQty
			break
		}

		res.BuyFilledQty += buyOut.FilledQty
		profit := opp.SellPrice.Sub(buyOut.FinalPrice).Mul(decimal.NewFromInt(int64(buyOut.FilledQty)))
		res.TotalPnL = res.TotalPnL.Add(profit)

		residual -= sellOut.FilledQty
	}

	res.CompletedAt = time.Now()

	TradesTotal.WithLabelValues(res.Asset, string(res.Status)).Inc()
	if res.Status == types.StatusExecuted {
		pnl, _ := res.TotalPnL.Float64()
		ProfitTotal.WithLabelValues(res.Asset).Add(pnl)
	}

	c.logger.Info("trade-finished",
		zap.String("trade-id", res.ID),
		zap.String("status", string(res.Status)),
		zap.Int("ordered-qty", res.OrderedQty),
		zap.Int("sell-filled-qty", res.SellFilledQty),
		zap.Int("buy-filled-qty", res.BuyFilledQty),
		zap.String("total-pnl", res.TotalPnL.String()))

	return res
}

func (c *Coordinator) notify(ctx context.Context, text string) {
	if c.notifier == nil {
		return
	}
	err := c.notifier.Send(ctx, text)
	if err != nil {
		c.logger.Warn("trade-alert-failed", zap.Error(err))
	}
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
