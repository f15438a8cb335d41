package execution

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// stubOracle scripts fill decisions so leg behavior is deterministic.
type stubOracle struct {
	sellFn func(requestedQty int, elapsed time.Duration) (int, bool)
	buyFn  func(requestedQty, tier int, elapsed time.Duration) bool
}

func (o *stubOracle) SellFill(requestedQty int, elapsed time.Duration) (int, bool) {
	return o.sellFn(requestedQty, elapsed)
}

func (o *stubOracle) BuyFill(requestedQty, tier int, elapsed time.Duration) bool {
	return o.buyFn(requestedQty, tier, elapsed)
}

func neverSell(int, time.Duration) (int, bool)      { return 0, false }
func neverBuy(int, int, time.Duration) bool         { return false }
func fullSell(qty int, _ time.Duration) (int, bool) { return qty, true }

func newTestSimulator(oracle FillOracle) *Simulator {
	logger, _ := zap.NewDevelopment()
	return NewSimulator(&SimulatorConfig{
		Oracle:           oracle,
		SellFillTimeout:  30 * time.Millisecond,
		SellPollInterval: 5 * time.Millisecond,
		BuyTierWait:      10 * time.Millisecond,
		Logger:           logger,
	})
}

func TestSellLegFullFill(t *testing.T) {
	sim := newTestSimulator(&stubOracle{sellFn: fullSell, buyFn: neverBuy})

	out := sim.ExecuteSellLeg(context.Background(), "C-ETH-105-310125", dec("2.00"), 10)

	if out.FilledQty != 10 || out.RequestedQty != 10 {
		t.Errorf("fill: got %d/%d, want 10/10", out.FilledQty, out.RequestedQty)
	}
	if !out.FinalPrice.Equal(dec("2.00")) {
		t.Errorf("price: got %s", out.FinalPrice)
	}
	if !strings.Contains(out.Timeline.String(), "SELL filled: 10 lots") {
		t.Errorf("timeline missing fill event:\n%s", out.Timeline)
	}
}

func TestSellLegPartialFill(t *testing.T) {
	oracle := &stubOracle{
		sellFn: func(qty int, _ time.Duration) (int, bool) { return 7, true },
		buyFn:  neverBuy,
	}
	sim := newTestSimulator(oracle)

	out := sim.ExecuteSellLeg(context.Background(), "C-ETH-105-310125", dec("2.00"), 10)

	if out.FilledQty != 7 {
		t.Errorf("filled qty: got %d, want 7", out.FilledQty)
	}
	tl := out.Timeline.String()
	if !strings.Contains(tl, "SELL filled: 7/10 lots") {
		t.Errorf("timeline missing partial fill event:\n%s", tl)
	}
	if !strings.Contains(tl, "SELL: 3 lots CANCELLED") {
		t.Errorf("timeline missing cancellation event:\n%s", tl)
	}
}

func TestSellLegFillsOnLaterPoll(t *testing.T) {
	polls := 0
	oracle := &stubOracle{
		sellFn: func(qty int, elapsed time.Duration) (int, bool) {
			polls++
			if polls < 3 {
				return 0, false
			}
			return qty, true
		},
		buyFn: neverBuy,
	}
	sim := newTestSimulator(oracle)

	out := sim.ExecuteSellLeg(context.Background(), "C-ETH-105-310125", dec("2.00"), 5)

	if out.FilledQty != 5 {
		t.Errorf("filled qty: got %d, want 5", out.FilledQty)
	}
	if polls != 3 {
		t.Errorf("polls: got %d, want 3", polls)
	}
}

func TestSellLegTimeout(t *testing.T) {
	sim := newTestSimulator(&stubOracle{sellFn: neverSell, buyFn: neverBuy})

	start := time.Now()
	out := sim.ExecuteSellLeg(context.Background(), "C-ETH-105-310125", dec("2.00"), 10)

	if out.FilledQty != 0 {
		t.Errorf("filled qty after timeout: got %d, want 0", out.FilledQty)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("gave up before the timeout: %s", elapsed)
	}
	if !strings.Contains(out.Timeline.String(), "SELL TIMEOUT") {
		t.Errorf("timeline missing timeout event:\n%s", out.Timeline)
	}
}

func TestSellLegClampsOverfill(t *testing.T) {
	oracle := &stubOracle{
		sellFn: func(qty int, _ time.Duration) (int, bool) { return qty + 5, true },
		buyFn:  neverBuy,
	}
	sim := newTestSimulator(oracle)

	out := sim.ExecuteSellLeg(context.Background(), "C-ETH-105-310125", dec("2.00"), 10)
	if out.FilledQty != 10 {
		t.Errorf("fill must never exceed request: got %d", out.FilledQty)
	}
}

func TestBuyLegFillsAtOriginalAsk(t *testing.T) {
	oracle := &stubOracle{
		sellFn: neverSell,
		buyFn:  func(_, tier int, _ time.Duration) bool { return tier == 0 },
	}
	sim := newTestSimulator(oracle)

	out := sim.ExecuteBuyLeg(context.Background(), "C-ETH-100-310125", dec("1.50"), dec("2.00"), dec("0.10"), 7)

	if out.FilledQty != 7 {
		t.Errorf("filled qty: got %d, want 7", out.FilledQty)
	}
	if !out.FinalPrice.Equal(dec("1.50")) {
		t.Errorf("fill price: got %s, want 1.50", out.FinalPrice)
	}
}

func TestBuyLegEscalatesToSellPrice(t *testing.T) {
	var tierPrices []int
	oracle := &stubOracle{
		sellFn: neverSell,
		buyFn: func(_, tier int, _ time.Duration) bool {
			tierPrices = append(tierPrices, tier)
			return tier == 2
		},
	}
	sim := newTestSimulator(oracle)

	out := sim.ExecuteBuyLeg(context.Background(), "C-ETH-100-310125", dec("1.50"), dec("2.00"), dec("0.10"), 7)

	if out.FilledQty != 7 {
		t.Fatalf("filled qty: got %d, want 7", out.FilledQty)
	}
	// Break-even fill at the sell price, never above.
	if !out.FinalPrice.Equal(dec("2.00")) {
		t.Errorf("fill price: got %s, want 2.00", out.FinalPrice)
	}
	if tierPrices[0] != 0 {
		t.Errorf("escalation must start at the original ask, got tier %d", tierPrices[0])
	}
}

func TestBuyLegAbandoned(t *testing.T) {
	sim := newTestSimulator(&stubOracle{sellFn: neverSell, buyFn: neverBuy})

	out := sim.ExecuteBuyLeg(context.Background(), "C-ETH-100-310125", dec("1.50"), dec("2.00"), dec("0.10"), 7)

	if out.FilledQty != 0 {
		t.Errorf("abandoned buy must fill zero, got %d", out.FilledQty)
	}
	if !strings.Contains(out.Timeline.String(), "BUY ABANDONED") {
		t.Errorf("timeline missing abandon event:\n%s", out.Timeline)
	}
	// The last price worked was the sell price tier.
	if !out.FinalPrice.Equal(dec("2.00")) {
		t.Errorf("final attempted price: got %s, want 2.00", out.FinalPrice)
	}
}

func TestBuyTiersMonotonicAndCapped(t *testing.T) {
	tests := []struct {
		name      string
		ask       string
		sell      string
		increment string
		want      []string
	}{
		{"normal-ladder", "1.50", "2.00", "0.10", []string{"1.50", "1.60", "2.00"}},
		{"increment-overshoots", "1.95", "2.00", "0.10", []string{"1.95", "2.00", "2.00"}},
		{"ask-above-sell", "2.10", "2.00", "0.10", []string{"2.00", "2.00", "2.00"}},
		{"ask-equals-sell", "2.00", "2.00", "0.10", []string{"2.00", "2.00", "2.00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiers := buyTiers(dec(tt.ask), dec(tt.sell), dec(tt.increment))
			if len(tiers) != 3 {
				t.Fatalf("expected 3 tiers, got %d", len(tiers))
			}
			sell := dec(tt.sell)
			for i, tier := range tiers {
				if !tier.Equal(dec(tt.want[i])) {
					t.Errorf("tier %d: got %s, want %s", i, tier, tt.want[i])
				}
				if tier.GreaterThan(sell) {
					t.Errorf("tier %d price %s exceeds sell price %s", i, tier, sell)
				}
				if i > 0 && tier.LessThan(tiers[i-1]) {
					t.Errorf("tier %d price %s below tier %d", i, tier, i-1)
				}
			}
		})
	}
}

func TestLegsRespectContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := newTestSimulator(&stubOracle{sellFn: neverSell, buyFn: neverBuy})

	out := sim.ExecuteSellLeg(ctx, "C-ETH-105-310125", dec("2.00"), 10)
	if out.FilledQty != 0 {
		t.Errorf("cancelled sell should not fill, got %d", out.FilledQty)
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
