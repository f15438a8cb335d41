package notify

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vk82313/crypto-arbitrage-bot/pkg/types"
)

func sampleResult(status types.TradeStatus) *types.TradeResult {
	tl := types.NewTimeline()
	tl.Add("SELL filled: 10 lots @ $2.00")

	return &types.TradeResult{
		ID:            "a1b2c3d4-0000-0000-0000-000000000000",
		Asset:         "ETH",
		LegType:       types.Call,
		LowerStrike:   100,
		UpperStrike:   105,
		BuyPrice:      decimal.RequireFromString("1.50"),
		SellPrice:     decimal.RequireFromString("2.00"),
		Status:        status,
		OrderedQty:    10,
		SellFilledQty: 10,
		BuyFilledQty:  10,
		FinalBuyPrice: decimal.RequireFromString("1.50"),
		TotalPnL:      decimal.RequireFromString("5.00"),
		Timeline:      tl,
		CompletedAt:   time.Date(2025, 1, 31, 9, 0, 0, 0, time.UTC),
	}
}

func TestFormatStartup(t *testing.T) {
	got := FormatStartup("paper", []string{"ETH", "BTC"}, map[string]string{
		"ETH": "0.2",
		"BTC": "3",
	})

	for _, want := range []string{"Mode: paper", "ETH: $0.2 min profit", "BTC: $3 min profit"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatExpiryRollover(t *testing.T) {
	got := FormatExpiryRollover("ETH", "010225", "020225", "rollover")
	if !strings.Contains(got, "010225 → 020225") {
		t.Errorf("unexpected format: %s", got)
	}
}

func TestFormatTradeResultExecuted(t *testing.T) {
	got := FormatTradeResult(sampleResult(types.StatusExecuted))

	for _, want := range []string{
		"ETH TRADE EXECUTED",
		"CALL spread 100 → 105",
		"Buy: $1.50 | Sell: $2.00",
		"Profit per lot: $0.50",
		"Total P&L: $5.00",
		"SELL filled: 10 lots",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatTradeResultBreakEven(t *testing.T) {
	res := sampleResult(types.StatusExecuted)
	res.FinalBuyPrice = res.SellPrice
	res.TotalPnL = decimal.Zero

	got := FormatTradeResult(res)
	if !strings.Contains(got, "BREAK EVEN") {
		t.Errorf("expected break-even label:\n%s", got)
	}
}

func TestFormatTradeResultPartialNote(t *testing.T) {
	res := sampleResult(types.StatusExecuted)
	res.SellFilledQty = 7
	res.BuyFilledQty = 7

	got := FormatTradeResult(res)
	if !strings.Contains(got, "(7/10 filled)") {
		t.Errorf("expected fill ratio note:\n%s", got)
	}
}

func TestFormatTradeResultSellTimeout(t *testing.T) {
	res := sampleResult(types.StatusSellTimeout)
	res.SellFilledQty = 0
	res.BuyFilledQty = 0

	got := FormatTradeResult(res)
	for _, want := range []string{"SELL ORDER TIMEOUT", "No lots filled"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatTradeResultManualIntervention(t *testing.T) {
	res := sampleResult(types.StatusManualIntervention)
	res.BuyFilledQty = 0
	res.ShortPosition = 10

	got := FormatTradeResult(res)
	for _, want := range []string{
		"MANUAL INTERVENTION NEEDED",
		"CURRENT POSITION: 10 lots SHORT",
		"Please handle manually",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatPartialFill(t *testing.T) {
	got := FormatPartialFill(sampleResult(types.StatusExecuted), 10, 7)

	for _, want := range []string{
		"PARTIAL FILL",
		"Order: 10 lots | Filled: 7 | Cancelled: 3",
		"Adjusting buy quantity to 7 lots",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatCritical(t *testing.T) {
	got := FormatCritical("halting all workers", nil)
	if !strings.Contains(got, "CRITICAL") || !strings.Contains(got, "Shutting down all workers") {
		t.Errorf("unexpected format: %s", got)
	}
	if strings.Contains(got, "—") {
		t.Errorf("alert text should use plain separators: %s", got)
	}

	withErr := FormatCritical("halting all workers", errors.New("out of memory"))
	if !strings.Contains(withErr, "out of memory") {
		t.Errorf("cause missing from alert: %s", withErr)
	}
}
