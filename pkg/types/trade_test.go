package types

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func fixedClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(step)
		return t
	}
}

func TestTimelineOrderAndFormat(t *testing.T) {
	start := time.Date(2025, 1, 31, 10, 15, 0, 0, time.UTC)
	tl := NewTimelineWithClock(fixedClock(start, time.Second))

	tl.Add("SELL: %d lots", 10)
	tl.Add("SELL filled: %d lots", 7)

	events := tl.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Event != "SELL: 10 lots" {
		t.Errorf("unexpected first event %q", events[0].Event)
	}
	if !events[1].At.After(events[0].At) {
		t.Error("events out of chronological order")
	}

	rendered := tl.String()
	if !strings.Contains(rendered, "[10:15:00] SELL: 10 lots") {
		t.Errorf("unexpected rendering:\n%s", rendered)
	}
	if len(strings.Split(rendered, "\n")) != 2 {
		t.Errorf("expected one line per event:\n%s", rendered)
	}
}

func TestTimelineAppend(t *testing.T) {
	start := time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)
	sell := NewTimelineWithClock(fixedClock(start, time.Second))
	sell.Add("SELL placed")

	buy := NewTimelineWithClock(fixedClock(start.Add(time.Minute), time.Second))
	buy.Add("BUY placed")
	buy.Add("BUY filled")

	sell.Append(buy)
	sell.Append(nil) // no-op

	events := sell.Events()
	if len(events) != 3 {
		t.Fatalf("expected 3 events after append, got %d", len(events))
	}
	if events[1].Event != "BUY placed" || events[2].Event != "BUY filled" {
		t.Errorf("appended events out of order: %+v", events)
	}
}

func TestEmptyTimelineString(t *testing.T) {
	tl := NewTimeline()
	if tl.String() != "" {
		t.Errorf("empty timeline should render empty, got %q", tl.String())
	}
}

func TestProfitPerLot(t *testing.T) {
	res := &TradeResult{
		SellPrice:     decimal.RequireFromString("2.00"),
		FinalBuyPrice: decimal.RequireFromString("1.60"),
	}

	if !res.ProfitPerLot().Equal(decimal.RequireFromString("0.40")) {
		t.Errorf("profit per lot: got %s, want 0.40", res.ProfitPerLot())
	}

	// Escalated to the sell price: break even, never negative.
	res.FinalBuyPrice = res.SellPrice
	if !res.ProfitPerLot().IsZero() {
		t.Errorf("expected zero profit at sell price, got %s", res.ProfitPerLot())
	}
}
