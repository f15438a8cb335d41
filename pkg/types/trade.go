package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimelineEvent is one timestamped, human-readable step of a trade.
type TimelineEvent struct {
	At    time.Time
	Event string
}

// Timeline is an append-only execution log. Entries stay in append order,
// which is chronological as long as segments are appended in sequence.
type Timeline struct {
	events []TimelineEvent
	now    func() time.Time
}

// NewTimeline creates an empty timeline stamping events with time.Now.
func NewTimeline() *Timeline {
	return &Timeline{now: time.Now}
}

// NewTimelineWithClock creates a timeline with an injected clock.
func NewTimelineWithClock(now func() time.Time) *Timeline {
	return &Timeline{now: now}
}

// Add appends one event stamped with the current time.
func (t *Timeline) Add(format string, args ...any) {
	t.events = append(t.events, TimelineEvent{
		At:    t.now(),
		Event: fmt.Sprintf(format, args...),
	})
}

// Append concatenates another timeline's events after this one's.
func (t *Timeline) Append(other *Timeline) {
	if other == nil {
		return
	}
	t.events = append(t.events, other.events...)
}

// Events returns the recorded events in append order.
func (t *Timeline) Events() []TimelineEvent {
	return t.events
}

// String renders the timeline one event per line.
func (t *Timeline) String() string {
	var b strings.Builder
	for i, ev := range t.events {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[%s] %s", ev.At.Format("15:04:05"), ev.Event)
	}
	return b.String()
}

// FillOutcome is the result of one leg's life in the order book.
// Invariant: 0 <= FilledQty <= RequestedQty.
type FillOutcome struct {
	RequestedQty int
	FilledQty    int
	FinalPrice   decimal.Decimal
	Timeline     *Timeline
}

// TradeStatus is the terminal outcome of one arbitrage trade.
type TradeStatus string

const (
	// StatusExecuted means every sell/buy cycle completed.
	StatusExecuted TradeStatus = "EXECUTED"
	// StatusSellTimeout means the sell leg expired with no fill.
	StatusSellTimeout TradeStatus = "SELL_TIMEOUT"
	// StatusManualIntervention means the buy leg was abandoned leaving a
	// short position that a human has to reconcile.
	StatusManualIntervention TradeStatus = "MANUAL_INTERVENTION_NEEDED"
	// StatusNoQuantity means no tradable quantity was available.
	StatusNoQuantity TradeStatus = "NO_QUANTITY"
)

// TradeResult aggregates the sell/buy cycles run against one opportunity.
// Invariant: BuyFilledQty never exceeds SellFilledQty.
type TradeResult struct {
	ID            string
	Asset         string
	OpportunityID string
	LegType       OptionType
	LowerStrike   int
	UpperStrike   int
	BuySymbol     string
	SellSymbol    string
	BuyPrice      decimal.Decimal
	SellPrice     decimal.Decimal
	Status        TradeStatus
	OrderedQty    int
	SellFilledQty int
	BuyFilledQty  int
	FinalBuyPrice decimal.Decimal
	ShortPosition int
	TotalPnL      decimal.Decimal
	Timeline      *Timeline
	CompletedAt   time.Time
}

// ProfitPerLot is the realized margin of the last completed cycle.
func (r *TradeResult) ProfitPerLot() decimal.Decimal {
	return r.SellPrice.Sub(r.FinalBuyPrice)
}
