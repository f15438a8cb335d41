package execution

import (
	"math/rand"
	"sync"
	"time"
)

// FillOracle decides the fate of placed orders. The probabilistic
// implementation below stands in for a real matching engine; a live
// order-routing adapter can be substituted without touching the
// simulator or the coordinator.
type FillOracle interface {
	// SellFill reports whether a resting sell order fills at this poll,
	// and for how many lots. elapsed is zero on the placement draw.
	// A successful fill is always at least one lot.
	SellFill(requestedQty int, elapsed time.Duration) (filledQty int, filled bool)

	// BuyFill reports whether a buy order fills at the given price tier.
	// Tier 0 is the original ask, tier 1 the incremented price, tier 2
	// the sell price itself.
	BuyFill(requestedQty int, tier int, elapsed time.Duration) bool
}

// SimulatedOracle draws fill outcomes from weighted distributions
// calibrated to plausible paper-trading behavior.
type SimulatedOracle struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedOracle creates a simulated fill oracle. A fixed seed makes
// runs reproducible; pass 0 to seed from the clock.
func NewSimulatedOracle(seed int64) *SimulatedOracle {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SimulatedOracle{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// SellFill draws the fill decision, then the filled quantity. Quantity is
// weighted toward a full fill with small mass on partial shortfalls.
func (o *SimulatedOracle) SellFill(requestedQty int, elapsed time.Duration) (int, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	fillChance := 0.5
	if elapsed == 0 {
		// Immediate-fill draw on placement.
		fillChance = 0.6
	}
	if o.rng.Float64() >= fillChance {
		return 0, false
	}

	qty := o.weightedQty(requestedQty)
	if qty < 1 {
		qty = 1
	}
	if qty > requestedQty {
		qty = requestedQty
	}

	return qty, true
}

// weightedQty mirrors the distribution used in paper trading:
// 60% full fill, 10% each short by one, two or three lots, 10% at 70%.
func (o *SimulatedOracle) weightedQty(requested int) int {
	r := o.rng.Float64()
	switch {
	case r < 0.6:
		return requested
	case r < 0.7:
		return requested - 1
	case r < 0.8:
		return requested - 2
	case r < 0.9:
		return requested - 3
	default:
		return int(float64(requested) * 0.7)
	}
}

// BuyFill fills with increasing likelihood as the price escalates:
// conditional on reaching a tier, the chances are 40%, 50% and 65%,
// leaving roughly a one-in-ten chance of abandoning the buy entirely.
func (o *SimulatedOracle) BuyFill(requestedQty int, tier int, elapsed time.Duration) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	var chance float64
	switch tier {
	case 0:
		chance = 0.4
	case 1:
		chance = 0.5
	default:
		chance = 0.65
	}

	return o.rng.Float64() < chance
}
