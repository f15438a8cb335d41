package execution

import (
	"testing"
	"time"
)

func TestSimulatedOracleSellFillBounds(t *testing.T) {
	oracle := NewSimulatedOracle(42)

	fills := 0
	for i := 0; i < 1000; i++ {
		qty, ok := oracle.SellFill(10, 0)
		if !ok {
			continue
		}
		fills++
		if qty < 1 || qty > 10 {
			t.Fatalf("fill quantity out of bounds: %d", qty)
		}
	}

	// Placement draws fill ~60% of the time; anything in a wide band is fine.
	if fills < 400 || fills > 800 {
		t.Errorf("placement fill rate implausible: %d/1000", fills)
	}
}

func TestSimulatedOracleSmallOrdersFloorAtOneLot(t *testing.T) {
	oracle := NewSimulatedOracle(7)

	for i := 0; i < 1000; i++ {
		qty, ok := oracle.SellFill(1, 0)
		if ok && qty != 1 {
			t.Fatalf("one-lot order filled %d lots", qty)
		}
	}
}

func TestSimulatedOracleBuyFillEscalation(t *testing.T) {
	oracle := NewSimulatedOracle(42)

	counts := make([]int, 3)
	for i := 0; i < 2000; i++ {
		for tier := 0; tier < 3; tier++ {
			if oracle.BuyFill(5, tier, time.Millisecond) {
				counts[tier]++
			}
		}
	}

	// Conditional tier chances are 0.40, 0.50, 0.65: strictly increasing.
	if !(counts[0] < counts[1] && counts[1] < counts[2]) {
		t.Errorf("fill likelihood should rise with price tier: %v", counts)
	}
}

func TestSimulatedOracleReproducibleWithSeed(t *testing.T) {
	a := NewSimulatedOracle(123)
	b := NewSimulatedOracle(123)

	for i := 0; i < 100; i++ {
		qtyA, okA := a.SellFill(10, 0)
		qtyB, okB := b.SellFill(10, 0)
		if qtyA != qtyB || okA != okB {
			t.Fatalf("draw %d diverged: (%d,%v) vs (%d,%v)", i, qtyA, okA, qtyB, okB)
		}
	}
}
