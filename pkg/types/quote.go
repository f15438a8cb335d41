package types

import (
	"github.com/shopspring/decimal"
)

// Quote is an immutable snapshot of one instrument's top of book.
// Snapshots are replaced wholesale on each refresh, never mutated in place.
type Quote struct {
	Symbol       string
	Asset        string
	Strike       int
	OptionType   OptionType
	Bid          decimal.Decimal
	Ask          decimal.Decimal
	AvailableQty int
}
