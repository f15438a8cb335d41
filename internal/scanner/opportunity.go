package scanner

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vk82313/crypto-arbitrage-bot/pkg/types"
)

// Opportunity is one profitable adjacent-strike spread. It lives for one
// scan cycle: recomputed on the next snapshot, never mutated.
type Opportunity struct {
	ID               string
	Asset            string
	LegType          types.OptionType
	LowerStrike      int
	UpperStrike      int
	BuySymbol        string
	SellSymbol       string
	BuyPrice         decimal.Decimal
	SellPrice        decimal.Decimal
	BuyQtyAvailable  int
	SellQtyAvailable int
	ProfitPerLot     decimal.Decimal
	DetectedAt       time.Time
}

func newOpportunity(
	asset string,
	legType types.OptionType,
	lowerStrike, upperStrike int,
	buy, sell types.Quote,
	buyPrice, sellPrice decimal.Decimal,
) *Opportunity {
	return &Opportunity{
		ID:               uuid.New().String(),
		Asset:            asset,
		LegType:          legType,
		LowerStrike:      lowerStrike,
		UpperStrike:      upperStrike,
		BuySymbol:        buy.Symbol,
		SellSymbol:       sell.Symbol,
		BuyPrice:         buyPrice,
		SellPrice:        sellPrice,
		BuyQtyAvailable:  buy.AvailableQty,
		SellQtyAvailable: sell.AvailableQty,
		ProfitPerLot:     sellPrice.Sub(buyPrice),
		DetectedAt:       time.Now(),
	}
}

// String returns a human-readable representation of the opportunity.
func (o *Opportunity) String() string {
	return fmt.Sprintf(
		"Opportunity[%s] %s %s %d→%d buy=%s sell=%s profit=%s/lot",
		o.ID[:8],
		o.Asset,
		o.LegType,
		o.LowerStrike,
		o.UpperStrike,
		o.BuyPrice.StringFixed(2),
		o.SellPrice.StringFixed(2),
		o.ProfitPerLot.StringFixed(2),
	)
}
