package storage

import (
	"context"
	"fmt"

	"github.com/vk82313/crypto-arbitrage-bot/pkg/types"
	"go.uber.org/zap"
)

// ConsoleStorage implements Storage by pretty-printing to console.
type ConsoleStorage struct {
	logger *zap.Logger
}

// NewConsoleStorage creates a new console storage.
func NewConsoleStorage(logger *zap.Logger) *ConsoleStorage {
	logger.Info("console-storage-initialized")
	return &ConsoleStorage{
		logger: logger,
	}
}

// StoreTradeResult pretty-prints a trade result to console.
func (c *ConsoleStorage) StoreTradeResult(ctx context.Context, res *types.TradeResult) error {
	divider := "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

	fmt.Println("\n" + divider)
	fmt.Printf("📊 TRADE %s\n", res.Status)
	fmt.Println(divider)
	fmt.Printf("ID:      %s\n", res.ID[:8])
	fmt.Printf("Asset:   %s %s spread %d → %d\n", res.Asset, res.LegType, res.LowerStrike, res.UpperStrike)
	fmt.Printf("Legs:    buy %s | sell %s\n", res.BuySymbol, res.SellSymbol)
	fmt.Printf("Prices:  buy $%s | sell $%s\n", res.BuyPrice.StringFixed(2), res.SellPrice.StringFixed(2))
	fmt.Printf("Lots:    ordered %d | sold %d | bought %d\n", res.OrderedQty, res.SellFilledQty, res.BuyFilledQty)
	if res.ShortPosition > 0 {
		fmt.Printf("⚠️  SHORT: %d lots open\n", res.ShortPosition)
	}
	fmt.Println(divider)
	if res.Timeline != nil && len(res.Timeline.Events()) > 0 {
		fmt.Println("⏰ EXECUTION TIMELINE")
		fmt.Println(res.Timeline.String())
		fmt.Println(divider)
	}
	fmt.Printf("💰 Profit/lot: $%s | Total P&L: $%s\n", res.ProfitPerLot().StringFixed(2), res.TotalPnL.StringFixed(2))
	fmt.Println(divider)

	return nil
}

// Close is a no-op for console storage.
func (c *ConsoleStorage) Close() error {
	c.logger.Info("closing-console-storage")
	return nil
}
