package storage

import (
	"context"

	"github.com/vk82313/crypto-arbitrage-bot/pkg/types"
)

// Storage is the interface for recording trade results.
type Storage interface {
	// StoreTradeResult records one completed trade.
	StoreTradeResult(ctx context.Context, res *types.TradeResult) error

	// Close closes the storage connection.
	Close() error
}
