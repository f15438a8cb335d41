package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/vk82313/crypto-arbitrage-bot/pkg/types"
	"go.uber.org/zap"
)

// PostgresStorage implements Storage using PostgreSQL.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStorage creates a new PostgreSQL storage.
func NewPostgresStorage(cfg *PostgresConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-storage-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStorage{
		db:     db,
		logger: cfg.Logger,
	}, nil
}

// StoreTradeResult inserts one completed trade into the trades table.
func (p *PostgresStorage) StoreTradeResult(ctx context.Context, res *types.TradeResult) error {
	query := `
		INSERT INTO trades (
			id, asset, opportunity_id, leg_type, lower_strike, upper_strike,
			buy_symbol, sell_symbol, buy_price, sell_price, status,
			ordered_qty, sell_filled_qty, buy_filled_qty, final_buy_price,
			short_position, total_pnl, timeline, completed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
		)
	`

	var timelineText string
	if res.Timeline != nil {
		timelineText = res.Timeline.String()
	}

	_, err := p.db.ExecContext(ctx, query,
		res.ID,
		res.Asset,
		res.OpportunityID,
		string(res.LegType),
		res.LowerStrike,
		res.UpperStrike,
		res.BuySymbol,
		res.SellSymbol,
		res.BuyPrice.String(),
		res.SellPrice.String(),
		string(res.Status),
		res.OrderedQty,
		res.SellFilledQty,
		res.BuyFilledQty,
		res.FinalBuyPrice.String(),
		res.ShortPosition,
		res.TotalPnL.String(),
		timelineText,
		res.CompletedAt,
	)

	if err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}

	p.logger.Debug("trade-stored",
		zap.String("trade-id", res.ID),
		zap.String("asset", res.Asset),
		zap.String("status", string(res.Status)))

	return nil
}

// Close closes the database connection.
func (p *PostgresStorage) Close() error {
	p.logger.Info("closing-postgres-storage")
	return p.db.Close()
}
