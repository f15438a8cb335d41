package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/vk82313/crypto-arbitrage-bot/pkg/types"
)

// FormatStartup builds the bot-started announcement.
func FormatStartup(mode string, assets []string, minProfitByAsset map[string]string) string {
	var b strings.Builder
	b.WriteString("🤖 Arbitrage bot started\n")
	fmt.Fprintf(&b, "Mode: %s\n", mode)
	for _, asset := range assets {
		fmt.Fprintf(&b, "%s: $%s min profit\n", asset, minProfitByAsset[asset])
	}
	return b.String()
}

// FormatExpiryRollover builds the active-expiry change alert.
func FormatExpiryRollover(asset, previous, active, reason string) string {
	return fmt.Sprintf("🔄 %s expiry %s: %s → %s", asset, reason, previous, active)
}

// FormatPartialFill builds the partial sell fill alert.
func FormatPartialFill(res *types.TradeResult, orderedQty, filledQty int) string {
	return fmt.Sprintf(
		"⚠️ %s PARTIAL FILL\n%s %s spread %d → %d\nSell price: $%s\nOrder: %d lots | Filled: %d | Cancelled: %d\nAdjusting buy quantity to %d lots",
		res.Asset, res.Asset, res.LegType, res.LowerStrike, res.UpperStrike,
		res.SellPrice.StringFixed(2),
		orderedQty, filledQty, orderedQty-filledQty, filledQty,
	)
}

// FormatTradeResult builds the terminal alert for a completed trade.
func FormatTradeResult(res *types.TradeResult) string {
	switch res.Status {
	case types.StatusExecuted:
		return formatExecuted(res)
	case types.StatusSellTimeout:
		return formatSellTimeout(res)
	case types.StatusManualIntervention:
		return formatManualIntervention(res)
	default:
		return fmt.Sprintf("%s trade finished with status %s", res.Asset, res.Status)
	}
}

func formatExecuted(res *types.TradeResult) string {
	var b strings.Builder
	fillInfo := ""
	if res.SellFilledQty < res.OrderedQty {
		fillInfo = fmt.Sprintf(" (%d/%d filled)", res.SellFilledQty, res.OrderedQty)
	}

	status := "EXECUTED"
	if res.ProfitPerLot().IsZero() {
		status = "BREAK EVEN"
	}

	fmt.Fprintf(&b, "🤖 %s TRADE %s%s\n\n", res.Asset, status, fillInfo)
	fmt.Fprintf(&b, "%s %s spread %d → %d\n", res.Asset, res.LegType, res.LowerStrike, res.UpperStrike)
	fmt.Fprintf(&b, "Buy: $%s | Sell: $%s\n", res.BuyPrice.StringFixed(2), res.SellPrice.StringFixed(2))
	fmt.Fprintf(&b, "Lots: %d\n\n", res.BuyFilledQty)
	fmt.Fprintf(&b, "Execution timeline:\n%s\n\n", res.Timeline.String())
	fmt.Fprintf(&b, "Profit per lot: $%s\n", res.ProfitPerLot().StringFixed(2))
	fmt.Fprintf(&b, "Total P&L: $%s\n", res.TotalPnL.StringFixed(2))
	fmt.Fprintf(&b, "Completed: %s IST", res.CompletedAt.In(istZone).Format("15:04:05"))
	return b.String()
}

func formatSellTimeout(res *types.TradeResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⏰ %s SELL ORDER TIMEOUT\n\n", res.Asset)
	fmt.Fprintf(&b, "%s %s spread %d → %d\n", res.Asset, res.LegType, res.LowerStrike, res.UpperStrike)
	fmt.Fprintf(&b, "Attempted sell: $%s\n", res.SellPrice.StringFixed(2))
	fmt.Fprintf(&b, "Quantity: %d lots\n\n", res.OrderedQty)
	b.WriteString("No lots filled - order cancelled\nWaiting for next opportunity")
	return b.String()
}

func formatManualIntervention(res *types.TradeResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🚨 %s MANUAL INTERVENTION NEEDED\n\n", res.Asset)
	fmt.Fprintf(&b, "%s %s spread %d → %d\n", res.Asset, res.LegType, res.LowerStrike, res.UpperStrike)
	fmt.Fprintf(&b, "Sold: %d @ $%s | Buy attempted: $%s\n\n",
		res.SellFilledQty, res.SellPrice.StringFixed(2), res.FinalBuyPrice.StringFixed(2))
	fmt.Fprintf(&b, "Execution timeline:\n%s\n\n", res.Timeline.String())
	fmt.Fprintf(&b, "CURRENT POSITION: %d lots SHORT\n", res.ShortPosition)
	b.WriteString("Please handle manually")
	return b.String()
}

// FormatCritical builds the single best-effort alert emitted before a
// process-wide shutdown.
func FormatCritical(reason string, err error) string {
	if err != nil {
		return fmt.Sprintf("🚨 CRITICAL: %s: %v\nShutting down all workers", reason, err)
	}
	return fmt.Sprintf("🚨 CRITICAL: %s\nShutting down all workers", reason)
}

var istZone = time.FixedZone("IST", 5*60*60+30*60)
