package notifier

import (
	"fmt"
	"html"
	"strings"

	"SignalDesk/internal/model"
)

const timeLayout = "2006-01-02 15:04"

func directionIcon(d model.Direction) string {
	if d == model.DirectionBuy {
		return "🟢"
	}
	return "🔴"
}

func statusIcon(s model.Status) string {
	switch s {
	case model.StatusConfirmed:
		return "✅"
	case model.StatusFailed:
		return "❌"
	default:
		return "⏳"
	}
}

// FormatSignal renders a freshly issued signal.
func FormatSignal(sig model.Signal) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s <b>%s %s</b> | %s\n\n",
		directionIcon(sig.Direction), sig.Direction, html.EscapeString(sig.Asset.Symbol), html.EscapeString(sig.Timeframe)))
	b.WriteString(fmt.Sprintf("Probability: %d%%\n", sig.Probability))
	b.WriteString(fmt.Sprintf("Change: %s\n", html.EscapeString(sig.Asset.Change)))
	b.WriteString(fmt.Sprintf("Issued: %s\n", sig.CreatedAt.Format(timeLayout)))
	b.WriteString(fmt.Sprintf("ID: <code>%s</code>\n\n", sig.ID))
	b.WriteString("Report the outcome with /win or /loss, or /again for a new cycle.")
	return b.String()
}

// FormatFeedback confirms a recorded outcome.
func FormatFeedback(sig model.Signal) string {
	return fmt.Sprintf("%s %s %s marked <b>%s</b>. The next signal for this asset takes it into account.",
		statusIcon(sig.Status), sig.Direction, html.EscapeString(sig.Asset.Symbol), sig.Status)
}

// FormatDenied explains that the quota is used up.
func FormatDenied(u model.Usage) string {
	return fmt.Sprintf("🚫 <b>Signal limit reached</b> (%d/%d, %s)\nNext reset: %s\nUse /unlock &lt;code&gt; to upgrade.",
		u.Used, u.Limit, u.Tier, u.NextResetAt.Format(timeLayout))
}

// FormatUsage renders the quota numbers.
func FormatUsage(u model.Usage) string {
	var b strings.Builder
	b.WriteString("📦 <b>Quota</b>\n\n")
	b.WriteString(fmt.Sprintf("Tier: %s\n", u.Tier))
	if u.Unlimited() {
		b.WriteString(fmt.Sprintf("Used: %d (unlimited)\n", u.Used))
	} else {
		b.WriteString(fmt.Sprintf("Used: %d/%d\n", u.Used, u.Limit))
		b.WriteString(fmt.Sprintf("Remaining: %d\n", u.Remaining))
	}
	b.WriteString(fmt.Sprintf("Next reset: %s\n", u.NextResetAt.Format(timeLayout)))
	return b.String()
}

// FormatCycleRenewed announces a quota reset.
func FormatCycleRenewed(u model.Usage) string {
	return "🔄 New quota cycle started.\n\n" + FormatUsage(u)
}

// FormatHistory renders signals, newest first.
func FormatHistory(signals []model.Signal) string {
	if len(signals) == 0 {
		return "No signals yet. Try /signal &lt;asset&gt;."
	}
	var b strings.Builder
	b.WriteString("📜 <b>History</b>\n\n")
	for _, s := range signals {
		b.WriteString(fmt.Sprintf("%s %s %s %s %d%% · %s\n",
			statusIcon(s.Status), s.CreatedAt.Format("01-02 15:04"),
			html.EscapeString(s.Asset.Symbol), s.Direction, s.Probability, html.EscapeString(s.Timeframe)))
	}
	return b.String()
}

// FormatAssets lists the catalog.
func FormatAssets(assets []model.Asset, timeframes []string) string {
	var b strings.Builder
	b.WriteString("💱 <b>Assets</b>\n\n")
	for _, a := range assets {
		b.WriteString(fmt.Sprintf("<code>%s</code> %s (%s)\n",
			html.EscapeString(a.ID), html.EscapeString(a.Symbol), html.EscapeString(a.Change)))
	}
	b.WriteString("\nTimeframes: " + html.EscapeString(strings.Join(timeframes, ", ")))
	return b.String()
}

// FormatHelp lists the available commands.
func FormatHelp(allowReset bool) string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	b.WriteString("• /assets - asset catalog\n")
	b.WriteString("• /signal &lt;asset&gt; [timeframe] - new signal\n")
	b.WriteString("• /again - new cycle on the same asset\n")
	b.WriteString("• /win, /loss - report the outcome\n")
	b.WriteString("• /history - recent signals\n")
	b.WriteString("• /quota - usage and next reset\n")
	b.WriteString("• /unlock &lt;code&gt; - upgrade tier\n")
	if allowReset {
		b.WriteString("• /reset - reset usage counter\n")
	}
	return b.String()
}
