package scheduler

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"SignalDesk/internal/model"
	"SignalDesk/internal/notifier"
	"SignalDesk/internal/session"
)

const historySize = 10

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return notifier.FormatHelp(s.Config.Quota.AllowManualReset)
	}
	cmd, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	args := fields[1:]
	now := s.Now()

	switch cmd {
	case "/assets":
		return notifier.FormatAssets(s.Config.Assets, s.Config.Timeframes)
	case "/timeframes":
		return "Timeframes: " + html.EscapeString(strings.Join(s.Config.Timeframes, ", "))
	case "/signal":
		return s.requestSignal(args)
	case "/again":
		sig, ok, err := s.Session.RequestNewCycle(now)
		if errors.Is(err, session.ErrNoSelection) {
			return "Pick an asset first: /signal &lt;asset&gt; [timeframe]"
		}
		return s.signalReply(sig, ok)
	case "/win":
		return s.feedback(model.StatusConfirmed)
	case "/loss":
		return s.feedback(model.StatusFailed)
	case "/history":
		return notifier.FormatHistory(s.Session.History(historySize))
	case "/quota":
		return notifier.FormatUsage(s.Session.Usage(now))
	case "/unlock":
		if len(args) == 0 {
			return "Usage: /unlock &lt;code&gt;"
		}
		if !s.Session.Unlock(strings.Join(args, " "), now) {
			return "❌ Invalid code."
		}
		return "✅ Tier upgraded.\n\n" + notifier.FormatUsage(s.Session.Usage(now))
	case "/reset":
		if !s.Config.Quota.AllowManualReset {
			return notifier.FormatHelp(false)
		}
		s.Session.ManualReset()
		return "🔄 Usage counter reset.\n\n" + notifier.FormatUsage(s.Session.Usage(now))
	default:
		return notifier.FormatHelp(s.Config.Quota.AllowManualReset)
	}
}

func (s *Scheduler) requestSignal(args []string) string {
	if len(args) == 0 {
		return "Usage: /signal &lt;asset&gt; [timeframe]\n\n" + notifier.FormatAssets(s.Config.Assets, s.Config.Timeframes)
	}
	asset, ok := s.Config.FindAsset(args[0])
	if !ok {
		return fmt.Sprintf("Unknown asset %q. See /assets.", html.EscapeString(args[0]))
	}

	timeframe := s.Config.Timeframes[0]
	if len(args) > 1 {
		tf, ok := s.Config.FindTimeframe(args[1])
		if !ok {
			return fmt.Sprintf("Unknown timeframe %q. See /timeframes.", html.EscapeString(args[1]))
		}
		timeframe = tf
	}

	sig, issued := s.Session.RequestSignal(asset, timeframe, s.Now())
	return s.signalReply(sig, issued)
}

func (s *Scheduler) signalReply(sig *model.Signal, issued bool) string {
	if !issued {
		return notifier.FormatDenied(s.Session.Usage(s.Now()))
	}
	return notifier.FormatSignal(*sig)
}

func (s *Scheduler) feedback(status model.Status) string {
	cur, ok := s.Session.Current()
	if !ok {
		return "No signal to report on yet."
	}
	updated, err := s.Session.RecordFeedback(cur.ID, status, s.Now())
	switch {
	case errors.Is(err, session.ErrAlreadyResolved):
		return fmt.Sprintf("This signal is already marked %s.", updated.Status)
	case err != nil:
		s.Log.Warn().Err(err).Str("id", cur.ID).Msg("feedback not recorded")
		return "Feedback could not be recorded."
	}
	return notifier.FormatFeedback(updated)
}
