package quota

import (
	"crypto/subtle"
	"strings"
	"time"

	"SignalDesk/internal/model"
)

// DefaultResetInterval is the length of a quota cycle.
const DefaultResetInterval = 12 * time.Hour

// Policy holds the quota rules. All methods are pure transforms of a
// model.QuotaState and never fail.
type Policy struct {
	ResetInterval time.Duration
	EliteCode     string
	VIPCode       string
}

// TierLimit returns the per-cycle limit of tier, or model.Unlimited.
func (p Policy) TierLimit(tier model.Tier) int {
	return tier.Limit()
}

func (p Policy) interval() time.Duration {
	if p.ResetInterval <= 0 {
		return DefaultResetInterval
	}
	return p.ResetInterval
}

// MaybeReset starts a new cycle when a full interval has elapsed since
// LastResetAt. It is idempotent.
func (p Policy) MaybeReset(now time.Time, s model.QuotaState) model.QuotaState {
	if now.Sub(s.LastResetAt) >= p.interval() {
		s.UsedCount = 0
		s.LastResetAt = now
	}
	return s
}

// NextResetAt is when MaybeReset will next start a cycle.
func (p Policy) NextResetAt(s model.QuotaState) time.Time {
	return s.LastResetAt.Add(p.interval())
}

// CanConsume reports whether another signal fits in the current cycle.
func (p Policy) CanConsume(s model.QuotaState) bool {
	limit := p.TierLimit(s.Tier)
	return limit == model.Unlimited || s.UsedCount < limit
}

// Consume counts one signal. The first signal of a fresh cycle re-anchors
// the cycle start to now.
func (p Policy) Consume(now time.Time, s model.QuotaState) model.QuotaState {
	if s.UsedCount == 0 {
		s.LastResetAt = now
	}
	s.UsedCount++
	return s
}

// ApplyUnlockCode applies a shared-secret upgrade. The elite code also
// starts a fresh cycle; the VIP code only changes the tier.
func (p Policy) ApplyUnlockCode(now time.Time, code string, s model.QuotaState) (model.QuotaState, bool) {
	code = strings.TrimSpace(code)
	switch {
	case secretEqual(code, p.EliteCode):
		s.Tier = model.TierElite
		s.UsedCount = 0
		s.LastResetAt = now
		return s, true
	case secretEqual(code, p.VIPCode):
		s.Tier = model.TierVIP
		return s, true
	default:
		return s, false
	}
}

// ManualReset zeroes usage without touching the cycle anchor.
func (p Policy) ManualReset(s model.QuotaState) model.QuotaState {
	s.UsedCount = 0
	return s
}

// Usage builds the read-only display view of s.
func (p Policy) Usage(s model.QuotaState) model.Usage {
	u := model.Usage{
		Tier:        s.Tier,
		Used:        s.UsedCount,
		Limit:       p.TierLimit(s.Tier),
		Remaining:   model.Unlimited,
		NextResetAt: p.NextResetAt(s),
	}
	if u.Limit != model.Unlimited {
		u.Remaining = max(u.Limit-s.UsedCount, 0)
	}
	return u
}

func secretEqual(input, secret string) bool {
	if secret == "" || input == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(input), []byte(secret)) == 1
}
