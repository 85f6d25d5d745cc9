package model

import (
	"fmt"
	"strings"
	"time"
)

// Tier is the quota class of a user.
type Tier string

const (
	TierStandard Tier = "STANDARD"
	TierElite    Tier = "ELITE"
	TierVIP      Tier = "VIP"
)

// Unlimited is the limit reported for tiers without a cap.
const Unlimited = -1

// Limit returns the number of signals allowed per quota cycle, or Unlimited.
func (t Tier) Limit() int {
	switch t {
	case TierElite:
		return 50
	case TierVIP:
		return Unlimited
	default:
		return 20
	}
}

// ParseTier parses a stored tier name.
func ParseTier(s string) (Tier, error) {
	switch t := Tier(strings.ToUpper(strings.TrimSpace(s))); t {
	case TierStandard, TierElite, TierVIP:
		return t, nil
	default:
		return "", fmt.Errorf("unknown tier %q", s)
	}
}

// QuotaState tracks signal usage for the current cycle.
type QuotaState struct {
	Tier        Tier      `json:"tier"`
	UsedCount   int       `json:"used_count"`
	LastResetAt time.Time `json:"last_reset_at"`
}

// Usage is a read-only view of the quota for display.
type Usage struct {
	Tier        Tier
	Used        int
	Limit       int // Unlimited for VIP
	Remaining   int // Unlimited for VIP
	NextResetAt time.Time
}

// Unlimited reports whether the usage has no cap.
func (u Usage) Unlimited() bool {
	return u.Limit == Unlimited
}
