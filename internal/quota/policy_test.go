package quota

import (
	"testing"
	"time"

	"SignalDesk/internal/model"

	"github.com/stretchr/testify/assert"
)

var (
	testPolicy = Policy{ResetInterval: 12 * time.Hour, EliteCode: "2741520", VIPCode: "1448135"}
	t0         = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
)

func TestPolicy_TierLimit(t *testing.T) {
	assert.Equal(t, 20, testPolicy.TierLimit(model.TierStandard))
	assert.Equal(t, 50, testPolicy.TierLimit(model.TierElite))
	assert.Equal(t, model.Unlimited, testPolicy.TierLimit(model.TierVIP))
}

func TestPolicy_ConsumeUpToLimit(t *testing.T) {
	s := model.QuotaState{Tier: model.TierStandard, UsedCount: 19, LastResetAt: t0}
	assert.True(t, testPolicy.CanConsume(s))

	s = testPolicy.Consume(t0.Add(time.Minute), s)
	assert.Equal(t, 20, s.UsedCount)
	assert.Equal(t, t0, s.LastResetAt, "only the first signal of a cycle re-anchors")
	assert.False(t, testPolicy.CanConsume(s))
}

func TestPolicy_ConsumeFirstSignalReanchors(t *testing.T) {
	s := model.QuotaState{Tier: model.TierStandard, LastResetAt: t0}
	now := t0.Add(3 * time.Hour)

	s = testPolicy.Consume(now, s)
	assert.Equal(t, 1, s.UsedCount)
	assert.Equal(t, now, s.LastResetAt)
}

func TestPolicy_VIPIsUnlimited(t *testing.T) {
	s := model.QuotaState{Tier: model.TierVIP, UsedCount: 10_000, LastResetAt: t0}
	assert.True(t, testPolicy.CanConsume(s))
}

func TestPolicy_MaybeReset(t *testing.T) {
	s := model.QuotaState{Tier: model.TierStandard, UsedCount: 20, LastResetAt: t0}

	now := t0.Add(12*time.Hour + time.Millisecond)
	got := testPolicy.MaybeReset(now, s)
	assert.Equal(t, 0, got.UsedCount)
	assert.Equal(t, now, got.LastResetAt)

	again := testPolicy.MaybeReset(now, got)
	assert.Equal(t, got, again, "second call in succession is a no-op")

	early := testPolicy.MaybeReset(t0.Add(11*time.Hour+59*time.Minute), s)
	assert.Equal(t, s, early)

	exact := testPolicy.MaybeReset(t0.Add(12*time.Hour), s)
	assert.Equal(t, 0, exact.UsedCount, "the boundary itself resets")
}

func TestPolicy_ApplyUnlockCode(t *testing.T) {
	s := model.QuotaState{Tier: model.TierStandard, UsedCount: 17, LastResetAt: t0}
	now := t0.Add(time.Hour)

	tests := []struct {
		name string
		code string
		want model.QuotaState
		ok   bool
	}{
		{"elite", "2741520", model.QuotaState{Tier: model.TierElite, UsedCount: 0, LastResetAt: now}, true},
		{"elite with spaces", " 2741520\n", model.QuotaState{Tier: model.TierElite, UsedCount: 0, LastResetAt: now}, true},
		{"vip", "1448135", model.QuotaState{Tier: model.TierVIP, UsedCount: 17, LastResetAt: t0}, true},
		{"wrong", "0000000", s, false},
		{"empty", "", s, false},
		{"prefix", "274152", s, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := testPolicy.ApplyUnlockCode(now, tt.code, s)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPolicy_EmptySecretNeverMatches(t *testing.T) {
	p := Policy{EliteCode: "", VIPCode: ""}
	s := model.QuotaState{Tier: model.TierStandard}
	_, ok := p.ApplyUnlockCode(t0, "", s)
	assert.False(t, ok)
}

func TestPolicy_ManualReset(t *testing.T) {
	s := model.QuotaState{Tier: model.TierElite, UsedCount: 50, LastResetAt: t0}
	got := testPolicy.ManualReset(s)
	assert.Equal(t, 0, got.UsedCount)
	assert.Equal(t, t0, got.LastResetAt)
	assert.True(t, testPolicy.CanConsume(got))
}

func TestPolicy_Usage(t *testing.T) {
	u := testPolicy.Usage(model.QuotaState{Tier: model.TierStandard, UsedCount: 5, LastResetAt: t0})
	assert.Equal(t, 20, u.Limit)
	assert.Equal(t, 15, u.Remaining)
	assert.Equal(t, t0.Add(12*time.Hour), u.NextResetAt)
	assert.False(t, u.Unlimited())

	u = testPolicy.Usage(model.QuotaState{Tier: model.TierVIP, UsedCount: 99, LastResetAt: t0})
	assert.True(t, u.Unlimited())
	assert.Equal(t, model.Unlimited, u.Remaining)

	u = testPolicy.Usage(model.QuotaState{Tier: model.TierStandard, UsedCount: 25, LastResetAt: t0})
	assert.Equal(t, 0, u.Remaining)
}

func TestPolicy_ZeroIntervalFallsBackToDefault(t *testing.T) {
	p := Policy{}
	s := model.QuotaState{UsedCount: 3, LastResetAt: t0}
	assert.Equal(t, s, p.MaybeReset(t0.Add(11*time.Hour), s))
	assert.Equal(t, 0, p.MaybeReset(t0.Add(DefaultResetInterval), s).UsedCount)
}
