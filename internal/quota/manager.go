package quota

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"SignalDesk/internal/model"
	"SignalDesk/internal/store"

	"github.com/rs/zerolog"
)

const saveTimeout = 5 * time.Second

// Manager owns the quota state of one session and mirrors every change
// to the key-value store.
type Manager struct {
	mu     sync.Mutex
	policy Policy
	state  model.QuotaState
	store  store.Store
	dirty  bool
	log    zerolog.Logger
}

// NewManager loads the persisted state, defaulting to STANDARD, 0 used and
// a cycle starting now for any missing or unreadable key.
func NewManager(ctx context.Context, st store.Store, policy Policy, now time.Time, log zerolog.Logger) (*Manager, error) {
	state, err := LoadState(ctx, st, now, log)
	if err != nil {
		return nil, err
	}

	m := &Manager{policy: policy, state: state, store: st, log: log}
	m.dirty = true
	if err := m.Flush(ctx); err != nil {
		return nil, err
	}
	m.log.Info().
		Str("tier", string(state.Tier)).
		Int("used", state.UsedCount).
		Time("last_reset_at", state.LastResetAt).
		Msg("quota state loaded")
	return m, nil
}

// LoadState reads the three quota keys from st.
func LoadState(ctx context.Context, st store.Store, now time.Time, log zerolog.Logger) (model.QuotaState, error) {
	state := model.QuotaState{Tier: model.TierStandard, LastResetAt: now}

	v, ok, err := st.Get(ctx, store.KeyTier)
	if err != nil {
		return state, fmt.Errorf("load tier: %w", err)
	}
	if ok {
		if tier, err := model.ParseTier(v); err == nil {
			state.Tier = tier
		} else {
			log.Warn().Err(err).Msg("stored tier ignored")
		}
	}

	v, ok, err = st.Get(ctx, store.KeyUsedCount)
	if err != nil {
		return state, fmt.Errorf("load used count: %w", err)
	}
	if ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			state.UsedCount = n
		} else {
			log.Warn().Str("value", v).Msg("stored used count ignored")
		}
	}

	v, ok, err = st.Get(ctx, store.KeyLastResetAt)
	if err != nil {
		return state, fmt.Errorf("load last reset: %w", err)
	}
	if ok {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			state.LastResetAt = time.UnixMilli(ms)
		} else {
			log.Warn().Str("value", v).Msg("stored last reset ignored")
		}
	}
	return state, nil
}

// SaveState writes the three quota keys to st.
func SaveState(ctx context.Context, st store.Store, state model.QuotaState) error {
	if err := st.Set(ctx, store.KeyTier, string(state.Tier)); err != nil {
		return err
	}
	if err := st.Set(ctx, store.KeyUsedCount, strconv.Itoa(state.UsedCount)); err != nil {
		return err
	}
	return st.Set(ctx, store.KeyLastResetAt, strconv.FormatInt(state.LastResetAt.UnixMilli(), 10))
}

// Policy returns the rules the manager applies.
func (m *Manager) Policy() Policy {
	return m.policy
}

// State returns a copy of the current quota state.
func (m *Manager) State() model.QuotaState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Usage returns the display view after applying any due reset.
func (m *Manager) Usage(now time.Time) model.Usage {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(m.policy.MaybeReset(now, m.state))
	return m.policy.Usage(m.state)
}

// Check applies any due reset and reports whether a signal may be issued.
func (m *Manager) Check(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(m.policy.MaybeReset(now, m.state))
	return m.policy.CanConsume(m.state)
}

// Consume counts one issued signal.
func (m *Manager) Consume(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(m.policy.Consume(now, m.state))
}

// Tick is the periodic reset check. It reports whether a new cycle started.
func (m *Manager) Tick(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	before := m.state
	m.apply(m.policy.MaybeReset(now, m.state))
	if m.state == before {
		return false
	}
	m.log.Info().Int("used_before", before.UsedCount).Msg("quota cycle reset")
	return true
}

// Unlock applies an unlock code and reports whether it was accepted.
func (m *Manager) Unlock(now time.Time, code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, ok := m.policy.ApplyUnlockCode(now, code, m.state)
	if !ok {
		return false
	}
	m.apply(next)
	m.log.Info().Str("tier", string(next.Tier)).Msg("tier unlocked")
	return true
}

// ManualReset zeroes usage for the current cycle.
func (m *Manager) ManualReset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(m.policy.ManualReset(m.state))
}

// Flush writes the state if an earlier save failed or was skipped.
func (m *Manager) Flush(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dirty {
		return nil
	}
	if err := SaveState(ctx, m.store, m.state); err != nil {
		return fmt.Errorf("save quota state: %w", err)
	}
	m.dirty = false
	return nil
}

// apply installs next and persists it when anything changed. Must hold mu.
func (m *Manager) apply(next model.QuotaState) {
	if next == m.state && !m.dirty {
		return
	}
	m.state = next
	m.dirty = true

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := SaveState(ctx, m.store, m.state); err != nil {
		m.log.Error().Err(err).Msg("failed to save quota state")
		return
	}
	m.dirty = false
}
