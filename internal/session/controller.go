package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"SignalDesk/internal/ledger"
	"SignalDesk/internal/model"
	"SignalDesk/internal/quota"
	"SignalDesk/internal/strategy"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrNotFound        = ledger.ErrNotFound
	ErrInvalidStatus   = errors.New("feedback status must be CONFIRMED or FAILED")
	ErrAlreadyResolved = errors.New("signal already has feedback")
	ErrNoSelection     = errors.New("no asset and timeframe selected yet")
)

// Metrics receives session outcomes. *metrics.Recorder implements it.
type Metrics interface {
	SignalIssued(asset, direction string, probability int)
	SignalDenied(tier string)
	FeedbackRecorded(status string)
	UnlockAttempt(success bool)
	QuotaReset(reason string)
}

type nopMetrics struct{}

func (nopMetrics) SignalIssued(string, string, int) {}
func (nopMetrics) SignalDenied(string)              {}
func (nopMetrics) FeedbackRecorded(string)          {}
func (nopMetrics) UnlockAttempt(bool)               {}
func (nopMetrics) QuotaReset(string)                {}

// Controller runs the request/feedback cycle of a single user session.
// All methods are serialized by one mutex.
type Controller struct {
	mu      sync.Mutex
	quota   *quota.Manager
	engine  *strategy.Engine
	ledger  *ledger.Ledger
	metrics Metrics
	log     zerolog.Logger
	newID   func() string

	asset     model.Asset
	timeframe string
	selected  bool
	currentID string
}

// New creates a Controller. metrics may be nil.
func New(qm *quota.Manager, engine *strategy.Engine, led *ledger.Ledger, metrics Metrics, log zerolog.Logger) *Controller {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Controller{
		quota:   qm,
		engine:  engine,
		ledger:  led,
		metrics: metrics,
		log:     log,
		newID:   func() string { return "INF-" + uuid.NewString() },
	}
}

// RequestSignal issues a new signal for asset on timeframe. It returns
// ok=false, and no signal, when the quota for the current cycle is used up.
func (c *Controller) RequestSignal(asset model.Asset, timeframe string, now time.Time) (*model.Signal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.issue(asset, timeframe, now)
}

// RequestNewCycle repeats the last request with the same asset and timeframe.
func (c *Controller) RequestNewCycle(now time.Time) (*model.Signal, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.selected {
		return nil, false, ErrNoSelection
	}
	sig, ok := c.issue(c.asset, c.timeframe, now)
	return sig, ok, nil
}

func (c *Controller) issue(asset model.Asset, timeframe string, now time.Time) (*model.Signal, bool) {
	if !c.quota.Check(now) {
		tier := c.quota.State().Tier
		c.metrics.SignalDenied(string(tier))
		c.log.Info().Str("asset", asset.ID).Str("tier", string(tier)).Msg("signal denied, quota exhausted")
		return nil, false
	}

	d := c.engine.Decide(asset, c.ledger.All())
	sig := model.Signal{
		ID:          c.newID(),
		Asset:       asset,
		Timeframe:   timeframe,
		Direction:   d.Direction,
		Probability: d.Probability,
		Score:       d.Score,
		CreatedAt:   now,
		Status:      model.StatusPending,
	}

	c.quota.Consume(now)
	c.ledger.Append(sig)
	c.asset, c.timeframe, c.selected = asset, timeframe, true
	c.currentID = sig.ID

	c.metrics.SignalIssued(asset.ID, string(sig.Direction), sig.Probability)
	c.log.Info().
		Str("id", sig.ID).
		Str("asset", asset.ID).
		Str("timeframe", timeframe).
		Str("direction", string(sig.Direction)).
		Int("probability", sig.Probability).
		Float64("score", sig.Score).
		Msg("signal issued")
	return &sig, true
}

// RecordFeedback resolves a pending signal. Feedback is final: a second
// report for the same signal returns ErrAlreadyResolved.
func (c *Controller) RecordFeedback(signalID string, status model.Status, now time.Time) (model.Signal, error) {
	if !status.IsFeedback() {
		return model.Signal{}, ErrInvalidStatus
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.ledger.Get(signalID)
	if !ok {
		c.log.Warn().Str("id", signalID).Msg("feedback for unknown signal ignored")
		return model.Signal{}, ErrNotFound
	}
	if existing.Status != model.StatusPending {
		return existing, fmt.Errorf("%w: %s is %s", ErrAlreadyResolved, signalID, existing.Status)
	}

	updated, err := c.ledger.UpdateStatus(signalID, status, now)
	if err != nil {
		return model.Signal{}, err
	}
	c.metrics.FeedbackRecorded(string(status))
	c.log.Info().Str("id", signalID).Str("status", string(status)).Msg("feedback recorded")
	return updated, nil
}

// Current returns the most recently issued signal with its latest status.
func (c *Controller) Current() (model.Signal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentID == "" {
		return model.Signal{}, false
	}
	return c.ledger.Get(c.currentID)
}

// Selection returns the asset and timeframe of the last request.
func (c *Controller) Selection() (model.Asset, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.asset, c.timeframe, c.selected
}

// History returns up to n newest signals (n <= 0 for all).
func (c *Controller) History(n int) []model.Signal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.Recent(n)
}

// Usage returns the quota numbers for display.
func (c *Controller) Usage(now time.Time) model.Usage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quota.Usage(now)
}

// Unlock applies an unlock code and reports whether it was accepted.
func (c *Controller) Unlock(code string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ok := c.quota.Unlock(now, code)
	c.metrics.UnlockAttempt(ok)
	if !ok {
		c.log.Warn().Msg("rejected unlock code")
	}
	return ok
}

// ManualReset zeroes the usage counter on request of a privileged user.
func (c *Controller) ManualReset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.quota.ManualReset()
	c.metrics.QuotaReset("manual")
	c.log.Info().Msg("quota manually reset")
}

// Tick runs the periodic quota reset check and reports whether a new
// cycle started.
func (c *Controller) Tick(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.quota.Tick(now) {
		return false
	}
	c.metrics.QuotaReset("cycle")
	return true
}
