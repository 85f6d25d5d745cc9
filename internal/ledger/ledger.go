// Package ledger keeps the session's issued signals.
//
// Entries are ordered newest first: index 0 is always the most recently
// appended signal. Status updates never move an entry, and trimming only
// drops entries from the old end.
package ledger

import (
	"errors"
	"time"

	"SignalDesk/internal/model"
)

// ErrNotFound is returned when no signal has the requested id.
var ErrNotFound = errors.New("signal not found")

// Ledger is an append-only, newest-first signal history. It is not safe for
// concurrent use; the session controller serializes access.
type Ledger struct {
	entries    []model.Signal
	maxEntries int
}

// New creates a ledger holding at most maxEntries signals (0 = no cap).
func New(maxEntries int) *Ledger {
	return &Ledger{maxEntries: maxEntries}
}

// Append records s as the newest entry.
func (l *Ledger) Append(s model.Signal) {
	l.entries = append(l.entries, model.Signal{})
	copy(l.entries[1:], l.entries)
	l.entries[0] = s

	if l.maxEntries > 0 && len(l.entries) > l.maxEntries {
		clear(l.entries[l.maxEntries:])
		l.entries = l.entries[:l.maxEntries]
	}
}

// FindByAssetID returns the most recent signal for the asset.
func (l *Ledger) FindByAssetID(assetID string) (model.Signal, bool) {
	for _, s := range l.entries {
		if s.Asset.ID == assetID {
			return s, true
		}
	}
	return model.Signal{}, false
}

// Get returns the signal with the given id.
func (l *Ledger) Get(id string) (model.Signal, bool) {
	if i := l.index(id); i >= 0 {
		return l.entries[i], true
	}
	return model.Signal{}, false
}

// UpdateStatus sets the status of a signal in place and returns the
// updated copy.
func (l *Ledger) UpdateStatus(id string, status model.Status, at time.Time) (model.Signal, error) {
	i := l.index(id)
	if i < 0 {
		return model.Signal{}, ErrNotFound
	}
	l.entries[i].Status = status
	l.entries[i].ResolvedAt = at
	return l.entries[i], nil
}

// Recent returns up to n newest signals. n <= 0 returns all of them.
func (l *Ledger) Recent(n int) []model.Signal {
	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]model.Signal, n)
	copy(out, l.entries[:n])
	return out
}

// All returns a copy of every entry, newest first.
func (l *Ledger) All() []model.Signal {
	return l.Recent(0)
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

func (l *Ledger) index(id string) int {
	for i := range l.entries {
		if l.entries[i].ID == id {
			return i
		}
	}
	return -1
}
