package ledger

import (
	"testing"
	"time"

	"SignalDesk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSignal(id, assetID string) model.Signal {
	return model.Signal{
		ID:        id,
		Asset:     model.Asset{ID: assetID},
		Direction: model.DirectionBuy,
		Status:    model.StatusPending,
	}
}

func ids(signals []model.Signal) []string {
	out := make([]string, len(signals))
	for i, s := range signals {
		out[i] = s.ID
	}
	return out
}

func TestLedger_AppendIsNewestFirst(t *testing.T) {
	l := New(0)
	l.Append(newSignal("s1", "eurusd"))
	l.Append(newSignal("s2", "btcusd"))
	l.Append(newSignal("s3", "eurusd"))

	assert.Equal(t, []string{"s3", "s2", "s1"}, ids(l.All()))
	assert.Equal(t, 3, l.Len())

	got, ok := l.FindByAssetID("eurusd")
	require.True(t, ok)
	assert.Equal(t, "s3", got.ID)

	got, ok = l.FindByAssetID("btcusd")
	require.True(t, ok)
	assert.Equal(t, "s2", got.ID)

	_, ok = l.FindByAssetID("xauusd")
	assert.False(t, ok)
}

func TestLedger_UpdateStatusKeepsPosition(t *testing.T) {
	l := New(0)
	l.Append(newSignal("s1", "eurusd"))
	l.Append(newSignal("s2", "btcusd"))
	l.Append(newSignal("s3", "eurusd"))

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	updated, err := l.UpdateStatus("s2", model.StatusFailed, at)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, updated.Status)
	assert.Equal(t, at, updated.ResolvedAt)

	all := l.All()
	assert.Equal(t, []string{"s3", "s2", "s1"}, ids(all))
	assert.Equal(t, model.StatusFailed, all[1].Status)
	assert.Equal(t, model.StatusPending, all[0].Status)

	got, ok := l.Get("s2")
	require.True(t, ok)
	assert.Equal(t, model.StatusFailed, got.Status)
}

func TestLedger_UpdateStatusUnknown(t *testing.T) {
	l := New(0)
	l.Append(newSignal("s1", "eurusd"))

	_, err := l.UpdateStatus("nope", model.StatusConfirmed, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, model.StatusPending, l.All()[0].Status)
}

func TestLedger_CapDropsOldest(t *testing.T) {
	l := New(2)
	l.Append(newSignal("s1", "eurusd"))
	l.Append(newSignal("s2", "btcusd"))
	l.Append(newSignal("s3", "xauusd"))

	assert.Equal(t, []string{"s3", "s2"}, ids(l.All()))
	_, ok := l.Get("s1")
	assert.False(t, ok)
}

func TestLedger_RecentReturnsCopy(t *testing.T) {
	l := New(0)
	for _, id := range []string{"a", "b", "c", "d"} {
		l.Append(newSignal(id, "eurusd"))
	}

	recent := l.Recent(3)
	assert.Equal(t, []string{"d", "c", "b"}, ids(recent))

	recent[0].Status = model.StatusFailed
	assert.Equal(t, model.StatusPending, l.All()[0].Status, "callers cannot mutate the ledger")

	assert.Len(t, l.Recent(10), 4)
	assert.Empty(t, New(0).Recent(3))
}
