package model

import "time"

// Direction is the recommended side of a signal.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// Status is the user-reported outcome of a signal.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusFailed    Status = "FAILED"
)

// IsFeedback reports whether s is a status a user may report.
func (s Status) IsFeedback() bool {
	return s == StatusConfirmed || s == StatusFailed
}

// FactorScore is a single named contribution to a decision score.
type FactorScore struct {
	Name  string
	Value float64
}

// Signal is one issued recommendation. Everything except Status and
// ResolvedAt is fixed at creation.
type Signal struct {
	ID          string    `json:"id"`
	Asset       Asset     `json:"asset"`
	Timeframe   string    `json:"timeframe"`
	Direction   Direction `json:"direction"`
	Probability int       `json:"probability"`
	Score       float64   `json:"score"`
	CreatedAt   time.Time `json:"created_at"`
	Status      Status    `json:"status"`
	ResolvedAt  time.Time `json:"resolved_at,omitempty"`
}
