package strategy

import "SignalDesk/internal/model"

// Scoring constants.
const (
	TrendWeight     = 15.0
	FailedImpulse   = 80.0
	ConfirmedBonus  = 15.0
	ChaosImpulse    = 40.0
	NoiseAmplitude  = 10.0
	LossWindow      = 3
	LossThreshold   = 2
	BaseProbability = 84
	ProbabilitySpan = 11 // bonus drawn from 0..10
)

// Factor names reported in Decision.Factors.
const (
	FactorTrend    = "trend"
	FactorFeedback = "feedback"
	FactorChaos    = "chaos"
	FactorNoise    = "noise"
)

// Decision is the output of Decide.
type Decision struct {
	Direction   model.Direction
	Probability int
	Score       float64
	Factors     []model.FactorScore
}

// Engine turns an asset's recent change and the session's signal history
// into a direction and a confidence. It holds no state besides its
// random source.
type Engine struct {
	rnd Random
}

func NewEngine(rnd Random) *Engine {
	return &Engine{rnd: rnd}
}

// Decide scores asset against history, which must be newest first.
// Random draws happen in a fixed order: chaos (only when triggered),
// noise, probability.
func (e *Engine) Decide(asset model.Asset, history []model.Signal) Decision {
	trend := model.ParseChange(asset.Change) * TrendWeight
	factors := []model.FactorScore{{Name: FactorTrend, Value: trend}}
	score := trend

	if fb := feedbackImpulse(asset.ID, history); fb != 0 {
		score += fb
		factors = append(factors, model.FactorScore{Name: FactorFeedback, Value: fb})
	}

	if recentLosses(history) >= LossThreshold {
		chaos := -ChaosImpulse
		if e.rnd.Float64() > 0.5 {
			chaos = ChaosImpulse
		}
		score += chaos
		factors = append(factors, model.FactorScore{Name: FactorChaos, Value: chaos})
	}

	noise := e.rnd.Float64()*2*NoiseAmplitude - NoiseAmplitude
	score += noise
	factors = append(factors, model.FactorScore{Name: FactorNoise, Value: noise})

	direction := model.DirectionSell
	if score >= 0 {
		direction = model.DirectionBuy
	}

	return Decision{
		Direction:   direction,
		Probability: BaseProbability + e.rnd.IntN(ProbabilitySpan),
		Score:       score,
		Factors:     factors,
	}
}

// feedbackImpulse pushes against the last call on this asset if it failed
// and with it if it was confirmed.
func feedbackImpulse(assetID string, history []model.Signal) float64 {
	for _, s := range history {
		if s.Asset.ID != assetID {
			continue
		}
		switch s.Status {
		case model.StatusFailed:
			if s.Direction == model.DirectionBuy {
				return -FailedImpulse
			}
			return FailedImpulse
		case model.StatusConfirmed:
			if s.Direction == model.DirectionBuy {
				return ConfirmedBonus
			}
			return -ConfirmedBonus
		default:
			return 0
		}
	}
	return 0
}

// recentLosses counts FAILED signals among the newest LossWindow entries.
func recentLosses(history []model.Signal) int {
	n := 0
	for i, s := range history {
		if i >= LossWindow {
			break
		}
		if s.Status == model.StatusFailed {
			n++
		}
	}
	return n
}
