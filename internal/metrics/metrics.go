package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder exposes session activity as Prometheus counters.
type Recorder struct {
	registry        *prometheus.Registry
	signalsIssued   *prometheus.CounterVec
	signalsDenied   *prometheus.CounterVec
	feedbackTotal   *prometheus.CounterVec
	unlockAttempts  *prometheus.CounterVec
	quotaResets     *prometheus.CounterVec
	lastProbability prometheus.Gauge
}

// New creates a Recorder on its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		signalsIssued: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "signaldesk",
				Name:      "signals_issued_total",
				Help:      "Signals issued by asset and direction",
			},
			[]string{"asset", "direction"},
		),
		signalsDenied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "signaldesk",
				Name:      "signals_denied_total",
				Help:      "Signal requests denied because the quota was exhausted",
			},
			[]string{"tier"},
		),
		feedbackTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "signaldesk",
				Name:      "feedback_total",
				Help:      "Feedback reports by status",
			},
			[]string{"status"},
		),
		unlockAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "signaldesk",
				Name:      "unlock_attempts_total",
				Help:      "Unlock code attempts by result",
			},
			[]string{"success"},
		),
		quotaResets: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "signaldesk",
				Name:      "quota_resets_total",
				Help:      "Quota resets by reason",
			},
			[]string{"reason"},
		),
		lastProbability: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "signaldesk",
			Name:      "last_signal_probability",
			Help:      "Probability of the most recent signal",
		}),
	}
}

func (r *Recorder) SignalIssued(asset, direction string, probability int) {
	r.signalsIssued.WithLabelValues(asset, direction).Inc()
	r.lastProbability.Set(float64(probability))
}

func (r *Recorder) SignalDenied(tier string) {
	r.signalsDenied.WithLabelValues(tier).Inc()
}

func (r *Recorder) FeedbackRecorded(status string) {
	r.feedbackTotal.WithLabelValues(status).Inc()
}

func (r *Recorder) UnlockAttempt(success bool) {
	r.unlockAttempts.WithLabelValues(strconv.FormatBool(success)).Inc()
}

func (r *Recorder) QuotaReset(reason string) {
	r.quotaResets.WithLabelValues(reason).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
