package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tipjar"

// Confirmation steps.
const (
	StepApproval = "approval"
	StepTransfer = "transfer"
)

// Tips collects tip flow metrics. A nil *Tips discards everything.
type Tips struct {
	total        *prometheus.CounterVec
	confirmation *prometheus.HistogramVec
	priceFetch   *prometheus.CounterVec
}

func NewTips(reg prometheus.Registerer) *Tips {
	f := promauto.With(reg)
	return &Tips{
		total: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tips_total",
			Help:      "Tip invocations by token and outcome.",
		}, []string{"token", "outcome"}),
		confirmation: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "confirmation_seconds",
			Help:      "Time from broadcast to on-chain confirmation.",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120, 300},
		}, []string{"step"}),
		priceFetch: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_fetch_total",
			Help:      "Price feed refreshes by result.",
		}, []string{"result"}),
	}
}

// TipFinished counts one SendTip outcome.
func (m *Tips) TipFinished(token, outcome string) {
	if m == nil {
		return
	}
	m.total.WithLabelValues(token, outcome).Inc()
}

// Confirmed observes how long a step took to confirm.
func (m *Tips) Confirmed(step string, d time.Duration) {
	if m == nil {
		return
	}
	m.confirmation.WithLabelValues(step).Observe(d.Seconds())
}

// PriceFetch counts a price feed refresh, ok or not.
func (m *Tips) PriceFetch(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.priceFetch.WithLabelValues(result).Inc()
}
