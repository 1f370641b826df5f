package routing

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PromRecorder mirrors usage entries into Prometheus metrics so worker
// deployments can watch spend and volume without scraping logs.
type PromRecorder struct {
	calls  *prometheus.CounterVec
	tokens *prometheus.CounterVec
	cost   *prometheus.CounterVec
}

// NewPromRecorder builds a recorder and registers its collectors. Pass
// prometheus.DefaultRegisterer in production; tests use a fresh registry.
func NewPromRecorder(reg prometheus.Registerer) *PromRecorder {
	r := &PromRecorder{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "applyforge_model_calls_total",
			Help: "Model calls by task and model.",
		}, []string{"task", "model"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "applyforge_model_tokens_total",
			Help: "Tokens consumed by model and direction.",
		}, []string{"model", "direction"}),
		cost: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "applyforge_model_cost_dollars_total",
			Help: "Estimated model spend in dollars by model.",
		}, []string{"model"}),
	}
	reg.MustRegister(r.calls, r.tokens, r.cost)
	return r
}

// Record implements UsageRecorder.
func (r *PromRecorder) Record(entry UsageEntry) {
	r.calls.WithLabelValues(entry.Task, entry.Model).Inc()
	r.tokens.WithLabelValues(entry.Model, "input").Add(float64(entry.InputTokens))
	r.tokens.WithLabelValues(entry.Model, "output").Add(float64(entry.OutputTokens))
	r.cost.WithLabelValues(entry.Model).Add(entry.Cost)
}
