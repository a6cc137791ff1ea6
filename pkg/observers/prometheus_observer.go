package observers

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/anggasct/fsm"
)

// PrometheusObserver exports current state changes as Prometheus metrics:
//
//	<namespace>_state_changes_total{kind, from, to}
//	<namespace>_state_current{state}
//	<namespace>_observer_errors_total
//
// A change without a previous state is reported with an empty from label.
type PrometheusObserver[S comparable] struct {
	changes *prometheus.CounterVec
	current *prometheus.GaugeVec
	errors  prometheus.Counter
}

// NewPrometheusObserver creates the metrics and registers them with reg
func NewPrometheusObserver[S comparable](reg prometheus.Registerer, namespace string) (*PrometheusObserver[S], error) {
	o := &PrometheusObserver[S]{
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_changes_total",
			Help:      "Number of current state changes by kind and states.",
		}, []string{"kind", "from", "to"}),
		current: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state_current",
			Help:      "1 for the current state of the machine, 0 for states it left.",
		}, []string{"state"}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observer_errors_total",
			Help:      "Number of failures reported by other observers.",
		}),
	}

	for _, c := range []prometheus.Collector{o.changes, o.current, o.errors} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register state machine metrics: %w", err)
		}
	}
	return o, nil
}

// OnChange updates the change counter and the current state gauge
func (o *PrometheusObserver[S]) OnChange(change fsm.Change[S]) {
	from := ""
	if change.HasFrom {
		from = fmt.Sprint(change.From)
		o.current.WithLabelValues(from).Set(0)
	}
	to := fmt.Sprint(change.To)

	o.changes.WithLabelValues(change.Kind.String(), from, to).Inc()
	o.current.WithLabelValues(to).Set(1)
}

// OnError counts observer failures
func (o *PrometheusObserver[S]) OnError(error) {
	o.errors.Inc()
}
