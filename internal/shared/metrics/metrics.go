// Package metrics exposes roster and status-write counters on a private prometheus registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "committee"

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Recorder is nil-safe: every method on a nil *Recorder is a no-op,
// so components can run with metrics disabled.
type Recorder struct {
	registry     *prometheus.Registry
	statusWrites *prometheus.CounterVec
	rosterLoads  *prometheus.CounterVec
	rosterSize   prometheus.Gauge
	pending      prometheus.Gauge
}

func New() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Recorder{
		registry: registry,
		statusWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_writes_total",
			Help:      "Asynchronous daily status writes by outcome.",
		}, []string{"result"}),
		rosterLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roster_loads_total",
			Help:      "Roster loads and refreshes by outcome.",
		}, []string{"result"}),
		rosterSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "roster_members",
			Help:      "Members currently held in the directory cache.",
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "status_writes_in_flight",
			Help:      "Status writes not yet confirmed by the store.",
		}),
	}
	registry.MustRegister(r.statusWrites, r.rosterLoads, r.rosterSize, r.pending)
	return r
}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

func (r *Recorder) StatusWriteStarted() {
	if r == nil {
		return
	}
	r.pending.Inc()
}

func (r *Recorder) StatusWriteFinished(err error) {
	if r == nil {
		return
	}
	r.pending.Dec()
	r.statusWrites.WithLabelValues(result(err)).Inc()
}

func (r *Recorder) RosterLoaded(members int, err error) {
	if r == nil {
		return
	}
	r.rosterLoads.WithLabelValues(result(err)).Inc()
	if err == nil {
		r.rosterSize.Set(float64(members))
	}
}

// Handler serves the registry in the prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
