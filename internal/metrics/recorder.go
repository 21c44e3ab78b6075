// Package metrics exposes watcher cycle metrics to Prometheus and serves
// them, together with a health check, over HTTP.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"dinnerwatch/internal/watcher"
)

// Recorder turns cycle results into Prometheus metrics. It implements
// watcher.Observer.
type Recorder struct {
	registry *prometheus.Registry

	cycles         prometheus.Counter
	cycleFailures  *prometheus.CounterVec
	cycleDuration  prometheus.Histogram
	matchesSkipped prometheus.Counter
	matchesChecked prometheus.Counter
	wins           prometheus.Counter
	notifications  *prometheus.CounterVec
	lastCycle      prometheus.Gauge

	lastCycleUnix atomic.Int64
	lastFailed    atomic.Bool
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		cycles: factory.NewCounter(prometheus.CounterOpts{
			Name: "dinnerwatch_cycles_total",
			Help: "Total number of poll cycles run",
		}),
		cycleFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dinnerwatch_cycle_failures_total",
			Help: "Poll cycles aborted, by failing stage",
		}, []string{"stage"}),
		cycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dinnerwatch_cycle_duration_seconds",
			Help:    "Duration of poll cycles",
			Buckets: prometheus.DefBuckets,
		}),
		matchesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "dinnerwatch_matches_skipped_total",
			Help: "Discovered matches skipped because they were already recorded",
		}),
		matchesChecked: factory.NewCounter(prometheus.CounterOpts{
			Name: "dinnerwatch_matches_evaluated_total",
			Help: "Matches whose details were fetched and evaluated",
		}),
		wins: factory.NewCounter(prometheus.CounterOpts{
			Name: "dinnerwatch_wins_total",
			Help: "Evaluated matches won by a tracked player",
		}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dinnerwatch_notifications_total",
			Help: "Winner notifications, by result",
		}, []string{"result"}),
		lastCycle: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dinnerwatch_last_cycle_timestamp_seconds",
			Help: "Unix time the last poll cycle finished",
		}),
	}
}

// Registry returns the registry the metrics are registered in.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// CycleFinished records one cycle.
func (r *Recorder) CycleFinished(res watcher.CycleResult) {
	r.cycles.Inc()
	r.cycleDuration.Observe(res.Duration.Seconds())
	r.matchesSkipped.Add(float64(res.Skipped))
	r.matchesChecked.Add(float64(res.Evaluated))
	r.wins.Add(float64(res.Wins))
	r.notifications.WithLabelValues("sent").Add(float64(res.Notified))
	r.notifications.WithLabelValues("failed").Add(float64(res.NotifyErrs))

	if res.Err != nil {
		r.cycleFailures.WithLabelValues(string(res.Err.Stage)).Inc()
	}
	r.lastFailed.Store(res.Err != nil)

	finished := res.StartedAt.Add(res.Duration)
	r.lastCycle.Set(float64(finished.Unix()))
	r.lastCycleUnix.Store(finished.Unix())
}

// LastCycle returns when the last cycle finished and whether it failed. The
// time is zero before the first cycle.
func (r *Recorder) LastCycle() (time.Time, bool) {
	unix := r.lastCycleUnix.Load()
	if unix == 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), r.lastFailed.Load()
}
