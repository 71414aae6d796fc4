package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder encapsulates the Prometheus instrumentation of timetabling runs.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	solveAttempts  *prometheus.CounterVec
	solveDuration  prometheus.Histogram
	candidates     prometheus.Histogram
	verifyAttempts *prometheus.CounterVec
	runs           *prometheus.CounterVec
}

// NewRecorder registers the run collectors on registerer.
func NewRecorder(registerer prometheus.Registerer) (*Recorder, error) {
	solveAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_solve_attempts_total",
		Help: "Solve attempts by resulting solver status",
	}, []string{"status"})

	solveDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_solve_duration_seconds",
		Help:    "Duration of solve attempts in seconds",
		Buckets: prometheus.DefBuckets,
	})

	candidates := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_candidates_found",
		Help:    "Feasible timetables found per solve attempt",
		Buckets: prometheus.LinearBuckets(0, 2, 8),
	})

	verifyAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_verification_attempts_total",
		Help: "Verification attempts by outcome",
	}, []string{"outcome"})

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_runs_total",
		Help: "Finished runs by result",
	}, []string{"result"})

	for _, collector := range []prometheus.Collector{solveAttempts, solveDuration, candidates, verifyAttempts, runs} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}

	return &Recorder{
		solveAttempts:  solveAttempts,
		solveDuration:  solveDuration,
		candidates:     candidates,
		verifyAttempts: verifyAttempts,
		runs:           runs,
	}, nil
}

// ObserveSolve records one solve attempt. Failed attempts carry the status "ERROR".
func (r *Recorder) ObserveSolve(status string, found int, duration time.Duration) {
	if r == nil {
		return
	}
	r.solveAttempts.WithLabelValues(status).Inc()
	r.solveDuration.Observe(duration.Seconds())
	r.candidates.Observe(float64(found))
}

// ObserveVerification records one verification attempt: "passed", "warnings" or "failed".
func (r *Recorder) ObserveVerification(outcome string) {
	if r == nil {
		return
	}
	r.verifyAttempts.WithLabelValues(outcome).Inc()
}

// ObserveRun records a finished run: "accepted" or the lower-cased error kind.
func (r *Recorder) ObserveRun(result string) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(result).Inc()
}
