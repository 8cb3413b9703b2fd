package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds counters for catalog and tracking writes.
type Metrics struct {
	submissions    *prometheus.CounterVec
	trackerCreates *prometheus.CounterVec
}

// New creates the counters and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tally",
			Name:      "submissions_total",
			Help:      "Total number of tracking submissions by outcome.",
		}, []string{"result"}),
		trackerCreates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tally",
			Name:      "tracker_creates_total",
			Help:      "Total number of tracker creation attempts by outcome.",
		}, []string{"result"}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.submissions, m.trackerCreates} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// ObserveSubmission increments the submission counter for result.
func (m *Metrics) ObserveSubmission(result string) {
	m.submissions.WithLabelValues(result).Inc()
}

// ObserveTrackerCreate increments the tracker creation counter for result.
func (m *Metrics) ObserveTrackerCreate(result string) {
	m.trackerCreates.WithLabelValues(result).Inc()
}
