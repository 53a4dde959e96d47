package export

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the run counters. They are registered on the given registerer
// so a scheduler wrapper can expose or push them.
type Metrics struct {
	SitesProcessed prometheus.Counter
	SitesSkipped   *prometheus.CounterVec
	SitesFailed    prometheus.Counter
	AssessmentRows prometheus.Counter
	ScoreRows      prometheus.Counter
}

// NewMetrics registers and returns the run counters.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SitesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "starfish_export",
			Name:      "sites_processed_total",
			Help:      "Course sites fully aggregated and committed.",
		}),
		SitesSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "starfish_export",
			Name:      "sites_skipped_total",
			Help:      "Course sites skipped, by reason.",
		}, []string{"reason"}),
		SitesFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "starfish_export",
			Name:      "sites_failed_total",
			Help:      "Course sites abandoned after an unexpected error.",
		}),
		AssessmentRows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "starfish_export",
			Name:      "assessment_rows_total",
			Help:      "Assessment records emitted, synthetic Course Grade rows included.",
		}),
		ScoreRows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "starfish_export",
			Name:      "score_rows_total",
			Help:      "Score records emitted.",
		}),
	}
}

func (m *Metrics) observe(result SiteResult) {
	if m == nil {
		return
	}
	switch result.Outcome {
	case OutcomeProcessed:
		m.SitesProcessed.Inc()
	case OutcomeSkipped:
		m.SitesSkipped.WithLabelValues(string(result.Reason)).Inc()
	case OutcomeFailed:
		m.SitesFailed.Inc()
	}
	m.AssessmentRows.Add(float64(len(result.Export.Assessments)))
	m.ScoreRows.Add(float64(len(result.Export.Scores)))
}
