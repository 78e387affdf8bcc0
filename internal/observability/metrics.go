package observability

import (
	"github.com/arnold/selfcare-api/internal/models"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	activitiesCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "selfcare",
		Name:      "activities_created_total",
		Help:      "Activities created, by type.",
	}, []string{"type"})
	activitiesCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "selfcare",
		Name:      "activities_completed_total",
		Help:      "Activities moved from incomplete to completed, by type.",
	}, []string{"type"})
	weeklyHours = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "selfcare",
		Name:      "weekly_hours_computed",
		Help:      "Weekly completed hours returned to clients.",
		Buckets:   []float64{0, 1, 2, 5, 10, 20, 40, 80},
	})
)

func init() {
	prometheus.MustRegister(activitiesCreated, activitiesCompleted, weeklyHours)
}

func RecordActivityCreated(t models.ActivityType) {
	activitiesCreated.WithLabelValues(string(t)).Inc()
}

// RecordActivityCompleted should only be called for the first completion.
func RecordActivityCompleted(t models.ActivityType) {
	activitiesCompleted.WithLabelValues(string(t)).Inc()
}

func RecordWeeklyHours(h float64) {
	weeklyHours.Observe(h)
}
