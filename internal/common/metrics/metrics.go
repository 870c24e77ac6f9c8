// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WizardStepsAdvanced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_steps_advanced_total",
			Help: "Total number of successful step advances per wizard kind",
		},
		[]string{"wizard_kind"},
	)

	WizardStepValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_step_validation_failures_total",
			Help: "Total number of step validations that blocked advancement",
		},
		[]string{"wizard_kind"},
	)

	DraftSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_draft_saves_total",
			Help: "Total number of draft autosave attempts",
		},
		[]string{"wizard_kind", "outcome"},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_submissions_total",
			Help: "Total number of final submissions",
		},
		[]string{"wizard_kind", "outcome"},
	)

	QuotesBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_quotes_built_total",
			Help: "Total number of price quotes computed",
		},
		[]string{"taker_type", "payment_type"},
	)

	RemindersSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profile_reminders_sent_total",
			Help: "Total number of profile-completion reminders sent",
		},
	)

	DraftSaveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "wizard_draft_save_duration_seconds",
			Help: "Duration of draft persistence calls in seconds",
		},
		[]string{"wizard_kind"},
	)
)
