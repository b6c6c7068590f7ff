package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	careerAssistant = "career_assistant"

	// Pipeline metrics
	pipelineRunsTotal      = "pipeline_runs_total"
	letterVersionsTotal    = "letter_versions_total"
	reviewIterationsTotal  = "review_iterations_total"
	reviewScoreDistributed = "review_score"

	// AI metrics
	aiCallsTotal = "ai_calls_total"

	// Labels
	outcomeLabel = "outcome"
	tierLabel    = "tier"
	gradeLabel   = "grade"
)

var pipelineRunsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: careerAssistant,
		Name:      pipelineRunsTotal,
		Help:      "number of pipeline runs partitioned by outcome",
	},
	[]string{outcomeLabel},
)

var letterVersionsTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: careerAssistant,
		Name:      letterVersionsTotal,
		Help:      "number of cover letter versions created",
	},
)

var reviewIterationsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: careerAssistant,
		Name:      reviewIterationsTotal,
		Help:      "number of review iterations partitioned by grade",
	},
	[]string{gradeLabel},
)

var reviewScoreMetric = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Subsystem: careerAssistant,
		Name:      reviewScoreDistributed,
		Help:      "distribution of total review scores",
		Buckets:   []float64{50, 60, 70, 80, 85, 90, 95, 100},
	},
)

var aiCallsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: careerAssistant,
		Name:      aiCallsTotal,
		Help:      "number of generative model calls partitioned by tier and outcome",
	},
	[]string{tierLabel, outcomeLabel},
)

func IncreasePipelineRunsTotalMetric(outcome string) {
	pipelineRunsTotalMetric.With(prometheus.Labels{outcomeLabel: outcome}).Inc()
}

func IncreaseLetterVersionsTotalMetric() {
	letterVersionsTotalMetric.Inc()
}

func RecordReviewIterationMetric(grade string, totalScore int) {
	reviewIterationsTotalMetric.With(prometheus.Labels{gradeLabel: grade}).Inc()
	reviewScoreMetric.Observe(float64(totalScore))
}

func IncreaseAiCallsTotalMetric(tier string, outcome string) {
	aiCallsTotalMetric.With(prometheus.Labels{tierLabel: tier, outcomeLabel: outcome}).Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(pipelineRunsTotalMetric)
	prometheus.MustRegister(letterVersionsTotalMetric)
	prometheus.MustRegister(reviewIterationsTotalMetric)
	prometheus.MustRegister(reviewScoreMetric)
	prometheus.MustRegister(aiCallsTotalMetric)
}
