package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// BusinessRecorder feeds match-run outcomes into the business metrics.
// It is safe to use with a disabled manager, recording becomes a no-op.
type BusinessRecorder struct {
	om *ObservabilityManager
}

// NewBusinessRecorder creates a recorder bound to the given manager
func NewBusinessRecorder(om *ObservabilityManager) *BusinessRecorder {
	return &BusinessRecorder{om: om}
}

// RecordMatchRun records one match run and the number of candidates sampled
func (r *BusinessRecorder) RecordMatchRun(jobID string, sampled int) {
	m := r.om.GetMetrics()
	m.RecordBusinessMetric(context.Background(), "match_run", true, r.om,
		attribute.String("job_id", jobID),
		attribute.Int("sampled", sampled),
	)
}

// RecordAssessment records one candidate assessment outcome
func (r *BusinessRecorder) RecordAssessment(degraded bool) {
	m := r.om.GetMetrics()
	m.RecordBusinessMetric(context.Background(), "candidate_assessed", !degraded, r.om)
	if degraded {
		m.RecordBusinessMetric(context.Background(), "assessment_degraded", false, r.om)
	}
}

// RecordStageAdvance records one stage advance attempt
func (r *BusinessRecorder) RecordStageAdvance(success bool) {
	m := r.om.GetMetrics()
	m.RecordBusinessMetric(context.Background(), "stage_advance", success, r.om)
}

// RecordNotification records one scheduling notification attempt
func (r *BusinessRecorder) RecordNotification(success bool) {
	m := r.om.GetMetrics()
	m.RecordBusinessMetric(context.Background(), "notification_sent", success, r.om)
}
