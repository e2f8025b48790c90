package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

func TestObserveOperation(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveOperation("Soumettre", 10*time.Millisecond, nil)
	m.ObserveOperation("Soumettre", 10*time.Millisecond, &shared.MultipleBusinessErrors{Errors: []*shared.BusinessError{
		shared.NewBusinessError("PROPOSITION-24", "CandidatNonTrouveException", "Candidate not found."),
		shared.NewBusinessError("PROPOSITION-34", "FichierCurriculumNonRenseigneException", "..."),
	}})
	m.ObserveOperation("Soumettre", 10*time.Millisecond, errors.New("db down"))

	assert.Equal(t, 3, testutil.CollectAndCount(m.OperationDuration))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.BusinessErrors.WithLabelValues("CandidatNonTrouveException")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.BusinessErrors.WithLabelValues("FichierCurriculumNonRenseigneException")))
}

func TestObserveJobAndHandler(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveJob("verifier_paiements", nil)
	m.ObserveJob("verifier_paiements", nil)
	m.ObserveJob("verifier_paiements", errors.New("boom"))
	m.ObserveHandler("proposition.soumise", time.Millisecond, nil)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.JobRuns.WithLabelValues("verifier_paiements", OutcomeSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.JobRuns.WithLabelValues("verifier_paiements", OutcomeError)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HandlerDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveOperation("Soumettre", time.Millisecond, nil)
		m.ObserveHandler("proposition.soumise", time.Millisecond, nil)
		m.ObserveJob("recalculer_documents", nil)
		m.ObserveHTTP("GET", "/health", 200, time.Millisecond)
	})
}
