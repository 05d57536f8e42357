package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "error", Outcome(errors.New("boom")))
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(StaleResponses.WithLabelValues("metrics-test"))
	StaleResponses.WithLabelValues("metrics-test").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(StaleResponses.WithLabelValues("metrics-test")))
}
