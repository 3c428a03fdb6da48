package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequests.WithLabelValues("list", "200"))
	beforeErr := testutil.ToFloat64(APIRequests.WithLabelValues("list", "error"))

	ObserveAPIRequest("list", 200, 15*time.Millisecond)
	ObserveAPIRequest("list", 0, time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(APIRequests.WithLabelValues("list", "200")))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(APIRequests.WithLabelValues("list", "error")))
}

func TestStaleResponsesCounter(t *testing.T) {
	before := testutil.ToFloat64(StaleResponsesDiscarded)
	StaleResponsesDiscarded.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(StaleResponsesDiscarded))
}
