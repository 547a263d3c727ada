package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/titles", "200"))

	RecordAPIRequest("GET", "/api/v1/titles", "200", 15*time.Millisecond)
	RecordAPIRequest("GET", "/api/v1/titles", "200", 5*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/titles", "200"))
	assert.Equal(t, before+2, after)
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	assert.Equal(t, before+1, testutil.ToFloat64(APIActiveRequests))
	TrackActiveRequest(false)
	assert.Equal(t, before, testutil.ToFloat64(APIActiveRequests))
}

func TestRecordSignup(t *testing.T) {
	created := testutil.ToFloat64(SignupsTotal.WithLabelValues("created"))
	resent := testutil.ToFloat64(SignupsTotal.WithLabelValues("resent"))

	RecordSignup(true)
	RecordSignup(false)
	RecordSignup(false)

	assert.Equal(t, created+1, testutil.ToFloat64(SignupsTotal.WithLabelValues("created")))
	assert.Equal(t, resent+2, testutil.ToFloat64(SignupsTotal.WithLabelValues("resent")))
}
