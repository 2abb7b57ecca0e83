package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.SubmissionsCreated.Inc()
	m.Votes.Add(2)
	m.MirrorUploads.WithLabelValues(ResultFailed).Inc()
	m.MirrorUploads.WithLabelValues(ResultCompleted).Inc()
	m.MirrorUploads.WithLabelValues(ResultCompleted).Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.SubmissionsCreated))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.Votes))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.MirrorUploads.WithLabelValues(ResultCompleted)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.MirrorUploads.WithLabelValues(ResultFailed)))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/api/v1/submissions", "200", 15*time.Millisecond)
	m.SubmissionsCreated.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "ideabank_submissions_created_total 1")
	assert.Contains(t, string(body), `ideabank_http_request_duration_seconds_count{method="GET",route="/api/v1/submissions",status="200"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNewUsesPrivateRegistry(t *testing.T) {
	a, b := New(), New()
	assert.NotSame(t, a.Registry(), b.Registry())
}
