package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.RecordSaved(EntityMaintenance)
	m.RecordSaved(EntityMaintenance)
	m.ValidationFailed(EntityCar)
	m.LoginAttempt(true)
	m.LoginAttempt(false)
	m.LoginAttempt(false)
	m.ObserveRequest(http.MethodGet, "/api/cars", http.StatusOK, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.recordsSaved.WithLabelValues(EntityMaintenance)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validationFailures.WithLabelValues(EntityCar)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loginAttempts.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.loginAttempts.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/cars", "200")))
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordSaved("car")
		m.ValidationFailed("car")
		m.LoginAttempt(true)
		m.ObserveRequest("GET", "/", 200, time.Second)
		m.RegisterStoreSize("car", func() int { return 1 })
	})
}

func TestMetrics_HandlerExposesStoreSize(t *testing.T) {
	m := New()
	m.RegisterStoreSize("car", func() int { return 3 })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `cartech_stored_records{entity="car"} 3`), body)
}
