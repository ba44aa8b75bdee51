package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/cultura-alerta/go-editais/internal/common/metrics"
)

func TestRecordHTTPRequest(t *testing.T) {
	// Arrange
	service := "test-service"
	method := "GET"
	endpoint := "/test"

	// Act
	metrics.RecordHTTPRequest(service, method, endpoint, 200, 100*time.Millisecond)

	// Assert
	counterValue := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(service, method, endpoint, "success"))
	assert.Equal(t, float64(1), counterValue)
}

func TestRecordHTTPRequestError(t *testing.T) {
	// Arrange
	service := "test-service"
	method := "POST"

	// Act
	metrics.RecordHTTPRequest(service, method, "/error", 500, 50*time.Millisecond)
	metrics.RecordHTTPRequest(service, method, "/transport", 0, 50*time.Millisecond)

	// Assert
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(service, method, "/error", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(service, method, "/transport", "error")))
}

func TestRecordPreviewResult(t *testing.T) {
	before := testutil.ToFloat64(metrics.PreviewResultsTotal.WithLabelValues(metrics.PreviewStale))

	metrics.RecordPreviewResult(metrics.PreviewStale)
	metrics.RecordPreviewResult(metrics.PreviewStale)

	after := testutil.ToFloat64(metrics.PreviewResultsTotal.WithLabelValues(metrics.PreviewStale))
	assert.Equal(t, before+2, after)
}

func TestRecordAction(t *testing.T) {
	metrics.RecordAction("metrics-test-action", nil)
	metrics.RecordAction("metrics-test-action", errors.New("falhou"))

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ActionsTotal.WithLabelValues("metrics-test-action", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ActionsTotal.WithLabelValues("metrics-test-action", "error")))
}

func TestRecordConfirmationDeclined(t *testing.T) {
	metrics.RecordConfirmationDeclined("metrics-test-delete")

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ConfirmationsDeclined.WithLabelValues("metrics-test-delete")))
}

func TestSetNoticesDisplayed(t *testing.T) {
	metrics.SetNoticesDisplayed(42)
	assert.Equal(t, float64(42), testutil.ToFloat64(metrics.NoticesDisplayed))

	metrics.SetNoticesDisplayed(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.NoticesDisplayed))
}

func TestRecordCacheLookup(t *testing.T) {
	metrics.RecordCacheLookup("metrics-test", true)
	metrics.RecordCacheLookup("metrics-test", false)
	metrics.RecordCacheLookup("metrics-test", false)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CacheLookupsTotal.WithLabelValues("metrics-test", "hit")))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.CacheLookupsTotal.WithLabelValues("metrics-test", "miss")))
}
