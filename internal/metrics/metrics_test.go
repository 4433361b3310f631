package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chrissnell/airquality/internal/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableLoaded(t *testing.T) {
	m := New()

	table := &types.Table{
		Records:  make([]types.Record, 5),
		Files:    []string{"a.csv", "b.csv"},
		LoadedAt: time.Unix(1700000000, 0),
	}
	m.TableLoaded(table, nil)
	m.TableLoaded(nil, errors.New("boom"))

	assert.Equal(t, 5.0, testutil.ToFloat64(m.rows))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.files))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(m.loadedAt))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reloads.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reloads.WithLabelValues("error")))
}

func TestObserveRequestAndChartFailures(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/summary", http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest("/api/summary", http.StatusBadRequest, time.Millisecond)
	m.ChartFailed("decomposition", errors.New("too short"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/summary", "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.chartFailures.WithLabelValues("decomposition")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `airquality_chart_failures_total{chart="decomposition"} 1`)
	assert.Contains(t, rec.Body.String(), "airquality_http_request_duration_seconds_bucket")
}
