package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObservePage(200)
	m.ObservePage(200)
	m.ObservePage(500)
	m.ObserveError("parse")
	m.ObserveSearch(3*time.Second, 6)
	m.ObserveLookup("page", nil)
	m.ObserveLookup("page", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PagesFetched.WithLabelValues("200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PagesFetched.WithLabelValues("500")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchErrors.WithLabelValues("parse")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChannelLookups.WithLabelValues("page", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChannelLookups.WithLabelValues("page", "error")))

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "crawly_youtube_pages_fetched_total"))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObservePage(200)
		m.ObserveError("fetch")
		m.ObserveSearch(time.Second, 1)
		m.ObserveLookup("api", nil)
	})
}
