package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_CacheLookups(t *testing.T) {
	c := NewCollector()

	c.CacheHit("srd14", "children")
	c.CacheHit("srd14", "children")
	c.CacheMiss("srd14", "children")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.cacheLookups.WithLabelValues("srd14", "children", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheLookups.WithLabelValues("srd14", "children", "miss")))
}

func TestCollector_StoreCalls(t *testing.T) {
	c := NewCollector()

	c.ObserveStoreCall("srd14", "list", "ok", 15*time.Millisecond)
	c.ObserveStoreCall("srd14", "download", "not_found", 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.storeCalls.WithLabelValues("srd14", "list", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.storeCalls.WithLabelValues("srd14", "download", "not_found")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.storeLatency))
}

func TestCollector_Placeholder(t *testing.T) {
	c := NewCollector()
	c.Placeholder("srd14", "invalid_id")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.placeholders.WithLabelValues("srd14", "invalid_id")))
}

func TestCollector_NilIsSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.CacheHit("p", "k")
		c.CacheMiss("p", "k")
		c.ObserveStoreCall("p", "list", "ok", time.Millisecond)
		c.Placeholder("p", "r")
	})
	assert.Nil(t, c.Registry())
}

func TestRouter_Metrics(t *testing.T) {
	c := NewCollector()
	c.CacheHit("srd14", "leaves")

	srv := httptest.NewServer(c.Router("/metrics", nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `lorelink_cache_lookups_total{kind="leaves",provider="srd14",result="hit"} 1`)
}

func TestRouter_Healthz(t *testing.T) {
	tests := []struct {
		name   string
		health HealthFunc
		status int
		body   string
	}{
		{name: "no check", health: nil, status: http.StatusOK, body: "ok"},
		{name: "healthy", health: func(context.Context) error { return nil }, status: http.StatusOK, body: "ok"},
		{name: "unhealthy", health: func(context.Context) error { return errors.New("bucket unreachable") }, status: http.StatusServiceUnavailable, body: "bucket unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			NewCollector().Router("", tt.health).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.True(t, strings.Contains(rec.Body.String(), tt.body), rec.Body.String())
		})
	}
}
