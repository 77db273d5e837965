package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	c := New()

	c.Lookup(true)
	c.Lookup(false)
	c.Lookup(false)
	c.StoreCommand("get", nil)
	c.StoreCommand("set", errors.New("timeout"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.lookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.lookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.storeCommands.WithLabelValues("get", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.storeCommands.WithLabelValues("set", "error")))
}

func TestCollectorsAreIsolated(t *testing.T) {
	a, b := New(), New()
	a.Lookup(true)

	assert.Equal(t, 0.0, testutil.ToFloat64(b.lookups.WithLabelValues("hit")))
}

func TestHandler(t *testing.T) {
	c := New()
	c.Lookup(true)
	c.ObserveQuery("list_items", 12*time.Millisecond, nil)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `auction_cache_lookups_total{result="hit"} 1`), body)
	assert.True(t, strings.Contains(body, `auction_query_duration_seconds_count{query="list_items",status="ok"} 1`), body)
}
