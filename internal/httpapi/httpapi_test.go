package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-auction-query/internal/config"
	"github.com/goliatone/go-auction-query/pkg/di"
	"github.com/goliatone/go-auction-query/pkg/testsupport"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*gin.Engine, *di.Container) {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)

	now := func() time.Time { return testsupport.SampleNow }
	container, err := di.NewContainer(context.Background(), cfg,
		di.WithClock(now),
		di.WithSeed(testsupport.SampleCategories(), testsupport.SampleCatalog(testsupport.SampleNow)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	h := NewHandler(container.Queries(), container.Registry(), WithClock(now))
	return NewRouter(h, container.Metrics(), nil), container
}

func do(t *testing.T, r http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

type pageBody struct {
	Elements      []map[string]any `json:"elements"`
	TotalElements int              `json:"totalElements"`
	TotalPages    int              `json:"totalPages"`
	IsEmpty       bool             `json:"isEmpty"`
	IsLastPage    bool             `json:"isLastPage"`
}

func decodePage(t *testing.T, rec *httptest.ResponseRecorder) pageBody {
	t.Helper()
	var page pageBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page), rec.Body.String())
	return page
}

func TestListCategoriesGolden(t *testing.T) {
	r, _ := newTestServer(t)

	rec := do(t, r, http.MethodGet, "/api/categories")
	require.Equal(t, http.StatusOK, rec.Code)

	golden := testsupport.LoadGolden(t, testsupport.GoldenPath("categories.json"), rec.Body.Bytes())
	assert.JSONEq(t, string(golden), rec.Body.String())
}

func TestListItems(t *testing.T) {
	r, _ := newTestServer(t)

	rec := do(t, r, http.MethodGet, "/api/items?category=Lighting&size=2")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	page := decodePage(t, rec)
	assert.Equal(t, 3, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.False(t, page.IsLastPage)
	require.Len(t, page.Elements, 2)
	assert.Equal(t, "Brass Lamp", page.Elements[0]["name"])

	rec = do(t, r, http.MethodGet, "/api/items?category=furniture&category=vinyl&search=%20OAK%20&minPrice=10&maxPrice=60")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page = decodePage(t, rec)
	require.Len(t, page.Elements, 1)
	assert.Equal(t, "Oak Chair", page.Elements[0]["name"])
}

func TestListItemsBadRequests(t *testing.T) {
	r, _ := newTestServer(t)

	tests := []struct {
		name   string
		target string
	}{
		{name: "page size above maximum", target: "/api/items?size=65"},
		{name: "page number below minimum", target: "/api/items?page=0"},
		{name: "page not a number", target: "/api/items?page=two"},
		{name: "price not a decimal", target: "/api/items?minPrice=cheap"},
		{name: "negative price", target: "/api/items?minPrice=-1"},
		{name: "max below min", target: "/api/items?minPrice=50&maxPrice=10"},
		{name: "search too long", target: "/api/items?search=" + strings.Repeat("a", 65)},
		{name: "empty category", target: "/api/items?category="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, http.MethodGet, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			var body struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestItemEndpoints(t *testing.T) {
	r, _ := newTestServer(t)
	brass := testsupport.SampleItemID("Brass Lamp").String()
	desk := testsupport.SampleItemID("Desk Lamp").String()

	rec := do(t, r, http.MethodGet, "/api/items/"+brass)
	require.Equal(t, http.StatusOK, rec.Code)
	var info map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "Brass Lamp", info["name"])
	assert.Equal(t, "80", info["currentPrice"])
	assert.Equal(t, "3 days, 0 hours, 0 minutes", info["timeLeft"])

	rec = do(t, r, http.MethodGet, "/api/items/"+brass+"/highest-bidder")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"bidderId":"ana"}`, rec.Body.String())

	rec = do(t, r, http.MethodGet, "/api/items/"+desk+"/highest-bidder")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/items/"+uuid.NewString())
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/items/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPriceRangeAndSuggest(t *testing.T) {
	r, _ := newTestServer(t)

	rec := do(t, r, http.MethodGet, "/api/items/price-range")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"minPrice":"25","maxPrice":"150"}`, rec.Body.String())

	rec = do(t, r, http.MethodGet, "/api/items/suggest?name=brass%20lmp")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"Brass Lamp"}`, rec.Body.String())

	rec = do(t, r, http.MethodGet, "/api/items/suggest")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecommendations(t *testing.T) {
	r, _ := newTestServer(t)

	rec := do(t, r, http.MethodGet, "/api/recommendations?count=2")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var items []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 2)

	rec = do(t, r, http.MethodGet, "/api/recommendations?count=10")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/recommendations?count=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/recommendations?count=65")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserEndpoints(t *testing.T) {
	r, _ := newTestServer(t)

	rec := do(t, r, http.MethodGet, "/api/users/ana/items/active")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decodePage(t, rec).TotalElements)

	rec = do(t, r, http.MethodGet, "/api/users/cy/items/sold")
	require.Equal(t, http.StatusOK, rec.Code)
	sold := decodePage(t, rec)
	require.Len(t, sold.Elements, 1)
	assert.Equal(t, "30", sold.Elements[0]["finalPrice"])

	rec = do(t, r, http.MethodGet, "/api/users/bo/items/bids")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decodePage(t, rec).TotalElements)

	rec = do(t, r, http.MethodGet, "/api/users/ana/history")
	require.Equal(t, http.StatusOK, rec.Code)
	var history []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 2)
	assert.Equal(t, "Brass Lamp", history[0]["name"])
	assert.Equal(t, "Jazz Vinyl", history[1]["name"])

	rec = do(t, r, http.MethodGet, "/api/users/ana/history?since=2026-04-14T00:00:00Z")
	require.Equal(t, http.StatusOK, rec.Code)
	history = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)

	rec = do(t, r, http.MethodGet, "/api/users/ana/history?since=yesterday")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvalidateTag(t *testing.T) {
	r, container := newTestServer(t)

	require.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/items").Code)
	require.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/categories").Code)
	require.Len(t, container.Registry().Keys(), 2)

	rec := do(t, r, http.MethodDelete, "/api/cache/tags/items")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"categories_list"}, container.Registry().Keys())
}

func TestMetricsAndHealth(t *testing.T) {
	r, _ := newTestServer(t)

	require.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/categories").Code)
	require.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/healthz").Code)

	rec := do(t, r, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `auction_query_duration_seconds_count{query="/api/categories",status="ok"} 1`)
	assert.Contains(t, rec.Body.String(), `auction_cache_lookups_total{result="miss"} 1`)
}
