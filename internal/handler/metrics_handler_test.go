package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Eamse/gaon/internal/db"
	"github.com/Eamse/gaon/internal/service"
)

func metricsRouter(api *API) *gin.Engine {
	r := gin.New()
	admin := r.Group("", api.RequireAuth())
	admin.POST("/metrics/aggregate", api.AggregateMetrics)
	admin.GET("/metrics/daily", api.DailyMetrics)
	admin.GET("/metrics/overview", api.MetricsOverview)
	return r
}

func seedVisits(t *testing.T, gdb *gorm.DB, day time.Time) {
	t.Helper()

	logs := []db.VisitLog{
		{IPHash: service.HashIP("test-salt", "1.1.1.1"), Path: "/projects", CreatedAt: day.Add(9 * time.Hour)},
		{IPHash: service.HashIP("test-salt", "1.1.1.1"), Path: "/projects", CreatedAt: day.Add(10 * time.Hour)},
		{IPHash: service.HashIP("test-salt", "2.2.2.2"), Path: "/projects", CreatedAt: day.Add(11 * time.Hour)},
	}
	for i := range logs {
		if err := gdb.Create(&logs[i]).Error; err != nil {
			t.Fatalf("failed to seed visit log: %v", err)
		}
	}
}

func TestMetricsEndpoints(t *testing.T) {
	api, gdb := setupTestAPI(t)
	seedAdmin(t, gdb)
	r := metricsRouter(api)

	day := service.StartOfDay(time.Now().UTC().AddDate(0, 0, -1))
	seedVisits(t, gdb, day)

	w := performJSON(t, r, http.MethodPost, "/metrics/aggregate", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	token := loginToken(t, api, loginRouter(api))
	authHeader := map[string]string{"Authorization": "Bearer " + token}

	from := day.Format("2006-01-02")
	w = performJSON(t, r, http.MethodPost, "/metrics/aggregate?from="+from+"&to="+from, nil, authHeader)
	if w.Code != http.StatusOK {
		t.Fatalf("aggregate failed: %d %s", w.Code, w.Body.String())
	}
	if data := dataObject(t, decodeBody(t, w)); data["rows"].(float64) != 1 {
		t.Fatalf("expected 1 rolled-up row, got %v", data)
	}

	w = performJSON(t, r, http.MethodGet, "/metrics/daily?from="+from+"&to="+from, nil, authHeader)
	if w.Code != http.StatusOK {
		t.Fatalf("daily failed: %d %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	stats, _ := body["data"].([]interface{})
	if len(stats) != 1 {
		t.Fatalf("expected 1 daily stat, got %v", body)
	}
	stat, _ := stats[0].(map[string]interface{})
	if stat["pv"].(float64) != 3 || stat["uv"].(float64) != 2 {
		t.Fatalf("unexpected rollup %v", stat)
	}

	w = performJSON(t, r, http.MethodGet, "/metrics/daily?from="+from+"&to=2020-01-01", nil, authHeader)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for reversed range, got %d", w.Code)
	}

	w = performJSON(t, r, http.MethodGet, "/metrics/overview", nil, authHeader)
	if w.Code != http.StatusOK {
		t.Fatalf("overview failed: %d %s", w.Code, w.Body.String())
	}
	data := dataObject(t, decodeBody(t, w))
	trend, _ := data["visitorTrend"].([]interface{})
	if len(trend) != 7 {
		t.Fatalf("expected 7 trend points, got %v", data)
	}
}
