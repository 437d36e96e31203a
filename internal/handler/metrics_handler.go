package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Eamse/gaon/internal/service"
)

// parseDateQuery reads a YYYY-MM-DD query value, falling back when the
// value is absent or malformed.
func parseDateQuery(c *gin.Context, key string, fallback time.Time) time.Time {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return fallback
	}
	return t
}

// AggregateMetrics rolls raw visit logs up into daily stats. Defaults to
// the last seven days when no range is given.
func (a *API) AggregateMetrics(c *gin.Context) {
	now := time.Now().UTC()
	to := parseDateQuery(c, "to", now)
	from := parseDateQuery(c, "from", now.AddDate(0, 0, -6))

	rows, err := a.metrics.Aggregate(from, to)
	if err != nil {
		if errors.Is(err, service.ErrMetricsRangeInvalid) {
			respondError(c, http.StatusBadRequest, "집계 구간이 올바르지 않습니다")
			return
		}
		respondError(c, http.StatusInternalServerError, "방문 통계 집계에 실패했습니다")
		return
	}

	respondOK(c, gin.H{"rows": rows})
}

// DailyMetrics returns the rolled-up daily stats of a range.
func (a *API) DailyMetrics(c *gin.Context) {
	now := time.Now().UTC()
	to := parseDateQuery(c, "to", now)
	from := parseDateQuery(c, "from", now.AddDate(0, 0, -29))

	stats, err := a.metrics.DailyStats(from, to)
	if err != nil {
		if errors.Is(err, service.ErrMetricsRangeInvalid) {
			respondError(c, http.StatusBadRequest, "조회 구간이 올바르지 않습니다")
			return
		}
		respondError(c, http.StatusInternalServerError, "방문 통계를 불러오지 못했습니다")
		return
	}

	respondOK(c, stats)
}

// MetricsOverview returns the admin dashboard summary.
func (a *API) MetricsOverview(c *gin.Context) {
	overview, err := a.metrics.BuildOverview(time.Now())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "대시보드 데이터를 불러오지 못했습니다")
		return
	}

	respondOK(c, overview)
}
