package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Eamse/gaon/internal/db"
)

// maxAggregateDays 집계 한 번에 처리하는 최대 구간.
const maxAggregateDays = 90

var ErrMetricsRangeInvalid = errors.New("metrics range is invalid")

// MetricsService 방문 로그 적재와 (일, 경로) 단위 롤업을 담당한다.
type MetricsService struct {
	db *gorm.DB
}

// NewMetricsService creates a MetricsService instance.
func NewMetricsService(gdb *gorm.DB) *MetricsService {
	return &MetricsService{db: gdb}
}

// HashIP returns the hex SHA-256 of salt+ip. Raw addresses never reach
// the database.
func HashIP(salt, ip string) string {
	sum := sha256.Sum256([]byte(salt + ip))
	return hex.EncodeToString(sum[:])
}

// RecordVisit appends one raw visit log row.
func (s *MetricsService) RecordVisit(log db.VisitLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	return s.db.Create(&log).Error
}

// StartOfDay truncates t to midnight UTC. Day boundaries are always
// computed in UTC so reruns are deterministic.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ClampRange normalizes an aggregation window: swapped bounds error out,
// anything longer than 90 days keeps only the most recent 90.
func ClampRange(from, to time.Time) (time.Time, time.Time, error) {
	from, to = StartOfDay(from), StartOfDay(to)
	if to.Before(from) {
		return from, to, ErrMetricsRangeInvalid
	}
	if to.Sub(from) > maxAggregateDays*24*time.Hour {
		from = to.AddDate(0, 0, -maxAggregateDays)
	}
	return from, to, nil
}

// dailyRollup sqlite 집계 쿼리의 스캔 대상.
type dailyRollup struct {
	Day  string
	Path string
	PV   int64
	UV   int64
}

// Aggregate rolls the raw visit logs of [from, to] up into visit_stats.
// Existing (day, path) rows are overwritten, so reruns are idempotent.
func (s *MetricsService) Aggregate(from, to time.Time) (int, error) {
	from, to, err := ClampRange(from, to)
	if err != nil {
		return 0, err
	}
	end := to.AddDate(0, 0, 1)

	var rollups []dailyRollup
	err = s.db.Model(&db.VisitLog{}).
		Select("strftime('%Y-%m-%d', created_at) AS day, path, COUNT(*) AS pv, COUNT(DISTINCT ip_hash) AS uv").
		Where("created_at >= ? AND created_at < ?", from, end).
		Group("day, path").
		Scan(&rollups).Error
	if err != nil {
		return 0, err
	}

	for _, r := range rollups {
		day, err := time.ParseInLocation("2006-01-02", r.Day, time.UTC)
		if err != nil {
			return 0, err
		}

		stat := db.VisitStat{Date: day, Path: r.Path, PV: r.PV, UV: r.UV}
		err = s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "path"}},
			DoUpdates: clause.AssignmentColumns([]string{"pv", "uv", "updated_at"}),
		}).Create(&stat).Error
		if err != nil {
			return 0, err
		}
	}

	return len(rollups), nil
}

// DailyStats returns the rolled-up rows of [from, to] ordered by day.
func (s *MetricsService) DailyStats(from, to time.Time) ([]db.VisitStat, error) {
	from, to, err := ClampRange(from, to)
	if err != nil {
		return nil, err
	}

	var stats []db.VisitStat
	err = s.db.Where("date >= ? AND date <= ?", from, to).
		Order("date asc, path asc").
		Find(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// TrendPoint 최근 방문 추이의 하루치 합계.
type TrendPoint struct {
	Date string `json:"date"`
	PV   int64  `json:"pv"`
	UV   int64  `json:"uv"`
}

// RecentActivity 대시보드 최근 활동 항목.
type RecentActivity struct {
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// Overview 관리자 대시보드 요약.
type Overview struct {
	VisitorsToday    int64            `json:"visitorsToday"`
	InquiriesMonth   int64            `json:"inquiriesMonth"`
	TotalProjects    int64            `json:"totalProjects"`
	PendingInquiries int64            `json:"pendingInquiries"`
	RecentActivities []RecentActivity `json:"recentActivities"`
	VisitorTrend     []TrendPoint     `json:"visitorTrend"`
}

// BuildOverview assembles the dashboard summary. Today's visitors come
// from the raw logs so the number is live even before aggregation runs.
func (s *MetricsService) BuildOverview(now time.Time) (*Overview, error) {
	today := StartOfDay(now)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	var overview Overview

	err := s.db.Model(&db.VisitLog{}).
		Where("created_at >= ?", today).
		Distinct("ip_hash").
		Count(&overview.VisitorsToday).Error
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&db.Inquiry{}).
		Where("created_at >= ?", monthStart).
		Count(&overview.InquiriesMonth).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&db.Project{}).Count(&overview.TotalProjects).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&db.Inquiry{}).
		Where("status = ?", InquiryStatusNew).
		Count(&overview.PendingInquiries).Error; err != nil {
		return nil, err
	}

	activities, err := s.recentActivities(5)
	if err != nil {
		return nil, err
	}
	overview.RecentActivities = activities

	trend, err := s.visitorTrend(today, 7)
	if err != nil {
		return nil, err
	}
	overview.VisitorTrend = trend

	return &overview, nil
}

// recentActivities merges the latest inquiries and projects into one
// list, newest first.
func (s *MetricsService) recentActivities(limit int) ([]RecentActivity, error) {
	var inquiries []db.Inquiry
	if err := s.db.Order("created_at desc").Limit(limit).Find(&inquiries).Error; err != nil {
		return nil, err
	}

	var projects []db.Project
	if err := s.db.Order("created_at desc").Limit(limit).Find(&projects).Error; err != nil {
		return nil, err
	}

	activities := make([]RecentActivity, 0, len(inquiries)+len(projects))
	for _, inquiry := range inquiries {
		activities = append(activities, RecentActivity{
			Type:      "inquiry",
			Title:     inquiry.UserName + " 님의 견적 문의",
			CreatedAt: inquiry.CreatedAt,
		})
	}
	for _, project := range projects {
		activities = append(activities, RecentActivity{
			Type:      "project",
			Title:     project.Title,
			CreatedAt: project.CreatedAt,
		})
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].CreatedAt.After(activities[j].CreatedAt)
	})
	if len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}

// visitorTrend sums the raw logs per day for the last days days, today
// included. Days without visits show zeroes.
func (s *MetricsService) visitorTrend(today time.Time, days int) ([]TrendPoint, error) {
	start := today.AddDate(0, 0, -(days - 1))

	var rollups []dailyRollup
	err := s.db.Model(&db.VisitLog{}).
		Select("strftime('%Y-%m-%d', created_at) AS day, COUNT(*) AS pv, COUNT(DISTINCT ip_hash) AS uv").
		Where("created_at >= ?", start).
		Group("day").
		Scan(&rollups).Error
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]dailyRollup, len(rollups))
	for _, r := range rollups {
		byDay[r.Day] = r
	}

	trend := make([]TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		point := TrendPoint{Date: day}
		if r, ok := byDay[day]; ok {
			point.PV = r.PV
			point.UV = r.UV
		}
		trend = append(trend, point)
	}
	return trend, nil
}
