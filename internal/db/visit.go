package db

import "time"

// VisitLog 요청 단위의 원시 방문 로그. IPHash는 salt를 섞은 SHA-256이며
// 원본 IP는 저장하지 않는다.
type VisitLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	IPHash    string    `gorm:"size:64;index" json:"ipHash"`
	UserAgent string    `gorm:"size:255" json:"userAgent"`
	Path      string    `gorm:"size:255;index" json:"path"`
	Referrer  string    `gorm:"size:255" json:"referrer"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// TableName 자동 복수화 대신 명시적 테이블명 사용.
func (VisitLog) TableName() string {
	return "visit_logs"
}

// VisitStat (일, 경로) 단위 방문 롤업. 집계 재실행 시 upsert로 덮어쓴다.
type VisitStat struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      time.Time `gorm:"uniqueIndex:idx_visit_stat_date_path" json:"date"`
	Path      string    `gorm:"size:255;uniqueIndex:idx_visit_stat_date_path" json:"path"`
	PV        int64     `gorm:"default:0" json:"pv"`
	UV        int64     `gorm:"default:0" json:"uv"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName 자동 복수화 대신 명시적 테이블명 사용.
func (VisitStat) TableName() string {
	return "visit_stats"
}
