package db

import "gorm.io/gorm"

// Project 시공 사례(포트폴리오) 프로젝트
type Project struct {
	gorm.Model
	Title       string        `gorm:"size:200;not null" json:"title"`
	Description string        `json:"description"`
	Location    string        `gorm:"size:100" json:"location"`
	Category    string        `gorm:"size:50" json:"category"`
	Year        *int          `json:"year"`
	Period      string        `gorm:"size:50" json:"period"`
	Area        *float64      `json:"area"`
	Price       int64         `gorm:"default:0" json:"price"`
	MainImage   string        `gorm:"size:500" json:"mainImage"`
	Costs       []ProjectCost `gorm:"constraint:OnDelete:CASCADE" json:"costs"`
	Images      []ProjectImage `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

// ProjectCost 프로젝트 견적 항목. 합계가 Project.Price가 된다.
type ProjectCost struct {
	gorm.Model
	ProjectID uint   `gorm:"index;not null" json:"projectId"`
	Label     string `gorm:"size:100;not null" json:"label"`
	Amount    int64  `gorm:"default:0" json:"amount"`
}

// ProjectImage 프로젝트에 귀속된 업로드 이미지 메타데이터.
// URL 필드는 해당 파생본 업로드가 실패한 경우 빈 문자열일 수 있다.
type ProjectImage struct {
	gorm.Model
	ProjectID   uint   `gorm:"index;not null" json:"projectId"`
	Filename    string `gorm:"size:255;not null" json:"filename"`
	OriginalURL string `gorm:"size:500" json:"originalUrl"`
	LargeURL    string `gorm:"size:500" json:"largeUrl"`
	MediumURL   string `gorm:"size:500" json:"mediumUrl"`
	ThumbURL    string `gorm:"size:500" json:"thumbUrl"`
	Width       *int   `json:"width"`
	Height      *int   `json:"height"`
	SizeBytes   int64  `json:"sizeBytes"`
}

// TableName 자동 복수화 대신 명시적 테이블명 사용.
func (ProjectImage) TableName() string {
	return "project_images"
}
