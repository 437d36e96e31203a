package db

import "gorm.io/gorm"

// GalleryImage 갤러리 대표 이미지. Filename이 스토리지 네임스페이스 내 고유 키.
type GalleryImage struct {
	gorm.Model
	Filename    string               `gorm:"size:255;uniqueIndex;not null" json:"filename"`
	Title       string               `gorm:"size:200" json:"title"`
	Category    string               `gorm:"size:50" json:"category"`
	OriginalURL string               `gorm:"size:500" json:"originalUrl"`
	LargeURL    string               `gorm:"size:500" json:"largeUrl"`
	MediumURL   string               `gorm:"size:500" json:"mediumUrl"`
	ThumbURL    string               `gorm:"size:500" json:"thumbUrl"`
	Width       *int                 `json:"width"`
	Height      *int                 `json:"height"`
	SizeBytes   int64                `json:"sizeBytes"`
	DetailImages []GalleryDetailImage `gorm:"constraint:OnDelete:CASCADE" json:"detailImages,omitempty"`
}

// GalleryDetailImage 대표 이미지에 붙는 상세(갤러리) 이미지.
type GalleryDetailImage struct {
	gorm.Model
	GalleryImageID uint   `gorm:"index;not null" json:"galleryImageId"`
	Alt            string `gorm:"size:255" json:"alt"`
	SortOrder      int    `gorm:"default:0" json:"order"`
	OriginalURL    string `gorm:"size:500" json:"originalUrl"`
	LargeURL       string `gorm:"size:500" json:"largeUrl"`
	MediumURL      string `gorm:"size:500" json:"mediumUrl"`
	ThumbURL       string `gorm:"size:500" json:"thumbUrl"`
	Width          *int   `json:"width"`
	Height         *int   `json:"height"`
	SizeBytes      int64  `json:"sizeBytes"`
}

// TableName 자동 복수화 대신 명시적 테이블명 사용.
func (GalleryDetailImage) TableName() string {
	return "gallery_detail_images"
}
