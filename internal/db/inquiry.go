package db

import "gorm.io/gorm"

// Inquiry 고객 견적 문의.
// Status: new(신규) / ing(상담중) / done(완료) / cancel(취소)
type Inquiry struct {
	gorm.Model
	UserName  string `gorm:"size:80;not null" json:"userName"`
	UserPhone string `gorm:"size:30;not null" json:"userPhone"`
	SpaceType string `gorm:"size:50" json:"spaceType"`
	AreaSize  *int   `json:"areaSize"`
	Location  string `gorm:"size:100" json:"location"`
	Scope     string `gorm:"size:100" json:"scope"`
	Budget    *int64 `json:"budget"`
	Schedule  string `gorm:"size:100" json:"schedule"`
	Requests  string `json:"requests"`
	Status    string `gorm:"size:20;default:new;index" json:"status"`
	AdminMemo string `json:"adminMemo"`
}
