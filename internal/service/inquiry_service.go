package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Eamse/gaon/internal/db"
)

var (
	ErrInquiryNotFound      = errors.New("inquiry not found")
	ErrInquiryNameMissing   = errors.New("inquiry name is required")
	ErrInquiryPhoneMissing  = errors.New("inquiry phone is required")
	ErrInquiryStatusInvalid = errors.New("inquiry status is invalid")
)

const (
	InquiryStatusNew    = "new"
	InquiryStatusActive = "ing"
	InquiryStatusDone   = "done"
	InquiryStatusCancel = "cancel"
)

var inquiryStatuses = map[string]bool{
	InquiryStatusNew:    true,
	InquiryStatusActive: true,
	InquiryStatusDone:   true,
	InquiryStatusCancel: true,
}

// InquiryService 고객 견적 문의 접수와 관리자 처리를 담당한다.
type InquiryService struct {
	db *gorm.DB
}

// NewInquiryService creates an InquiryService instance.
func NewInquiryService(gdb *gorm.DB) *InquiryService {
	return &InquiryService{db: gdb}
}

// InquiryInput represents fields accepted from the public inquiry form.
type InquiryInput struct {
	UserName  string
	UserPhone string
	SpaceType string
	AreaSize  *int
	Location  string
	Scope     string
	Budget    *int64
	Schedule  string
	Requests  string
}

// InquiryFilter describes filters for listing inquiries.
type InquiryFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// InquiryListResult aggregates paginated inquiry results.
type InquiryListResult struct {
	Items      []db.Inquiry
	Total      int64
	TotalPages int
	Page       int
	Limit      int
}

// InquiryUpdateInput 관리자 상태/메모 부분 수정 입력.
type InquiryUpdateInput struct {
	Status    *string
	AdminMemo *string
}

// Create stores a public inquiry. Free text fields are stripped of any
// HTML before they reach the database.
func (s *InquiryService) Create(input InquiryInput) (*db.Inquiry, error) {
	name := strings.TrimSpace(SanitizeText(input.UserName))
	if name == "" {
		return nil, ErrInquiryNameMissing
	}
	phone := strings.TrimSpace(SanitizeText(input.UserPhone))
	if phone == "" {
		return nil, ErrInquiryPhoneMissing
	}

	inquiry := db.Inquiry{
		UserName:  name,
		UserPhone: phone,
		SpaceType: strings.TrimSpace(SanitizeText(input.SpaceType)),
		AreaSize:  input.AreaSize,
		Location:  strings.TrimSpace(SanitizeText(input.Location)),
		Scope:     strings.TrimSpace(SanitizeText(input.Scope)),
		Budget:    input.Budget,
		Schedule:  strings.TrimSpace(SanitizeText(input.Schedule)),
		Requests:  strings.TrimSpace(SanitizeText(input.Requests)),
		Status:    InquiryStatusNew,
	}

	if err := s.db.Create(&inquiry).Error; err != nil {
		return nil, err
	}
	return &inquiry, nil
}

// List returns inquiries matching the filter, newest first.
func (s *InquiryService) List(filter InquiryFilter) (InquiryListResult, error) {
	result := InquiryListResult{
		Page:  normalizePage(filter.Page),
		Limit: normalizeLimit(filter.Limit, defaultPageSize),
	}

	query := s.db.Model(&db.Inquiry{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		if !inquiryStatuses[status] {
			return result, ErrInquiryStatusInvalid
		}
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("user_name LIKE ? OR user_phone LIKE ? OR location LIKE ?", like, like, like)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}

	result.TotalPages = calculateTotalPages(result.Total, result.Limit)
	offset := (result.Page - 1) * result.Limit

	if err := query.Order("created_at desc").
		Limit(result.Limit).
		Offset(offset).
		Find(&result.Items).Error; err != nil {
		return result, err
	}

	return result, nil
}

// Get fetches one inquiry by id.
func (s *InquiryService) Get(id uint) (*db.Inquiry, error) {
	var inquiry db.Inquiry
	if err := s.db.First(&inquiry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInquiryNotFound
		}
		return nil, err
	}
	return &inquiry, nil
}

// Update patches the status and admin memo of an inquiry.
func (s *InquiryService) Update(id uint, input InquiryUpdateInput) (*db.Inquiry, error) {
	inquiry, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		status := strings.TrimSpace(*input.Status)
		if !inquiryStatuses[status] {
			return nil, ErrInquiryStatusInvalid
		}
		inquiry.Status = status
	}
	if input.AdminMemo != nil {
		inquiry.AdminMemo = strings.TrimSpace(SanitizeText(*input.AdminMemo))
	}

	if err := s.db.Save(inquiry).Error; err != nil {
		return nil, err
	}
	return inquiry, nil
}

// Delete removes an inquiry.
func (s *InquiryService) Delete(id uint) error {
	inquiry, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.db.Delete(inquiry).Error
}

// CountByStatus returns how many inquiries sit in the given status.
func (s *InquiryService) CountByStatus(status string) (int64, error) {
	var count int64
	err := s.db.Model(&db.Inquiry{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
