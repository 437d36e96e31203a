package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/Eamse/gaon/internal/db"
	"github.com/Eamse/gaon/internal/storage"
)

var (
	ErrGalleryNotFound       = errors.New("gallery image not found")
	ErrGalleryDetailNotFound = errors.New("gallery detail image not found")
)

// GalleryService 갤러리 대표/상세 이미지 메타데이터 CRUD를 담당한다.
// 파일 업로드 자체는 IngestService가 처리한다.
type GalleryService struct {
	db     *gorm.DB
	store  storage.Client
	logger *slog.Logger
}

// NewGalleryService creates a GalleryService instance.
func NewGalleryService(gdb *gorm.DB, store storage.Client, logger *slog.Logger) *GalleryService {
	return &GalleryService{db: gdb, store: store, logger: logger}
}

// GalleryFilter describes filters for listing gallery images.
type GalleryFilter struct {
	Search   string
	Category string
	Sort     string
	Page     int
	Limit    int
}

// GalleryListResult aggregates paginated gallery results.
type GalleryListResult struct {
	Items      []db.GalleryImage
	Total      int64
	TotalPages int
	Page       int
	Limit      int
}

// GalleryMetaInput 제목/카테고리 부분 수정 입력. nil 필드는 건드리지 않는다.
type GalleryMetaInput struct {
	Title    *string
	Category *string
}

// DetailMetaInput 상세 이미지의 alt/order 부분 수정 입력.
type DetailMetaInput struct {
	Alt       *string
	SortOrder *int
}

// List returns gallery images matching the filter.
func (s *GalleryService) List(filter GalleryFilter) (GalleryListResult, error) {
	result := GalleryListResult{
		Page:  normalizePage(filter.Page),
		Limit: normalizeLimit(filter.Limit, defaultPageSize),
	}

	query := s.db.Model(&db.GalleryImage{})
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR filename LIKE ?", like, like)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}

	result.TotalPages = calculateTotalPages(result.Total, result.Limit)
	offset := (result.Page - 1) * result.Limit

	if err := query.Order(galleryOrder(filter.Sort)).
		Limit(result.Limit).
		Offset(offset).
		Find(&result.Items).Error; err != nil {
		return result, err
	}

	return result, nil
}

func galleryOrder(sort string) string {
	switch sort {
	case "oldest":
		return "created_at asc"
	case "title":
		return "title asc, created_at desc"
	default:
		return "created_at desc"
	}
}

// GetByFilename fetches a gallery image and its detail images ordered by
// sort order. Filename is the unique storage name, not the original name.
func (s *GalleryService) GetByFilename(filename string) (*db.GalleryImage, error) {
	var item db.GalleryImage
	err := s.db.Preload("DetailImages", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sort_order asc, id asc")
	}).Where("filename = ?", strings.TrimSpace(filename)).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGalleryNotFound
		}
		return nil, err
	}
	return &item, nil
}

// UpdateMeta patches the title and category of a gallery image.
func (s *GalleryService) UpdateMeta(filename string, input GalleryMetaInput) (*db.GalleryImage, error) {
	item, err := s.GetByFilename(filename)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		item.Title = strings.TrimSpace(*input.Title)
	}
	if input.Category != nil {
		item.Category = strings.TrimSpace(*input.Category)
	}

	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes a gallery image, its detail images and, best effort,
// every stored blob behind them.
func (s *GalleryService) Delete(ctx context.Context, filename string) error {
	item, err := s.GetByFilename(filename)
	if err != nil {
		return err
	}

	s.deleteBlobs(ctx, item.OriginalURL, item.LargeURL, item.MediumURL, item.ThumbURL)
	for _, detail := range item.DetailImages {
		s.deleteBlobs(ctx, detail.OriginalURL, detail.LargeURL, detail.MediumURL, detail.ThumbURL)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gallery_image_id = ?", item.ID).Delete(&db.GalleryDetailImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(item).Error
	})
}

// UpdateDetail patches the alt text and sort order of a detail image.
func (s *GalleryService) UpdateDetail(id uint, input DetailMetaInput) (*db.GalleryDetailImage, error) {
	var detail db.GalleryDetailImage
	if err := s.db.First(&detail, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGalleryDetailNotFound
		}
		return nil, err
	}

	if input.Alt != nil {
		detail.Alt = strings.TrimSpace(*input.Alt)
	}
	if input.SortOrder != nil {
		detail.SortOrder = *input.SortOrder
	}

	if err := s.db.Save(&detail).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

// DeleteDetail removes one detail image record and its blobs.
func (s *GalleryService) DeleteDetail(ctx context.Context, id uint) error {
	var detail db.GalleryDetailImage
	if err := s.db.First(&detail, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGalleryDetailNotFound
		}
		return err
	}

	s.deleteBlobs(ctx, detail.OriginalURL, detail.LargeURL, detail.MediumURL, detail.ThumbURL)
	return s.db.Delete(&detail).Error
}

func (s *GalleryService) deleteBlobs(ctx context.Context, urls ...string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		storage.LogDeleteError(s.logger, url, s.store.Delete(ctx, url))
	}
}
