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
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectImageNotFound = errors.New("project image not found")
	ErrProjectTitleMissing  = errors.New("project title is required")
)

// ProjectService 시공 사례 CRUD와 이미지 메타데이터 정리를 담당한다.
type ProjectService struct {
	db     *gorm.DB
	store  storage.Client
	logger *slog.Logger
}

// NewProjectService creates a ProjectService instance.
func NewProjectService(gdb *gorm.DB, store storage.Client, logger *slog.Logger) *ProjectService {
	return &ProjectService{db: gdb, store: store, logger: logger}
}

// ProjectFilter describes filters for listing projects.
type ProjectFilter struct {
	Search   string
	Category string
	Year     *int
	Sort     string
	Page     int
	Limit    int
}

// ProjectListResult aggregates paginated project results.
type ProjectListResult struct {
	Items      []db.Project
	Total      int64
	TotalPages int
	Page       int
	Limit      int
}

// CostInput 견적 항목 입력값.
type CostInput struct {
	Label  string
	Amount int64
}

// ProjectInput represents fields accepted when creating or updating a
// project. Costs replace the existing cost rows wholesale.
type ProjectInput struct {
	Title       string
	Description string
	Location    string
	Category    string
	Year        *int
	Period      string
	Area        *float64
	MainImage   string
	Costs       []CostInput
}

func (in ProjectInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrProjectTitleMissing
	}
	return nil
}

// sumCosts 견적 합계. Project.Price는 항상 이 값으로 유지된다.
func sumCosts(costs []CostInput) int64 {
	var total int64
	for _, c := range costs {
		total += c.Amount
	}
	return total
}

// List returns projects matching the filter. Images are not preloaded;
// the list view only needs the main image URL.
func (s *ProjectService) List(filter ProjectFilter) (ProjectListResult, error) {
	result := ProjectListResult{
		Page:  normalizePage(filter.Page),
		Limit: normalizeLimit(filter.Limit, defaultPageSize),
	}

	query := s.db.Model(&db.Project{})
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if filter.Year != nil {
		query = query.Where("year = ?", *filter.Year)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR location LIKE ?", like, like)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}

	result.TotalPages = calculateTotalPages(result.Total, result.Limit)
	offset := (result.Page - 1) * result.Limit

	if err := query.Order(projectOrder(filter.Sort)).
		Preload("Costs").
		Limit(result.Limit).
		Offset(offset).
		Find(&result.Items).Error; err != nil {
		return result, err
	}

	return result, nil
}

// projectOrder 정렬 키 화이트리스트. 모르는 값은 최신순.
func projectOrder(sort string) string {
	switch sort {
	case "oldest":
		return "created_at asc"
	case "year":
		return "year desc, created_at desc"
	default:
		return "created_at desc"
	}
}

// Get fetches a project with its costs and images.
func (s *ProjectService) Get(id uint) (*db.Project, error) {
	var project db.Project
	err := s.db.Preload("Costs").
		Preload("Images", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at asc")
		}).
		First(&project, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// Create stores a new project. Price is derived from the cost rows.
func (s *ProjectService) Create(input ProjectInput) (*db.Project, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	project := db.Project{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Location:    strings.TrimSpace(input.Location),
		Category:    strings.TrimSpace(input.Category),
		Year:        input.Year,
		Period:      strings.TrimSpace(input.Period),
		Area:        input.Area,
		Price:       sumCosts(input.Costs),
		MainImage:   strings.TrimSpace(input.MainImage),
	}
	for _, c := range input.Costs {
		project.Costs = append(project.Costs, db.ProjectCost{
			Label:  strings.TrimSpace(c.Label),
			Amount: c.Amount,
		})
	}

	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Update replaces the project fields and its cost rows in one
// transaction. Price is recomputed from the new costs.
func (s *ProjectService) Update(id uint, input ProjectInput) (*db.Project, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var project db.Project
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&project, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return err
		}

		project.Title = strings.TrimSpace(input.Title)
		project.Description = input.Description
		project.Location = strings.TrimSpace(input.Location)
		project.Category = strings.TrimSpace(input.Category)
		project.Year = input.Year
		project.Period = strings.TrimSpace(input.Period)
		project.Area = input.Area
		project.Price = sumCosts(input.Costs)
		project.MainImage = strings.TrimSpace(input.MainImage)

		if err := tx.Save(&project).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", project.ID).Delete(&db.ProjectCost{}).Error; err != nil {
			return err
		}
		for _, c := range input.Costs {
			cost := db.ProjectCost{
				ProjectID: project.ID,
				Label:     strings.TrimSpace(c.Label),
				Amount:    c.Amount,
			}
			if err := tx.Create(&cost).Error; err != nil {
				return err
			}
			project.Costs = append(project.Costs, cost)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Delete removes a project, its costs, its image records and, best
// effort, the stored blobs. Blob deletion failures are logged only.
func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	var project db.Project
	if err := s.db.Preload("Images").First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}

	for _, img := range project.Images {
		s.deleteImageBlobs(ctx, img)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&db.ProjectCost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&db.ProjectImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
}

// ListImages returns the image records of a project in upload order.
func (s *ProjectService) ListImages(projectID uint) ([]db.ProjectImage, error) {
	var project db.Project
	if err := s.db.Select("id").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	var images []db.ProjectImage
	if err := s.db.Where("project_id = ?", projectID).
		Order("created_at asc").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// DeleteImage removes one image record and its blobs.
func (s *ProjectService) DeleteImage(ctx context.Context, imageID uint) error {
	var img db.ProjectImage
	if err := s.db.First(&img, imageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectImageNotFound
		}
		return err
	}

	s.deleteImageBlobs(ctx, img)
	return s.db.Delete(&img).Error
}

// deleteImageBlobs removes the four stored sizes of one image record.
func (s *ProjectService) deleteImageBlobs(ctx context.Context, img db.ProjectImage) {
	for _, url := range []string{img.OriginalURL, img.LargeURL, img.MediumURL, img.ThumbURL} {
		if url == "" {
			continue
		}
		storage.LogDeleteError(s.logger, url, s.store.Delete(ctx, url))
	}
}
