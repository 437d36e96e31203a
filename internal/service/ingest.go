package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/Eamse/gaon/internal/db"
	"github.com/Eamse/gaon/internal/storage"
)

var ErrNoFiles = errors.New("no files uploaded")

// UploadedFile 스크래치 디렉터리에 저장을 마친 업로드 파일 한 건.
type UploadedFile struct {
	// Filename is the generated safe name; the original already sits at
	// the scratch original path under this name.
	Filename     string
	OriginalName string
	ContentType  string
	SizeBytes    int64
}

// UploadURLs 원본과 세 파생본의 공개 URL. 실패하거나 생략된 항목은 빈 문자열.
type UploadURLs struct {
	Original string `json:"original"`
	Large    string `json:"large"`
	Medium   string `json:"medium"`
	Thumb    string `json:"thumb"`
}

// IngestService drives the per-file pipeline: derivative generation,
// storage upload, dimension probing, metadata persistence and scratch
// cleanup. A batch continues past individual file failures; each result
// carries its own error.
type IngestService struct {
	db     *gorm.DB
	store  storage.Client
	dirs   ScratchDirs
	logger *slog.Logger
}

// NewIngestService creates an IngestService.
func NewIngestService(gdb *gorm.DB, store storage.Client, dirs ScratchDirs, logger *slog.Logger) *IngestService {
	return &IngestService{db: gdb, store: store, dirs: dirs, logger: logger}
}

// ingestedAsset is the outcome of the storage half of the pipeline.
type ingestedAsset struct {
	urls   UploadURLs
	width  *int
	height *int
}

// processFile runs generation and upload for one file. Scratch copies are
// removed before returning, success or not.
func (s *IngestService) processFile(ctx context.Context, file UploadedFile, keys map[storage.Variant]string) (*ingestedAsset, error) {
	defer s.cleanupScratch(file.Filename)

	srcPath := s.dirs.PathFor(storage.VariantOriginal, file.Filename)
	set, err := GenerateSizes(srcPath, file.Filename, s.dirs)
	if err != nil {
		return nil, err
	}

	urls, err := s.uploadSet(ctx, srcPath, set, keys, file)
	if err != nil {
		return nil, err
	}

	width, height := set.SourceWidth, set.SourceHeight
	return &ingestedAsset{urls: urls, width: &width, height: &height}, nil
}

// uploadSet pushes the original plus the three derivatives concurrently.
// The original keeps the client's content type; derivatives carry the
// type they were actually encoded with. Any failed put aborts the file:
// partial uploads are not compensated.
func (s *IngestService) uploadSet(ctx context.Context, srcPath string, set *DerivativeSet, keys map[storage.Variant]string, file UploadedFile) (UploadURLs, error) {
	var (
		mu   sync.Mutex
		urls UploadURLs
	)
	assign := func(variant storage.Variant, url string) {
		mu.Lock()
		defer mu.Unlock()
		switch variant {
		case storage.VariantLarge:
			urls.Large = url
		case storage.VariantMedium:
			urls.Medium = url
		case storage.VariantThumb:
			urls.Thumb = url
		default:
			urls.Original = url
		}
	}

	derivedType := DerivativeContentType(file.Filename)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result, err := s.store.Upload(gctx, srcPath, keys[storage.VariantOriginal], file.ContentType)
		if err != nil {
			return err
		}
		assign(storage.VariantOriginal, result.URL)
		return nil
	})
	for _, variant := range storage.Variants {
		g.Go(func() error {
			result, err := s.store.Upload(gctx, set.Paths[variant], keys[variant], derivedType)
			if err != nil {
				return err
			}
			assign(variant, result.URL)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return UploadURLs{}, err
	}

	return urls, nil
}

// cleanupScratch removes the four local copies of a file. Missing files
// are fine: generation may have failed before writing them.
func (s *IngestService) cleanupScratch(filename string) {
	for _, path := range s.dirs.AllPaths(filename) {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("스크래치 파일 삭제 실패", slog.String("path", path), slog.Any("error", err))
		}
	}
}

// ProjectIngestResult 프로젝트 이미지 배치의 파일별 결과.
type ProjectIngestResult struct {
	File   string
	Record *db.ProjectImage
	URLs   UploadURLs
	Err    error
}

// IngestProjectImages runs the pipeline for every file of a batch under
// the projects/<id>/ namespace. Files are processed sequentially; a failed
// file is reported in its slot and the batch moves on.
func (s *IngestService) IngestProjectImages(ctx context.Context, projectID uint, files []UploadedFile) []ProjectIngestResult {
	results := make([]ProjectIngestResult, 0, len(files))

	for _, file := range files {
		result := ProjectIngestResult{File: file.Filename}

		keys := map[storage.Variant]string{
			storage.VariantOriginal: storage.ProjectImageKey(projectID, storage.VariantOriginal, file.Filename),
		}
		for _, variant := range storage.Variants {
			keys[variant] = storage.ProjectImageKey(projectID, variant, file.Filename)
		}

		asset, err := s.processFile(ctx, file, keys)
		if err != nil {
			s.logger.Error("프로젝트 이미지 처리 실패",
				slog.Uint64("projectId", uint64(projectID)),
				slog.String("file", file.Filename),
				slog.Any("error", err))
			result.Err = err
			results = append(results, result)
			continue
		}

		record := db.ProjectImage{
			ProjectID:   projectID,
			Filename:    file.Filename,
			OriginalURL: asset.urls.Original,
			LargeURL:    asset.urls.Large,
			MediumURL:   asset.urls.Medium,
			ThumbURL:    asset.urls.Thumb,
			Width:       asset.width,
			Height:      asset.height,
			SizeBytes:   file.SizeBytes,
		}
		if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
			result.Err = err
			results = append(results, result)
			continue
		}

		result.Record = &record
		result.URLs = asset.urls
		results = append(results, result)
	}

	return results
}

// IngestGalleryImage runs the pipeline for a single gallery main image
// under the uploads/<variant>/ namespace.
func (s *IngestService) IngestGalleryImage(ctx context.Context, file UploadedFile, title, category string) (*db.GalleryImage, error) {
	keys := map[storage.Variant]string{
		storage.VariantOriginal: storage.GalleryImageKey(storage.VariantOriginal, file.Filename),
	}
	for _, variant := range storage.Variants {
		keys[variant] = storage.GalleryImageKey(variant, file.Filename)
	}

	asset, err := s.processFile(ctx, file, keys)
	if err != nil {
		return nil, err
	}

	record := db.GalleryImage{
		Filename:    file.Filename,
		Title:       title,
		Category:    category,
		OriginalURL: asset.urls.Original,
		LargeURL:    asset.urls.Large,
		MediumURL:   asset.urls.Medium,
		ThumbURL:    asset.urls.Thumb,
		Width:       asset.width,
		Height:      asset.height,
		SizeBytes:   file.SizeBytes,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// GalleryIngestResult 갤러리 다중 업로드의 파일별 결과.
type GalleryIngestResult struct {
	File   string
	Record *db.GalleryImage
	Err    error
}

// IngestGalleryImages is the multi-file variant of IngestGalleryImage.
// Title and category stay empty for batch uploads.
func (s *IngestService) IngestGalleryImages(ctx context.Context, files []UploadedFile) []GalleryIngestResult {
	results := make([]GalleryIngestResult, 0, len(files))
	for _, file := range files {
		record, err := s.IngestGalleryImage(ctx, file, "", "")
		if err != nil {
			s.logger.Error("갤러리 이미지 처리 실패", slog.String("file", file.Filename), slog.Any("error", err))
			results = append(results, GalleryIngestResult{File: file.Filename, Err: err})
			continue
		}
		results = append(results, GalleryIngestResult{File: file.Filename, Record: record})
	}
	return results
}

// DetailIngestResult 상세 이미지 배치의 파일별 결과.
type DetailIngestResult struct {
	File   string
	Record *db.GalleryDetailImage
	Err    error
}

// IngestGalleryDetailImages attaches detail images to an existing gallery
// image. The record is created first so its id can participate in the
// object key, then updated with the uploaded URLs.
func (s *IngestService) IngestGalleryDetailImages(ctx context.Context, galleryImageID uint, files []UploadedFile, alt string, order int) ([]DetailIngestResult, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	var owner db.GalleryImage
	if err := s.db.WithContext(ctx).First(&owner, galleryImageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGalleryNotFound
		}
		return nil, err
	}

	results := make([]DetailIngestResult, 0, len(files))
	for _, file := range files {
		record := db.GalleryDetailImage{
			GalleryImageID: owner.ID,
			Alt:            alt,
			SortOrder:      order,
		}
		if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
			results = append(results, DetailIngestResult{File: file.Filename, Err: err})
			continue
		}

		keys := map[storage.Variant]string{
			storage.VariantOriginal: storage.GalleryDetailKey(owner.ID, record.ID, storage.VariantOriginal, file.OriginalName),
		}
		for _, variant := range storage.Variants {
			keys[variant] = storage.GalleryDetailKey(owner.ID, record.ID, variant, file.OriginalName)
		}

		asset, err := s.processFile(ctx, file, keys)
		if err != nil {
			s.logger.Error("상세 이미지 처리 실패", slog.String("file", file.Filename), slog.Any("error", err))
			// the placeholder row has no uploaded blobs behind it
			s.db.WithContext(ctx).Delete(&record)
			results = append(results, DetailIngestResult{File: file.Filename, Err: err})
			continue
		}

		record.OriginalURL = asset.urls.Original
		record.LargeURL = asset.urls.Large
		record.MediumURL = asset.urls.Medium
		record.ThumbURL = asset.urls.Thumb
		record.Width = asset.width
		record.Height = asset.height
		record.SizeBytes = file.SizeBytes
		if err := s.db.WithContext(ctx).Save(&record).Error; err != nil {
			results = append(results, DetailIngestResult{File: file.Filename, Err: err})
			continue
		}

		results = append(results, DetailIngestResult{File: file.Filename, Record: &record})
	}

	return results, nil
}
