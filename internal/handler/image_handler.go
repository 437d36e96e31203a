package handler

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/Eamse/gaon/internal/service"
	"github.com/Eamse/gaon/internal/storage"
)

const (
	maxUploadBytes     = 20 << 20
	maxFilesPerRequest = 10
)

var (
	errFileTooLarge = errors.New("file too large")
	errNotAnImage   = errors.New("not an image")
)

// allowedImageTypes 업로드를 허용하는 MIME 타입. svg, tiff 등은 받지 않는다.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
	"image/heic": true,
	"image/heif": true,
}

// collectFiles merges the multipart file headers of several field names.
// The admin UI has used different field names over time, so all of them
// are accepted.
func collectFiles(c *gin.Context, fields ...string) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	var files []*multipart.FileHeader
	for _, field := range fields {
		files = append(files, form.File[field]...)
	}
	return files, nil
}

func validateUpload(fh *multipart.FileHeader) error {
	if fh.Size > maxUploadBytes {
		return errFileTooLarge
	}
	if !allowedImageTypes[fh.Header.Get("Content-Type")] {
		return errNotAnImage
	}
	return nil
}

// saveToScratch writes one already-validated upload to the scratch
// original directory under a freshly generated safe name.
func (a *API) saveToScratch(c *gin.Context, fh *multipart.FileHeader) (service.UploadedFile, error) {
	filename := service.BuildFilename(fh.Filename)
	dst := a.dirs.PathFor(storage.VariantOriginal, filename)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return service.UploadedFile{}, err
	}

	return service.UploadedFile{
		Filename:     filename,
		OriginalName: fh.Filename,
		ContentType:  fh.Header.Get("Content-Type"),
		SizeBytes:    fh.Size,
	}, nil
}

// prepareUploads validates the whole batch before anything touches the
// scratch directory, then saves. A rejected batch leaves no files behind.
// It responds on its own when the batch is unacceptable.
func (a *API) prepareUploads(c *gin.Context, headers []*multipart.FileHeader) ([]service.UploadedFile, bool) {
	if len(headers) == 0 {
		respondError(c, http.StatusBadRequest, "업로드할 파일이 없습니다")
		return nil, false
	}
	if len(headers) > maxFilesPerRequest {
		respondError(c, http.StatusBadRequest, "한 번에 10개까지만 업로드할 수 있습니다")
		return nil, false
	}

	for _, fh := range headers {
		if err := validateUpload(fh); err != nil {
			if errors.Is(err, errFileTooLarge) {
				respondError(c, http.StatusRequestEntityTooLarge, "파일 크기는 20MB를 넘을 수 없습니다")
			} else {
				respondError(c, http.StatusBadRequest, "이미지 파일만 업로드할 수 있습니다")
			}
			return nil, false
		}
	}

	files := make([]service.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		file, err := a.saveToScratch(c, fh)
		if err != nil {
			a.discardScratch(files)
			respondError(c, http.StatusInternalServerError, "파일 저장에 실패했습니다")
			return nil, false
		}
		files = append(files, file)
	}
	return files, true
}

// discardScratch removes the scratch originals of a batch that never
// reached ingestion.
func (a *API) discardScratch(files []service.UploadedFile) {
	for _, file := range files {
		path := a.dirs.PathFor(storage.VariantOriginal, file.Filename)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			a.logger.Warn("스크래치 파일 삭제 실패", slog.String("path", path), slog.Any("error", err))
		}
	}
}

// UploadProjectImages ingests a batch of images for a project. Individual
// failures do not abort the batch; each file reports its own outcome.
func (a *API) UploadProjectImages(c *gin.Context) {
	projectID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "유효하지 않은 프로젝트 ID입니다")
		return
	}
	if _, err := a.projects.Get(projectID); err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			respondError(c, http.StatusNotFound, "프로젝트를 찾을 수 없습니다")
			return
		}
		respondError(c, http.StatusInternalServerError, "프로젝트를 불러오지 못했습니다")
		return
	}

	headers, err := collectFiles(c, "files", "images")
	if err != nil {
		respondError(c, http.StatusBadRequest, "업로드 형식이 올바르지 않습니다")
		return
	}
	files, ok := a.prepareUploads(c, headers)
	if !ok {
		return
	}

	results := a.ingest.IngestProjectImages(c.Request.Context(), projectID, files)

	items := make([]gin.H, 0, len(results))
	succeeded := 0
	for _, r := range results {
		if r.Err != nil {
			items = append(items, gin.H{"file": r.File, "error": "이미지 처리에 실패했습니다"})
			continue
		}
		succeeded++
		items = append(items, gin.H{"file": r.File, "item": r.Record, "urls": r.URLs})
	}

	if succeeded == 0 {
		respondErrorDetails(c, http.StatusInternalServerError, "모든 이미지 처리에 실패했습니다", items)
		return
	}
	respondCreated(c, gin.H{"items": items, "count": succeeded})
}

// UploadGalleryImage ingests one gallery main image with optional title
// and category form fields.
func (a *API) UploadGalleryImage(c *gin.Context) {
	headers, err := collectFiles(c, "file", "mainImageFile")
	if err != nil {
		respondError(c, http.StatusBadRequest, "업로드 형식이 올바르지 않습니다")
		return
	}
	if len(headers) != 1 {
		respondError(c, http.StatusBadRequest, "이미지 파일 1개를 업로드해주세요")
		return
	}
	files, ok := a.prepareUploads(c, headers)
	if !ok {
		return
	}

	item, err := a.ingest.IngestGalleryImage(
		c.Request.Context(),
		files[0],
		c.PostForm("title"),
		c.PostForm("category"),
	)
	if err != nil {
		respondDBError(c, err, "이미지 처리에 실패했습니다")
		return
	}

	respondCreated(c, gin.H{"item": item})
}

// UploadGalleryImages ingests a batch of gallery main images.
func (a *API) UploadGalleryImages(c *gin.Context) {
	headers, err := collectFiles(c, "files", "images")
	if err != nil {
		respondError(c, http.StatusBadRequest, "업로드 형식이 올바르지 않습니다")
		return
	}
	files, ok := a.prepareUploads(c, headers)
	if !ok {
		return
	}

	results := a.ingest.IngestGalleryImages(c.Request.Context(), files)

	items := make([]gin.H, 0, len(results))
	succeeded := 0
	for _, r := range results {
		if r.Err != nil {
			items = append(items, gin.H{"file": r.File, "error": "이미지 처리에 실패했습니다"})
			continue
		}
		succeeded++
		items = append(items, gin.H{"file": r.File, "item": r.Record})
	}

	if succeeded == 0 {
		respondErrorDetails(c, http.StatusInternalServerError, "모든 이미지 처리에 실패했습니다", items)
		return
	}
	respondCreated(c, gin.H{"items": items, "count": succeeded})
}

// UploadGalleryDetailImages attaches detail images to a gallery image
// addressed by its filename.
func (a *API) UploadGalleryDetailImages(c *gin.Context) {
	owner, err := a.galleries.GetByFilename(c.Param("filename"))
	if err != nil {
		if errors.Is(err, service.ErrGalleryNotFound) {
			respondError(c, http.StatusNotFound, "갤러리 이미지를 찾을 수 없습니다")
			return
		}
		respondError(c, http.StatusInternalServerError, "갤러리 이미지를 불러오지 못했습니다")
		return
	}

	headers, err := collectFiles(c, "files", "detailImageFiles")
	if err != nil {
		respondError(c, http.StatusBadRequest, "업로드 형식이 올바르지 않습니다")
		return
	}
	files, ok := a.prepareUploads(c, headers)
	if !ok {
		return
	}

	results, err := a.ingest.IngestGalleryDetailImages(
		c.Request.Context(),
		owner.ID,
		files,
		c.PostForm("alt"),
		parseIntPost(c, "order", 0),
	)
	if err != nil {
		if errors.Is(err, service.ErrGalleryNotFound) {
			respondError(c, http.StatusNotFound, "갤러리 이미지를 찾을 수 없습니다")
			return
		}
		respondError(c, http.StatusInternalServerError, "이미지 처리에 실패했습니다")
		return
	}

	items := make([]gin.H, 0, len(results))
	succeeded := 0
	for _, r := range results {
		if r.Err != nil {
			items = append(items, gin.H{"file": r.File, "error": "이미지 처리에 실패했습니다"})
			continue
		}
		succeeded++
		items = append(items, gin.H{"file": r.File, "item": r.Record})
	}

	if succeeded == 0 {
		respondErrorDetails(c, http.StatusInternalServerError, "모든 이미지 처리에 실패했습니다", items)
		return
	}
	respondCreated(c, gin.H{"items": items, "count": succeeded})
}
