package handler

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
)

func jpegBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height)), nil); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

func fileHeader(contentType string, size int64) *multipart.FileHeader {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Type", contentType)
	return &multipart.FileHeader{Filename: "pic.jpg", Header: header, Size: size}
}

func TestValidateUploadAllowList(t *testing.T) {
	for _, contentType := range []string{
		"image/jpeg", "image/png", "image/webp", "image/gif", "image/heic", "image/heif",
	} {
		if err := validateUpload(fileHeader(contentType, 1024)); err != nil {
			t.Fatalf("%s should be allowed, got %v", contentType, err)
		}
	}

	for _, contentType := range []string{
		"image/svg+xml", "image/bmp", "image/tiff", "image/x-icon", "text/plain", "",
	} {
		if err := validateUpload(fileHeader(contentType, 1024)); err != errNotAnImage {
			t.Fatalf("%s should be rejected, got %v", contentType, err)
		}
	}

	if err := validateUpload(fileHeader("image/jpeg", maxUploadBytes+1)); err != errFileTooLarge {
		t.Fatalf("oversized file should be rejected, got %v", err)
	}
}

// uploadPart is one multipart file entry for buildMultipart.
type uploadPart struct {
	field       string
	filename    string
	contentType string
	body        []byte
}

func buildMultipart(t *testing.T, parts []uploadPart) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, part := range parts {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+part.field+`"; filename="`+part.filename+`"`)
		header.Set("Content-Type", part.contentType)
		w, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("failed to create part: %v", err)
		}
		if _, err := w.Write(part.body); err != nil {
			t.Fatalf("failed to write part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

// scratchEntryCount counts files left across the scratch directories.
func scratchEntryCount(t *testing.T, api *API) int {
	t.Helper()

	count := 0
	for _, dir := range []string{api.dirs.Original, api.dirs.Large, api.dirs.Medium, api.dirs.Thumb} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("failed to read scratch dir %s: %v", dir, err)
		}
		count += len(entries)
	}
	return count
}

func uploadSetup(t *testing.T) (*API, *gin.Engine, map[string]string) {
	t.Helper()

	api, gdb := setupTestAPI(t)
	seedAdmin(t, gdb)
	r := projectRouter(api)

	token := loginToken(t, api, loginRouter(api))
	authHeader := map[string]string{"Authorization": "Bearer " + token}

	w := performJSON(t, r, http.MethodPost, "/projects", gin.H{"title": "업로드 검증"}, authHeader)
	if w.Code != http.StatusCreated {
		t.Fatalf("create failed: %d", w.Code)
	}
	return api, r, authHeader
}

func postUpload(t *testing.T, r *gin.Engine, headers map[string]string, parts []uploadPart) *httptest.ResponseRecorder {
	t.Helper()

	buf, contentType := buildMultipart(t, parts)
	req := httptest.NewRequest(http.MethodPost, "/projects/1/images", buf)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", headers["Authorization"])

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestUploadRejectsDisallowedImageType(t *testing.T) {
	api, r, authHeader := uploadSetup(t)

	rec := postUpload(t, r, authHeader, []uploadPart{
		{field: "files", filename: "vector.svg", contentType: "image/svg+xml", body: []byte("<svg/>")},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for svg, got %d %s", rec.Code, rec.Body.String())
	}

	store := api.store.(*stubStore)
	if len(store.uploads) != 0 {
		t.Fatalf("rejected type must not reach storage, got %d uploads", len(store.uploads))
	}
	if n := scratchEntryCount(t, api); n != 0 {
		t.Fatalf("rejected type must not reach scratch, found %d files", n)
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	api, r, authHeader := uploadSetup(t)

	rec := postUpload(t, r, authHeader, []uploadPart{
		{field: "files", filename: "huge.jpg", contentType: "image/jpeg", body: make([]byte, maxUploadBytes+1)},
	})
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 for oversized file, got %d %s", rec.Code, rec.Body.String())
	}

	store := api.store.(*stubStore)
	if len(store.uploads) != 0 {
		t.Fatalf("oversized file must not reach storage, got %d uploads", len(store.uploads))
	}
	if n := scratchEntryCount(t, api); n != 0 {
		t.Fatalf("oversized file must not reach scratch, found %d files", n)
	}
}

func TestUploadRejectsOversizedBatch(t *testing.T) {
	api, r, authHeader := uploadSetup(t)

	parts := make([]uploadPart, 0, maxFilesPerRequest+1)
	for i := 0; i <= maxFilesPerRequest; i++ {
		parts = append(parts, uploadPart{
			field:       "files",
			filename:    fmt.Sprintf("batch-%d.jpg", i),
			contentType: "image/jpeg",
			body:        []byte("tiny"),
		})
	}

	rec := postUpload(t, r, authHeader, parts)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for 11-file batch, got %d %s", rec.Code, rec.Body.String())
	}

	store := api.store.(*stubStore)
	if len(store.uploads) != 0 {
		t.Fatalf("oversized batch must not reach storage, got %d uploads", len(store.uploads))
	}
	if n := scratchEntryCount(t, api); n != 0 {
		t.Fatalf("oversized batch must not reach scratch, found %d files", n)
	}
}

func TestRejectedBatchLeavesNoScratchFiles(t *testing.T) {
	api, r, authHeader := uploadSetup(t)

	// a valid file followed by an invalid one: the batch is rejected as a
	// whole and the valid file must not stay behind on disk
	rec := postUpload(t, r, authHeader, []uploadPart{
		{field: "files", filename: "ok.jpg", contentType: "image/jpeg", body: jpegBytes(t, 100, 80)},
		{field: "files", filename: "notes.txt", contentType: "text/plain", body: []byte("hello")},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for mixed batch, got %d %s", rec.Code, rec.Body.String())
	}

	store := api.store.(*stubStore)
	if len(store.uploads) != 0 {
		t.Fatalf("rejected batch must not reach storage, got %d uploads", len(store.uploads))
	}
	if n := scratchEntryCount(t, api); n != 0 {
		t.Fatalf("rejected batch leaked %d scratch files", n)
	}
}
