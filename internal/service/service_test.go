package service

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Eamse/gaon/internal/db"
	"github.com/Eamse/gaon/internal/storage"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// stubStore records uploads and deletes in memory.
type stubStore struct {
	mu           sync.Mutex
	uploads      []string
	contentTypes map[string]string
	deletes      []string
	failUploads  bool
	failDeletes  bool
}

func (s *stubStore) Upload(_ context.Context, localPath, key, contentType string) (storage.UploadResult, error) {
	if _, err := os.Stat(localPath); err != nil {
		return storage.UploadResult{}, fmt.Errorf("missing local file: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUploads {
		return storage.UploadResult{}, fmt.Errorf("upload refused: %s", key)
	}
	s.uploads = append(s.uploads, key)
	if s.contentTypes == nil {
		s.contentTypes = make(map[string]string)
	}
	s.contentTypes[key] = contentType
	return storage.UploadResult{Key: key, URL: "https://cdn.test/" + key}, nil
}

func (s *stubStore) contentTypeOf(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contentTypes[key]
}

func (s *stubStore) Delete(_ context.Context, urlOrKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDeletes {
		return fmt.Errorf("delete refused: %s", urlOrKey)
	}
	s.deletes = append(s.deletes, urlOrKey)
	return nil
}

func (s *stubStore) uploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}

func (s *stubStore) deleteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deletes)
}

// writeTestJPEG writes a width x height jpeg to path.
func writeTestJPEG(t *testing.T, path string, width, height int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 10 {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
}

func setupScratch(t *testing.T) ScratchDirs {
	t.Helper()

	dirs := NewScratchDirs(t.TempDir())
	if err := dirs.Ensure(); err != nil {
		t.Fatalf("failed to create scratch dirs: %v", err)
	}
	return dirs
}
