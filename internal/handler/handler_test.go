package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Eamse/gaon/internal/config"
	"github.com/Eamse/gaon/internal/db"
	"github.com/Eamse/gaon/internal/service"
	"github.com/Eamse/gaon/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubStore records storage calls without talking to a real bucket.
type stubStore struct {
	mu      sync.Mutex
	uploads []string
	deletes []string
}

func (s *stubStore) Upload(_ context.Context, _, key, _ string) (storage.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, key)
	return storage.UploadResult{Key: key, URL: "https://cdn.test/" + key}, nil
}

func (s *stubStore) Delete(_ context.Context, urlOrKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, urlOrKey)
	return nil
}

func setupTestAPI(t *testing.T) (*API, *gorm.DB) {
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
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	dirs := service.NewScratchDirs(t.TempDir())
	if err := dirs.Ensure(); err != nil {
		t.Fatalf("failed to create scratch dirs: %v", err)
	}

	testLog := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	cfg := config.AppConfig{JWTSecret: "test-secret", VisitSalt: "test-salt"}

	return NewAPI(gdb, &stubStore{}, dirs, testLog, cfg), gdb
}

func performJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return body
}

// dataObject unwraps the success envelope's data field as an object.
func dataObject(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()

	data, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("no data object in response: %v", body)
	}
	return data
}

func seedAdmin(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	if err := db.EnsureUser(gdb, "admin", "secret-pass", "관리자"); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
}

func loginToken(t *testing.T, api *API, r *gin.Engine) string {
	t.Helper()

	w := performJSON(t, r, http.MethodPost, "/login", gin.H{
		"username": "admin",
		"password": "secret-pass",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", w.Code, w.Body.String())
	}

	data := dataObject(t, decodeBody(t, w))
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatalf("no token in login response: %v", data)
	}
	return token
}
