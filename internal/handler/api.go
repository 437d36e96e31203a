package handler

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/Eamse/gaon/internal/config"
	"github.com/Eamse/gaon/internal/service"
	"github.com/Eamse/gaon/internal/storage"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	users     *service.UserService
	projects  *service.ProjectService
	galleries *service.GalleryService
	inquiries *service.InquiryService
	metrics   *service.MetricsService
	ingest    *service.IngestService
	store     storage.Client
	dirs      service.ScratchDirs
	logger    *slog.Logger
	jwtSecret string
	visitSalt string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, store storage.Client, dirs service.ScratchDirs, logger *slog.Logger, cfg config.AppConfig) *API {
	return &API{
		db:        gdb,
		users:     service.NewUserService(gdb),
		projects:  service.NewProjectService(gdb, store, logger),
		galleries: service.NewGalleryService(gdb, store, logger),
		inquiries: service.NewInquiryService(gdb),
		metrics:   service.NewMetricsService(gdb),
		ingest:    service.NewIngestService(gdb, store, dirs, logger),
		store:     store,
		dirs:      dirs,
		logger:    logger,
		jwtSecret: cfg.JWTSecret,
		visitSalt: cfg.VisitSalt,
	}
}
