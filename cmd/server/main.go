package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Eamse/gaon/internal/config"
	"github.com/Eamse/gaon/internal/db"
	"github.com/Eamse/gaon/internal/handler"
	"github.com/Eamse/gaon/internal/router"
	"github.com/Eamse/gaon/internal/service"
	"github.com/Eamse/gaon/internal/storage"
)

func main() {
	// .env는 로컬 개발용. 없어도 된다.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("설정 로드 실패", slog.Any("error", err))
		os.Exit(1)
	}

	gin.SetMode(cfg.GinMode)

	if err := db.Init(cfg.DatabasePath); err != nil {
		logger.Error("데이터베이스 초기화 실패", slog.Any("error", err))
		os.Exit(1)
	}

	if err := db.EnsureUser(db.DB, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminName); err != nil {
		logger.Error("관리자 계정 준비 실패", slog.Any("error", err))
		os.Exit(1)
	}

	dirs := service.NewScratchDirs(cfg.UploadDir)
	if err := dirs.Ensure(); err != nil {
		logger.Error("업로드 디렉터리 준비 실패", slog.Any("error", err))
		os.Exit(1)
	}

	store, err := storage.NewR2Client(context.Background(), storage.R2Config{
		Bucket:          cfg.R2Bucket,
		Endpoint:        cfg.R2Endpoint,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretKey,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("스토리지 클라이언트 초기화 실패", slog.Any("error", err))
		os.Exit(1)
	}

	api := handler.NewAPI(db.DB, store, dirs, logger, cfg)
	r := router.SetupRouter(api, logger)

	logger.Info("서버 시작", slog.String("addr", cfg.ListenAddr))
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Error("서버 종료", slog.Any("error", err))
		os.Exit(1)
	}
}
