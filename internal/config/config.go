package config

import (
	"fmt"
	"os"
	"strings"
)

// AppConfig collects everything the server needs at startup. Required
// fields are validated by Load; the rest fall back to safe defaults.
type AppConfig struct {
	ListenAddr   string
	Port         string
	GinMode      string
	DatabasePath string
	UploadDir    string

	JWTSecret string
	VisitSalt string

	R2Bucket        string
	R2Endpoint      string
	R2AccessKeyID   string
	R2SecretKey     string
	R2PublicBaseURL string

	AdminUsername string
	AdminPassword string
	AdminName     string
}

// required environment variables, checked before the server starts so a
// misconfigured deploy fails fast with a complete list.
var requiredEnv = []string{
	"JWT_SECRET",
	"R2_BUCKET",
	"R2_ENDPOINT",
	"R2_ACCESS_KEY_ID",
	"R2_SECRET_ACCESS_KEY",
}

// Load reads the application config from environment variables. It returns
// an error naming every missing required variable.
func Load() (AppConfig, error) {
	var missing []string
	for _, key := range requiredEnv {
		if strings.TrimSpace(os.Getenv(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return AppConfig{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	port := envOr("PORT", "4000")

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	return AppConfig{
		ListenAddr:   listenAddr,
		Port:         port,
		GinMode:      envOr("GIN_MODE", "release"),
		DatabasePath: envOr("DATABASE_PATH", "gaon.db"),
		UploadDir:    envOr("UPLOAD_DIR", "uploads"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		VisitSalt: envOr("VISIT_SALT", "visit-salt"),

		R2Bucket:        os.Getenv("R2_BUCKET"),
		R2Endpoint:      os.Getenv("R2_ENDPOINT"),
		R2AccessKeyID:   os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretKey:     os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2PublicBaseURL: strings.TrimRight(strings.TrimSpace(os.Getenv("R2_PUBLIC_BASE_URL")), "/"),

		AdminUsername: strings.TrimSpace(os.Getenv("ADMIN_USERNAME")),
		AdminPassword: strings.TrimSpace(os.Getenv("ADMIN_PASSWORD")),
		AdminName:     strings.TrimSpace(os.Getenv("ADMIN_NAME")),
	}, nil
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
