package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int
	CORSOrigins  []string
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
		CORSOrigins:  getEnvAsList("CORS_ORIGINS", []string{"*"}),
	}
}

// ============================================================
// Store Configuration
// ============================================================

// StoreConfig описывает хранилище документов и снимков.
type StoreConfig struct {
	DBDriver       string // sqlite3 | pgx
	DBDSN          string
	MigrationsPath string

	BlobDriver     string // fs | memory | s3
	BlobRoot       string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3PathStyle    bool
	SnapshotPrefix string
	RenderURL      string
	RenderTimeout  time.Duration
}

// LoadStore загружает настройки хранилищ gallery-сервиса.
func LoadStore() *StoreConfig {
	return &StoreConfig{
		DBDriver:       getEnv("GALLERY_DB_DRIVER", "sqlite3"),
		DBDSN:          getEnv("GALLERY_DB_DSN", "data/db/gallery.db"),
		MigrationsPath: getEnv("GALLERY_MIGRATIONS", "migrations/001_init_gallery.sql"),
		BlobDriver:     getEnv("GALLERY_BLOB_DRIVER", "fs"),
		BlobRoot:       getEnv("GALLERY_BLOB_ROOT", "data/snapshots"),
		S3Bucket:       getEnv("GALLERY_S3_BUCKET", ""),
		S3Region:       getEnv("GALLERY_S3_REGION", "us-east-1"),
		S3Endpoint:     getEnv("GALLERY_S3_ENDPOINT", ""),
		S3PathStyle:    getEnvAsBool("GALLERY_S3_PATH_STYLE", false),
		SnapshotPrefix: getEnv("GALLERY_SNAPSHOT_PREFIX", "snapshots/"),
		RenderURL:      getEnv("RENDER_URL", ""),
		RenderTimeout:  getEnvAsDuration("RENDER_TIMEOUT", 15*time.Second),
	}
}

// ============================================================
// Editor Configuration
// ============================================================

type EditorConfig struct {
	GalleryURL       string
	AutosaveInterval time.Duration
	HistorySize      int
	RequestTimeout   time.Duration
}

// LoadEditor загружает настройки CLI-редактора.
func LoadEditor() *EditorConfig {
	return &EditorConfig{
		GalleryURL:       getEnv("GALLERY_URL", "http://localhost:3003"),
		AutosaveInterval: getEnvAsDuration("AUTOSAVE_INTERVAL", 60*time.Second),
		HistorySize:      getEnvAsInt("HISTORY_SIZE", 50),
		RequestTimeout:   getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// getEnvAsDuration принимает "90s", "2m" или голое число секунд.
func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsList(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
