package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	Port         string
	DatabasePath string // sqlite file; ":memory:" is accepted for tests

	// Gemini configuration
	GeminiAPIKey string
	GeminiModel  string // generation + assistant model
	SearchModel  string // grounded web search model

	// Extraction / OCR configuration
	PdftoppmPath string   // poppler binary used to rasterize scanned pages
	OCRLanguages []string // language hints passed to the OCR engine
	RenderDPI    int      // rasterization resolution for OCR

	// Library snapshot job
	BackupDir     string
	BackupEnabled bool

	// CORS
	AllowedOrigins string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	langs := strings.Split(getEnv("OCR_LANGUAGES", "ca,es,en"), ",")
	for i := range langs {
		langs[i] = strings.TrimSpace(langs[i])
	}

	return &Config{
		Port:         getEnv("PORT", "3002"),
		DatabasePath: getEnv("DATABASE_PATH", "./coursearchitect.db"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
		SearchModel:  getEnv("GEMINI_SEARCH_MODEL", "gemini-3-flash-preview"),

		PdftoppmPath: getEnv("PDFTOPPM_PATH", "pdftoppm"),
		OCRLanguages: langs,
		RenderDPI:    getIntEnv("OCR_RENDER_DPI", 200),

		BackupDir:     getEnv("BACKUP_DIR", "./backups"),
		BackupEnabled: getBoolEnv("BACKUP_ENABLED", true),

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
