package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all client and stub-server configuration.
type Config struct {
	// ─── Client ────────────────────────────────────────────────────────
	ServerURL         string
	Username          string
	Password          string
	CSRFCookieName    string
	CSRFHeaderName    string
	RequestTimeout    time.Duration
	AbandonTimeout    time.Duration
	LogLevel          string
	LogFormat         string
	CatalogPath       string
	SheetExportDir    string
	StudentPortalPath string

	// ─── Stub server ───────────────────────────────────────────────────
	StubPort          string
	GinMode           string
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string
	SessionSecret     string
	SessionExpiry     time.Duration
	FixturesPath      string
	BcryptCost        int
	MaxUploadBytes    int64
	// AllowedOrigins controls CORS on the stub server.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		ServerURL:         strings.TrimRight(getEnv("SEATDESK_SERVER_URL", "http://localhost:8000"), "/"),
		Username:          getEnv("SEATDESK_USERNAME", ""),
		Password:          getEnv("SEATDESK_PASSWORD", ""),
		CSRFCookieName:    getEnv("CSRF_COOKIE_NAME", "csrftoken"),
		CSRFHeaderName:    getEnv("CSRF_HEADER_NAME", "X-CSRFToken"),
		RequestTimeout:    time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		AbandonTimeout:    time.Duration(getEnvInt("ABANDON_TIMEOUT_SECONDS", 2)) * time.Second,
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "pretty"),
		CatalogPath:       getEnv("CATALOG_PATH", "catalog.yaml"),
		SheetExportDir:    getEnv("SHEET_EXPORT_DIR", "./sheets"),
		StudentPortalPath: getEnv("STUDENT_PORTAL_PATH", "/student-portal/"),

		StubPort:          getEnv("STUB_PORT", "8000"),
		GinMode:           getEnv("GIN_MODE", "debug"),
		AdminUsername:     getEnv("STUB_ADMIN_USERNAME", "admin"),
		AdminPassword:     getEnv("STUB_ADMIN_PASSWORD", "admin123"),
		AdminPasswordHash: getEnv("STUB_ADMIN_PASSWORD_HASH", ""),
		SessionSecret:     getEnv("STUB_SESSION_SECRET", "change-this-to-a-secure-random-string"),
		SessionExpiry:     time.Duration(getEnvInt("STUB_SESSION_HOURS", 12)) * time.Hour,
		FixturesPath:      getEnv("STUB_FIXTURES_PATH", ""),
		BcryptCost:        getEnvInt("BCRYPT_COST", 6),
		MaxUploadBytes:    int64(getEnvInt("MAX_UPLOAD_SIZE_MB", 10)) * 1024 * 1024,
		AllowedOrigins:    parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

// PortalURL is the absolute student portal address encoded in the summary QR.
func (c *Config) PortalURL() string {
	return c.ServerURL + "/" + strings.TrimLeft(c.StudentPortalPath, "/")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
