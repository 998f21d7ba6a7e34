package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	LogFile      string
	MaxUploadMB  int
	PrefsDB      string // SQLite file for billing-period preferences
	ProfileFile  string // optional YAML firm profile
	PageSize     int    // preview rows per page
}

func Load() Config {
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         getint("PORT", 8085),
		AllowOrigins: origins,
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFile:      getenv("LOG_FILE", "logs/brokerage-service.log"),
		MaxUploadMB:  getint("MAX_UPLOAD_MB", 32),
		PrefsDB:      getenv("PREFS_DB", "data/prefs.db"),
		ProfileFile:  getenv("PROFILE_FILE", ""),
		PageSize:     getint("PAGE_SIZE", 10),
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v, err := strconv.Atoi(getenv(k, ""))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
