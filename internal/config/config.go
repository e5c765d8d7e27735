package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string
	LogMode  string // prod|dev

	DBDriver string
	DBDSN    string

	CORSOriginsOnline  []string
	CORSOriginsOffline []string

	// Shared HS256 secret for service bearer tokens; empty disables auth.
	ServiceTokenSecret string

	// Fuzzy tolerance for fill-in progress grading; 0 means exact match.
	FillMaxEditDistance int
	ShufflePool         bool

	// Client side (practice CLI)
	StudyAPIURL       string
	StudyAPITimeout   time.Duration
	StudyTokenURL     string
	StudyClientID     string
	StudyClientSecret string
	ProgressTimeout   time.Duration
}

// Load reads a .env file when present, then the environment.
func Load(files ...string) Config {
	_ = godotenv.Load(files...)
	return FromEnv()
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	defLog := "dev"
	if mode == ModeOnline {
		defLog = "prod"
	}
	return Config{
		Mode:                mode,
		HTTPAddr:            envOr("HTTP_ADDR", ":8080"),
		LogMode:             envOr("LOG_MODE", defLog),
		DBDriver:            envOr("DB_DRIVER", "sqlite"),
		DBDSN:               envOr("DB_DSN", ""),
		CORSOriginsOnline:   csvOr("CORS_ORIGINS_ONLINE", "https://study.mindengage.ai"),
		CORSOriginsOffline:  csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5173"),
		ServiceTokenSecret:  os.Getenv("SERVICE_TOKEN_SECRET"),
		FillMaxEditDistance: envInt("FILL_MAX_EDIT_DISTANCE", 0),
		ShufflePool:         envBool("SHUFFLE_POOL", true),

		StudyAPIURL:       envOr("STUDY_API_URL", "http://localhost:8080"),
		StudyAPITimeout:   envDuration("STUDY_API_TIMEOUT", 60*time.Second),
		StudyTokenURL:     os.Getenv("STUDY_TOKEN_URL"),
		StudyClientID:     os.Getenv("STUDY_CLIENT_ID"),
		StudyClientSecret: os.Getenv("STUDY_CLIENT_SECRET"),
		ProgressTimeout:   envDuration("PROGRESS_TIMEOUT", 30*time.Second),
	}
}

// CORSOrigins picks the allow-list for the configured mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k)))
	if err != nil {
		return def
	}
	return n
}

// envDuration accepts Go durations ("45s") or a bare number of seconds.
func envDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
