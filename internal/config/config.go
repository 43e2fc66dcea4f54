package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr       string // API bind address, e.g., "127.0.0.1:8080" (Windows) or ":8080" (Docker)
	LogDir     string // logs directory
	LogLevel   string // debug|info|warn|error
	LogConsole bool   // also log to stderr

	PublicAPIKeys  []string
	AdminAPIKeys   []string
	PublicRPM      int
	PublicBurst    int
	AdminRPM       int
	AdminBurst     int
	AllowedOrigins []string // empty = allow all

	ProbeTimeout time.Duration // per-probe deadline, default 3000ms
	ProbePath    string        // appended to each endpoint, default test.bin

	StorageDriver string   // sqlite|postgres|mysql
	StorageDir    string   // sqlite files live here
	StorageDSN    string   // server DSN for postgres/mysql; DATABASE_URL works too
	RecordDBs     []string // databases the record routes may open; empty allows any but SelectionDB

	Endpoints        []string      // candidates for periodic reselection
	ReselectInterval time.Duration // 0 disables the loop
	SelectionDB      string
	SelectionStore   string
	Debug            bool // log per-endpoint results each round

	SlackWebhook   string
	NotifyCooldown time.Duration
}

// LoadDotEnv loads .env then .env.local into the process env. Existing
// variables win; missing files are ignored.
func LoadDotEnv() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

func FromEnv() Config {
	dsn := getenv("STORAGE_DSN", os.Getenv("DATABASE_URL"))
	driver := getenv("STORAGE_DRIVER", "sqlite")
	if os.Getenv("STORAGE_DRIVER") == "" && strings.HasPrefix(dsn, "postgres") {
		driver = "postgres"
	}

	return Config{
		// Bind address (Windows-friendly default)
		Addr:       getenv("ADDR", getenv("API_ADDR", "127.0.0.1:8080")),
		LogDir:     getenv("LOG_DIR", "logs"),
		LogLevel:   getenv("LOG_LEVEL", "info"),
		LogConsole: getbool("LOG_CONSOLE", false),

		PublicAPIKeys:  getlist("PUBLIC_API_KEYS"),
		AdminAPIKeys:   getlist("ADMIN_API_KEYS"),
		PublicRPM:      getint("PUBLIC_RPM", 120),
		PublicBurst:    getint("PUBLIC_BURST", 60),
		AdminRPM:       getint("ADMIN_RPM", 30),
		AdminBurst:     getint("ADMIN_BURST", 10),
		AllowedOrigins: getlist("ALLOWED_ORIGINS"),

		ProbeTimeout: getms("PROBE_TIMEOUT_MS", 3000*time.Millisecond),
		ProbePath:    getenv("PROBE_PATH", "test.bin"),

		StorageDriver: driver,
		StorageDir:    getenv("STORAGE_DIR", "data"),
		StorageDSN:    dsn,
		RecordDBs:     getlist("RECORD_DATABASES"),

		Endpoints:        getlist("ENDPOINTS"),
		ReselectInterval: getms("RESELECT_INTERVAL_MS", 0),
		SelectionDB:      getenv("SELECTION_DB", "endpointkit"),
		SelectionStore:   getenv("SELECTION_STORE", "state"),
		Debug:            getbool("SELECT_DEBUG", false),

		SlackWebhook:   os.Getenv("SLACK_WEBHOOK_URL"),
		NotifyCooldown: getms("NOTIFY_COOLDOWN_MS", 10*time.Minute),
	}
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func getms(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// getlist splits a comma-separated list, dropping blanks.
func getlist(k string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(k), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
