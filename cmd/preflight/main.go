// cmd/preflight/main.go
package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hamed0406/endpointkit/internal/config"
	"github.com/hamed0406/endpointkit/internal/storage"
)

func main() {
	config.LoadDotEnv()
	failed := false

	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		failed = true
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	admin := strings.TrimSpace(os.Getenv("ADMIN_API_KEYS"))
	pub := strings.TrimSpace(os.Getenv("PUBLIC_API_KEYS"))
	if admin == "" {
		fail("ADMIN_API_KEYS is empty (record writes would be open).")
	}
	if pub == "" {
		fail("PUBLIC_API_KEYS is empty (select/read routes would be open).")
	}
	// Normalize and sanity-check lists (no spaces around commas).
	for name, v := range map[string]string{"ADMIN_API_KEYS": admin, "PUBLIC_API_KEYS": pub} {
		if strings.Contains(v, " ") {
			warn(name + " contains spaces; use comma-separated with no spaces, e.g. key1,key2")
		}
	}

	cfg := config.FromEnv()
	ok("ADDR=" + cfg.Addr)

	if cfg.ProbeTimeout < 100*time.Millisecond {
		warn(fmt.Sprintf("PROBE_TIMEOUT_MS=%d is very low; most endpoints will time out.", cfg.ProbeTimeout.Milliseconds()))
	}

	if _, err := storage.NewEngine(cfg.StorageDriver, cfg.StorageDir, cfg.StorageDSN); err != nil {
		fail("storage: " + err.Error())
	} else {
		ok("STORAGE_DRIVER=" + cfg.StorageDriver)
	}

	for _, e := range cfg.Endpoints {
		if u, err := url.Parse(e); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			fail("ENDPOINTS contains an invalid URL: " + e)
		}
	}
	switch {
	case len(cfg.Endpoints) == 0:
		warn("ENDPOINTS empty; periodic reselection is off.")
	case cfg.ReselectInterval == 0:
		warn("RESELECT_INTERVAL_MS is 0; ENDPOINTS are only used on demand.")
	default:
		ok(fmt.Sprintf("reselecting %d endpoints every %s", len(cfg.Endpoints), cfg.ReselectInterval))
	}

	if cfg.SlackWebhook == "" {
		warn("SLACK_WEBHOOK_URL empty; announcements go to the log only.")
	}
	if len(cfg.AllowedOrigins) == 0 {
		warn("ALLOWED_ORIGINS empty; CORS allows every origin.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigins, ","))
	}

	if failed {
		os.Exit(1)
	}
	ok("preflight passed")
}
