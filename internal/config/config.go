package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAPIURL  = "http://localhost:5000"
	defaultTimeout = 15 * time.Second
)

// Config is everything the client reads from its environment.
type Config struct {
	APIURL  string
	Timeout time.Duration
}

// Load reads .env (when present) and the TASKDECK_* variables, falling
// back to defaults. Nothing here is required: the app can always start
// and fail later with a network error the user can see.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{APIURL: defaultAPIURL, Timeout: defaultTimeout}

	if v := os.Getenv("TASKDECK_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("TASKDECK_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.Timeout = time.Duration(secs) * time.Second
		}
	}
	return cfg
}
