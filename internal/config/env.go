package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads .env files into the process environment. Missing files
// are ignored and existing variables are not overwritten.
func LoadDotEnv(paths ...string) {
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// ApplyEnv overlays WPPVIEW_* environment variables onto cfg.
func ApplyEnv(cfg *Config) {
	cfg.DefaultProfile = envOr("WPPVIEW_PROFILE", cfg.DefaultProfile)

	cfg.Viewer.ItemHeight = envIntOr("WPPVIEW_ITEM_HEIGHT", cfg.Viewer.ItemHeight)
	cfg.Viewer.Theme = envOr("WPPVIEW_THEME", cfg.Viewer.Theme)
	cfg.Media.Fallback = envOr("WPPVIEW_MEDIA_FALLBACK", cfg.Media.Fallback)

	cfg.Remote.URL = envOr("WPPVIEW_REMOTE_URL", cfg.Remote.URL)
	cfg.Remote.TimeoutSeconds = envIntOr("WPPVIEW_REMOTE_TIMEOUT", cfg.Remote.TimeoutSeconds)

	cfg.Proxy.Listen = envOr("WPPVIEW_PROXY_LISTEN", cfg.Proxy.Listen)
	cfg.Proxy.Dir = envOr("WPPVIEW_PROXY_DIR", cfg.Proxy.Dir)
	cfg.Proxy.DriveFolderID = envOr("WPPVIEW_DRIVE_FOLDER_ID", cfg.Proxy.DriveFolderID)
	cfg.Proxy.CredentialsFile = envOr("WPPVIEW_DRIVE_CREDENTIALS", cfg.Proxy.CredentialsFile)
	cfg.Proxy.APIKey = envOr("WPPVIEW_DRIVE_API_KEY", cfg.Proxy.APIKey)

	cfg.Love.Enabled = envBoolOr("WPPVIEW_LOVE", cfg.Love.Enabled)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
