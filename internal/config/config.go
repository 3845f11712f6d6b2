package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the global ~/.wppview/config.toml.
type Config struct {
	DefaultProfile string `toml:"default_profile"`

	Viewer ViewerConfig `toml:"viewer"`
	Media  MediaConfig  `toml:"media"`
	Remote RemoteConfig `toml:"remote"`
	Proxy  ProxyConfig  `toml:"proxy"`
	Love   LoveConfig   `toml:"love"`
}

// ViewerConfig tunes the message list.
type ViewerConfig struct {
	// ItemHeight is the number of terminal rows given to each message.
	ItemHeight       int    `toml:"item_height"`
	Buffer           int    `toml:"buffer"`
	Theme            string `toml:"theme"`
	Viewpoint        string `toml:"viewpoint"`
	SearchDebounceMS int    `toml:"search_debounce_ms"`
	FrameMS          int    `toml:"frame_ms"`
}

// MediaConfig selects the cross-day fallback policy.
type MediaConfig struct {
	Fallback string `toml:"fallback"`
}

// RemoteConfig points the viewer at a media proxy.
type RemoteConfig struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ProxyConfig configures wppviewd.
type ProxyConfig struct {
	Listen          string `toml:"listen"`
	Dir             string `toml:"dir"`
	DriveFolderID   string `toml:"drive_folder_id"`
	CredentialsFile string `toml:"credentials_file"`
	APIKey          string `toml:"api_key"`
}

// LoveConfig configures the popup rules.
type LoveConfig struct {
	Enabled  bool       `toml:"enabled"`
	Partners [][]string `toml:"partners"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Viewer: ViewerConfig{
			ItemHeight:       3,
			Buffer:           30,
			Theme:            "dark",
			SearchDebounceMS: 300,
			FrameMS:          16,
		},
		Media: MediaConfig{Fallback: "nearest"},
		Remote: RemoteConfig{
			TimeoutSeconds: 30,
		},
		Proxy: ProxyConfig{Listen: "127.0.0.1:8787"},
		Love: LoveConfig{
			Enabled: true,
			Partners: [][]string{
				{"imrane", "imran"},
				{"habhoub", "habib", "houb"},
			},
		},
	}
}

// Load reads config from path over Default. Returns error if file missing.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
