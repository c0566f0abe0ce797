package config

import (
	"os"
	"path/filepath"

	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/pelletier/go-toml/v2"
)

var log = logger.GetOrCreate("config")

// APIConfig points the dashboard at the telemetry aggregation API.
type APIConfig struct {
	BaseURL          string `toml:"BaseURL"`
	TimeoutInSeconds uint32 `toml:"TimeoutInSeconds"`
}

// PollConfig controls the refresh loop and the anomalies query.
type PollConfig struct {
	IntervalInSeconds uint32 `toml:"IntervalInSeconds"`
	MinRank           int    `toml:"MinRank"`
}

// UIConfig holds dashboard presentation defaults.
type UIConfig struct {
	MaxUnitCharts int    `toml:"MaxUnitCharts"`
	DefaultRange  string `toml:"DefaultRange"`
	Mouse         bool   `toml:"Mouse"`
}

// Config maps to the pingtop.toml file.
type Config struct {
	API  APIConfig  `toml:"API"`
	Poll PollConfig `toml:"Poll"`
	UI   UIConfig   `toml:"UI"`
}

// Default returns a config with sensible defaults: the API's default local
// port, the 10-second poll cadence and the upstream anomaly rank threshold.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:          "http://127.0.0.1:3000",
			TimeoutInSeconds: 5,
		},
		Poll: PollConfig{
			IntervalInSeconds: 10,
			MinRank:           90,
		},
		UI: UIConfig{
			MaxUnitCharts: 12,
			DefaultRange:  "4h",
			Mouse:         true,
		},
	}
}

// Path returns ~/.config/pingtop/pingtop.toml (or XDG_CONFIG_HOME).
// Returns empty string if the home directory cannot be determined.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "pingtop", "pingtop.toml")
}

// Load reads the config at path; an empty path means the default location.
// A missing file yields defaults; a parse error warns and yields defaults.
func Load(path string) Config {
	cfg := Default()
	if path == "" {
		path = Path()
	}
	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		log.Warn("config parse error, using defaults", "path", path, "error", err)
		return Default()
	}
	return cfg
}
