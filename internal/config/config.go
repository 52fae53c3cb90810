package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config is the server configuration, loaded from defaults plus an
// optional YAML file.
type Config struct {
	ListenAddr string     `mapstructure:"listen_addr"`
	LogLevel   string     `mapstructure:"log_level"`
	Engine     Engine     `mapstructure:"engine"`
	Poll       PollPolicy `mapstructure:"poll"`
}

// Engine holds the asset locations and serving options.
type Engine struct {
	// BuildDir and DataDir point at a built stellarium-web-engine.
	// Empty values enable auto-discovery from the working directory.
	BuildDir string `mapstructure:"build_dir"`
	DataDir  string `mapstructure:"data_dir"`

	// URLPrefix namespaces the served engine assets.
	URLPrefix string `mapstructure:"url_prefix"`

	// VerifyPayload compile-checks the Wasm binary at mount time.
	VerifyPayload bool `mapstructure:"verify_payload"`

	// EvalTimeout bounds a single browser-side evaluation (seconds).
	EvalTimeoutSeconds int `mapstructure:"eval_timeout_seconds"`
}

// PollPolicy configures the readiness poll.
type PollPolicy struct {
	// IntervalMS between readiness checks.
	IntervalMS int `mapstructure:"interval_ms"`
	// MaxAttempts bounds the poll; 0 retries forever.
	MaxAttempts int `mapstructure:"max_attempts"`
}

// Interval returns the poll interval as a duration.
func (p PollPolicy) Interval() time.Duration {
	return time.Duration(p.IntervalMS) * time.Millisecond
}

// EvalTimeout returns the evaluation timeout as a duration.
func (e Engine) EvalTimeout() time.Duration {
	return time.Duration(e.EvalTimeoutSeconds) * time.Second
}

// Load reads configuration from an optional file path. An empty path
// yields the defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("log_level", "info")

	v.SetDefault("engine.build_dir", "")
	v.SetDefault("engine.data_dir", "")
	v.SetDefault("engine.url_prefix", "/swe")
	v.SetDefault("engine.verify_payload", true)
	v.SetDefault("engine.eval_timeout_seconds", 3)

	v.SetDefault("poll.interval_ms", 500)
	v.SetDefault("poll.max_attempts", 0)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
