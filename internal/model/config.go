package model

import "time"

// LatestParliament is the session id of the most recent parliament on the records site
const LatestParliament = 3750

// Config is the complete egmembers configuration
type Config struct {
	Source      SourceConfig      `yaml:"source" mapstructure:"source"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`

	// Sessions extends the built-in session short-name table (full name -> short name)
	Sessions map[string]string `yaml:"sessions,omitempty" mapstructure:"sessions"`
}

// SourceConfig describes where the member roster lives
type SourceConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Parliaments []int  `yaml:"parliaments" mapstructure:"parliaments"`
}

// HTTPConfig controls page fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig controls the page cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"` // 0 keeps pages forever
}

// ConcurrencyConfig controls member page workers
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig selects the record sink
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"` // sqlite or jsonl
	Path    string `yaml:"path" mapstructure:"path"`     // "-" writes jsonl to stdout
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			BaseURL:     "http://egpw.org",
			Parliaments: []int{LatestParliament},
		},
		HTTP: HTTPConfig{
			Timeout:      60 * time.Second,
			UserAgent:    "egmembers/0.1 (+https://github.com/ppiankov/egmembers)",
			MaxBodyBytes: 5_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".cache",
			MemoryTTL: 30 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 1,
		},
		Output: OutputConfig{
			Format: "sqlite",
			Path:   "data.sqlite",
		},
	}
}
