package config

import (
	"fmt"
	"time"

	"github.com/pithecene-io/assay/policy"
)

// Config represents an assay.yaml configuration file.
// All values are optional and act as defaults for assay check flags.
// CLI flags always override config values.
type Config struct {
	Roots    []string      `yaml:"roots"`
	Root     string        `yaml:"root"`
	Parallel int           `yaml:"parallel"`
	Timeout  Duration      `yaml:"timeout"`
	Format   string        `yaml:"format"`
	Ignore   policy.Config `yaml:"ignore"`
	Cache    CacheConfig   `yaml:"cache"`
	Report   ReportConfig  `yaml:"report"`
}

// CacheConfig holds validity cache defaults from the config file.
type CacheConfig struct {
	Backend  string   `yaml:"backend"`
	Path     string   `yaml:"path"`
	Redis    string   `yaml:"redis"`
	RedisTTL Duration `yaml:"redis_ttl"`
}

// ReportConfig holds report archival defaults from the config file.
type ReportConfig struct {
	Backend     string `yaml:"backend"`
	Dir         string `yaml:"dir"`
	Bucket      string `yaml:"bucket"`
	Prefix      string `yaml:"prefix"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// Cache backend names accepted in config and flags.
const (
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Report backend names accepted in config and flags.
const (
	ReportNone = "none"
	ReportDir  = "dir"
	ReportS3   = "s3"
)

// Validate rejects values no backend or renderer can act on. Empty strings
// pass; they mean "use the default".
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "", CacheMemory, CacheFile, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("unknown cache backend %q (want memory, file, redis, or none)", c.Cache.Backend)
	}

	switch c.Report.Backend {
	case "", ReportNone, ReportDir, ReportS3:
	default:
		return fmt.Errorf("unknown report backend %q (want none, dir, or s3)", c.Report.Backend)
	}
	if c.Report.Backend == ReportS3 && c.Report.Bucket == "" {
		return fmt.Errorf("report backend s3 requires a bucket")
	}

	switch c.Format {
	case "", "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q (want table, json, or yaml)", c.Format)
	}

	if c.Parallel < 0 {
		return fmt.Errorf("parallel must be >= 0, got %d", c.Parallel)
	}
	return nil
}
