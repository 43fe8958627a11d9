package config

import (
	"fmt"
	"time"
)

// Config represents an ocimport.yaml configuration file.
// All values are optional and act as defaults for ocimport run flags.
// CLI flags always override config values. Loaded once at process
// start and immutable thereafter.
type Config struct {
	// URL is the remote JSON-RPC endpoint.
	URL string `yaml:"url"`
	// Token is the bearer credential. Use ${ODOO_TOKEN} to read it
	// from the environment instead of committing it to the file.
	Token string `yaml:"token"`
	// Timeout is the fixed per-call timeout for remote calls.
	Timeout Duration `yaml:"timeout"`

	// Input is the default input file path.
	Input string `yaml:"input"`

	Output  OutputConfig  `yaml:"output"`
	Adapter AdapterConfig `yaml:"adapter"`
}

// OutputConfig holds output destination defaults.
type OutputConfig struct {
	// Backend selects the output store: "fs" (default) or "s3".
	Backend string `yaml:"backend"`
	// ProcessedDir is the directory (or key prefix) for processed.csv.
	ProcessedDir string `yaml:"processed_dir"`
	// QuarantineDir is the directory (or key prefix) for quarantine.csv.
	QuarantineDir string `yaml:"quarantine_dir"`
	// S3Path is "bucket" or "bucket/prefix" for the s3 backend.
	S3Path string `yaml:"s3_path"`
	// S3Region is the AWS region (optional).
	S3Region string `yaml:"s3_region"`
	// S3Endpoint is a custom endpoint for S3-compatible providers.
	S3Endpoint string `yaml:"s3_endpoint"`
	// S3PathStyle forces path-style addressing.
	S3PathStyle bool `yaml:"s3_path_style"`
}

// AdapterConfig holds completion adapter defaults.
type AdapterConfig struct {
	// Type selects the adapter: "", "webhook", or "redis".
	Type string `yaml:"type"`
	// URL is the webhook endpoint or Redis connection URL.
	URL string `yaml:"url"`
	// Channel is the Redis pub/sub channel (redis only).
	Channel string `yaml:"channel,omitempty"`
	// Headers are custom HTTP headers (webhook only).
	Headers map[string]string `yaml:"headers,omitempty"`
	// Timeout is the per-publish timeout.
	Timeout Duration `yaml:"timeout,omitempty"`
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
