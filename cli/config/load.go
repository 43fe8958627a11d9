package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the conventional config file name referenced in
// CLI help text. Discovery is not automatic; the path is always passed
// explicitly via --config.
const DefaultFileName = "ocimport.yaml"

// Load reads a YAML config file, expands ${VAR} references, and
// unmarshals into a Config. Unknown keys are rejected so a typoed
// option fails the run instead of being silently dropped. An empty
// file yields a zero Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(strings.NewReader(ExpandEnv(string(data))))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}
