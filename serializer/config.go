package serializer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/coredata"
	"github.com/syssam/coredata/dialect"
)

// Config is the file form of the serializer options.
//
//	ignore_root: true
//	ignored_types: [Session, Token]
//	dialect: coredata
type Config struct {
	// IgnoreRoot leaves the root object out of the commands.
	IgnoreRoot bool `yaml:"ignore_root"`
	// IgnoredTypes are matched against the unqualified Go type name.
	IgnoredTypes []string `yaml:"ignored_types"`
	// Dialect is "coredata" (the default) or "conventional".
	Dialect string `yaml:"dialect"`
}

// LoadConfig reads and validates the configuration file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("coredata: read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates a YAML configuration. Unknown keys are
// rejected.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("coredata: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the dialect name and the ignored type names.
func (c *Config) Validate() error {
	if _, err := dialect.ByName(c.Dialect); err != nil {
		return err
	}
	for _, name := range c.IgnoredTypes {
		if name == "" {
			return coredata.NewConfigError("ignored_types", name, "type name cannot be empty")
		}
	}
	return nil
}
