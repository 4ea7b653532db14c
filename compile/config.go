package compile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/mylang/internal"
	"github.com/gnolang/mylang/sources"
)

// DefaultConfigName is the file written by `mylang init`.
const DefaultConfigName = ".mylang.yaml"

// Config is the project configuration, read from YAML or TOML.
type Config struct {
	Name       string      `yaml:"name" toml:"name"`
	Extensions []string    `yaml:"extensions" toml:"extensions"`
	Markdown   bool        `yaml:"markdown" toml:"markdown"`
	Strict     bool        `yaml:"strict" toml:"strict"`
	Cache      CacheConfig `yaml:"cache" toml:"cache"`
}

// CacheConfig enables the report cache when Dir is set.
type CacheConfig struct {
	Dir    string        `yaml:"dir" toml:"dir"`
	MaxAge time.Duration `yaml:"max_age" toml:"max_age"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Name:       "mylang",
		Extensions: []string{sources.DefaultExtension},
		Cache: CacheConfig{
			MaxAge: internal.DefaultCacheMaxAge,
		},
	}
}

// LoadConfig reads the configuration at path, choosing the decoder from the
// file extension. An empty path yields DefaultConfig. Fields absent from
// the file keep their default values.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("error reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(content), &config); err != nil {
			return config, fmt.Errorf("error parsing config %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(content, &config); err != nil {
			return config, fmt.Errorf("error parsing config %s: %w", path, err)
		}
	}

	return config, nil
}

// WriteConfig stores config at path as YAML, or TOML for a .toml path.
func WriteConfig(path string, config Config) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var b strings.Builder
		err = toml.NewEncoder(&b).Encode(config)
		data = []byte(b.String())
	} else {
		data, err = yaml.Marshal(config)
	}
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
