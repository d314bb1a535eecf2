package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/caldew/redline"
)

// DefaultConfigFile is looked up in the working directory when no
// --config flag is given. A missing default file is not an error.
const DefaultConfigFile = "redline.yaml"

// Config holds the CLI settings. Every field has a usable zero value so
// running without a config file works.
type Config struct {
	AuthorTag string `yaml:"author_tag"`
	Fallback  bool   `yaml:"fallback"`

	Engine EngineConfig `yaml:"engine"`
	Watch  WatchConfig  `yaml:"watch"`
}

// EngineConfig locates the external comparison engine. Empty fields keep
// the engine client's built-in defaults.
type EngineConfig struct {
	BinDir     string `yaml:"bin_dir"`
	LayerDir   string `yaml:"layer_dir"`
	ArchiveDir string `yaml:"archive_dir"`
	TargetDir  string `yaml:"target_dir"`
}

// WatchConfig configures the watch subcommand.
type WatchConfig struct {
	Inbox   string `yaml:"inbox"`
	Outbox  string `yaml:"outbox"`
	Changes string `yaml:"changes"`
}

func defaultConfig() *Config {
	return &Config{
		AuthorTag: redline.DefaultAuthorTag,
	}
}

// LoadConfig reads the config file at path, or the default file when path
// is empty. An explicitly named file must exist; the default file may not.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.AuthorTag == "" {
		cfg.AuthorTag = redline.DefaultAuthorTag
	}
	return cfg, nil
}
