package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the settings that may be stored in config.toml.
type Config struct {
	MaxDepth        int    `toml:"max_depth"`
	Parallel        bool   `toml:"parallel"`
	Workers         int    `toml:"workers"`
	Lang            string `toml:"lang"`
	NumberMode      string `toml:"number_mode"`
	AllowDuplicates bool   `toml:"allow_duplicates"`
}

func defaultConfig() Config {
	return Config{Lang: "en", NumberMode: "float64"}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "shapecheck", "config.toml")
}

// loadConfig reads path, or the default location when path is empty. A
// missing default file yields the defaults; a missing explicit file is an
// error.
func loadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return defaultConfig(), nil
		}
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown keys %v", path, undecoded)
	}
	return cfg, nil
}
