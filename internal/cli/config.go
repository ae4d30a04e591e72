package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/smartstep/pkg/interact"
	"github.com/matzehuels/smartstep/pkg/route"
)

// configFile is the file name looked up in the config directory.
const configFile = "config.toml"

// Config is the smartstep configuration file.
//
// Example:
//
//	[routing]
//	stub_length = 30
//
//	[interaction]
//	snap_screen_px = 80
//	pan_interval = "30ms"
//
//	[cache]
//	redis_addr = "localhost:6379"
//	ttl = "1h"
//
//	[storage]
//	mongo_uri = "mongodb://localhost:27017"
type Config struct {
	Routing     route.Config    `toml:"routing"`
	Interaction interact.Config `toml:"interaction"`
	Cache       CacheConfig     `toml:"cache"`
	Storage     StorageConfig   `toml:"storage"`
}

// CacheConfig selects the route cache backend.
type CacheConfig struct {
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	TTL       time.Duration `toml:"ttl"`
}

// StorageConfig selects where the server keeps scenes.
type StorageConfig struct {
	Dir           string `toml:"dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Routing:     route.DefaultConfig(),
		Interaction: interact.DefaultConfig(),
	}
}

// LoadConfig reads the configuration at path over the defaults. An empty path
// means the default location; a missing default file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, configFile)
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Routing = cfg.Routing.WithDefaults()
	cfg.Interaction = cfg.Interaction.WithDefaults()
	return cfg, nil
}
