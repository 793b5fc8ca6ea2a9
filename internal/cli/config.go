package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cellspan/pkg/grid"
)

// configFile is the name of the optional configuration file.
const configFile = appName + ".toml"

// Config is the optional CLI configuration, read from cellspan.toml:
//
//	palette   = ["#c00000", "#009939"]
//	cache_dir = "/var/cache/cellspan"
//	redis_url = "redis://localhost:6379/0"
//	store_dir = "/srv/cellspan/designs"
//	mongo_uri = "mongodb://localhost:27017"
//	listen    = ":8080"
type Config struct {
	// Palette replaces the default palette for designs without their own.
	Palette []grid.Tag `toml:"palette"`
	// CacheDir is the file cache directory. Ignored when RedisURL is set.
	CacheDir string `toml:"cache_dir"`
	// RedisURL selects a Redis layout cache.
	RedisURL string `toml:"redis_url"`
	// StoreDir is the design directory of the server's file store.
	StoreDir string `toml:"store_dir"`
	// MongoURI selects a MongoDB design store for the server.
	MongoURI string `toml:"mongo_uri"`
	// Listen is the server's listen address.
	Listen string `toml:"listen"`
}

// defaultConfigPath returns ~/.config/cellspan/cellspan.toml, honoring
// XDG_CONFIG_HOME.
func defaultConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, configFile), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, configFile), nil
}

// defaultStoreDir returns ~/.local/share/cellspan/designs, honoring
// XDG_DATA_HOME.
func defaultStoreDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName, "designs"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName, "designs"), nil
}

// loadConfig reads the configuration at path. An empty path means the default
// location, which may be missing; an explicit path must exist. The second
// result lists keys the file sets that Config does not know.
func loadConfig(path string) (Config, []string, error) {
	var cfg Config
	explicit := path != ""
	if !explicit {
		p, err := defaultConfigPath()
		if err != nil {
			return cfg, nil, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil, nil
		}
		return Config{}, nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}
	for _, tag := range cfg.Palette {
		if tag == "" || strings.TrimSpace(string(tag)) != string(tag) {
			return Config{}, nil, fmt.Errorf("read config %s: invalid palette tag %q", path, tag)
		}
	}
	return cfg, unknown, nil
}
