package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/unkn0wn-root/postcard"
	"github.com/unkn0wn-root/postcard/golden"
	"github.com/unkn0wn-root/postcard/internal/util"
)

type redisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type boltConfig struct {
	Path   string `yaml:"path"`
	Bucket string `yaml:"bucket"`
}

type logConfig struct {
	Backend string `yaml:"backend"`
	Level   string `yaml:"level"`
	JSON    bool   `yaml:"json"`
}

type config struct {
	Dir       string `yaml:"dir"`
	Namespace string `yaml:"namespace"`
	// Store publishes artifacts to a second backend besides Dir.
	Store       string      `yaml:"store"`
	Bolt        boltConfig  `yaml:"bolt"`
	Redis       redisConfig `yaml:"redis"`
	Manifest    string      `yaml:"manifest"`
	Bundle      string      `yaml:"bundle"`
	Compression string      `yaml:"compression"`
	MapOrder    string      `yaml:"mapOrder"`
	MaxFileSize int         `yaml:"maxFileSize"`
	Log         logConfig   `yaml:"log"`
}

const (
	defaultDir         = "fixtures"
	defaultNamespace   = "golden"
	defaultManifest    = "cbor"
	defaultMaxFileSize = 16 << 20
)

func defaultConfig() config {
	return config{
		Dir:         defaultDir,
		Namespace:   defaultNamespace,
		Manifest:    defaultManifest,
		Compression: "none",
		MapOrder:    "sorted",
		MaxFileSize: defaultMaxFileSize,
		Log:         logConfig{Backend: "zap", Level: "info"},
	}
}

func readConfig(path string, cfg *config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

// normalize fills fields the YAML file may have blanked and validates enums.
func (c *config) normalize() error {
	c.Dir = util.Coalesce(c.Dir, defaultDir)
	c.Namespace = util.Coalesce(c.Namespace, defaultNamespace)
	c.Manifest = util.Coalesce(c.Manifest, defaultManifest)
	c.MaxFileSize = util.Coalesce(c.MaxFileSize, defaultMaxFileSize)
	c.Log.Backend = util.Coalesce(c.Log.Backend, "zap")
	c.Log.Level = util.Coalesce(c.Log.Level, "info")

	if _, err := golden.ManifestCodec(c.Manifest); err != nil {
		return err
	}
	if _, err := golden.ParseCompression(c.Compression); err != nil {
		return err
	}
	if _, err := c.mapOrder(); err != nil {
		return err
	}
	switch c.Store {
	case "", "fsdir", "bolt", "bigcache", "ristretto", "redis":
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	switch c.Log.Backend {
	case "zap", "logrus", "slog":
	default:
		return fmt.Errorf("unknown log backend %q", c.Log.Backend)
	}
	return nil
}

func (c *config) mapOrder() (postcard.MapOrder, error) {
	switch c.MapOrder {
	case "", "sorted":
		return postcard.MapOrderSorted, nil
	case "insertion":
		return postcard.MapOrderInsertion, nil
	}
	return 0, fmt.Errorf("unknown map order %q", c.MapOrder)
}

func (c *config) compression() golden.Compression {
	comp, _ := golden.ParseCompression(c.Compression)
	return comp
}

// addFlags binds the shared flags to cfg.
func addFlags(fs *pflag.FlagSet, cfg *config, configPath *string) {
	fs.StringVarP(configPath, "config", "c", "", "YAML config file; flags override it")
	fs.StringVarP(&cfg.Dir, "dir", "d", cfg.Dir, "fixture directory")
	fs.StringVar(&cfg.Namespace, "namespace", cfg.Namespace, "store namespace")
	fs.StringVar(&cfg.Store, "store", cfg.Store, "extra store: fsdir|bolt|bigcache|ristretto|redis")
	fs.StringVar(&cfg.Bolt.Path, "bolt-path", cfg.Bolt.Path, "bolt database file")
	fs.StringVar(&cfg.Redis.Address, "redis-addr", cfg.Redis.Address, "redis address host:port")
	fs.IntVar(&cfg.Redis.DB, "redis-db", cfg.Redis.DB, "redis database")
	fs.StringVar(&cfg.Manifest, "manifest", cfg.Manifest, "manifest format: cbor|msgpack|json")
	fs.StringVar(&cfg.Bundle, "bundle", cfg.Bundle, "bundle file to write or check")
	fs.StringVar(&cfg.Compression, "compression", cfg.Compression, "bundle compression: none|lz4|zstd")
	fs.StringVar(&cfg.MapOrder, "map-order", cfg.MapOrder, "map entry order: sorted|insertion")
	fs.IntVar(&cfg.MaxFileSize, "max-file-size", cfg.MaxFileSize, "largest artifact or bundle file read, in bytes")
	fs.StringVar(&cfg.Log.Backend, "log-backend", cfg.Log.Backend, "zap|logrus|slog")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "debug|info|warn|error")
	fs.BoolVar(&cfg.Log.JSON, "log-json", cfg.Log.JSON, "JSON log records (logrus, slog)")
}

// parseFlags parses args, then layers config file and explicit flags:
// defaults < YAML < flags.
func parseFlags(fs *pflag.FlagSet, args []string) (config, error) {
	cfg := defaultConfig()
	var configPath string
	addFlags(fs, &cfg, &configPath)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if configPath != "" {
		changed := map[string]string{}
		fs.Visit(func(f *pflag.Flag) { changed[f.Name] = f.Value.String() })
		if err := readConfig(configPath, &cfg); err != nil {
			return cfg, err
		}
		for name, v := range changed {
			if err := fs.Set(name, v); err != nil {
				return cfg, err
			}
		}
	}
	return cfg, cfg.normalize()
}
