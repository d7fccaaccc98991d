package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/potentials/pkg/compiler"
	"github.com/matzehuels/potentials/pkg/pipeline"
)

// Cache backends accepted in [cache] backend.
const (
	cacheBackendFile  = "file"
	cacheBackendRedis = "redis"
	cacheBackendNone  = "none"
)

// Config is the optional config file. Flags override its values.
type Config struct {
	Solver SolverConfig `toml:"solver"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

type SolverConfig struct {
	MaxIterations int `toml:"max_iterations"`
}

type RenderConfig struct {
	Formats  []string `toml:"formats"`
	Language string   `toml:"language"`
	PDFLaTeX string   `toml:"pdflatex"`
}

type CacheConfig struct {
	Backend   string   `toml:"backend"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       duration `toml:"ttl"`
}

type StoreConfig struct {
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// duration reads Go duration strings such as "24h" from TOML.
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// defaultConfig mirrors the pipeline defaults.
func defaultConfig() Config {
	return Config{
		Solver: SolverConfig{MaxIterations: pipeline.DefaultMaxIterations},
		Render: RenderConfig{
			Formats:  []string{pipeline.FormatTeX},
			Language: pipeline.DefaultLanguage,
			PDFLaTeX: compiler.DefaultBinary,
		},
		Cache: CacheConfig{
			Backend:   cacheBackendFile,
			RedisAddr: "localhost:6379",
		},
		Store: StoreConfig{Database: appName},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// loadConfig reads path over the defaults. A missing file is only an error
// when the path was given explicitly.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return defaultConfig(), nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case cacheBackendFile, cacheBackendRedis, cacheBackendNone:
	default:
		return fmt.Errorf("config: cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Solver.MaxIterations < 0 {
		return fmt.Errorf("config: max_iterations must not be negative")
	}
	return pipeline.ValidateFormats(c.Render.Formats)
}

func writeConfig(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// configPath returns the config file location using XDG
// (~/.config/potentials/config.toml).
func configPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
