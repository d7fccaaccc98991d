package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/potentials/pkg/pipeline"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "config.toml", `
[solver]
max_iterations = 50

[render]
formats = ["tex", "svg"]
language = "ru"

[cache]
backend = "redis"
redis_addr = "cache:6379"
ttl = "24h"

[store]
mongo_uri = "mongodb://db:27017"
`)
	cfg, err := loadConfig(path, true)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Solver.MaxIterations != 50 {
		t.Errorf("max_iterations = %d", cfg.Solver.MaxIterations)
	}
	if strings.Join(cfg.Render.Formats, ",") != "tex,svg" || cfg.Render.Language != "ru" {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Cache.Backend != cacheBackendRedis || cfg.Cache.RedisAddr != "cache:6379" || cfg.Cache.TTL.Duration != 24*time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Store.MongoURI != "mongodb://db:27017" || cfg.Store.Database != appName {
		t.Errorf("store = %+v, want default database", cfg.Store)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("server addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")

	cfg, err := loadConfig(missing, false)
	if err != nil {
		t.Fatalf("implicit missing config: %v", err)
	}
	if cfg.Solver.MaxIterations != pipeline.DefaultMaxIterations {
		t.Errorf("defaults not applied: %+v", cfg.Solver)
	}

	if _, err := loadConfig(missing, true); err == nil {
		t.Error("explicit missing config should fail")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := map[string]string{
		"unknown key":    "[solver]\nmax_iter = 3\n",
		"bad backend":    "[cache]\nbackend = \"memcached\"\n",
		"bad format":     "[render]\nformats = [\"png\"]\n",
		"bad duration":   "[cache]\nttl = \"soon\"\n",
		"negative limit": "[solver]\nmax_iterations = -1\n",
		"malformed toml": "[solver\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := loadConfig(writeFile(t, "c.toml", content), true); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWriteConfigRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := writeConfig(&buf, defaultConfig()); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(writeFile(t, "c.toml", buf.String()), true)
	if err != nil {
		t.Fatalf("written config does not load: %v\n%s", err, buf.String())
	}
	if cfg.Cache.Backend != cacheBackendFile || cfg.Render.PDFLaTeX != "pdflatex" {
		t.Errorf("round trip = %+v", cfg)
	}
}
