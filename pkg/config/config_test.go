package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	werrors "github.com/matzehuels/waterfall/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", `
[layout]
columns = 3

[render]
formats = ["svg", "png"]

[feed]
source = "picsum"
per_page = 20

[cache]
backend = "redis"
ttl = "30m"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Layout.Columns != 3 {
		t.Errorf("columns = %d, want 3", cfg.Layout.Columns)
	}
	if cfg.Layout.Width != 430 {
		t.Errorf("unset width should keep default, got %v", cfg.Layout.Width)
	}
	if len(cfg.Render.Formats) != 2 || cfg.Render.Formats[1] != "png" {
		t.Errorf("formats = %v", cfg.Render.Formats)
	}
	if cfg.Feed.Source != SourcePicsum || cfg.Feed.PerPage != 20 {
		t.Errorf("feed = %+v", cfg.Feed)
	}
	if d, _ := cfg.Cache.Duration(); d != 30*time.Minute {
		t.Errorf("ttl = %v, want 30m", d)
	}
	if cfg.Serve.Addr != "localhost:8080" {
		t.Errorf("serve addr = %q", cfg.Serve.Addr)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
layout:
  columns: 4
  gap: 8
render:
  style: simple
feed:
  source: sample
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Layout.Columns != 4 || cfg.Layout.Gap != 8 || cfg.Layout.Padding != 10 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Render.Style != "simple" || cfg.Feed.Source != SourceSample {
		t.Errorf("render = %+v feed = %+v", cfg.Render, cfg.Feed)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    werrors.Code
	}{
		{"syntax", "[layout\ncolumns = ", werrors.ErrCodeInvalidConfiguration},
		{"zero columns", "[layout]\ncolumns = 0", werrors.ErrCodeInvalidConfiguration},
		{"bad style", "[render]\nstyle = \"handdrawn\"", werrors.ErrCodeInvalidStyle},
		{"bad format", "[render]\nformats = [\"gif\"]", werrors.ErrCodeInvalidFormat},
		{"bad source", "[feed]\nsource = \"flickr\"", werrors.ErrCodeInvalidSource},
		{"bad backend", "[cache]\nbackend = \"memcached\"", werrors.ErrCodeInvalidConfiguration},
		{"bad ttl", "[cache]\nttl = \"soon\"", werrors.ErrCodeInvalidConfiguration},
		{"negative gap", "[layout]\ngap = -1.0", werrors.ErrCodeInvalidConfiguration},
		{"spaced namespace", "[cache]\nnamespace = \"team a\"", werrors.ErrCodeInvalidConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.toml", tt.content)
			_, err := Load(path)
			if !werrors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() error = %v, want fs.ErrNotExist", err)
	}
}

func TestLoadDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() without file error: %v", err)
	}
	if cfg.Layout.Columns != Default().Layout.Columns {
		t.Errorf("columns = %d, want default", cfg.Layout.Columns)
	}

	os.MkdirAll(filepath.Join(dir, App), 0o755)
	writeFile(t, filepath.Join(dir, App), "config.yaml", "layout:\n  columns: 5\n")
	cfg, err = LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() yaml error: %v", err)
	}
	if cfg.Layout.Columns != 5 {
		t.Errorf("yaml columns = %d, want 5", cfg.Layout.Columns)
	}

	writeFile(t, filepath.Join(dir, App), "config.toml", "[layout]\ncolumns = 6\n")
	cfg, _ = LoadDefault()
	if cfg.Layout.Columns != 6 {
		t.Errorf("toml should win over yaml, columns = %d", cfg.Layout.Columns)
	}
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := Dir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", App) {
		t.Errorf("Dir() = %q", dir)
	}
}
