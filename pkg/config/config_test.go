package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/gitfind/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := Load(Options{EnvFile: filepath.Join(dir, "missing.env"), LookupEnv: noEnv})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := Defaults()
	if cfg.APIBase != want.APIBase || cfg.Timeout != DefaultTimeout || cfg.Addr != DefaultAddr {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
	if cfg.Path != "" {
		t.Errorf("Path = %q, want empty when no file exists", cfg.Path)
	}
	if cfg.UserAgent == "" {
		t.Error("UserAgent should default to the build user agent")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
api_base = "https://ghe.example.com/api/v3"
token = "file-token"
timeout = "30s"
user_agent = "custom/1.0"

[server]
addr = "127.0.0.1:9000"
`)

	cfg, err := Load(Options{Path: path, EnvFile: filepath.Join(dir, "none"), LookupEnv: noEnv})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.APIBase != "https://ghe.example.com/api/v3" {
		t.Errorf("APIBase = %q", cfg.APIBase)
	}
	if cfg.Token != "file-token" {
		t.Errorf("Token = %q", cfg.Token)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.UserAgent != "custom/1.0" {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
	if cfg.Addr != "127.0.0.1:9000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
}

func TestLoadDefaultPathFromXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "gitfind"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "gitfind"), "config.toml", `timeout = "3s"`)

	cfg, err := Load(Options{EnvFile: filepath.Join(dir, "none"), LookupEnv: noEnv})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s from XDG config", cfg.Timeout)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
token = "file-token"
timeout = "30s"
api_base = "https://file.example.com"

[server]
addr = ":1111"
`)
	envFile := writeFile(t, dir, ".env", "GITHUB_TOKEN=dotenv-token\nGITFIND_TIMEOUT=20s\nGITFIND_ADDR=:2222\n")

	cfg, err := Load(Options{
		Path:    path,
		EnvFile: envFile,
		LookupEnv: envMap(map[string]string{
			EnvToken: "env-token",
		}),
	})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Token != "env-token" {
		t.Errorf("Token = %q, want environment to beat .env and file", cfg.Token)
	}
	if cfg.Timeout != 20*time.Second {
		t.Errorf("Timeout = %v, want .env to beat file", cfg.Timeout)
	}
	if cfg.Addr != ":2222" {
		t.Errorf("Addr = %q, want .env value", cfg.Addr)
	}
	if cfg.APIBase != "https://file.example.com" {
		t.Errorf("APIBase = %q, want file value", cfg.APIBase)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		opts Options
	}{
		{
			name: "explicit path missing",
			opts: Options{Path: filepath.Join(dir, "nope.toml")},
		},
		{
			name: "bad toml",
			opts: Options{Path: writeFile(t, dir, "bad.toml", "api_base = ")},
		},
		{
			name: "bad file timeout",
			opts: Options{Path: writeFile(t, dir, "timeout.toml", `timeout = "soon"`)},
		},
		{
			name: "bad env timeout",
			opts: Options{
				Path:      writeFile(t, dir, "empty.toml", ""),
				LookupEnv: envMap(map[string]string{EnvTimeout: "forever"}),
			},
		},
		{
			name: "non-http api base",
			opts: Options{
				Path:      writeFile(t, dir, "ftp.toml", `api_base = "ftp://example.com"`),
				LookupEnv: noEnv,
			},
		},
		{
			name: "zero timeout",
			opts: Options{
				Path:      writeFile(t, dir, "zero.toml", `timeout = "0s"`),
				LookupEnv: noEnv,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.EnvFile = filepath.Join(dir, "none.env")
			if tt.opts.LookupEnv == nil {
				tt.opts.LookupEnv = noEnv
			}
			_, err := Load(tt.opts)
			if err == nil {
				t.Fatal("Load() error = nil, want failure")
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestMaskedToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"", ""},
		{"abc", "***"},
		{"ghp_1234567890", "**********7890"},
	}
	for _, tt := range tests {
		c := Config{Token: tt.token}
		if got := c.MaskedToken(); got != tt.want {
			t.Errorf("MaskedToken(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}

func TestStringMasksToken(t *testing.T) {
	c := Defaults()
	c.Token = "ghp_supersecret"

	out := c.String()
	if strings.Contains(out, "supersecret") {
		t.Errorf("String() leaked token:\n%s", out)
	}
	if !strings.Contains(out, `timeout    = "10s"`) {
		t.Errorf("String() missing timeout:\n%s", out)
	}
	if !strings.Contains(out, "[server]") {
		t.Errorf("String() missing server table:\n%s", out)
	}
}

func TestDir(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
		dir, err := Dir()
		if err != nil {
			t.Fatal(err)
		}
		if dir != filepath.Join("/tmp/xdg", "gitfind") {
			t.Errorf("Dir() = %q", dir)
		}
	})

	t.Run("home", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", home)
		dir, err := Dir()
		if err != nil {
			t.Fatal(err)
		}
		if dir != filepath.Join(home, ".config", "gitfind") {
			t.Errorf("Dir() = %q", dir)
		}
	})

	t.Run("path", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
		path, err := DefaultPath()
		if err != nil {
			t.Fatal(err)
		}
		if filepath.Base(path) != "config.toml" {
			t.Errorf("DefaultPath() = %q", path)
		}
	})
}
