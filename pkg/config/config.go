// Package config loads gitfind settings from a TOML file, a .env file and
// the environment.
//
// Sources are layered, later ones winning:
//
//  1. Built-in defaults
//  2. The TOML config file ($XDG_CONFIG_HOME/gitfind/config.toml)
//  3. A .env file in the working directory
//  4. Process environment variables
//
// Command-line flags are applied on top by the CLI.
//
// # File Format
//
//	api_base   = "https://api.github.com"
//	token      = "ghp_..."
//	timeout    = "10s"
//	user_agent = "my-tool/1.0"
//
//	[server]
//	addr = ":8080"
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/gitfind/pkg/buildinfo"
	"github.com/matzehuels/gitfind/pkg/errors"
	"github.com/matzehuels/gitfind/pkg/integrations/github"
)

const appName = "gitfind"

// Environment variables read by [Load].
const (
	EnvToken   = "GITHUB_TOKEN"
	EnvAPIBase = "GITFIND_API_BASE"
	EnvTimeout = "GITFIND_TIMEOUT"
	EnvAddr    = "GITFIND_ADDR"
)

// Defaults.
const (
	DefaultTimeout = 10 * time.Second
	DefaultAddr    = ":8080"
)

// Config holds the effective settings.
type Config struct {
	APIBase   string
	Token     string
	Timeout   time.Duration
	UserAgent string
	Addr      string

	// Path is the config file that was read, empty if none existed.
	Path string
}

// fileConfig mirrors the TOML layout. Timeout stays a string so the file uses
// Go duration syntax ("10s", "1m30s").
type fileConfig struct {
	APIBase   string `toml:"api_base"`
	Token     string `toml:"token"`
	Timeout   string `toml:"timeout"`
	UserAgent string `toml:"user_agent"`
	Server    struct {
		Addr string `toml:"addr"`
	} `toml:"server"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		APIBase:   github.DefaultBaseURL,
		Timeout:   DefaultTimeout,
		UserAgent: buildinfo.UserAgent(),
		Addr:      DefaultAddr,
	}
}

// Options controls where [Load] looks.
type Options struct {
	// Path is an explicit config file. It must exist. When empty, the
	// default path is used and a missing file is not an error.
	Path string

	// EnvFile is the dotenv file to read. Empty means ".env"; a missing file
	// is ignored.
	EnvFile string

	// LookupEnv reads environment variables. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load builds the configuration from defaults, the config file, the dotenv
// file and the environment, then validates it.
func Load(opts Options) (*Config, error) {
	cfg := Defaults()

	path, required := opts.Path, true
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "locate config file")
		}
		path, required = p, false
	}
	if err := cfg.loadFile(path, required); err != nil {
		return nil, err
	}

	dotenv, err := readDotenv(opts.EnvFile)
	if err != nil {
		return nil, err
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	env := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(env); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}

	if fc.APIBase != "" {
		c.APIBase = fc.APIBase
	}
	if fc.Token != "" {
		c.Token = fc.Token
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "config %s: invalid timeout %q", path, fc.Timeout)
		}
		c.Timeout = d
	}
	if fc.UserAgent != "" {
		c.UserAgent = fc.UserAgent
	}
	if fc.Server.Addr != "" {
		c.Addr = fc.Server.Addr
	}
	c.Path = path
	return nil
}

func readDotenv(path string) (map[string]string, error) {
	if path == "" {
		path = ".env"
	}
	vals, err := godotenv.Read(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return vals, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvToken); ok && v != "" {
		c.Token = v
	}
	if v, ok := lookup(EnvAPIBase); ok && v != "" {
		c.APIBase = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "%s: invalid duration %q", EnvTimeout, v)
		}
		c.Timeout = d
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Addr = v
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := errors.ValidateURL(c.APIBase); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "api_base")
	}
	if c.Timeout <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "timeout must be positive, got %s", c.Timeout)
	}
	if c.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "server addr cannot be empty")
	}
	return nil
}

// MaskedToken returns the token with all but its last four characters hidden.
func (c *Config) MaskedToken() string {
	switch n := len(c.Token); {
	case n == 0:
		return ""
	case n <= 4:
		return strings.Repeat("*", n)
	default:
		return strings.Repeat("*", n-4) + c.Token[n-4:]
	}
}

// String renders the configuration in the TOML file format with the token
// masked.
func (c *Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "api_base   = %q\n", c.APIBase)
	fmt.Fprintf(&b, "token      = %q\n", c.MaskedToken())
	fmt.Fprintf(&b, "timeout    = %q\n", c.Timeout.String())
	fmt.Fprintf(&b, "user_agent = %q\n", c.UserAgent)
	fmt.Fprintf(&b, "\n[server]\naddr = %q\n", c.Addr)
	return b.String()
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/gitfind/config.toml).
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Dir returns the config directory, honoring XDG_CONFIG_HOME.
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
