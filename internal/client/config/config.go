// Package config holds settings for the GophCapsule CLI.
//
// Values are layered: defaults, then the config file named by --config,
// then GOPHCAPSULE_CLIENT_* environment variables, then global flags.
// Later layers override earlier ones.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/gophcapsule/internal/filex"
	"github.com/spf13/pflag"
)

const EnvPrefix = "GOPHCAPSULE_CLIENT_"

type Config struct {
	ServerEndpointAddr string        `env:"SERVER_ADDR"`
	AccessToken        string        `env:"ACCESS_TOKEN"`
	JournalPath        string        `env:"JOURNAL"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.JournalPath = filex.DefaultDataPath("gophcapsule", "journal.db")
	c.RequestTimeout = 10 * time.Second
}

// Flags binds the global flags. Values given on the command line win over
// every other layer; see Load.
type Flags struct {
	ConfigFile     string
	Server         string
	Token          string
	Journal        string
	RequestTimeout time.Duration
	fs             *pflag.FlagSet
}

func (f *Flags) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&f.ConfigFile, "config", "c", "", "path to config file (JSON or YAML)")
	fs.StringVarP(&f.Server, "server", "a", "", "server address host:port")
	fs.StringVar(&f.Token, "token", "", "access token")
	fs.StringVar(&f.Journal, "journal", "", "path to the local capsule journal")
	fs.DurationVar(&f.RequestTimeout, "timeout", 0, "per-request timeout")
	f.fs = fs
}

func (f *Flags) apply(c *Config) {
	if f.fs == nil {
		return
	}
	if f.fs.Changed("server") {
		c.ServerEndpointAddr = f.Server
	}
	if f.fs.Changed("token") {
		c.AccessToken = f.Token
	}
	if f.fs.Changed("journal") {
		c.JournalPath = f.Journal
	}
	if f.fs.Changed("timeout") {
		c.RequestTimeout = f.RequestTimeout
	}
}

// Load builds a Config from every layer. f may be nil.
func Load(f *Flags) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if f != nil && f.ConfigFile != "" {
		if err := parseFile(cfg, f.ConfigFile); err != nil {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if f != nil {
		f.apply(cfg)
	}

	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("request timeout must be positive")
	}

	return cfg, nil
}
