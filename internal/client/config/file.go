package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophcapsule/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape, seeded from the current Config so
// absent keys keep earlier values.
type FileConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr" yaml:"server_endpoint_addr"`
	AccessToken        string         `json:"access_token" yaml:"access_token"`
	JournalPath        string         `json:"journal_path" yaml:"journal_path"`
	RequestTimeout     timex.Duration `json:"request_timeout" yaml:"request_timeout"`
}

func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := &FileConfig{
		ServerEndpointAddr: cfg.ServerEndpointAddr,
		AccessToken:        cfg.AccessToken,
		JournalPath:        cfg.JournalPath,
		RequestTimeout:     timex.Duration{Duration: cfg.RequestTimeout},
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	cfg.ServerEndpointAddr = fc.ServerEndpointAddr
	cfg.AccessToken = fc.AccessToken
	cfg.JournalPath = fc.JournalPath
	cfg.RequestTimeout = fc.RequestTimeout.Duration
	return nil
}
