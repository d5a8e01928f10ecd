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

// FileConfig is the on-disk shape. Durations accept "90m" style strings or
// integer nanoseconds. It is seeded from the current Config, so keys absent
// from the file keep their earlier values.
type FileConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	EndpointAddrMetrics         string         `json:"endpoint_addr_metrics" yaml:"endpoint_addr_metrics"`
	Storage                     string         `json:"storage" yaml:"storage"`
	DatabaseDSN                 string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey                   string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	RentPerByte                 uint64         `json:"rent_per_byte" yaml:"rent_per_byte"`
	UserIndexEnabled            bool           `json:"user_index_enabled" yaml:"user_index_enabled"`
	LogLevel                    string         `json:"log_level" yaml:"log_level"`
	EventArchiveEnabled         bool           `json:"event_archive_enabled" yaml:"event_archive_enabled"`
	S3RootUser                  string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                    string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
}

func fileConfigFrom(c *Config) *FileConfig {
	return &FileConfig{
		EndpointAddrGRPC:            c.EndpointAddrGRPC,
		EndpointAddrMetrics:         c.EndpointAddrMetrics,
		Storage:                     c.Storage,
		DatabaseDSN:                 c.DatabaseDSN,
		SecretKey:                   c.SecretKey,
		AccessTokenValidityDuration: timex.Duration{Duration: c.AccessTokenValidityDuration},
		RentPerByte:                 c.RentPerByte,
		UserIndexEnabled:            c.UserIndexEnabled,
		LogLevel:                    c.LogLevel,
		EventArchiveEnabled:         c.EventArchiveEnabled,
		S3RootUser:                  c.S3RootUser,
		S3RootPassword:              c.S3RootPassword,
		S3Bucket:                    c.S3Bucket,
		S3Region:                    c.S3Region,
		S3BaseEndpoint:              c.S3BaseEndpoint,
	}
}

func (f *FileConfig) apply(c *Config) {
	c.EndpointAddrGRPC = f.EndpointAddrGRPC
	c.EndpointAddrMetrics = f.EndpointAddrMetrics
	c.Storage = f.Storage
	c.DatabaseDSN = f.DatabaseDSN
	c.SecretKey = f.SecretKey
	c.AccessTokenValidityDuration = f.AccessTokenValidityDuration.Duration
	c.RentPerByte = f.RentPerByte
	c.UserIndexEnabled = f.UserIndexEnabled
	c.LogLevel = f.LogLevel
	c.EventArchiveEnabled = f.EventArchiveEnabled
	c.S3RootUser = f.S3RootUser
	c.S3RootPassword = f.S3RootPassword
	c.S3Bucket = f.S3Bucket
	c.S3Region = f.S3Region
	c.S3BaseEndpoint = f.S3BaseEndpoint
}

// parseFile reads path as YAML when it ends in .yaml or .yml and as JSON otherwise.
func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := fileConfigFrom(cfg)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}
