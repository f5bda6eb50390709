// Copyright (C) 2025-2026 Inkwell Labs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/inkwell-labs/inkwell/pkg/store"
)

// Config is the on-disk configuration, stored as yaml.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Remote  RemoteConfig  `yaml:"remote"`
	Server  ServerConfig  `yaml:"server"`
}

// StorageConfig locates the local database.
type StorageConfig struct {
	// Path is the sqlite file. Relative paths resolve against the
	// working directory.
	Path string `yaml:"path"`
}

// RemoteConfig describes the optional managed replica.
type RemoteConfig struct {
	Enabled             bool   `yaml:"enabled"`
	URL                 string `yaml:"url"`
	Token               string `yaml:"token"`
	SetupTimeoutSeconds int    `yaml:"setup_timeout_seconds"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{Path: store.DefaultLocalPath},
		Remote:  RemoteConfig{SetupTimeoutSeconds: 30},
		Server:  ServerConfig{Addr: ":8080"},
	}
}

// ConfigPath returns the config file location under dir.
func ConfigPath(dir string) string {
	return filepath.Join(dir, ".inkwell", "config.yaml")
}

// LoadConfig reads the file at path (or the default location when path is
// empty) and applies environment overrides on top.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determine working directory: %w", err)
		}
		path = ConfigPath(cwd)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// SaveConfig writes cfg to path, creating the parent directory.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides lets environment variables win over the file, so
// deployments can keep the token out of it.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("INKWELL_DB_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("INKWELL_REMOTE_ENABLED"); v != "" {
		c.Remote.Enabled = store.ParseBool(v)
	}
	if v := os.Getenv("INKWELL_REMOTE_URL"); v != "" {
		c.Remote.URL = v
	}
	if v := os.Getenv("INKWELL_REMOTE_TOKEN"); v != "" {
		c.Remote.Token = v
	}
	if v := os.Getenv("INKWELL_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// StoreConfig translates the file shape into the gateway's Config.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		LocalPath:     c.Storage.Path,
		RemoteEnabled: c.Remote.Enabled,
		RemoteURL:     c.Remote.URL,
		RemoteToken:   c.Remote.Token,
		SetupTimeout:  time.Duration(c.Remote.SetupTimeoutSeconds) * time.Second,
	}
}
