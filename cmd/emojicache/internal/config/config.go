// Package config reads the optional emojicache.yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "emojicache.yaml"

// Defaults applied to missing keys.
const (
	DefaultMemory   = 256
	DefaultSize     = 100
	DefaultWorkers  = 4
	DefaultMaxBytes = 256 << 20
)

// Config represents emojicache.yaml.
type Config struct {
	Cache  CacheConfig  `yaml:"cache"`
	Render RenderConfig `yaml:"render"`
}

// CacheConfig contains storage settings.
type CacheConfig struct {
	Dir string `yaml:"dir,omitempty"`
	// Memory is the number of blobs kept in the in-memory LRU.
	Memory int `yaml:"memory,omitempty"`
	// MaxBytes is the size prune trims the cache directory to.
	MaxBytes int64 `yaml:"max_bytes,omitempty"`
}

// RenderConfig contains decode settings.
type RenderConfig struct {
	Size    int `yaml:"size,omitempty"`
	Workers int `yaml:"workers,omitempty"`
}

// Resolved contains configuration values with defaults applied.
type Resolved struct {
	CacheDir string
	Memory   int
	MaxBytes int64
	Size     int
	Workers  int
}

// LoadOptional reads emojicache.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return Parse(data)
}

// Parse decodes configuration data. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return &cfg, nil
}

// Resolve applies defaults and validates cfg.
func Resolve(cfg *Config) (*Resolved, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	r := &Resolved{
		CacheDir: strings.TrimSpace(cfg.Cache.Dir),
		Memory:   orDefault(cfg.Cache.Memory, DefaultMemory),
		MaxBytes: cfg.Cache.MaxBytes,
		Size:     orDefault(cfg.Render.Size, DefaultSize),
		Workers:  orDefault(cfg.Render.Workers, DefaultWorkers),
	}
	if r.MaxBytes == 0 {
		r.MaxBytes = DefaultMaxBytes
	}
	switch {
	case r.Memory < 0:
		return nil, fmt.Errorf("cache.memory must be positive, got %d", r.Memory)
	case r.MaxBytes < 0:
		return nil, fmt.Errorf("cache.max_bytes must be positive, got %d", r.MaxBytes)
	case r.Size < 0:
		return nil, fmt.Errorf("render.size must be positive, got %d", r.Size)
	case r.Workers < 0:
		return nil, fmt.Errorf("render.workers must be positive, got %d", r.Workers)
	}
	return r, nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
