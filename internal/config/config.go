// Package config loads tangramqr settings from an optional YAML file, an
// optional .env file and TANGRAMQR_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/youruser/tangramqr/internal/pieces"
)

// Config holds all application configuration values.
type Config struct {
	Base       string `yaml:"base"`
	Name       string `yaml:"name"`
	OutputRoot string `yaml:"output_root"`
	PDF        bool   `yaml:"pdf"`
	Port       int    `yaml:"port"`
	LogLevel   string `yaml:"log_level"`
}

func defaults() *Config {
	return &Config{
		Base:       pieces.DefaultBase,
		OutputRoot: "qrs",
		Port:       8080,
		LogLevel:   "info",
	}
}

// Load reads the YAML file at path, falling back to defaults if it does not
// exist, then applies .env and environment overrides. An empty path skips
// the file.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// .env is optional; variables already set in the process win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides applies TANGRAMQR_* environment variable overrides to cfg.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TANGRAMQR_BASE"); v != "" {
		cfg.Base = v
	}
	if v := os.Getenv("TANGRAMQR_NAME"); v != "" {
		cfg.Name = v
	}
	if v := os.Getenv("TANGRAMQR_OUT"); v != "" {
		cfg.OutputRoot = v
	}
	if v := os.Getenv("TANGRAMQR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TANGRAMQR_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("TANGRAMQR_PDF"); v != "" {
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			cfg.PDF = true
		case "false", "0", "no":
			cfg.PDF = false
		}
	}
}
