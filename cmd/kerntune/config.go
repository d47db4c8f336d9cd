package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the kerntune configuration file
// (~/.config/kerntune/config.yaml). Pointer fields distinguish "not
// set" from zero values.
type Config struct {
	Strategy       string  `yaml:"strategy"`
	Seed           *uint64 `yaml:"seed"`
	MaxEvaluations *int64  `yaml:"max_evaluations"`
	MaxDuration    string  `yaml:"max_duration"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	ServerAddress string `yaml:"server_address"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "kerntune", "config.yaml")
}

// applyTuneConfig applies config file defaults to tune command
// variables when the corresponding CLI flag was not explicitly set.
func applyTuneConfig(c *cli.Command, cfg Config) {
	if cfg.Strategy != "" && !c.IsSet("strategy") {
		strategy = cfg.Strategy
	}
	if cfg.Seed != nil && !c.IsSet("seed") {
		seed = *cfg.Seed
	}
	if cfg.MaxEvaluations != nil && !c.IsSet("max-evaluations") && !c.IsSet("n") {
		maxEvals = *cfg.MaxEvaluations
	}
	if cfg.MaxDuration != "" && !c.IsSet("max-duration") {
		maxDuration = cfg.MaxDuration
	}
	applyLogConfig(c, cfg)
}

// applyServeConfig applies config file defaults to serve command
// variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	applyLogConfig(c, cfg)
}

func applyLogConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// LoadConfig reads the config file. Returns a zero Config if the file
// doesn't exist.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}
