package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the process configuration, read from config.yaml with ${ENV}
// placeholder substitution. Every field has a workable default so the service
// runs with no config file at all.
type Config struct {
	Server struct {
		Port     string `yaml:"port"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Backup struct {
		Endpoint      string `yaml:"endpoint"`
		Bucket        string `yaml:"bucket"`
		Region        string `yaml:"region"`
		AccessKey     string `yaml:"access_key"`
		SecretKey     string `yaml:"secret_key"`
		Passphrase    string `yaml:"passphrase"`
		ScheduleHour  int    `yaml:"schedule_hour"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`
}

// Load reads path (usually "config.yaml"). A missing file is fine; defaults
// and environment overrides still apply.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err == nil {
		// Replace ${VAR} placeholders in the YAML content
		content := string(data)
		for _, env := range os.Environ() {
			pair := strings.SplitN(env, "=", 2)
			if len(pair) != 2 {
				continue
			}
			placeholder := "${" + pair[0] + "}"
			content = strings.ReplaceAll(content, placeholder, pair[1])
		}

		if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("DAYROSTER_PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("DAYROSTER_LOG_LEVEL"); v != "" {
		cfg.Server.LogLevel = v
	}
	if v := os.Getenv("DAYROSTER_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "dayroster.db"
	}
	if cfg.Backup.RetentionDays <= 0 {
		cfg.Backup.RetentionDays = 30
	}

	return &cfg, nil
}
