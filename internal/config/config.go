package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"fitbook/internal/database"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Data struct {
		Dir string `yaml:"dir"`
	} `yaml:"data"`

	Database struct {
		Path   string                `yaml:"path"`
		Backup database.BackupConfig `yaml:"backup"`
	} `yaml:"database"`

	Google struct {
		CredentialsFile string `yaml:"credentials_file"`
		CalendarID      string `yaml:"calendar_id"`
		SpreadsheetID   string `yaml:"spreadsheet_id"`
		SheetName       string `yaml:"sheet_name"`
	} `yaml:"google"`

	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	Redis struct {
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`

	Admin struct {
		Password        string `yaml:"password"`
		SessionTTLHours int    `yaml:"session_ttl_hours"`
	} `yaml:"admin"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "data"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/fitbook.db"
	}
	if cfg.Google.SheetName == "" {
		cfg.Google.SheetName = "reservations"
	}
	if cfg.Database.Backup.Dir == "" {
		cfg.Database.Backup.Dir = "data/backups"
	}

	return &cfg, nil
}
