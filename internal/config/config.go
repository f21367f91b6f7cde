package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/tungtase04539/sangtaophaisinh/internal/logger"
)

type Config struct {
	Server struct {
		Host        string   `yaml:"host"`
		Port        int      `yaml:"port"`
		Env         string   `yaml:"env"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Database struct {
		DSN          string `yaml:"url"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
		AutoMigrate  bool   `yaml:"auto_migrate"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Email struct {
		Enabled      bool   `yaml:"enabled"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Realtime struct {
		BridgeEnabled bool   `yaml:"bridge_enabled"`
		Channel       string `yaml:"channel"`
		BufferSize    int    `yaml:"buffer_size"`
	} `yaml:"realtime"`

	Workers struct {
		DeadlineScanMinutes int `yaml:"deadline_scan_minutes"`
	} `yaml:"workers"`

	Credit struct {
		InitialScore   int `yaml:"initial_score"`
		MaxScore       int `yaml:"max_score"`
		ReleasePenalty int `yaml:"release_penalty"`
		ApprovalReward int `yaml:"approval_reward"`
	} `yaml:"credit"`

	FirstAdminEmail    string `yaml:"first_admin_email"`
	FirstAdminPassword string `yaml:"first_admin_password"`
}

var AppConfig *Config

// LoadConfig reads .env, then the yaml file at CONFIG_PATH (optional),
// then environment overrides, then defaults.
func LoadConfig() {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}
	AppConfig = cfg
}

func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Failed to read .env file", "error", err)
	}

	var cfg Config
	explicit := configPath != ""
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	f, err := os.Open(configPath)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", configPath, err)
		}
		logger.Info("Configuration file loaded", "path", configPath)
	case explicit:
		return nil, fmt.Errorf("open config file %s: %w", configPath, err)
	default:
		logger.Info("No configuration file, using environment only", "path", configPath)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Database.DSN, "DATABASE_URL")
	setString(&cfg.Server.Env, "SERVER_ENV")
	setString(&cfg.Server.Host, "SERVER_HOST")
	setInt(&cfg.Server.Port, "SERVER_PORT")
	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setInt(&cfg.JWT.TTL, "JWT_TTL_MINUTES")
	setString(&cfg.Email.SMTPHost, "SMTP_HOST")
	setInt(&cfg.Email.SMTPPort, "SMTP_PORT")
	setString(&cfg.Email.SMTPUsername, "SMTP_USER")
	setString(&cfg.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&cfg.Email.FromEmail, "SMTP_FROM")
	setString(&cfg.FirstAdminEmail, "FIRST_ADMIN_EMAIL")
	setString(&cfg.FirstAdminPassword, "FIRST_ADMIN_PASSWORD")

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("EMAIL_ENABLED"); v != "" {
		cfg.Email.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("REALTIME_BRIDGE_ENABLED"); v != "" {
		cfg.Realtime.BridgeEnabled, _ = strconv.ParseBool(v)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 20
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 24 * 60
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if cfg.Email.FromName == "" {
		cfg.Email.FromName = "Localization Jobs"
	}
	if cfg.Realtime.Channel == "" {
		cfg.Realtime.Channel = "job_events"
	}
	if cfg.Realtime.BufferSize == 0 {
		cfg.Realtime.BufferSize = 256
	}
	if cfg.Workers.DeadlineScanMinutes == 0 {
		cfg.Workers.DeadlineScanMinutes = 5
	}
	if cfg.Credit.MaxScore == 0 {
		cfg.Credit.MaxScore = 100
	}
	if cfg.Credit.InitialScore == 0 {
		cfg.Credit.InitialScore = 50
	}
	if cfg.Credit.ReleasePenalty == 0 {
		cfg.Credit.ReleasePenalty = 5
	}
	if cfg.Credit.ApprovalReward == 0 {
		cfg.Credit.ApprovalReward = 2
	}
}

func (c *Config) Validate() error {
	var problems []string
	if c.Database.DSN == "" {
		problems = append(problems, "database url is required (DATABASE_URL)")
	}
	if c.JWT.Secret == "" {
		problems = append(problems, "jwt secret is required (JWT_SECRET)")
	}
	if c.Credit.InitialScore > c.Credit.MaxScore {
		problems = append(problems, "credit.initial_score exceeds credit.max_score")
	}
	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
