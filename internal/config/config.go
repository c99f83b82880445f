package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	SourceAPI      = "api"
	SourcePostgres = "postgres"

	EvaluatorHTTP      = "http"
	EvaluatorAnthropic = "anthropic"
	EvaluatorCLI       = "cli"
	EvaluatorMock      = "mock"
)

type Config struct {
	Server    Server
	Backend   Backend
	Source    Source
	Database  Database
	Evaluator Evaluator
	Log       Log
}

type Server struct {
	Port        string
	CORSOrigins []string
}

// Backend is the external service that owns questions, categories and the
// evaluation endpoint.
type Backend struct {
	BaseURL string
	Timeout time.Duration
}

type Source struct {
	Driver string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders the lib/pq connection string.
func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

type Evaluator struct {
	Kind    string
	Timeout time.Duration
	APIKey  string `json:"-"`
	Model   string
	CLIPath string
}

type Log struct {
	Level  string
	Format string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("BACKEND_BASE_URL", "http://localhost:8081")
	v.SetDefault("HTTP_TIMEOUT", "15s")
	v.SetDefault("SOURCE_DRIVER", SourceAPI)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "interview_user")
	v.SetDefault("DB_PASSWORD", "interview_password")
	v.SetDefault("DB_NAME", "interview_prep")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("EVALUATOR", EvaluatorHTTP)
	v.SetDefault("EVALUATION_TIMEOUT", "60s")
	v.SetDefault("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929")
	v.SetDefault("CLAUDE_CLI_PATH", "claude")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}

// Load reads settings from the environment and an optional .env file in the
// working directory. Environment variables win over the file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		log.Debug().Msg("no .env file found, using environment only")
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: Server{
			Port:        v.GetString("SERVER_PORT"),
			CORSOrigins: splitCSV(v.GetString("CORS_ORIGINS")),
		},
		Backend: Backend{
			BaseURL: strings.TrimSuffix(v.GetString("BACKEND_BASE_URL"), "/"),
			Timeout: v.GetDuration("HTTP_TIMEOUT"),
		},
		Source: Source{Driver: strings.ToLower(v.GetString("SOURCE_DRIVER"))},
		Database: Database{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Evaluator: Evaluator{
			Kind:    strings.ToLower(v.GetString("EVALUATOR")),
			Timeout: v.GetDuration("EVALUATION_TIMEOUT"),
			APIKey:  v.GetString("ANTHROPIC_API_KEY"),
			Model:   v.GetString("ANTHROPIC_MODEL"),
			CLIPath: v.GetString("CLAUDE_CLI_PATH"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Source.Driver {
	case SourceAPI, SourcePostgres:
	default:
		return fmt.Errorf("invalid SOURCE_DRIVER %q: must be %q or %q", c.Source.Driver, SourceAPI, SourcePostgres)
	}

	switch c.Evaluator.Kind {
	case EvaluatorHTTP, EvaluatorAnthropic, EvaluatorCLI, EvaluatorMock:
	default:
		return fmt.Errorf("invalid EVALUATOR %q", c.Evaluator.Kind)
	}

	if c.Evaluator.Kind == EvaluatorAnthropic && c.Evaluator.APIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required when EVALUATOR=%s", EvaluatorAnthropic)
	}
	if c.Evaluator.Timeout <= 0 {
		return fmt.Errorf("EVALUATION_TIMEOUT must be positive")
	}
	if c.Backend.BaseURL == "" && (c.Source.Driver == SourceAPI || c.Evaluator.Kind == EvaluatorHTTP) {
		return fmt.Errorf("BACKEND_BASE_URL is required")
	}
	return nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
