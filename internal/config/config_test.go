package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "http://localhost:8081", cfg.Backend.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, SourceAPI, cfg.Source.Driver)
	assert.Equal(t, EvaluatorHTTP, cfg.Evaluator.Kind)
	assert.Equal(t, 60*time.Second, cfg.Evaluator.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"BACKEND_BASE_URL":   "https://prep.example.com/",
		"CORS_ORIGINS":       "https://a.example.com, https://b.example.com,,",
		"SOURCE_DRIVER":      "POSTGRES",
		"EVALUATOR":          "Anthropic",
		"ANTHROPIC_API_KEY":  "sk-test",
		"EVALUATION_TIMEOUT": "90s",
		"DB_HOST":            "db.internal",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://prep.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, SourcePostgres, cfg.Source.Driver)
	assert.Equal(t, EvaluatorAnthropic, cfg.Evaluator.Kind)
	assert.Equal(t, "sk-test", cfg.Evaluator.APIKey)
	assert.Equal(t, 90*time.Second, cfg.Evaluator.Timeout)
	assert.Equal(t, "db.internal", cfg.Database.Host)
}

func TestFromViper_Validation(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		want   string
	}{
		{"unknown source", map[string]any{"SOURCE_DRIVER": "mysql"}, "SOURCE_DRIVER"},
		{"unknown evaluator", map[string]any{"EVALUATOR": "oracle"}, "EVALUATOR"},
		{"anthropic without key", map[string]any{"EVALUATOR": "anthropic"}, "ANTHROPIC_API_KEY"},
		{"zero timeout", map[string]any{"EVALUATION_TIMEOUT": "0s"}, "EVALUATION_TIMEOUT"},
		{"missing base url", map[string]any{"BACKEND_BASE_URL": ""}, "BACKEND_BASE_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fromViper(newViper(tt.values))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFromViper_BaseURLOptionalWithoutBackend(t *testing.T) {
	_, err := fromViper(newViper(map[string]any{
		"BACKEND_BASE_URL": "",
		"SOURCE_DRIVER":    SourcePostgres,
		"EVALUATOR":        EvaluatorMock,
	}))
	assert.NoError(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	dsn := Database{
		Host: "db", Port: "5433", User: "quiz", Password: "secret", Name: "interview_prep", SSLMode: "require",
	}.DSN()
	assert.Equal(t, "host=db port=5433 user=quiz password=secret dbname=interview_prep sslmode=require", dsn)
}
