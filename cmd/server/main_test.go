package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fitness-tracker/internal/config"
	"fitness-tracker/pkg/password"
)

func newRunConfig() *config.Config {
	return &config.Config{
		AppEnv: "test",
		Server: config.ServerConfig{Host: "127.0.0.1", Port: "0"},
		JWT: config.JWTConfig{
			Secret:   "run-test-secret-run-test-secret-run",
			Issuer:   "fitnessTrackerApi",
			Audience: "fitnessTrackerClient",
			TTL:      time.Hour,
		},
	}
}

func TestRun_ReturnsSeedError(t *testing.T) {
	cfg := newRunConfig()
	cfg.Storage.Driver = config.StorageDriverMemory
	cfg.Admin = config.AdminConfig{
		Email:    "admin@fitnesstracker.com",
		Password: strings.Repeat("x", password.MaxLength+1),
	}

	err := run(cfg, zap.NewNop())
	require.ErrorIs(t, err, password.ErrTooLong)
}

func TestRun_ReturnsConnectionError(t *testing.T) {
	cfg := newRunConfig()
	cfg.Storage.Driver = config.StorageDriverPostgres
	cfg.Database = config.DatabaseConfig{
		Host:    "127.0.0.1",
		Port:    "1",
		User:    "postgres",
		DBName:  "fitness_tracker",
		SSLMode: "disable",
	}

	err := run(cfg, zap.NewNop())
	require.Error(t, err)
	require.Contains(t, err.Error(), "подключение к базе данных")
}
