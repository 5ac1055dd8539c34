package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nulzo/model-catalog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRun_DatabaseError(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Path = filepath.Join(t.TempDir(), "missing", "catalog.db")

	err := run(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open database")
}

func TestRun_RedisError(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Path = filepath.Join(t.TempDir(), "catalog.db")
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = "127.0.0.1:1"

	err := run(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to redis")
	assert.FileExists(t, cfg.Database.Path, "database was opened before the redis failure")
}
