package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"property-backoffice/config"
)

func TestNewLogger(t *testing.T) {
	logger, err := newLogger(config.LoggingConfig{Level: "warn", Format: "console"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = newLogger(config.LoggingConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}

func TestCreateOwnerCommand(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, uuid.NewString()+".db")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
database:
  dsn: "sqlite:`+dbPath+`"
  log_level: silent
auth:
  jwt_secret: "test"
logging:
  level: error
`), 0o600))
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("AUTH_JWT_SECRET", "")

	root := newRootCmd()
	root.SetArgs([]string{"create-owner", "--config", cfgPath, "--email", "Owner@Example.com", "--password", "hunter22"})
	require.NoError(t, root.Execute())

	_, err := os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestCreateOwnerCommand_RequiresFlags(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"create-owner", "--email", "owner@example.com"})
	root.SetOut(os.Stderr)
	assert.Error(t, root.Execute())
}
