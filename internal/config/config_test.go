package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/wfunc/dungeon-bot/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 100, cfg.Game.StartHP)
	assert.Equal(t, 15, cfg.Game.StartDamage)
	assert.Equal(t, "!", cfg.Game.CommandPrefix)
	assert.Equal(t, "zh-Hans", cfg.Game.Locale)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.False(t, cfg.Security.JWT.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileOverrides(t *testing.T) {
	content := `
database:
  driver: postgres
  dsn: "host=localhost user=bot dbname=game"
game:
  start_hp: 120
  command_prefix: "/"
security:
  jwt:
    enabled: true
    secret: "s3cret"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 120, cfg.Game.StartHP)
	assert.Equal(t, "/", cfg.Game.CommandPrefix)
	assert.True(t, cfg.Security.JWT.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game:\n  start_damage: 15\n"), 0644))
	t.Setenv("DUNGEON_BOT_GAME_START_DAMAGE", "30")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Game.StartDamage)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Game: GameConfig{StartHP: 100, StartDamage: 15, CommandPrefix: "!"}}
	assert.NoError(t, cfg.Validate())

	bad := *cfg
	bad.Game.StartHP = 0
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Game.CommandPrefix = ""
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Security.JWT.Enabled = true
	err := bad.Validate()
	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConfigMissing))

	// 生产环境不允许仅凭请求头识别玩家
	bad = *cfg
	bad.Server.Mode = ModeProduction
	err = bad.Validate()
	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConfigValidate))

	bad.Security.JWT = JWTConfig{Enabled: true, Secret: "s3cret"}
	assert.NoError(t, bad.Validate())
}
