package logger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/dungeon-bot/internal/config"
	apperrors "github.com/wfunc/dungeon-bot/internal/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("unknown"))
}

func TestBuild_FileOutput(t *testing.T) {
	dir := t.TempDir()
	l, modules, err := build(&config.LogConfig{
		Level:   "debug",
		Format:  "json",
		Output:  "file",
		File:    config.LogFileConfig{Path: dir, Filename: "bot.log", MaxSize: 1},
		Modules: map[string]string{"game": "warn"},
	})
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Contains(t, modules, "game")
	assert.True(t, modules["game"].Core().Enabled(zapcore.WarnLevel))
	assert.False(t, modules["game"].Core().Enabled(zapcore.InfoLevel))

	l.Info("hello")
	_ = l.Sync()
	assert.FileExists(t, dir+"/bot.log")
}

func TestSetLevel(t *testing.T) {
	SetLevel("error")
	assert.Equal(t, "error", Level())
	SetLevel("info")
	assert.Equal(t, "info", Level())
}

func TestHelpersWithoutInit(t *testing.T) {
	// 未初始化时不应panic
	assert.NotPanics(t, func() {
		LogGameEvent("player_created", "42", map[string]interface{}{"hp": 100})
		LogBotCommand("42", "attack", "attack", time.Millisecond)
		LogDatabaseOperation("save", "players", time.Millisecond, errors.New("locked"))
		LogWebSocketMessage("receive", "command", nil)
		LogRequest("GET", "/health", 200, time.Millisecond, "127.0.0.1")
	})
}

func TestErrorFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(core)

	appErr := apperrors.Wrap(errors.New("database is closed"), apperrors.ErrDatabaseQuery)
	l.Error("加载失败", ErrorFields(appErr)...)
	l.Error("普通错误", ErrorFields(errors.New("boom"))...)

	entries := logs.All()
	require.Len(t, entries, 2)

	fields := entries[0].ContextMap()
	assert.Equal(t, int64(apperrors.ErrDatabaseQuery), fields["code"])
	assert.Equal(t, true, fields["store_failure"])
	assert.Equal(t, true, fields["retryable"])
	assert.Equal(t, false, fields["critical"])
	assert.NotEmpty(t, fields["stack"])

	plain := entries[1].ContextMap()
	assert.Equal(t, "boom", plain["error"])
	assert.NotContains(t, plain, "code")
	assert.NotContains(t, plain, "stack")
}
