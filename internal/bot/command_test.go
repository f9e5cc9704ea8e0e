package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/wfunc/dungeon-bot/internal/errors"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text string
		want Command
	}{
		{"!start", Command{Name: CommandStart}},
		{"  !status  ", Command{Name: CommandStatus}},
		{"!MAP", Command{Name: CommandMap}},
		{"!go 1", Command{Name: CommandGo, Arg: "1"}},
		{"!go   森林 ", Command{Name: CommandGo, Arg: "森林"}},
		{"!go", Command{Name: CommandGo}},
		{"!attack", Command{Name: CommandAttack}},
		{"!help", Command{Name: CommandHelp}},
	}

	for _, tt := range tests {
		cmd, err := ParseCommand(tt.text, "!")
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.want, cmd, tt.text)
	}
}

func TestParseCommand_Invalid(t *testing.T) {
	for _, text := range []string{"", "start", "!", "!dance", "/start"} {
		_, err := ParseCommand(text, "!")
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidCommand), text)
	}
}

func TestParseCommand_CustomPrefix(t *testing.T) {
	cmd, err := ParseCommand("/go 洞穴", "/")
	require.NoError(t, err)
	assert.Equal(t, Command{Name: CommandGo, Arg: "洞穴"}, cmd)
}
