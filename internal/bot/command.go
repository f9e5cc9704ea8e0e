package bot

import (
	"strings"

	apperrors "github.com/wfunc/dungeon-bot/internal/errors"
)

// CommandName 聊天指令名
type CommandName string

const (
	CommandStart  CommandName = "start"
	CommandStatus CommandName = "status"
	CommandMap    CommandName = "map"
	CommandGo     CommandName = "go"
	CommandAttack CommandName = "attack"
	CommandHelp   CommandName = "help"
)

var knownCommands = map[CommandName]struct{}{
	CommandStart:  {},
	CommandStatus: {},
	CommandMap:    {},
	CommandGo:     {},
	CommandAttack: {},
	CommandHelp:   {},
}

// Command 解析后的指令
type Command struct {
	Name CommandName `json:"name"`
	Arg  string      `json:"arg,omitempty"`
}

// ParseCommand 解析带前缀的聊天消息，如 "!go 森林"
func ParseCommand(text, prefix string) (Command, error) {
	text = strings.TrimSpace(text)
	if prefix == "" || !strings.HasPrefix(text, prefix) {
		return Command{}, apperrors.Newf(apperrors.ErrInvalidCommand, "缺少指令前缀 %q", prefix)
	}

	body := strings.TrimSpace(strings.TrimPrefix(text, prefix))
	if body == "" {
		return Command{}, apperrors.New(apperrors.ErrInvalidCommand, "空指令")
	}

	name, arg := body, ""
	if i := strings.IndexAny(body, " \t"); i >= 0 {
		name, arg = body[:i], strings.TrimSpace(body[i+1:])
	}

	cmd := Command{Name: CommandName(strings.ToLower(name)), Arg: arg}
	if _, ok := knownCommands[cmd.Name]; !ok {
		return Command{}, apperrors.Newf(apperrors.ErrInvalidCommand, "未知指令 %s", name)
	}
	return cmd, nil
}
