package bot

import (
	"context"
	"time"

	"github.com/wfunc/dungeon-bot/internal/game"
	"github.com/wfunc/dungeon-bot/internal/logger"
	"go.uber.org/zap"
)

// 非游戏结果的回复类型
const (
	KindHelp           = "help"
	KindUsage          = "usage"
	KindInvalidCommand = "invalid_command"
	KindError          = "error"
)

// Sender 消息发送者
type Sender struct {
	PlayerID string
	// Mention 回复中称呼玩家的方式，为空时使用PlayerID
	Mention string
}

func (s Sender) mention() string {
	if s.Mention != "" {
		return s.Mention
	}
	return s.PlayerID
}

// Reply 指令回复
type Reply struct {
	// Kind 游戏结果类型或 help/usage/invalid_command/error
	Kind   string      `json:"kind"`
	Text   string      `json:"text"`
	Result interface{} `json:"result,omitempty"`
}

// Bot 聊天机器人：解析指令，调用游戏服务并渲染回复
type Bot struct {
	service  *game.GameService
	renderer *Renderer
	prefix   string
	log      *zap.Logger
}

// New 创建机器人
func New(service *game.GameService, renderer *Renderer, prefix string) *Bot {
	return &Bot{
		service:  service,
		renderer: renderer,
		prefix:   prefix,
		log:      logger.GetModuleLogger("bot"),
	}
}

// Prefix 指令前缀
func (b *Bot) Prefix() string {
	return b.prefix
}

// Handle 处理一条聊天消息
func (b *Bot) Handle(ctx context.Context, sender Sender, text string) Reply {
	cmd, err := ParseCommand(text, b.prefix)
	if err != nil {
		return Reply{Kind: KindInvalidCommand, Text: b.renderer.InvalidCommand()}
	}
	return b.Execute(ctx, sender, cmd)
}

// Execute 执行已解析的指令
func (b *Bot) Execute(ctx context.Context, sender Sender, cmd Command) Reply {
	start := time.Now()
	reply, err := b.execute(ctx, sender, cmd)
	if err != nil {
		fields := append([]zap.Field{
			zap.String("player_id", sender.PlayerID),
			zap.String("command", string(cmd.Name)),
		}, logger.ErrorFields(err)...)
		b.log.Error("指令执行失败", fields...)
		reply = Reply{Kind: KindError, Text: b.renderer.StoreFailure(sender.mention())}
	}

	logger.LogBotCommand(sender.PlayerID, string(cmd.Name), reply.Kind, time.Since(start))
	return reply
}

func (b *Bot) execute(ctx context.Context, sender Sender, cmd Command) (Reply, error) {
	mention := sender.mention()

	switch cmd.Name {
	case CommandHelp:
		return Reply{Kind: KindHelp, Text: b.renderer.Help()}, nil

	case CommandStart:
		res, err := b.service.Start(ctx, sender.PlayerID)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Kind: string(res.Outcome), Text: b.renderer.Start(mention, res), Result: res}, nil

	case CommandStatus:
		res, err := b.service.Status(ctx, sender.PlayerID)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Kind: string(res.Outcome), Text: b.renderer.Status(mention, res), Result: res}, nil

	case CommandMap:
		res, err := b.service.ShowMap(ctx, sender.PlayerID)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Kind: string(res.Outcome), Text: b.renderer.Map(mention, res), Result: res}, nil

	case CommandGo:
		res, err := b.service.Move(ctx, sender.PlayerID, game.ParseLocationRef(cmd.Arg))
		if err != nil {
			return Reply{}, err
		}
		// 未开始游戏的提示优先于缺少参数
		if cmd.Arg == "" && res.Outcome == game.OutcomeUnknownLocation {
			return Reply{Kind: KindUsage, Text: b.renderer.GoUsage(mention)}, nil
		}
		return Reply{Kind: string(res.Outcome), Text: b.renderer.Move(mention, res), Result: res}, nil

	case CommandAttack:
		res, err := b.service.Attack(ctx, sender.PlayerID)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Kind: string(res.Outcome), Text: b.renderer.Attack(mention, res), Result: res}, nil
	}

	return Reply{Kind: KindInvalidCommand, Text: b.renderer.InvalidCommand()}, nil
}
