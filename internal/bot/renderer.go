package bot

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/wfunc/dungeon-bot/internal/game"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// DefaultLocale 默认语言
var DefaultLocale = language.SimplifiedChinese

var supportedLocales = []language.Tag{language.SimplifiedChinese, language.English}

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// loadCatalog 读取内置语言文件
func loadCatalog() (*catalog.Builder, error) {
	paths, err := fs.Glob(localeFS, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("查找语言文件失败: %w", err)
	}

	builder := catalog.NewBuilder(catalog.Fallback(DefaultLocale))
	for _, path := range paths {
		data, err := fs.ReadFile(localeFS, path)
		if err != nil {
			return nil, fmt.Errorf("读取语言文件 %s 失败: %w", path, err)
		}

		var file localeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("解析语言文件 %s 失败: %w", path, err)
		}

		tag, err := language.Parse(file.Locale)
		if err != nil {
			return nil, fmt.Errorf("语言文件 %s 的语言标记无效: %w", path, err)
		}
		for key, msg := range file.Messages {
			if err := builder.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("注册消息 %s/%s 失败: %w", file.Locale, key, err)
			}
		}
	}
	return builder, nil
}

// Renderer 将游戏结果渲染为聊天文本
type Renderer struct {
	printer *message.Printer
	prefix  string
}

// NewRenderer 创建渲染器，locale不受支持时使用默认语言
func NewRenderer(locale, prefix string) (*Renderer, error) {
	builder, err := loadCatalog()
	if err != nil {
		return nil, err
	}

	tag := DefaultLocale
	if requested, err := language.Parse(locale); err == nil {
		matcher := language.NewMatcher(supportedLocales)
		_, index, confidence := matcher.Match(requested)
		if confidence != language.No {
			tag = supportedLocales[index]
		}
	}

	return &Renderer{
		printer: message.NewPrinter(tag, message.Catalog(builder)),
		prefix:  prefix,
	}, nil
}

func (r *Renderer) text(key string, args ...interface{}) string {
	return r.printer.Sprintf(key, args...)
}

// Welcome 新玩家欢迎语及初始状态
func (r *Renderer) Welcome(mention string, res *game.StartResult) string {
	status := &game.StatusResult{Outcome: game.OutcomeStatus, Player: res.Player}
	return r.text("welcome") + "\n" + r.Status(mention, status)
}

// Start 渲染开始游戏结果
func (r *Renderer) Start(mention string, res *game.StartResult) string {
	if res.Outcome == game.OutcomeCreated {
		return r.Welcome(mention, res)
	}
	return r.text("started", mention)
}

// NotStarted 未开始游戏提示
func (r *Renderer) NotStarted(mention string) string {
	return r.text("not_started", mention, r.prefix)
}

// Status 渲染玩家状态
func (r *Renderer) Status(mention string, res *game.StatusResult) string {
	if res.Outcome == game.OutcomeNotStarted || res.Player == nil {
		return r.NotStarted(mention)
	}

	current := r.text("status.road")
	if res.CurrentLocation != nil {
		current = res.CurrentLocation.Name
	}

	passed := r.text("status.none")
	if len(res.Passed) > 0 {
		names := make([]string, 0, len(res.Passed))
		for _, loc := range res.Passed {
			names = append(names, loc.Name)
		}
		passed = strings.Join(names, r.text("status.separator"))
	}

	p := res.Player
	return r.text("status", mention, p.CurrentHP, p.MaxHP, p.Damage, current, passed)
}

// Map 渲染地图
func (r *Renderer) Map(mention string, res *game.MapResult) string {
	if res.Outcome == game.OutcomeNotStarted {
		return r.NotStarted(mention)
	}

	lines := []string{r.text("map.header", mention)}
	for _, entry := range res.Locations {
		loc := entry.Location
		lines = append(lines, r.text("map.entry",
			int(loc.ID), loc.Name, r.text("map."+string(entry.Status)),
			loc.BossName, loc.BossHP, loc.BossDmg,
			loc.HPBonus, loc.DmgBonus,
		))
	}
	return strings.Join(lines, "\n")
}

// GoUsage 缺少地点参数时的提示
func (r *Renderer) GoUsage(mention string) string {
	return r.text("go.usage", mention, r.prefix)
}

// Move 渲染移动结果
func (r *Renderer) Move(mention string, res *game.MoveResult) string {
	switch res.Outcome {
	case game.OutcomeNotStarted:
		return r.NotStarted(mention)
	case game.OutcomeUnknownLocation:
		return r.text("go.unknown", mention, res.Ref)
	case game.OutcomeAlreadyThere:
		return r.text("go.already_there", mention, res.Location.Name)
	case game.OutcomeAlreadyPassed:
		return r.text("go.already_passed", mention, res.Location.Name)
	default:
		loc := res.Location
		return r.text("go.entered", mention, loc.Name, loc.BossName, loc.BossHP, loc.BossDmg)
	}
}

// Attack 渲染攻击结果，按回合顺序逐行输出
func (r *Renderer) Attack(mention string, res *game.AttackResult) string {
	switch res.Outcome {
	case game.OutcomeNotStarted:
		return r.NotStarted(mention)
	case game.OutcomeNoEncounter:
		return r.text("attack.no_enemy", mention)
	case game.OutcomeAlreadyDefeated:
		return r.text("attack.already_dead", mention, res.Location.BossName)
	}

	boss := res.Location.BossName
	lines := []string{r.text("attack.hit", mention, boss, res.Combat.PlayerHit)}

	switch res.Outcome {
	case game.OutcomeBossDefeated:
		lines = append(lines, r.text("attack.boss_defeated", boss))
		if res.Bonus != nil && res.Bonus.Applied {
			lines = append(lines, r.text("attack.bonus", mention,
				res.Bonus.MaxHP, res.Bonus.HPBonus, res.Bonus.Damage, res.Bonus.DmgBonus))
		} else {
			lines = append(lines, r.text("attack.no_bonus", mention))
		}
		if res.Won {
			lines = append(lines, r.text("attack.win", mention))
		}
	case game.OutcomePlayerDefeated:
		lines = append(lines,
			r.text("attack.hit", boss, mention, res.Combat.BossHit),
			r.text("attack.game_over", mention, r.prefix),
		)
	case game.OutcomeOngoing:
		lines = append(lines,
			r.text("attack.hit", boss, mention, res.Combat.BossHit),
			r.text("attack.fight_status", res.Combat.BossHP, res.Combat.PlayerHP),
		)
	}
	return strings.Join(lines, "\n")
}

// Help 指令帮助
func (r *Renderer) Help() string {
	return r.text("help", r.prefix)
}

// InvalidCommand 无法识别的指令
func (r *Renderer) InvalidCommand() string {
	return r.text("error.invalid", r.prefix)
}

// StoreFailure 存储不可用
func (r *Renderer) StoreFailure(mention string) string {
	return r.text("error.store", mention)
}
