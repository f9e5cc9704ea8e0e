package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/wfunc/dungeon-bot/internal/bot"
	"github.com/wfunc/dungeon-bot/internal/config"
	"github.com/wfunc/dungeon-bot/internal/console"
	"github.com/wfunc/dungeon-bot/internal/database"
	"github.com/wfunc/dungeon-bot/internal/game"
	"github.com/wfunc/dungeon-bot/internal/logger"
	"github.com/wfunc/dungeon-bot/internal/repository"
)

func main() {
	var (
		configPath = flag.String("config", "", "配置文件路径")
		playerID   = flag.String("player", "local", "玩家ID")
		mention    = flag.String("mention", "", "回复中对玩家的称呼")
		memory     = flag.Bool("memory", false, "使用内存存储，不写数据库")
	)
	flag.Parse()

	if err := run(*configPath, *playerID, *mention, *memory); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(configPath, playerID, mention string, memory bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// 终端被界面占用，日志只写文件
	cfg.Log.Output = "file"
	if err := logger.Init(&cfg.Log); err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer logger.Cleanup()

	ctx := context.Background()
	defaults := game.Defaults{HP: cfg.Game.StartHP, Damage: cfg.Game.StartDamage}

	var service *game.GameService
	if memory {
		locations, err := database.LoadLocationSeeds(cfg.Game.LocationsFile)
		if err != nil {
			return err
		}
		catalog := game.NewMemoryCatalogFromModels(locations)
		service = game.NewGameService(game.NewMemoryStore(), catalog, defaults)
	} else {
		if err := database.Init(&cfg.Database); err != nil {
			return err
		}
		defer database.Close()
		if err := database.AutoMigrate(ctx, cfg.Game.LocationsFile); err != nil {
			return err
		}
		repos := repository.NewManager(database.GetDB())
		service = game.NewGameService(
			game.NewRepositoryStore(repos.Player()),
			game.NewRepositoryCatalog(repos.Location()),
			defaults,
		)
	}

	renderer, err := bot.NewRenderer(cfg.Game.Locale, cfg.Game.CommandPrefix)
	if err != nil {
		return err
	}
	b := bot.New(service, renderer, cfg.Game.CommandPrefix)

	return console.Run(b, service, bot.Sender{PlayerID: playerID, Mention: mention}, cfg.Game.CommandPrefix)
}
