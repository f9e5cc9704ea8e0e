package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/wfunc/dungeon-bot/internal/api"
	"github.com/wfunc/dungeon-bot/internal/bot"
	"github.com/wfunc/dungeon-bot/internal/config"
	"github.com/wfunc/dungeon-bot/internal/database"
	apperrors "github.com/wfunc/dungeon-bot/internal/errors"
	"github.com/wfunc/dungeon-bot/internal/game"
	"github.com/wfunc/dungeon-bot/internal/logger"
	"github.com/wfunc/dungeon-bot/internal/repository"
	"github.com/wfunc/dungeon-bot/internal/utils"
	ws "github.com/wfunc/dungeon-bot/internal/websocket"
	"go.uber.org/zap"
)

// 版本信息
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Server 服务器实例
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	service *game.GameService
	bot     *bot.Bot
	hub     *ws.Hub
	http    *http.Server

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func main() {
	var (
		configPath  = flag.String("config", "", "配置文件路径")
		showVersion = flag.Bool("version", false, "显示版本信息")
		showHelp    = flag.Bool("help", false, "显示帮助信息")
		issueToken  = flag.String("issue-token", "", "为指定玩家ID签发网关令牌后退出")
		mention     = flag.String("mention", "", "签发令牌时附带的玩家称呼")
	)

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	if err := config.Init(*configPath); err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Get()
	if err := cfg.Validate(); err != nil {
		fmt.Printf("配置校验失败: %v\n", err)
		os.Exit(1)
	}

	if *issueToken != "" {
		if err := printToken(cfg, *issueToken, *mention); err != nil {
			fmt.Printf("签发令牌失败: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Cleanup()

	setupSystem(&cfg.System)

	server := NewServer(cfg)
	if err := server.Start(); err != nil {
		logger.Fatal("服务器启动失败", zap.Error(err))
	}

	server.WaitForShutdown()

	if err := server.Shutdown(); err != nil {
		logger.Error("服务器关闭失败", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("服务器已安全关闭")
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		cfg:    cfg,
		logger: logger.GetLogger(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start 启动服务器
func (s *Server) Start() error {
	s.logger.Info("正在启动地下城机器人...",
		zap.String("version", Version),
		zap.String("mode", s.cfg.Server.Mode),
	)

	if err := s.initDatabase(); err != nil {
		return err
	}

	if err := s.initGame(); err != nil {
		return err
	}

	if err := s.startHTTP(); err != nil {
		return err
	}

	// 日志级别支持热更新
	config.Watch(func(newCfg *config.Config) {
		logger.SetLevel(newCfg.Log.Level)
		s.logger.Info("配置已更新", zap.String("log_level", logger.Level()))
	})

	s.logger.Info("服务器启动成功", zap.String("http", s.http.Addr))
	return nil
}

// initDatabase 初始化数据库并写入地点列表
func (s *Server) initDatabase() error {
	if err := database.Init(&s.cfg.Database); err != nil {
		return apperrors.Wrap(err, apperrors.ErrDatabaseConnect, "初始化数据库连接失败")
	}

	if s.cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(s.ctx, s.cfg.Game.LocationsFile); err != nil {
			return err
		}
	}

	count, err := repository.NewLocationRepository(database.GetDB()).Count(s.ctx)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrDatabaseQuery, "读取地点列表失败")
	}
	if count == 0 {
		return apperrors.New(apperrors.ErrCatalogEmpty)
	}

	s.logger.Info("数据库初始化完成", zap.Int64("locations", count))
	return nil
}

// initGame 组装游戏服务与机器人
func (s *Server) initGame() error {
	repos := repository.NewManager(database.GetDB())
	s.service = game.NewGameService(
		game.NewRepositoryStore(repos.Player()),
		game.NewRepositoryCatalog(repos.Location()),
		game.Defaults{HP: s.cfg.Game.StartHP, Damage: s.cfg.Game.StartDamage},
	)

	renderer, err := bot.NewRenderer(s.cfg.Game.Locale, s.cfg.Game.CommandPrefix)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrConfigParse, "加载回复模板失败")
	}
	s.bot = bot.New(s.service, renderer, s.cfg.Game.CommandPrefix)

	if s.cfg.WebSocket.Enabled {
		wsCfg := s.cfg.WebSocket
		s.hub = ws.NewHub(s.bot, ws.Options{
			MaxMessageSize: wsCfg.MaxMessageSize,
			PingInterval:   wsCfg.PingInterval,
			PongTimeout:    wsCfg.PongTimeout,
			WriteTimeout:   wsCfg.WriteTimeout,
		}, logger.GetModuleLogger("websocket"))

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.hub.Run(s.ctx)
		}()
	}
	return nil
}

// startHTTP 启动HTTP服务
func (s *Server) startHTTP() error {
	var jwtManager *utils.JWTManager
	if s.cfg.Security.JWT.Enabled {
		jwtManager = newJWTManager(s.cfg)
	}

	router := api.NewRouter(api.Deps{
		DB:        database.GetDB(),
		Service:   s.service,
		Bot:       s.bot,
		Hub:       s.hub,
		JWT:       jwtManager,
		WebSocket: s.cfg.WebSocket,
		Mode:      s.cfg.Server.Mode,
	}, logger.GetModuleLogger("api"))

	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:      router.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP服务异常退出", zap.Error(err))
			s.cancel()
		}
	}()
	return nil
}

// WaitForShutdown 等待关闭信号
func (s *Server) WaitForShutdown() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case sig := <-sigCh:
		s.logger.Info("收到退出信号", zap.String("signal", sig.String()))
	case <-s.ctx.Done():
	}
}

// Shutdown 优雅关闭服务器
func (s *Server) Shutdown() error {
	s.logger.Info("正在优雅关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("HTTP服务关闭失败", zap.Error(err))
	}

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		return apperrors.New(apperrors.ErrTimeout, "关闭超时")
	}

	if err := database.Close(); err != nil {
		s.logger.Error("关闭数据库失败", zap.Error(err))
	}
	return nil
}

// newJWTManager 按配置创建令牌管理器
func newJWTManager(cfg *config.Config) *utils.JWTManager {
	jwtCfg := cfg.Security.JWT
	return utils.NewJWTManager(jwtCfg.Secret, jwtCfg.Issuer, time.Duration(jwtCfg.ExpireHours)*time.Hour)
}

// printToken 为聊天网关签发令牌
func printToken(cfg *config.Config, playerID, mention string) error {
	if !cfg.Security.JWT.Enabled {
		return fmt.Errorf("未启用 security.jwt")
	}
	token, err := newJWTManager(cfg).IssueToken(playerID, mention)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

// setupSystem 设置系统参数
func setupSystem(cfg *config.SystemConfig) {
	if cfg.Timezone != "" {
		if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
			time.Local = loc
		}
	}

	if cfg.MaxProcs > 0 {
		runtime.GOMAXPROCS(cfg.MaxProcs)
	}
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("地下城机器人\n")
	fmt.Printf("版本: %s\n", Version)
	fmt.Printf("构建时间: %s\n", BuildTime)
	fmt.Printf("Git提交: %s\n", GitCommit)
	fmt.Printf("Go版本: %s\n", runtime.Version())
	fmt.Printf("操作系统: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// printHelp 打印帮助信息
func printHelp() {
	fmt.Println("地下城机器人")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  dungeon-bot [选项]")
	fmt.Println()
	fmt.Println("选项:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("环境变量:")
	fmt.Println("  DUNGEON_BOT_<SECTION>_<KEY>  覆盖配置项，例如 DUNGEON_BOT_GAME_START_HP=120")
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  dungeon-bot -config=config/config.yaml")
	fmt.Println("  dungeon-bot -issue-token=1001 -mention=@alice")
}
