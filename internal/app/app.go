package app

import (
	"context"
	"eduassist_backend/internal/catalog"
	"eduassist_backend/internal/config"
	"eduassist_backend/internal/controller"
	"eduassist_backend/internal/repository"
	"eduassist_backend/internal/service"
	"eduassist_backend/internal/util"
	"eduassist_backend/pkg/configwatcher"
	"eduassist_backend/pkg/database"
	"eduassist_backend/pkg/logger"
	"eduassist_backend/pkg/monitoring"
	"eduassist_backend/pkg/security"
	"eduassist_backend/pkg/tracing"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	services        *services
	origins         *security.OriginAllowList
	configCallbacks []func(*config.Config)
	shutdownHooks   []func(context.Context) error
}

// dependencies 外部依赖，测试时替换为内存实现
type dependencies struct {
	users      service.UserStore
	workspaces repository.WorkspaceStore
	generator  service.Generator
	catalog    *catalog.Catalog
}

type services struct {
	auth        *service.AuthService
	workspace   *service.WorkspaceService
	shell       *service.ShellService
	view        *service.ViewService
	quiz        *service.QuizService
	exam        *service.ExamService
	internship  *service.InternshipService
	resource    *service.ResourceService
	storage     *service.StorageService
	ai          *service.AIService
	assistant   *service.AssistantService
	unsubscribe func()
}

type controllers struct {
	auth       *controller.AuthController
	shell      *controller.ShellController
	quiz       *controller.QuizController
	exam       *controller.ExamController
	internship *controller.InternshipController
	resource   *controller.ResourceController
	ai         *controller.AIController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initServices(cfg *config.Config, deps dependencies) *services {
	s := &services{}
	s.auth = service.NewAuthService(deps.users, cfg)
	s.workspace = service.NewWorkspaceService(deps.workspaces, deps.catalog)
	s.unsubscribe = s.auth.Subscribe(s.workspace.HandleAuthEvent)

	s.shell = service.NewShellService(s.auth, s.workspace)
	s.quiz = service.NewQuizService(s.workspace, deps.catalog)
	s.exam = service.NewExamService(s.workspace, deps.catalog)
	s.internship = service.NewInternshipService(s.workspace, deps.catalog)
	s.view = service.NewViewService(s.workspace, deps.catalog, s.internship, s.exam)
	s.storage = service.NewStorageService(&cfg.Storage)
	s.resource = service.NewResourceService(s.workspace, s.storage)
	s.ai = service.NewAIService(deps.generator, cfg.AI.Models)
	s.assistant = service.NewAssistantService(s.ai, s.workspace)
	return s
}

func (a *App) initControllers(s *services, deps dependencies) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, s.workspace),
		shell:      controller.NewShellController(s.shell, s.view, deps.catalog, a.Config.Server.Mode == gin.ReleaseMode),
		quiz:       controller.NewQuizController(s.quiz),
		exam:       controller.NewExamController(s.exam),
		internship: controller.NewInternshipController(s.internship),
		resource:   controller.NewResourceController(s.resource, s.auth),
		ai:         controller.NewAIController(s.assistant),
		health:     controller.NewHealthController(deps.users, deps.workspaces),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(a.origins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if cfg.RateLimit.MaxRequests > 0 && window > 0 {
		router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window))
	}

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// newApp 用给定依赖组装路由与服务
func newApp(cfg *config.Config, deps dependencies) *App {
	app := &App{
		Config:  cfg,
		origins: security.NewOriginAllowList(cfg.CORS.AllowedOrigins),
	}

	services := app.initServices(cfg, deps)
	app.services = services
	controllers := app.initControllers(services, deps)

	monitoring.Init()

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, services)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// 热更新：模型名与 CORS 白名单
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		services.ai.UpdateModels(newCfg.AI.Models)
		app.origins.Set(newCfg.CORS.AllowedOrigins)
	})

	return app
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("Failed to migrate database", zap.Error(err))
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	cat, err := catalog.Default()
	if err != nil {
		logger.Log.Fatal("Failed to load catalog", zap.Error(err))
	}

	// 缺少 AI 凭据视为致命错误
	gen, err := service.NewChatCompletionClient(cfg.AI)
	if err != nil {
		logger.Log.Fatal("Failed to initialize AI client", zap.Error(err))
	}

	deps := dependencies{
		users:     repository.NewUserRepository(db),
		generator: gen,
		catalog:   cat,
	}

	var rdb *redis.Client
	switch cfg.Session.Store {
	case util.SessionStoreMemory:
		deps.workspaces = repository.NewMemoryWorkspaceStore(cfg.Session.TTL)
	default:
		rdb, err = database.InitRedis(context.Background(), &cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
		deps.workspaces = repository.NewRedisWorkspaceStore(rdb, cfg.Session.TTL)
	}

	app := newApp(cfg, deps)
	app.DB = db
	app.Redis = rdb

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(&cfg.Tracing)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.shutdownHooks = append(app.shutdownHooks, tp.Shutdown)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.Config.ConfigFile != "" {
		err := configwatcher.Watch(ctx, a.Config.ConfigFile, func(newCfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(newCfg)
			}
		})
		if err != nil {
			logger.Log.Warn("Config watcher disabled", zap.Error(err))
		}
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Close(shutdownCtx)

	logger.Log.Info("Server exiting")
}

// Close 释放订阅、追踪与连接
func (a *App) Close(ctx context.Context) {
	if a.services != nil && a.services.unsubscribe != nil {
		a.services.unsubscribe()
	}
	for _, hook := range a.shutdownHooks {
		if err := hook(ctx); err != nil {
			logger.Log.Error("Shutdown hook failed", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Error("Failed to close redis", zap.Error(err))
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
