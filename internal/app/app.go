package app

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/majoradvisor-backend/internal/clients/redis"
	"github.com/yungbote/majoradvisor-backend/internal/data/db"
	"github.com/yungbote/majoradvisor-backend/internal/http"
	"github.com/yungbote/majoradvisor-backend/internal/observability"
	"github.com/yungbote/majoradvisor-backend/internal/platform/envutil"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
	"github.com/yungbote/majoradvisor-backend/internal/services"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	DB       *gorm.DB
	Repos    Repos
	Clients  Clients
	Services Services
	Server   *http.Server
	Metrics  *observability.Metrics

	dbService    *db.Service
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// NewLogger builds the process logger from LOG_MODE.
func NewLogger() (*logger.Logger, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// OpenDatabase connects and, unless AUTO_MIGRATE is off, migrates the schema.
func OpenDatabase(log *logger.Logger, cfg Config) (*db.Service, error) {
	svc, err := db.NewService(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if envutil.Bool("AUTO_MIGRATE", true) {
		if err := db.AutoMigrateAll(svc.DB()); err != nil {
			_ = svc.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}
	return svc, nil
}

func New(ctx context.Context, log *logger.Logger) (*App, error) {
	log.Info("Loading environment variables...")
	cfg, err := LoadConfig(log)
	if err != nil {
		return nil, err
	}

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.Init(log)

	dbService, err := OpenDatabase(log, cfg)
	if err != nil {
		_ = otelShutdown(ctx)
		return nil, err
	}
	theDB := dbService.DB()

	clientset, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = dbService.Close()
		_ = otelShutdown(ctx)
		return nil, err
	}
	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clientset)
	server := http.NewServer(log, wireRouterConfig(theDB, log, cfg, serviceset, metrics))

	return &App{
		Log:          log,
		Cfg:          cfg,
		DB:           theDB,
		Repos:        reposet,
		Clients:      clientset,
		Services:     serviceset,
		Server:       server,
		Metrics:      metrics,
		dbService:    dbService,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches background work: the cross-replica invalidation listener
// and the metrics collectors.
func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Clients.Bus != nil {
		err := a.Clients.Bus.StartForwarder(ctx, func(msg redis.Invalidation) {
			if msg.Scope != services.AISettingsScope {
				return
			}
			a.Log.Info("AI settings invalidated by another replica", "origin", msg.Origin)
			a.Services.AIConfig.InvalidateLocal()
		})
		if err != nil {
			return fmt.Errorf("start invalidation forwarder: %w", err)
		}
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Bus.Client())
	}
	a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
	return nil
}

func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(ctx, ":"+a.Cfg.Port, a.Cfg.ShutdownTimeout)
}

// Close drains pending audit entries before releasing connections.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if a.Services.Audit != nil {
		if err := a.Services.Audit.Close(ctx); err != nil {
			a.Log.Warn("audit drain incomplete", "error", err)
		}
	}
	if a.Clients.Bus != nil {
		_ = a.Clients.Bus.Close()
	}
	if a.dbService != nil {
		_ = a.dbService.Close()
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(ctx)
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
