package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"go.uber.org/zap"

	"todoList/internal/config"
	"todoList/internal/logger"
	"todoList/internal/migrations"
	"todoList/internal/repository/task/inmemory"
	"todoList/internal/repository/task/postgres"
	"todoList/internal/repository/task/sqlite"
	"todoList/internal/service"
)

// Store is a task repository with a lifecycle.
type Store interface {
	service.TaskRepository
	Close()
}

type App struct {
	config    *config.Config
	server    *http.Server
	listener  net.Listener
	store     Store
	service   *service.TaskService
	shutdowns []func(context.Context) error // run in order on shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(context.Context) error, 0),
	}
}

// Init opens the store and builds the HTTP server. Nothing listens yet.
func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	store, repoType, err := OpenStore(ctx, a.config)
	if err != nil {
		return err
	}
	a.store = store
	a.service = service.NewTaskService(store, repoType)

	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           NewRouter(a.config.Server, a.service),
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.shutdowns = append(a.shutdowns,
		func(ctx context.Context) error {
			logger.Info("App: stopping HTTP server")
			return a.server.Shutdown(ctx)
		},
		func(context.Context) error {
			a.store.Close()
			return nil
		},
		func(context.Context) error {
			logger.Info("App: flushing logs")
			logger.Sync()
			return nil
		},
	)

	return nil
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Start binds the listener so a taken port fails here, then serves in the background.
func (a *App) Start() error {
	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.server.Addr, err)
	}
	a.listener = ln

	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("App: HTTP server stopped", err)
		}
	}()

	logger.Info("App: server started",
		zap.String("addr", ln.Addr().String()),
		zap.String("repository", string(a.service.RepoType())),
		zap.String("route_prefix", a.config.Server.RoutePrefix))
	return nil
}

func (a *App) Addr() string {
	if a.listener == nil {
		return a.server.Addr
	}
	return a.listener.Addr().String()
}

func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range a.shutdowns {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run starts the server and blocks until SIGINT/SIGTERM has been handled.
// It returns the process exit code.
func (a *App) Run() int {
	if err := a.Start(); err != nil {
		logger.Error("App: failed to start", err)
		_ = a.Shutdown(context.Background())
		return 1
	}

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		a.config.Server.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"todo-api": a.Shutdown,
		},
	)
	return <-wait
}

// OpenStore builds the repository named by cfg.Repository.Type.
func OpenStore(ctx context.Context, cfg *config.Config) (Store, service.RepoType, error) {
	switch service.RepoType(cfg.Repository.Type) {
	case service.PostgresType:
		if cfg.Database.Migrate {
			if err := migrations.RunPostgres(cfg.Database.URL, true); err != nil {
				return nil, "", err
			}
		}
		store, err := postgres.New(ctx, cfg.Database.URL, postgres.PoolConfig{
			MaxConns:        cfg.Database.MaxConnections,
			MinConns:        cfg.Database.MinConnections,
			MaxConnIdleTime: cfg.Database.IdleTimeout,
		})
		if err != nil {
			return nil, "", err
		}
		return store, service.PostgresType, nil

	case service.SQLiteType:
		store, err := sqlite.Open(ctx, cfg.Repository.SQLitePath)
		if err != nil {
			return nil, "", err
		}
		return store, service.SQLiteType, nil

	case service.InMemoryType:
		return inmemory.NewTaskStorage(), service.InMemoryType, nil
	}

	return nil, "", fmt.Errorf("unknown repository type %q", cfg.Repository.Type)
}
