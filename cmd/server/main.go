// Package main contains the entrypoint for the palette gateway server.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/chromabiz/chromabiz/internal/config"
	"github.com/chromabiz/chromabiz/internal/database"
	"github.com/chromabiz/chromabiz/internal/gemini"
	"github.com/chromabiz/chromabiz/internal/logger"
	"github.com/chromabiz/chromabiz/internal/quota"
	"github.com/chromabiz/chromabiz/internal/scheduler"
	"github.com/chromabiz/chromabiz/internal/server"
	"github.com/chromabiz/chromabiz/internal/service"
	"github.com/chromabiz/chromabiz/internal/tasks"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger,
// db, quota store, AI client, HTTP server, scheduler), handles graceful
// shutdown, and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	limits := quota.Limits{
		DailyGenerations: cfg.Quota.DailyGenerations,
		DailyRevisions:   cfg.Quota.DailyRevisions,
		Window:           cfg.Quota.Window,
	}
	var quotaStore quota.Store
	if cfg.Quota.RedisAddr != "" {
		quotaStore, err = quota.NewRedisStore(cfg.Quota.RedisAddr, cfg.Quota.RedisPassword, cfg.Quota.RedisDB, limits, log)
		if err != nil {
			log.Error("Failed to connect to redis quota store", "addr", cfg.Quota.RedisAddr, "error", err)
			return 1
		}
		log.Info("Using redis quota store", "addr", cfg.Quota.RedisAddr)
	} else {
		quotaStore = quota.NewMemoryStore(limits)
		log.Info("Using in-memory quota store")
	}
	defer func() {
		if err := quotaStore.Close(); err != nil {
			log.Error("Failed to close quota store", "error", err)
		}
	}()

	aiClient, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return 1
	}

	svc := service.New(log, quotaStore, aiClient, cfg.Gemini.Timeout)
	router := server.NewRouter(log, svc, store, cfg.Server.CORSOrigins)
	httpServer := server.NewHTTPServer(cfg.Server, router)

	taskMap := tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Quota:  quotaStore,
	})
	sched, err := scheduler.NewScheduler(log, &cfg.Scheduler, taskMap)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}
	if err := sched.Start(); err != nil {
		log.Error("Failed to start scheduler", "error", err)
		return 1
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting HTTP server", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	runErr := g.Wait()

	if err := sched.Stop(); err != nil {
		log.Error("Failed to stop scheduler", "error", err)
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Server stopped due to error", "error", runErr)
		return 1
	}

	log.Info("Server stopped gracefully.")
	return 0
}
