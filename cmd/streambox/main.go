package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mehedi/streambox/internal/admin"
	"github.com/mehedi/streambox/internal/api"
	"github.com/mehedi/streambox/internal/auth"
	"github.com/mehedi/streambox/internal/catalog"
	"github.com/mehedi/streambox/internal/config"
	"github.com/mehedi/streambox/internal/db"
	"github.com/mehedi/streambox/internal/deeplink"
	"github.com/mehedi/streambox/internal/favorites"
	"github.com/mehedi/streambox/internal/jobs"
	"github.com/mehedi/streambox/internal/repository"
	"github.com/mehedi/streambox/internal/scheduler"
)

func main() {
	log.Println("StreamBox starting...")

	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer database.Close()

	if err := db.Bootstrap(database); err != nil {
		log.Fatalf("schema bootstrap failed: %v", err)
	}

	entries := repository.NewEntryRepository(database.DB)
	settings := repository.NewSettingsRepository(database.DB)
	admins := repository.NewAdminRepository(database.DB)

	seedAdmin(admins, cfg)
	authService := auth.New(admins, cfg.JWTSecret)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	notifier := catalog.NewRedisNotifier(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := catalog.NewFeed(entries, settings, notifier)
	if err := feed.Start(ctx); err != nil {
		log.Printf("change feed unavailable, running on periodic refresh only: %v", err)
	}
	defer feed.Stop()

	workflow := admin.NewWorkflow(entries, settings, authService, notifier)

	queue := jobs.NewQueue(cfg.RedisAddr)
	queue.Handle(jobs.TaskViewIncrement, jobs.NewViewIncrementHandler(entries, notifier))
	if err := queue.Start(); err != nil {
		log.Fatalf("job queue failed: %v", err)
	}
	defer queue.Stop()

	sched, err := scheduler.New(feed, cfg.SnapshotRefresh)
	if err != nil {
		log.Fatalf("scheduler setup failed: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	favKV, err := favorites.NewFileKV(filepath.Join(cfg.DataDir, "favorites"))
	if err != nil {
		log.Fatalf("favorites storage failed: %v", err)
	}

	srv := api.NewServer(cfg, feed, workflow, authService, queue, favKV, deeplink.NoopHost{})
	srv.Start()
	defer srv.Stop()

	httpServer := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on :%d", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
}

// seedAdmin creates the first admin account from the environment when the
// table is still empty. Without credentials set, nothing happens.
func seedAdmin(admins *repository.AdminRepository, cfg *config.Config) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Printf("admin seed: hash failed: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := admins.Seed(ctx, cfg.AdminEmail, hash); err != nil {
		log.Printf("admin seed failed: %v", err)
	}
}
