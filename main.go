package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Alexotieno1717/bonga-survey-sub000/app"
	"github.com/Alexotieno1717/bonga-survey-sub000/config"
	"github.com/Alexotieno1717/bonga-survey-sub000/database"
	"github.com/Alexotieno1717/bonga-survey-sub000/httpx"
	"github.com/Alexotieno1717/bonga-survey-sub000/jobs"
	"github.com/Alexotieno1717/bonga-survey-sub000/log"
	"github.com/Alexotieno1717/bonga-survey-sub000/routes"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg.DBUrl)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	if cfg.AddUser != "" {
		username, password, ok := strings.Cut(cfg.AddUser, ":")
		if !ok || username == "" || password == "" {
			log.Fatal("main.add_user: expected username:password")
		}
		id, err := httpx.CreateUser(db, username, password)
		if err != nil {
			log.Fatal("main.add_user:", err)
		}
		log.Infof("created user %s (id %d)", username, id)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := app.New(db, httpx.NewBearerServer(db, cfg), cfg)

	lock := jobs.NopLock()
	if cfg.RedisURL != "" {
		redisLock, err := jobs.NewRedisLock(cfg.RedisURL)
		if err != nil {
			log.Fatal("main.redis:", err)
		}
		defer redisLock.Close()
		if err := redisLock.Ping(ctx); err != nil {
			log.Fatal("main.redis.ping:", err)
		}
		lock = redisLock
	}
	statusSync := jobs.NewStatusSync(app.Syncer, lock, cfg.SyncInterval, cfg.Location)

	if cfg.SyncOnce {
		res, ran, err := statusSync.RunOnce(ctx)
		if err != nil {
			log.Fatal("main.sync:", err)
		}
		log.WithFields(log.Fields{
			"ran":       ran,
			"activated": res.Activated,
			"completed": res.Completed,
		}).Info("survey statuses synced")
		return
	}

	go statusSync.Loop(ctx)

	err = runServer(ctx, cfg, routes.Wire(app))
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(ctx context.Context, cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("main.server.shutdown: %s", err)
		}
	}()

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
