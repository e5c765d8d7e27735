package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	api "github.com/mind-engage/studyquiz/internal/api/http"
	auth "github.com/mind-engage/studyquiz/internal/auth/middleware"
	"github.com/mind-engage/studyquiz/internal/config"
	"github.com/mind-engage/studyquiz/internal/db"
	"github.com/mind-engage/studyquiz/internal/generate"
	"github.com/mind-engage/studyquiz/internal/grading"
	"github.com/mind-engage/studyquiz/internal/platform/logger"
	"github.com/mind-engage/studyquiz/internal/study"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	cancel()
	if err != nil {
		log.Fatal("db open failed", "driver", cfg.DBDriver, "error", err)
	}
	defer dbh.Close()

	store := study.NewSQLStore(dbh, cfg.DBDriver)
	gen := generate.NewPoolGenerator(store, generate.WithShuffle(cfg.ShufflePool))
	grader := grading.NewDefaultGrader(grading.WithMaxEditDistance(cfg.FillMaxEditDistance))
	svc := study.NewService(store, gen, grader, log.With("component", "study"))

	authSvc := auth.NewAuthService(cfg.ServiceTokenSecret)
	if !authSvc.Enabled() {
		log.Warn("SERVICE_TOKEN_SECRET unset; study routes are unauthenticated")
	}

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewRouter(api.RouterConfig{
			Service:     svc,
			Auth:        authSvc,
			Log:         log.With("component", "http"),
			CORSOrigins: cfg.CORSOrigins(),
			DB:          dbh,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", "addr", cfg.HTTPAddr, "mode", cfg.Mode, "db", cfg.DBDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
