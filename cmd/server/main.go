package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/campus-reservations/internal/config"
	"github.com/iliyamo/campus-reservations/internal/database"
	"github.com/iliyamo/campus-reservations/internal/handler"
	"github.com/iliyamo/campus-reservations/internal/logging"
	"github.com/iliyamo/campus-reservations/internal/metrics"
	"github.com/iliyamo/campus-reservations/internal/middleware"
	"github.com/iliyamo/campus-reservations/internal/queue"
	"github.com/iliyamo/campus-reservations/internal/repository"
	"github.com/iliyamo/campus-reservations/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real environment wins
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics {
		metrics.Register()
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if cfg.DBAutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("migrate schema")
		}
		log.Info().Msg("schema applied")
	}

	rdb := config.NewRedisClient() // nil when Redis is unreachable
	if rdb == nil {
		log.Warn().Msg("redis unavailable: rate limiting and caching disabled")
	} else {
		defer rdb.Close()
	}

	var events queue.Publisher = queue.NopPublisher{}
	if cfg.EventsEnabled {
		events = queue.NewAMQPPublisher(cfg.AMQPURL, log)
	}
	defer events.Close()
	if cfg.ConsumeEvents {
		go func() {
			if err := queue.StartConsumer(ctx, cfg.AMQPURL, "logs", log); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("event consumer stopped")
			}
		}()
	}

	cafeteria := repository.NewCafeteriaRepo(db)
	sports := repository.NewSportsRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	if cfg.Metrics {
		e.Use(middleware.RequestMetrics())
	}

	router.RegisterRoutes(e, db, cfg.Metrics)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, repository.NewStudentRepo(db), log))
	router.RegisterStudent(e,
		router.StudentHandlers{
			Cafeteria:  handler.NewCafeteriaHandler(cafeteria, events, log),
			Sports:     handler.NewSportsHandler(sports, events, log),
			Facilities: handler.NewFacilityHandler(repository.NewFacilityRepo(db), sports, cfg.FacilityZone, log),
			Reference:  handler.NewReferenceHandler(repository.NewMealTypeRepo(db), repository.NewBalanceRepo(db), log),
		},
		middleware.SessionAuth(cfg.JWTSecret, cfg.CookieName),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb, log),
	)

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
}
