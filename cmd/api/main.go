package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voice-reservations/internal/auth"
	"voice-reservations/internal/calllog"
	"voice-reservations/internal/config"
	"voice-reservations/internal/dialogue"
	"voice-reservations/internal/extract"
	"voice-reservations/internal/httpapi"
	"voice-reservations/internal/reporting"
	"voice-reservations/internal/reservation"
	"voice-reservations/internal/telephony"
	"voice-reservations/pkg/logger"
	"voice-reservations/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	reservationRepo := reservation.NewPostgresRepo(db)
	if err := reservationRepo.Migrate(rootCtx); err != nil {
		log.Error("reservation migrate failed", "err", err)
		os.Exit(1)
	}
	callRepo := calllog.NewPostgresRepo(db)
	if err := callRepo.Migrate(rootCtx); err != nil {
		log.Error("call log migrate failed", "err", err)
		os.Exit(1)
	}

	var replay telephony.ReplayCache
	if cfg.RedisEnabled() {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		replay = telephony.NewRedisReplayCache(rdb)
	} else {
		log.Warn("redis not configured, webhook replay protection disabled")
	}

	// Extraction: AI first when configured, deterministic rules always.
	var ai dialogue.Extractor
	if cfg.AIEnabled() {
		gem, err := extract.NewGeminiExtractor(rootCtx, cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel, cfg.AI.Timeout, log)
		if err != nil {
			log.Error("gemini init failed", "err", err)
			os.Exit(1)
		}
		ai = gem
	} else {
		log.Warn("GEMINI_API_KEY not set, extraction runs on rules only")
	}
	extractor := extract.NewChain(ai, &extract.RuleExtractor{}, log)

	persister := reservation.NewService(reservationRepo, log)
	recorder := calllog.NewService(callRepo, log)

	engine, err := dialogue.NewEngine(dialogue.EngineConfig{
		Registry:  dialogue.NewRegistry(),
		Extractor: extractor,
		Persister: persister,
		Recorder:  recorder,
		Prompts:   dialogue.Prompts{RestaurantName: cfg.RestaurantName},
		Options: dialogue.Options{
			MaxTurns:      cfg.Dialogue.MaxTurns,
			MinConfidence: cfg.Dialogue.MinConfidence,
		},
		Log: log,
	})
	if err != nil {
		log.Error("dialogue engine init failed", "err", err)
		os.Exit(1)
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	voice := telephony.VoiceHandler{
		Engine:     engine,
		Replay:     replay,
		GatherPath: gatherPath,
	}
	api := httpapi.Handlers{
		Auth:          authManager,
		Reports:       reporting.NewService(reservationRepo),
		Calls:         recorder,
		StaffPassword: cfg.Auth.StaffPassword,
	}
	registerRoutes(r, voice, api, auth.RequireToken(authManager), db)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env, "restaurant", cfg.RestaurantName)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
