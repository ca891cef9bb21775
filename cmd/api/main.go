package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/atharvakonge/stocksim/internal/auth"
	"github.com/atharvakonge/stocksim/internal/config"
	"github.com/atharvakonge/stocksim/internal/db"
	"github.com/atharvakonge/stocksim/internal/handlers"
	"github.com/atharvakonge/stocksim/internal/quote"
	"github.com/atharvakonge/stocksim/internal/session"
	"github.com/atharvakonge/stocksim/internal/store"
	"github.com/atharvakonge/stocksim/internal/trading"
	"github.com/atharvakonge/stocksim/pkg/logger"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	log := logger.Get()
	if envErr != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	database, err := db.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return err
	}

	sessionStore, closeStore, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	authSvc := auth.NewService(store.NewUserStore(database), cfg.Cash())
	engine := trading.NewEngine(database, store.NewAccounts(database), store.NewLedger(database), newQuoteProvider(cfg))
	sessions := session.NewManager(sessionStore, cfg.SessionTTL)

	gin.SetMode(cfg.GinMode)
	router, err := handlers.NewRouter(handlers.New(authSvc, sessions, engine, database, cfg.SecureCookie), log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("db", cfg.DB.Driver).
			Str("quotes", cfg.Quotes.Provider).
			Str("sessions", cfg.SessionStore).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return fmt.Errorf("http: %w", err)
	case <-stop:
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server gracefully stopped")
	return nil
}

func newQuoteProvider(cfg *config.Config) quote.Provider {
	if cfg.Quotes.Provider == "polygon" {
		return quote.NewInstrumented(quote.NewPolygon(cfg.Quotes.PolygonAPIKey), "polygon")
	}
	return quote.NewInstrumented(quote.NewSimulated(), "simulated")
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	if cfg.SessionStore != "redis" {
		return session.NewMemoryStore(), func() {}, nil
	}

	client, err := session.ConnectRedis(ctx, session.RedisConfig{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return nil, nil, err
	}
	return session.NewRedisStore(client), func() { _ = client.Close() }, nil
}
