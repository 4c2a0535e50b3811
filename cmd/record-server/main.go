package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Sternrassler/lazy-list-loader/internal/server"
	"github.com/Sternrassler/lazy-list-loader/pkg/logging"
	"github.com/Sternrassler/lazy-list-loader/pkg/records"
	"github.com/rs/zerolog/log"
)

type config struct {
	Port      string
	LogLevel  string
	LogPretty bool
	Contacts  int
	Accounts  int
	Server    server.Config
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(logging.Config{
		Level:   logging.LogLevel(cfg.LogLevel),
		Pretty:  cfg.LogPretty,
		Output:  os.Stderr,
		Service: logging.ComponentServer,
	})

	handler, err := newHandler(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create record server")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Int("contacts", cfg.Contacts).
			Int("accounts", cfg.Accounts).
			Int("default_limit", cfg.Server.DefaultLimit).
			Msg("Starting record server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
		return
	}
	log.Info().Msg("Record server stopped")
}

// loadConfig reads the configuration from the environment.
func loadConfig() (config, error) {
	cfg := config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Server:   server.DefaultConfig(),
	}

	var err error
	if cfg.LogPretty, err = strconv.ParseBool(getEnv("LOG_PRETTY", "false")); err != nil {
		return cfg, fmt.Errorf("LOG_PRETTY: %w", err)
	}
	if cfg.Contacts, err = getEnvInt("SEED_CONTACTS", 12); err != nil {
		return cfg, err
	}
	if cfg.Accounts, err = getEnvInt("SEED_ACCOUNTS", 12); err != nil {
		return cfg, err
	}
	if cfg.Server.DefaultLimit, err = getEnvInt("DEFAULT_LIMIT", cfg.Server.DefaultLimit); err != nil {
		return cfg, err
	}
	if cfg.Server.MaxLimit, err = getEnvInt("MAX_LIMIT", cfg.Server.MaxLimit); err != nil {
		return cfg, err
	}
	if cfg.Contacts < 0 || cfg.Accounts < 0 {
		return cfg, fmt.Errorf("seed counts must not be negative")
	}
	return cfg, cfg.Server.Validate()
}

// newHandler seeds the record stores and builds the HTTP handler.
func newHandler(cfg config) (http.Handler, error) {
	contacts := records.NewStore(records.SeedContacts(cfg.Contacts)...)
	accounts := records.NewStore(records.SeedAccounts(cfg.Accounts)...)

	srv, err := server.New(contacts, accounts, cfg.Server)
	if err != nil {
		return nil, err
	}
	return srv.Handler(), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
