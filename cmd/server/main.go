package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"fitbook/internal/api"
	"fitbook/internal/auth"
	"fitbook/internal/config"
	"fitbook/internal/content"
	"fitbook/internal/database"
	"fitbook/internal/export"
	"fitbook/internal/google"
	"fitbook/internal/metrics"
	"fitbook/internal/notify"
	"fitbook/internal/reservation"
	"fitbook/internal/settings"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("FITBOOK_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	if cfg.Google.CalendarID == "" || cfg.Google.SpreadsheetID == "" {
		logger.Fatal().Msg("set google.calendar_id and google.spreadsheet_id in config")
	}
	if cfg.Admin.Password == "" {
		logger.Fatal().Msg("set admin.password in config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settingsStore, err := settings.NewStore(cfg.Data.Dir, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open settings store error")
	}
	contentStore, err := content.NewStore(cfg.Data.Dir, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open content store error")
	}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	backup := database.NewBackupService(cfg.Database.Path, cfg.Database.Backup, logger)
	go backup.Start(ctx)

	clients, err := google.NewClients(ctx, cfg.Google.CredentialsFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("create google clients error")
	}
	cal := google.NewCalendarClient(clients.Calendar, cfg.Google.CalendarID)
	audit := google.NewSheetsAudit(clients.Sheets, cfg.Google.SpreadsheetID, cfg.Google.SheetName)

	var notifier *notify.Telegram
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
		notifier, err = notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("create telegram notifier error")
		}
	} else {
		logger.Warn().Msg("telegram not configured, notifications disabled")
	}

	var resNotifier reservation.Notifier
	if notifier != nil {
		resNotifier = notifier
	}
	reservations := reservation.NewService(cal, audit, settingsStore, resNotifier, logger)

	var rdb *redis.Client
	if cfg.Redis.Address != "" && cfg.Redis.CacheTTLSeconds > 0 {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		reservations.UseRedisCache(rdb, time.Duration(cfg.Redis.CacheTTLSeconds)*time.Second)
	}

	if notifier != nil {
		watcher := notify.NewExpiryWatcher(settingsStore, notifier, db, logger)
		watcher.Start()
		defer watcher.Stop()
	}

	authService := auth.NewService(cfg.Admin.Password, time.Duration(cfg.Admin.SessionTTLHours)*time.Hour, logger)
	exporter := export.NewExporter(audit, logger)
	server := api.New(settingsStore, reservations, contentStore, authService, exporter, logger)

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, db, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Router(),
	}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()

	logger.Info().Int("port", cfg.Server.Port).Msg("fitbook server started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func startHealthServer(ctx context.Context, port int, db *database.DB, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := db.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
