package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/edusuite/scolaris/internal/app"
	"github.com/edusuite/scolaris/internal/config"
	"github.com/edusuite/scolaris/internal/db"
	"github.com/edusuite/scolaris/internal/jobs"
	"github.com/edusuite/scolaris/internal/logging"
	"github.com/edusuite/scolaris/internal/notify"
	"github.com/edusuite/scolaris/internal/observability"
)

var release = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer lg.Closer()
	sugar := lg.Sugar

	flushSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, release)
	if err != nil {
		sugar.Warnw("sentry init failed", "err", err)
	}
	defer flushSentry()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		sugar.Fatalw("db open", "err", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		sugar.Fatalw("migrate", "err", err)
	}

	notifier, err := notify.New(cfg.BotToken)
	if err != nil {
		sugar.Fatalw("telegram init", "err", err)
	}
	if notifier.Enabled() {
		sugar.Infow("telegram notifications enabled")
	} else {
		sugar.Infow("telegram notifications disabled (no BOT_TOKEN)")
	}

	server := app.NewServer(cfg, database, sugar)
	server.Start(ctx)
	sugar.Infow("http server started", "addr", cfg.HTTPAddr)

	runner := jobs.New(ctx)
	runner.Every(15*time.Minute, "absence_alerts",
		jobs.AbsenceAlerts(database, notifier, cfg.AbsenceThresholdHours, sugar))
	runner.Every(time.Hour, "session_reminders",
		jobs.SessionReminders(database, notifier, cfg.Location, sugar))

	<-ctx.Done()
	sugar.Infow("shutting down")
}
