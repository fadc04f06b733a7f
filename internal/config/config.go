package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL string
	HTTPAddr    string
	JWTSecret   string
	BotToken    string // empty disables Telegram notifications
	Location    *time.Location
	LogLevel    string
	Env         string // dev|prod
	SentryDSN   string

	AbsenceThresholdHours     float64
	RecentWindowHours         int
	DefaultSessionDurationMin int
}

func Load() (*Config, error) {
	tz := getenv("TZ", "Europe/Paris")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	threshold, err := parseFloat(getenv("ABSENCE_THRESHOLD_HOURS", "12"))
	if err != nil {
		return nil, fmt.Errorf("ABSENCE_THRESHOLD_HOURS: %w", err)
	}
	window, err := strconv.Atoi(getenv("RECENT_WINDOW_HOURS", "48"))
	if err != nil {
		return nil, fmt.Errorf("RECENT_WINDOW_HOURS: %w", err)
	}
	duration, err := strconv.Atoi(getenv("DEFAULT_SESSION_DURATION_MIN", "120"))
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_SESSION_DURATION_MIN: %w", err)
	}

	cfg := &Config{
		DatabaseURL: mustEnv("DATABASE_URL"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		JWTSecret:   mustEnv("JWT_SECRET"),
		BotToken:    os.Getenv("BOT_TOKEN"),
		Location:    loc,
		LogLevel:    getenv("LOG_LEVEL", "info"),
		Env:         getenv("ENV", "dev"),
		SentryDSN:   os.Getenv("SENTRY_DSN"),

		AbsenceThresholdHours:     threshold,
		RecentWindowHours:         window,
		DefaultSessionDurationMin: duration,
	}
	return cfg, nil
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
