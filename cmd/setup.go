package cmd

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/example/deskbooker/internal/appspace"
	"github.com/example/deskbooker/internal/config"
	"github.com/example/deskbooker/internal/token"
)

// runEnv is everything a mode needs after startup: validated config,
// refreshed credentials, a ready API client and the logger.
type runEnv struct {
	cfg    config.Config
	creds  token.Credentials
	client *appspace.Client
	log    zerolog.Logger
}

func setup(ctx context.Context, cmd *cobra.Command, mode string) (runEnv, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.ResolvePath(cfgPath))
	if err != nil {
		return runEnv{}, err
	}

	level := cfg.Logs.Level
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		level = v
	}
	log := newLogger(level)

	log.Info().
		Str("mode", mode).
		Str("desk", cfg.Desk.Name).
		Str("now", time.Now().In(cfg.Location).Format("2006-01-02 15:04:05 MST")).
		Msg("deskbooker starting")

	creds, err := token.Load()
	if err != nil {
		return runEnv{}, err
	}
	creds.Inspect(log)

	refresher := &token.Refresher{
		BaseURL:   cfg.API.BaseURL,
		Timezone:  cfg.API.Timezone,
		SubjectID: cfg.User.ID,
		HTTP:      &http.Client{Timeout: 30 * time.Second},
		Log:       log,
	}
	creds = refresher.TryRefresh(ctx, creds)

	return runEnv{
		cfg:    cfg,
		creds:  creds,
		client: appspace.New(cfg.API.BaseURL, cfg.API.Timezone, log),
		log:    log,
	}, nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
}
