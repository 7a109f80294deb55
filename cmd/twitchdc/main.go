package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/frits-z/twitch-dc/helix"
	"github.com/frits-z/twitch-dc/internal/collector"
	"github.com/frits-z/twitch-dc/internal/config"
	"github.com/frits-z/twitch-dc/internal/logging"
)

type options struct {
	Config    string `short:"c" long:"config" description:"Collection plan TOML file" default:"twitchdc.toml"`
	EnvFile   string `long:"env-file" description:"Env file with TWITCH_CLIENT_ID / TWITCH_CLIENT_SECRET" default:".env"`
	Output    string `short:"o" long:"output" description:"NDJSON output file (default stdout)"`
	TokenFile string `long:"token-file" description:"File to load and persist the app access token"`
	Once      bool   `long:"once" description:"Take a single snapshot and exit"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			return
		}
		os.Exit(1)
	}

	// Missing .env is fine, env vars may come from the environment.
	_ = godotenv.Load(opts.EnvFile)

	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	plan, err := config.LoadPlan(opts.Config)
	if err != nil {
		slog.Error("Failed to load collection plan", "error", err)
		os.Exit(1)
	}

	api, err := newHelixClient(cfg, opts.TokenFile)
	if err != nil {
		slog.Error("Failed to create helix client", "error", err)
		os.Exit(1)
	}

	out, closeOut, err := openOutput(opts.Output)
	if err != nil {
		slog.Error("Failed to open output", "error", err)
		os.Exit(1)
	}
	defer closeOut()

	coll := collector.New(api, plan, out, clockwork.NewRealClock(), nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.Once {
		if err := coll.Snapshot(ctx); err != nil {
			slog.Error("Snapshot failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := coll.Run(ctx); err != nil {
		slog.Error("Collector failed", "error", err)
		os.Exit(1)
	}
}

// newHelixClient builds the API client, seeding the token from tokenFile when
// present and persisting every refreshed token back to it.
func newHelixClient(cfg *config.Config, tokenFile string) (*helix.Client, error) {
	hopts := &helix.Options{
		ClientID:     cfg.TwitchClientID,
		ClientSecret: cfg.TwitchClientSecret,
	}

	if tokenFile != "" {
		if raw, err := os.ReadFile(tokenFile); err == nil {
			hopts.AccessToken = strings.TrimSpace(string(raw))
		}
		hopts.OnTokenRefresh = func(token string) {
			if err := os.WriteFile(tokenFile, []byte(token+"\n"), 0o600); err != nil {
				slog.Error("Failed to persist access token", "file", tokenFile, "error", err)
			}
		}
	}

	return helix.NewClient(hopts)
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
