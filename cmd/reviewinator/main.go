// Command reviewinator polls GitHub for pull requests relevant to one user
// and feeds the menu-bar shell through a localhost JSON API and desktop
// notifications.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	json "github.com/goccy/go-json"

	githubadapter "github.com/reviewinator/reviewinator/internal/adapter/driven/github"
	"github.com/reviewinator/reviewinator/internal/adapter/driven/notify"
	"github.com/reviewinator/reviewinator/internal/adapter/driven/statecache"
	httphandler "github.com/reviewinator/reviewinator/internal/adapter/driving/http"
	"github.com/reviewinator/reviewinator/internal/application"
	"github.com/reviewinator/reviewinator/internal/config"
	"github.com/reviewinator/reviewinator/internal/domain/model"
	"github.com/reviewinator/reviewinator/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

type CLI struct {
	Config   string           `help:"Path to config file (default: ~/.config/reviewinator/config.yaml)" type:"path"`
	LogFile  string           `help:"Also write logs to this file, with rotation" type:"path"`
	LogLevel string           `help:"Log level" enum:"debug,info,warn,error" default:"info"`
	Version  kong.VersionFlag `help:"Show version information"`

	Run   RunCmd   `cmd:"" default:"1" help:"Start the polling daemon"`
	Check CheckCmd `cmd:"" help:"Run a single fetch and print the projected menu as JSON"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("reviewinator"),
		kong.Description("GitHub PR review requests in your menu bar."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	ctx.FatalIfErrorf(ctx.Run(&cli))
}

// configPath resolves the config file location from the flag or the default.
func configPath(cli *CLI) (string, error) {
	if cli.Config != "" {
		return cli.Config, nil
	}
	return config.DefaultPath()
}

// RunCmd starts the polling daemon and the local JSON API.
type RunCmd struct {
	Listen string `help:"Address for the local JSON API" default:"127.0.0.1:8757"`
}

func (r *RunCmd) Run(cli *CLI) error {
	logger, closeLogs, err := logging.Setup(cli.LogFile, cli.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeLogs(); closeErr != nil {
			fmt.Fprintln(os.Stderr, "closing log file:", closeErr)
		}
	}()
	slog.SetDefault(logger)

	notifier := notify.NewDesktop()

	// Config errors are fatal; surface them once through a notification so a
	// user who launched the app from the menu bar sees why it quit.
	path, err := configPath(cli)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		_ = notifier.Notify(context.Background(), notificationForConfigError(err))
		return err
	}
	logger.Info("config loaded",
		"path", path,
		"username", cfg.GitHubUsername,
		"refresh_interval", cfg.RefreshPeriod(),
		"created_pr_filter", cfg.CreatedPRFilter,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cachePath, err := statecache.DefaultPath()
	if err != nil {
		return err
	}
	store := statecache.NewStore(cachePath, logger)

	ghClient := githubadapter.NewClient(cfg.GitHubToken, cfg.GitHubUsername)
	classifier := application.NewClassifier(cfg)
	fetchSvc := application.NewFetchService(ghClient, classifier, logger)
	pollSvc := application.NewPollService(fetchSvc, store, notifier, cfg, logger)

	go pollSvc.Start(ctx)

	handler := httphandler.NewHandler(pollSvc, logger)
	srv := &http.Server{
		Addr:              r.Listen,
		Handler:           httphandler.NewServeMux(handler, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("api server starting", "addr", r.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server error", "error", err)
		}
	}()

	logger.Info("reviewinator started", "version", version)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("api server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// CheckCmd runs one fetch and prints the menu projection, without touching
// the cache or emitting notifications. Useful for validating config.
type CheckCmd struct{}

func (c *CheckCmd) Run(cli *CLI) error {
	logger := logging.Discard()

	path, err := configPath(cli)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	cachePath, err := statecache.DefaultPath()
	if err != nil {
		return err
	}
	state := statecache.NewStore(cachePath, logger).Load()

	ghClient := githubadapter.NewClient(cfg.GitHubToken, cfg.GitHubUsername)
	fetchSvc := application.NewFetchService(ghClient, application.NewClassifier(cfg), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prs, err := fetchSvc.Fetch(ctx)
	if err != nil {
		return err
	}

	menu := application.BuildMenu(prs, state, cfg, time.Now().UTC())
	out, err := json.MarshalIndent(menu, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func notificationForConfigError(err error) model.Notification {
	return model.Notification{
		Title: "Reviewinator",
		Body:  fmt.Sprintf("Configuration error: %v", err),
	}
}
