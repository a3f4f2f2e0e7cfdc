package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/khrees2412/stageconnect/internal/api"
	"github.com/khrees2412/stageconnect/internal/config"
	"github.com/khrees2412/stageconnect/internal/database"
	"github.com/khrees2412/stageconnect/internal/logging"
	"github.com/khrees2412/stageconnect/internal/session"
	"github.com/khrees2412/stageconnect/internal/ui"
	"github.com/prometheus/client_golang/prometheus"
)

// Options override configuration values for a single invocation
type Options struct {
	APIURL  string
	Output  string
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// App is the dependency container for the CLI application
type App struct {
	Config   *config.Config
	DB       *sql.DB
	Logger   *slog.Logger
	Printer  *ui.Printer
	Client   *api.Client
	Session  *session.Store
	Registry *prometheus.Registry

	origin *url.URL
}

// NewApp loads the configuration, restores the stored session cookies,
// creates the API client and runs the initial identity check.
func NewApp(ctx context.Context, opts Options) (*App, error) {
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	cfg := *config.AppConfig
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	if opts.Output != "" {
		cfg.Output = opts.Output
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	format, err := ui.ParseFormat(cfg.Output)
	if err != nil {
		return nil, err
	}
	origin, err := url.Parse(cfg.APIURL)
	if err != nil || origin.Host == "" {
		return nil, fmt.Errorf("%w: api url %q", ErrInvalidArgument, cfg.APIURL)
	}

	logger := logging.NewLogger(opts.Stderr, cfg.LogLevel)

	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	if err := database.Initialize(dir); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	jar, err := database.NewCookieJar(origin, logger)
	if err != nil {
		database.Close()
		return nil, err
	}

	httpClient := &http.Client{
		Jar:     jar,
		Timeout: cfg.RequestTimeout,
	}
	registry := prometheus.NewRegistry()
	client := api.New(ctx, cfg.APIBase(),
		api.WithHTTPClient(httpClient),
		api.WithLogger(logger),
		api.WithMetrics(registry),
	)

	// mutating commands need the token, so wait for the fetch to settle
	if err := client.Ready(ctx); err != nil {
		logger.Warn("continuing without csrf token", slog.String("error", err.Error()))
	}

	store := session.New(client, logger)
	store.Init(ctx)

	return &App{
		Config:   &cfg,
		DB:       database.DB,
		Logger:   logger,
		Printer:  ui.NewPrinter(opts.Stdout, opts.Stderr, format),
		Client:   client,
		Session:  store,
		Registry: registry,
		origin:   origin,
	}, nil
}

// ForgetSession drops the stored cookies of the server
func (a *App) ForgetSession() error {
	return database.DeleteCookies(a.origin.Host)
}

// Close flushes the metrics file when configured, prunes expired cookies
// and closes the database.
func (a *App) Close() error {
	var errs []error
	if a.Config != nil && a.Config.MetricsFile != "" && a.Registry != nil {
		if err := prometheus.WriteToTextfile(a.Config.MetricsFile, a.Registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	if a.DB != nil {
		if n, err := database.PruneExpiredCookies(); err != nil {
			errs = append(errs, err)
		} else if n > 0 && a.Logger != nil {
			a.Logger.Debug("expired cookies pruned", slog.Int64("count", n))
		}
		if err := a.DB.Close(); err != nil {
			errs = append(errs, err)
		}
		if database.DB == a.DB {
			database.DB = nil
		}
	}
	return errors.Join(errs...)
}
