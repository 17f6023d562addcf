package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genrex/internal/formatter"
	"github.com/desertthunder/genrex/internal/services"
	"github.com/desertthunder/genrex/internal/shared"
	"github.com/urfave/cli/v3"
)

// ServiceFactory builds the Spotify client for a command from its resolved configuration.
type ServiceFactory func(ctx context.Context, cfg shared.SpotifyConfig) (services.Service, error)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	sleeper    services.Sleeper
	logger     *log.Logger
	output     io.Writer
	newService ServiceFactory
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config // used when the --config file does not exist
	HTTPClient *http.Client
	Sleeper    services.Sleeper
	Logger     *log.Logger
	Output     io.Writer
	Services   ServiceFactory
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Sleeper == nil {
		opts.Sleeper = services.RealSleeper
	}

	r := &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		sleeper:    opts.Sleeper,
		logger:     opts.Logger,
		output:     opts.Output,
		newService: opts.Services,
	}
	if r.newService == nil {
		r.newService = r.spotifyService
	}
	return r
}

// spotifyService is the default [ServiceFactory].
func (r *Runner) spotifyService(ctx context.Context, cfg shared.SpotifyConfig) (services.Service, error) {
	return services.NewSpotifyService(ctx, cfg.Token, services.SpotifyOpts{
		BaseURL:           cfg.BaseURL,
		HTTPClient:        r.httpClient,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Sleeper:           r.sleeper,
		Logger:            r.logger,
	})
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		splitCommand, historyCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig reads the file named by --config, falling back to the runner's configuration when it does not exist.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	path := cmd.String("config")
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return shared.LoadConfig(path)
		}
		if cmd.IsSet("config") {
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
		}
	}

	r.logger.Debug("config file not found, using defaults", "path", path)
	cfg := *r.config
	return &cfg, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := formatter.ToJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
