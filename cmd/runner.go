package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackrater/internal/formatter"
	"github.com/desertthunder/trackrater/internal/services"
	"github.com/desertthunder/trackrater/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configured bool
	features   *services.FeatureService
	player     services.Player
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	open       func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A non-nil Config is used as is; otherwise the config is loaded from the --config flag before any command runs.
type RunnerOpts struct {
	Config     *shared.Config
	Features   *services.FeatureService
	Player     services.Player
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Open       func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	configured := opts.Config != nil
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
		opts.HTTPClient = &http.Client{Timeout: opts.Config.Server.Timeout()}
	}
	if opts.Open == nil {
		opts.Open = shared.OpenBrowser
	}

	r := &Runner{
		config:     opts.Config,
		configured: configured,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		open:       opts.Open,
	}
	r.configure(opts.Config)

	if opts.Features != nil {
		r.features = opts.Features
	}
	if opts.Player != nil {
		r.player = opts.Player
	}
	return r
}

// configure (re)builds the service clients from config.
func (r *Runner) configure(config *shared.Config) {
	r.config = config

	api := services.NewAPIService(config.Server.BaseURL, r.httpClient).WithRateLimit(config.Server.RateLimit)
	r.features = services.NewFeatureService(api)
	r.player = services.NewPlayerService(config.Spotify, r.httpClient)
}

// SetLogger replaces the logger, e.g. to redirect output away from the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// setup is the root Before hook: it applies --verbose and loads --config.
func (r *Runner) setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	verbose := cmd.Bool("verbose")
	defer func() {
		if verbose {
			shared.SetLogLevel(r.logger, log.DebugLevel)
		}
	}()

	if r.configured && !cmd.IsSet("config") {
		return ctx, nil
	}

	path := cmd.String("config")
	config, err := shared.LoadConfigOrDefault(path)
	if err != nil {
		return ctx, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	r.httpClient = &http.Client{Timeout: config.Server.Timeout(), Transport: r.httpClient.Transport}
	r.configure(config)
	r.configured = true
	shared.SetLogLevel(r.logger, config.Log.ParsedLevel())

	r.logger.Debug("config loaded", "path", path, "server", config.Server.BaseURL)
	return ctx, nil
}

// command builds the root command.
func (r *Runner) command() *cli.Command {
	return &cli.Command{
		Name:    "trackrater",
		Usage:   "Rate tracks for a feature while they play on Spotify",
		Version: "0.1.0",
		Writer:  r.output,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.setup,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		uiCommand, featuresCommand, trackCommand, serverCommand, apiCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// outputFormat resolves --format, with --json taking precedence.
func outputFormat(cmd *cli.Command) (formatter.Format, error) {
	if cmd.Bool("json") {
		return formatter.JSON, nil
	}
	return formatter.ParseFormat(cmd.String("format"))
}

// emit writes data to --output when set and to the runner's output otherwise.
func (r *Runner) emit(cmd *cli.Command, data []byte) error {
	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteExport(data, path)
		if err != nil {
			return err
		}
		r.logger.Info("export written", "path", written)
		return r.writePlain("Wrote %s\n", written)
	}

	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

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
