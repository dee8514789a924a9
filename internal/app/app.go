package app

import (
	"context"
	"errors"
	"flag"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/rangesum/internal/calibration"
	"github.com/agbru/rangesum/internal/cli"
	"github.com/agbru/rangesum/internal/config"
	"github.com/agbru/rangesum/internal/logging"
	"github.com/agbru/rangesum/internal/orchestration"
	"github.com/agbru/rangesum/internal/reducer"
	"github.com/agbru/rangesum/internal/tui"
	"github.com/agbru/rangesum/internal/ui"
)

// Application represents the rangesum application instance.
type Application struct {
	Config    config.AppConfig
	Factory   *reducer.Factory
	ErrWriter io.Writer
	Logger    logging.Logger
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom summer registry for the application.
func WithFactory(f *reducer.Factory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// WithLogger replaces the stderr logger.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = reducer.NewDefaultFactory()
	}
	if app.Logger == nil {
		app.Logger = logging.NewLogger(errWriter, "rangesum")
	}

	programName := "rangesum"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Factory.List())
	if err != nil {
		return nil, err
	}

	if cfgWithProfile, loaded := calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile); loaded {
		cfg = cfgWithProfile
	} else {
		cfg = config.ApplyAdaptiveWorkers(cfg)
	}

	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if level, ok := logging.ParseLevel(a.Config.LogLevel); ok {
		zerolog.SetGlobalLevel(level)
	}
	ui.InitTheme(a.Config.NoColor)
	a.logConfigFile()

	if a.Config.Calibrate {
		return a.runCalibration(ctx, out)
	}
	if a.Config.TUI {
		return a.runTUI(ctx, out)
	}
	return a.runReduce(ctx, out)
}

// logConfigFile records the settings read from --config at debug level.
func (a *Application) logConfigFile() {
	if a.Config.ConfigFile == "" {
		return
	}
	fc, err := config.LoadFile(a.Config.ConfigFile)
	if err != nil {
		return
	}
	a.Logger.Debug("config file loaded",
		logging.String("path", a.Config.ConfigFile),
		logging.String("settings", fc.String()))
}

// runCalibration benchmarks the selected summer and saves the profile.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	return calibration.RunCalibration(ctx, out, a.calibrationSummer(), calibration.Options{
		ProfilePath: a.Config.CalibrationProfile,
	}, cli.CLIColorProvider{})
}

// calibrationSummer returns the configured summer, or the loop summer when
// every algorithm was selected.
func (a *Application) calibrationSummer() reducer.Summer {
	if s, err := a.Factory.Get(a.Config.Algo); err == nil {
		return s
	}
	a.Logger.Debug("calibrating with the loop summer", logging.String("algo", a.Config.Algo))
	return &reducer.LoopSummer{}
}

// runTUI launches the interactive TUI dashboard.
func (a *Application) runTUI(ctx context.Context, _ io.Writer) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	candidates := orchestration.GetSummersToRun(a.Config.Algo, a.Factory)
	return tui.Run(ctx, candidates, a.Config, Version)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
