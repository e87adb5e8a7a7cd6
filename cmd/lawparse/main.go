package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"lawparse/config"
	"lawparse/convert"
	"lawparse/misc"
	"lawparse/state"
)

// errReported marks error which already went to the log, so it is not
// printed again on exit.
var errReported bool

// beforeCommand loads configuration and sets up logging and debug report.
// It runs after command line is parsed and before any subcommand.
func beforeCommand(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 {
		// help will be shown
		return ctx, nil
	}

	var (
		env        = state.EnvFromContext(ctx)
		configFile = cmd.String("config")
		err        error
	)

	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}

	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug report: %w", err)
		}
		if len(configFile) > 0 {
			// effective configuration, defaults merged in
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData("config/"+filepath.Base(configFile), data)
			}
		}
	}

	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started",
		zap.Strings("args", os.Args),
		zap.String("ver", misc.GetVersion()),
		zap.String("runtime", runtime.Version()),
		zap.String("hash", misc.GetGitHash()))
	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 {
		env.Log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

// afterCommand flushes logs, writes debug report and removes empty panic log.
// Log is closed when it runs, so problems are returned rather than logged.
func afterCommand(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("args", cmd.Args().Slice()))
	}
	env.RestoreStdLog()

	var err error
	if er := env.Rpt.Close(); er != nil {
		err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
	}
	if env.Cfg == nil || len(env.Cfg.Logging.FileLogger.Destination) == 0 {
		return err
	}
	debug.SetCrashOutput(nil, debug.CrashOptions{})
	panicLog := env.Cfg.Logging.PanicLogName()
	if fi, er := os.Stat(panicLog); er == nil && fi.Size() == 0 {
		if er := os.Remove(panicLog); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log '%s': %w", panicLog, er))
		}
	}
	return err
}

// logError runs before afterCommand, while log is still open.
func logError(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)
	if env.Log == nil {
		return
	}
	var be *convert.BatchError
	if errors.As(err, &be) {
		env.Log.Error("Batch stopped", zap.Int("index", be.Index), zap.String("file", be.Locator), zap.Error(be.Err))
	} else {
		env.Log.Error("Program ended with error", zap.Error(err))
	}
	errReported = true
}

// usage errors are returned as is and reported once on exit
func passUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func unknownCommand(ctx context.Context, _ *cli.Command, name string) {
	if log := state.EnvFromContext(ctx).Log; log != nil {
		log.Warn("Unknown command, nothing to do", zap.String("command", name))
		return
	}
	fmt.Fprintf(os.Stderr, "Unknown command %q, nothing to do\n", name)
}

func convertCommand(kind config.Kind, name, usage string, action cli.ActionFunc, example string) *cli.Command {
	return &cli.Command{
		Name:         name,
		Usage:        usage,
		OnUsageError: passUsageError,
		Action:       action,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Aliases: []string{"s"},
				Usage: "read pages from `PATH` (directory or zip archive) instead of configured " + kind.String() + " html directory"},
			&cli.StringFlag{Name: "destination", Aliases: []string{"o"},
				Usage: "write XML to `DIR` instead of configured " + kind.String() + " xml directory"},
		},
		ArgsUsage: "[DOCUMENT...]",
		CustomHelpTemplate: fmt.Sprintf(`%s
DOCUMENT:
    document to convert, either file name or short form, for example
        %s
    if absent - all .html files found in source, in natural order

Processing stops on the first document which cannot be converted, documents
listed in configuration skip list are reported and passed over.
`, cli.CommandHelpTemplate, example),
	}
}

func dumpConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "dumpconfig",
		Usage: "Dumps either default or actual configuration (YAML)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
		},
		OnUsageError: passUsageError,
		Action:       dumpConfig,
		ArgsUsage:    "DESTINATION",
		CustomHelpTemplate: fmt.Sprintf(`%s
DESTINATION:
    file name to write configuration to, if absent - STDOUT

Actual configuration is the embedded defaults with values from configuration
file applied and paths sanitized. Use --default to see defaults only.
`, cli.CommandHelpTemplate),
	}
}

func dumpConfig(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	var (
		data []byte
		what = "actual"
	)
	if cmd.Bool("default") {
		what = "default"
		data, err = config.Prepare()
	} else {
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		env.Log.Info("Writing configuration", zap.String("state", what), zap.String("file", "STDOUT"))
		_, err = os.Stdout.Write(data)
		return err
	}

	env.Log.Info("Writing configuration", zap.String("state", what), zap.String("file", fname))
	if err := os.WriteFile(fname, data, 0644); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "converts OPSI legislation pages (HTML) to XML",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          beforeCommand,
		After:           afterCommand,
		OnUsageError:    passUsageError,
		ExitErrHandler:  logError,
		CommandNotFound: unknownCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log everything and produce report archive for troubleshooting"},
		},
		Commands: []*cli.Command{
			convertCommand(config.KindAct, "acts", "Converts Acts of Parliament to XML", convert.RunActs,
				`1990c5 (ukgpa1990c5.html)`),
			convertCommand(config.KindSI, "si", "Converts Statutory Instruments to XML", convert.RunSI,
				`1991no234 (uksi1991no234.html)`),
			dumpConfigCommand(),
		},
	}
}

func main() {
	// conversion is sequential, interrupt is checked between documents
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	err := newApp().Run(ctx, os.Args)
	stop()
	if err != nil {
		// log may be absent (bad arguments) or already closed
		if !errReported {
			fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
		}
		os.Exit(1)
	}
}
