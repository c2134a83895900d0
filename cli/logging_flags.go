package cli

import (
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/AlexMincu/dirsync/logging"
)

//nolint:gochecknoglobals
var logLevels = []string{"debug", "info", "warning", "error"}

type loggingFlags struct {
	logFile      string
	logLevel     string
	fileLogLevel string
	forceColor   bool
	disableColor bool
}

func (c *loggingFlags) setup(a *App, app *kingpin.Application) {
	app.Flag("log-file", "Also write logs to the given file.").StringVar(&c.logFile)
	app.Flag("log-level", "Console log level").Default("info").EnumVar(&c.logLevel, logLevels...)
	app.Flag("file-log-level", "File log level").Default("debug").EnumVar(&c.fileLogLevel, logLevels...)
	app.Flag("force-color", "Force color output").Hidden().Envar("DIRSYNC_FORCE_COLOR").BoolVar(&c.forceColor)
	app.Flag("disable-color", "Disable color output").Hidden().Envar("DIRSYNC_DISABLE_COLOR").BoolVar(&c.disableColor)

	app.PreAction(func(_ *kingpin.ParseContext) error {
		return c.initialize(a)
	})
}

// initialize builds the root zap logger from the parsed flags. The resulting
// configuration is held immutably by the logger factory for the lifetime of
// the process.
func (c *loggingFlags) initialize(a *App) error {
	if c.forceColor {
		color.NoColor = false
	}

	if c.disableColor {
		color.NoColor = true
	}

	cores := []zapcore.Core{c.consoleCore()}

	if c.logFile != "" {
		fc, err := c.fileCore()
		if err != nil {
			return err
		}

		cores = append(cores, fc)
	}

	rootLogger := zap.New(zapcore.NewTee(cores...))

	a.loggerFactory = func(module string) logging.Logger {
		return rootLogger.Named(module).Sugar()
	}

	return nil
}

func (c *loggingFlags) consoleCore() zapcore.Core {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder

	if color.NoColor {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(ec),
		zapcore.Lock(os.Stderr),
		logLevelToZap(c.logLevel),
	)
}

func (c *loggingFlags) fileCore() (zapcore.Core, error) {
	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		return nil, errors.Wrap(err, "unable to open log file")
	}

	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeLevel = zapcore.CapitalLevelEncoder

	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(ec),
		zapcore.AddSync(f),
		logLevelToZap(c.fileLogLevel),
	), nil
}

func logLevelToZap(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
