// Package cli implements the command-line interface of dirsync.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"

	"github.com/AlexMincu/dirsync/logging"
)

var log = logging.Module("cli")

// App implements the command-line application.
type App struct {
	loggingFlags
	observabilityFlags

	sync commandSync

	loggerFactory logging.LoggerFactory
}

// NewApp creates the application and attaches all commands and flags to the
// provided kingpin application.
func NewApp(app *kingpin.Application) *App {
	a := &App{}

	a.loggingFlags.setup(a, app)
	a.observabilityFlags.setup(a, app)
	a.sync.setup(a, app)

	return a
}

// rootContext returns the top-level context carrying the configured logger.
func (a *App) rootContext() context.Context {
	return logging.WithLogger(context.Background(), a.loggerFactory)
}

// runAction adapts a command entry point to a kingpin action. The returned
// context is canceled on SIGINT/SIGTERM so the sync loop can shut down
// cleanly.
func (a *App) runAction(run func(ctx context.Context) error) func(*kingpin.ParseContext) error {
	return func(_ *kingpin.ParseContext) error {
		ctx, stop := signal.NotifyContext(a.rootContext(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a.observabilityFlags.start(ctx)

		return run(ctx)
	}
}
