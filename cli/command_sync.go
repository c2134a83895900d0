package cli

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/gofrs/flock"
	"github.com/pkg/errors"

	"github.com/AlexMincu/dirsync/mirror"
)

const syncCommandHelp = `Continuously mirror the destination directory to match the source directory.

Files and directories present in the source are created or updated in the
destination; entries absent from the source are removed from the destination.
The source is authoritative: changes made only in the destination are
destroyed on the next pass.

A file is overwritten only when the source copy has a strictly newer
modification time. Content changes that do not advance the modification time
are not detected.
`

type commandSync struct {
	source      string
	destination string
	interval    time.Duration
	once        bool
	dryRun      bool
}

func (c *commandSync) setup(a *App, app *kingpin.Application) {
	cmd := app.Command("sync", syncCommandHelp).Default()
	cmd.Arg("source", "Source directory").Required().StringVar(&c.source)
	cmd.Arg("destination", "Destination directory").Required().StringVar(&c.destination)
	cmd.Flag("interval", "Time between passes, measured from the end of one pass to the start of the next.").Default("10s").DurationVar(&c.interval)
	cmd.Flag("once", "Run a single pass and exit.").BoolVar(&c.once)
	cmd.Flag("dry-run", "Report changes without applying them.").BoolVar(&c.dryRun)
	cmd.Action(a.runAction(c.run))
}

func (c *commandSync) run(ctx context.Context) error {
	src, err := filepath.Abs(c.source)
	if err != nil {
		return errors.Wrap(err, "invalid source path")
	}

	dst, err := filepath.Abs(c.destination)
	if err != nil {
		return errors.Wrap(err, "invalid destination path")
	}

	if src == dst {
		return errors.Errorf("source and destination are the same directory: %v", src)
	}

	if c.interval <= 0 {
		return errors.Errorf("invalid interval %v", c.interval)
	}

	st, err := os.Stat(src)
	if err != nil {
		return errors.Wrap(err, "source directory is not accessible")
	}

	if !st.IsDir() {
		return errors.Errorf("source is not a directory: %v", src)
	}

	if !c.dryRun {
		if err := os.MkdirAll(dst, 0o755); err != nil {
			return errors.Wrap(err, "unable to create destination directory")
		}

		// the lock file lives next to the destination root so it is not
		// subject to pruning
		l := flock.New(dst + ".dirsync.lock")

		locked, err := l.TryLock()
		if err != nil {
			return errors.Wrap(err, "unable to acquire destination lock")
		}

		if !locked {
			return errors.Errorf("another dirsync instance is mirroring into %v", dst)
		}

		defer l.Unlock() //nolint:errcheck
	}

	s := &mirror.Syncer{
		SourceRoot: src,
		DestRoot:   dst,
		Sink:       logEventSink{},
		DryRun:     c.dryRun,
	}

	if c.once {
		res, err := s.RunPass(ctx)
		if err != nil {
			return err
		}

		if res.Errors > 0 {
			return errors.Errorf("%v entries failed to sync", res.Errors)
		}

		return nil
	}

	log(ctx).Infof("mirroring %v to %v every %v", src, dst, c.interval)

	l := &mirror.Loop{Syncer: s, Interval: c.interval}

	return l.Run(ctx)
}
