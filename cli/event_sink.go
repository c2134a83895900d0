package cli

import (
	"context"
	"time"

	"github.com/AlexMincu/dirsync/mirror"
)

//nolint:gochecknoglobals
var actionLabels = map[mirror.Action]string{
	mirror.ActionCreated:  "Created",
	mirror.ActionModified: "Modified",
	mirror.ActionRemoved:  "Removed",
}

// logEventSink renders change events and pass summaries through the logger.
type logEventSink struct{}

func (logEventSink) Event(ctx context.Context, ev mirror.Event) {
	log(ctx).Infof("%v %v %v", actionLabels[ev.Action], ev.Type, ev.Path)
}

func (logEventSink) Summary(ctx context.Context, s mirror.Summary) {
	log(ctx).Debugf("pass completed in %v: %v created, %v modified, %v removed, %v errors",
		s.Duration.Round(time.Millisecond), s.Created, s.Modified, s.Removed, s.Errors)
}
