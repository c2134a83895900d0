package mirror

import (
	"context"
	"time"
)

// Action describes what happened to a destination entry.
type Action string

// Supported actions.
const (
	ActionCreated  Action = "created"
	ActionModified Action = "modified"
	ActionRemoved  Action = "removed"
)

// EntryType distinguishes files from directories in events.
type EntryType string

// Supported entry types.
const (
	EntryTypeFile      EntryType = "file"
	EntryTypeDirectory EntryType = "directory"
)

// Event describes a single change applied to the destination tree.
type Event struct {
	Action Action
	Type   EntryType

	// Path is the slash-separated path of the entry relative to the root.
	Path string
}

// Summary describes the outcome of a whole pass.
type Summary struct {
	Duration time.Duration

	Created  int
	Modified int
	Removed  int
	Errors   int
}

// EventSink receives change events and pass summaries. Implementations own
// all rendering and formatting, the syncer never formats log lines itself.
type EventSink interface {
	Event(ctx context.Context, ev Event)
	Summary(ctx context.Context, s Summary)
}

type nullEventSink struct{}

func (nullEventSink) Event(ctx context.Context, ev Event) {}

func (nullEventSink) Summary(ctx context.Context, s Summary) {}
