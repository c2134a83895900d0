// Package testlogging implements logger that writes to testing.T log.
package testlogging

import (
	"context"
	"testing"

	"github.com/AlexMincu/dirsync/logging"
)

// Context returns a context with an attached logger that emits all log entries
// to the go testing.T log output.
func Context(t *testing.T) context.Context {
	t.Helper()

	return logging.WithLogger(context.Background(), PrintfFactory(t.Logf))
}
