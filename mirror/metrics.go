package mirror

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// mirroring pass metrics.
//
//nolint:gochecknoglobals,promlinter
var (
	metricPassCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dirsync_pass_count",
		Help: "Number of completed mirroring passes",
	})
	metricPassErrorCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dirsync_pass_error_count",
		Help: "Number of passes aborted because a root could not be read",
	})
	metricEntryCreatedCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dirsync_entry_created_count",
		Help: "Number of entries created in the destination",
	})
	metricEntryModifiedCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dirsync_entry_modified_count",
		Help: "Number of entries overwritten in the destination",
	})
	metricEntryRemovedCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dirsync_entry_removed_count",
		Help: "Number of entries removed from the destination",
	})
	metricEntryErrorCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dirsync_entry_error_count",
		Help: "Number of entries skipped due to I/O errors",
	})
	metricCopiedBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dirsync_copied_bytes",
		Help: "Number of file bytes copied to the destination",
	})
)
