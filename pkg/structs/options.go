package structs

import (
	"time"

	"github.com/rcrowley/go-metrics"
)

// Options passed to the archive service on creation
type Options struct {
	// ProgressSteps is the number of checkpoints a job passes through before the
	// archive is built. Cancellation is only honoured at a checkpoint.
	ProgressSteps int

	// ProgressInterval is the time between checkpoints.
	ProgressInterval time.Duration

	// MaxPayloadBytes is the largest total file content we'll accept for one job.
	// If 0 there is no limit.
	MaxPayloadBytes int64

	// MaxWorkers caps how many jobs may be worked on at once. Jobs over the limit
	// wait (still RUNNING, at progress 0) for a free slot.
	// If 0 there is no limit.
	MaxWorkers int64

	// PasswordLength is the length of generated archive passwords (minimum 20).
	PasswordLength int

	// Metrics is where we register our counters & timers.
	// Defaults to metrics.DefaultRegistry.
	Metrics metrics.Registry
}
