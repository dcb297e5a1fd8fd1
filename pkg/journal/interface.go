// Package journal keeps a write-only audit trail of finished archive jobs.
//
// The journal is never read back to restore jobs; the service's view of jobs
// lives in memory only.
package journal

import (
	"context"

	"github.com/voidshard/archivist/pkg/structs"
)

type Journal interface {
	// Record notes that a job reached a final state.
	Record(ctx context.Context, job *structs.Job) error

	// Close releases any held connections.
	Close() error
}
