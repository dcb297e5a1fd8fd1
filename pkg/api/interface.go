package api

import (
	"context"

	"github.com/voidshard/archivist/pkg/structs"
)

// API represents the functions Archivist servers should expose.
type API interface {
	// Implemented in archivist/internal/core.Service

	Submit(cjr *structs.CreateJobRequest) (*structs.CreateJobResponse, error)

	Progress(id string) (*structs.Progress, error)
	AllProgress() ([]*structs.Progress, error)

	Cancel(id string) error

	Archive(ctx context.Context, id string) (*structs.Archive, error)

	Close() error
}

type Server interface {
	ServeForever(api API) error
	Close() error
}
