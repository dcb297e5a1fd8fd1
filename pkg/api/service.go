package api

import (
	"github.com/voidshard/archivist/internal/core"
	"github.com/voidshard/archivist/pkg/journal"
	"github.com/voidshard/archivist/pkg/storage"
	"github.com/voidshard/archivist/pkg/structs"
)

// New returns an API backed by the in-process job service.
// The journal is optional; pass nil to run without one.
func New(store storage.Storage, jrnl journal.Journal, opts *structs.Options) (API, error) {
	svc, err := core.NewService(store, jrnl, opts)
	if err != nil {
		return nil, err
	}
	return svc, nil
}
