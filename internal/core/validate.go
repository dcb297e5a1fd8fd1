package core

import (
	"fmt"

	"github.com/voidshard/archivist/pkg/errors"
	"github.com/voidshard/archivist/pkg/structs"
)

const (
	// max values
	maxArchiveNameLength = 500
	maxFileNameLength    = 65535 // zip stores name lengths as uint16

	// defaults
	defArchiveName = "archive"
)

func validateCreateJobRequest(cjr *structs.CreateJobRequest, maxPayload int64) error {
	if cjr == nil || len(cjr.Files) == 0 {
		return errors.ErrNoFiles
	}
	if len(cjr.ArchiveName) > maxArchiveNameLength {
		return fmt.Errorf("%w archive name is longer than %d", errors.ErrMaxExceeded, maxArchiveNameLength)
	}
	for i, f := range cjr.Files {
		if f == nil {
			return fmt.Errorf("%w file %d is nil", errors.ErrInvalidArg, i)
		}
		if f.Name == "" {
			return fmt.Errorf("%w file %d has no name", errors.ErrInvalidArg, i)
		}
		if len(f.Name) > maxFileNameLength {
			return fmt.Errorf("%w file %d name is longer than %d", errors.ErrMaxExceeded, i, maxFileNameLength)
		}
	}
	if maxPayload > 0 {
		size := cjr.Size()
		if size > maxPayload {
			return fmt.Errorf("%w payload of %d bytes exceeds %d", errors.ErrMaxExceeded, size, maxPayload)
		}
	}
	return nil
}
