package errors

import (
	"fmt"
)

var (
	ErrNotFound     = fmt.Errorf("not found")
	ErrNoFiles      = fmt.Errorf("%w no files specified", ErrInvalidArg)
	ErrBuild        = fmt.Errorf("archive build failed")
	ErrMaxExceeded  = fmt.Errorf("max length exceeded")
	ErrInvalidState = fmt.Errorf("invalid state")
	ErrInvalidArg   = fmt.Errorf("invalid arg")
	ErrInternal     = fmt.Errorf("internal error")
)
