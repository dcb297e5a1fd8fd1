package common

import (
	"strings"
)

// Error codes carried in an ErrorResponse
const (
	CodeNotFound   = "not_found"
	CodeInvalidArg = "invalid_argument"
	CodeTooLarge   = "too_large"
	CodeInternal   = "internal"
)

// ErrorResponse is written in place of a result whenever a request fails.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CancelResponse acknowledges a cancel request. The job stops at its next checkpoint.
type CancelResponse struct {
	Status string `json:"status"`
}

// CancelPath returns the cancel route for a given job
func CancelPath(id string) string {
	return strings.Replace(API_CANCEL, "{id}", id, 1)
}

// ArchivePath returns the archive route for a given job
func ArchivePath(id string) string {
	return strings.Replace(API_ARCHIVE, "{id}", id, 1)
}
