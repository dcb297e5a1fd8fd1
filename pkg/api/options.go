package api

import (
	"time"

	"github.com/voidshard/archivist/pkg/structs"
)

const (
	defMaxPayloadBytes = 100 * 1024 * 1024
)

// OptionsDefault returns the options a server runs with unless told otherwise;
// ten progress steps, six seconds apart, with a 100MiB upload limit.
func OptionsDefault() *structs.Options {
	return &structs.Options{
		ProgressSteps:    10,
		ProgressInterval: 6 * time.Second,
		MaxPayloadBytes:  defMaxPayloadBytes,
	}
}

// OptionsTest returns options that run jobs through quickly; intended for tests
// and local experiments.
func OptionsTest() *structs.Options {
	return &structs.Options{
		ProgressSteps:    3,
		ProgressInterval: 10 * time.Millisecond,
	}
}
