package structs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFinalStatus(t *testing.T) {
	cases := []struct {
		Name   string
		Given  Status
		Expect bool
	}{
		{"StatusUndefined", "x", false},
		{"StatusRunning", RUNNING, false},
		{"StatusSucceeded", SUCCEEDED, true},
		{"StatusFailed", FAILED, true},
		{"StatusCancelled", CANCELLED, true},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			assert.Equal(t, c.Expect, IsFinalStatus(c.Given))
		})
	}
}
