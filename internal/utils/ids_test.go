package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidID(t *testing.T) {
	cases := []struct {
		Name   string
		Given  string
		Expect bool
	}{
		{"Random", NewRandomID(), true},
		{"Deterministic", NewID(12), true},
		{"Empty", "", false},
		{"Garbage", "not-an-id", false},
		{"Traversal", "../00000000-0000-0000-0000-000000000000", false},
		{"Braces", "{00000000-0000-0000-0000-000000000000}", false},
		{"URN", "urn:uuid:00000000-0000-0000-0000-00000000", false},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			assert.Equal(t, c.Expect, IsValidID(c.Given))
		})
	}
}

func TestNewRandomIDUnique(t *testing.T) {
	assert.NotEqual(t, NewRandomID(), NewRandomID())
}
