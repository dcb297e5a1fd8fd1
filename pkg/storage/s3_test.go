package storage

import (
	"fmt"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"

	"github.com/voidshard/archivist/pkg/errors"
)

func TestS3Key(t *testing.T) {
	cases := []struct {
		Name   string
		Prefix string
		Expect string
	}{
		{"NoPrefix", "", "abc.zip"},
		{"Prefix", "archives/", "archives/abc.zip"},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			s := &S3{prefix: c.Prefix}
			assert.Equal(t, c.Expect, s.key("abc"))
		})
	}
}

func TestS3MapError(t *testing.T) {
	s := &S3{}

	missing := s.mapError("abc", minio.ErrorResponse{Code: s3NoSuchKey, StatusCode: 404})
	other := s.mapError("abc", fmt.Errorf("connection refused"))

	assert.ErrorIs(t, missing, errors.ErrNotFound)
	assert.NotErrorIs(t, other, errors.ErrNotFound)
}

func TestNewS3(t *testing.T) {
	s, err := New(&Options{Endpoint: "localhost:9000", Bucket: "archives", AccessKey: "a", SecretKey: "b"})

	assert.Nil(t, err)
	_, ok := s.(*S3)
	assert.True(t, ok)
}
