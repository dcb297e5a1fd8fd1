package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/voidshard/archivist/internal/utils"
	"github.com/voidshard/archivist/pkg/errors"
)

const (
	contentTypeZip = "application/zip"
	s3NoSuchKey    = "NoSuchKey"
)

// S3 stores archives as objects in an S3 compatible bucket.
//
// A single PutObject is atomic from the point of view of readers, so unlike
// Local we don't need a temp object.
type S3 struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewS3 returns storage writing to the bucket named in opts.
func NewS3(opts *Options) (*S3, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	return &S3{client: client, bucket: opts.Bucket, prefix: opts.Prefix}, nil
}

func (s *S3) Put(ctx context.Context, id string, data []byte) error {
	if !utils.IsValidID(id) {
		return fmt.Errorf("%w %s", errors.ErrInvalidArg, id)
	}
	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		s.key(id),
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentTypeZip},
	)
	if err != nil {
		return fmt.Errorf("s3 put object: %w", err)
	}
	return nil
}

func (s *S3) Get(ctx context.Context, id string) ([]byte, error) {
	if !utils.IsValidID(id) {
		return nil, fmt.Errorf("%w %s", errors.ErrInvalidArg, id)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(id), minio.GetObjectOptions{})
	if err != nil {
		return nil, s.mapError(id, err)
	}
	defer obj.Close()

	// nb. GetObject is lazy, a missing key is only reported on first read
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.mapError(id, err)
	}
	return data, nil
}

func (s *S3) Delete(ctx context.Context, id string) error {
	if !utils.IsValidID(id) {
		return fmt.Errorf("%w %s", errors.ErrInvalidArg, id)
	}
	err := s.client.RemoveObject(ctx, s.bucket, s.key(id), minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("s3 remove object: %w", err)
	}
	return nil
}

func (s *S3) Close() error {
	return nil
}

func (s *S3) key(id string) string {
	return s.prefix + fileName(id)
}

func (s *S3) mapError(id string, err error) error {
	if minio.ToErrorResponse(err).Code == s3NoSuchKey {
		return fmt.Errorf("%w archive %s", errors.ErrNotFound, id)
	}
	return fmt.Errorf("s3 get object: %w", err)
}
