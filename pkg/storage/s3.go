package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client used by S3Store.
// *s3.Client from aws-sdk-go-v2 satisfies it.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

const s3ExpiryMetaKey = "expires-at"

// S3Store persists entries as S3 objects. It is the slow-but-durable
// backend, intended for values that must outlive the process fleet.
// Expiry is tracked through object metadata and enforced on Load;
// expired objects are not deleted eagerly (pair with a bucket
// lifecycle rule for actual cleanup).
type S3Store struct {
	client S3API
	bucket string
	prefix string
	closed bool
}

// NewS3Store creates a new S3-backed store.
//
//	cfg, _ := config.LoadDefaultConfig(context.Background())
//	store := storage.NewS3Store(s3.NewFromConfig(cfg), "my-bucket", "gouse/state/")
func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

func (s *S3Store) key(key string) string {
	return s.prefix + key
}

// Save uploads the value as an object, recording expiry in metadata.
func (s *S3Store) Save(ctx context.Context, key string, data []byte, expiresAt time.Time) error {
	if s.closed {
		return ErrStoreClosed{}
	}

	meta := map[string]string{}
	if !expiresAt.IsZero() {
		meta[s3ExpiryMetaKey] = expiresAt.UTC().Format(time.RFC3339Nano)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:   aws.String(s.bucket),
		Key:      aws.String(s.key(key)),
		Body:     bytes.NewReader(data),
		Metadata: meta,
	})
	return err
}

// Load retrieves a value if it exists and hasn't expired.
func (s *S3Store) Load(ctx context.Context, key string) ([]byte, error) {
	if s.closed {
		return nil, ErrStoreClosed{}
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(key)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	defer out.Body.Close()

	if raw, ok := out.Metadata[s3ExpiryMetaKey]; ok {
		expiresAt, perr := time.Parse(time.RFC3339Nano, raw)
		if perr == nil && time.Now().After(expiresAt) {
			return nil, nil
		}
	}

	return io.ReadAll(out.Body)
}

// Delete removes an object.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	if s.closed {
		return ErrStoreClosed{}
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(key)),
	})
	if err != nil && isS3NotFound(err) {
		return nil
	}
	return err
}

// Touch rewrites the expiry metadata via a same-key copy.
func (s *S3Store) Touch(ctx context.Context, key string, expiresAt time.Time) error {
	if s.closed {
		return ErrStoreClosed{}
	}

	meta := map[string]string{}
	if !expiresAt.IsZero() {
		meta[s3ExpiryMetaKey] = expiresAt.UTC().Format(time.RFC3339Nano)
	}

	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:            aws.String(s.bucket),
		Key:               aws.String(s.key(key)),
		CopySource:        aws.String(s.bucket + "/" + s.key(key)),
		Metadata:          meta,
		MetadataDirective: types.MetadataDirectiveReplace,
	})
	if err != nil && isS3NotFound(err) {
		return nil
	}
	return err
}

// Close marks the store closed. The S3 client has no resources to
// release.
func (s *S3Store) Close() error {
	s.closed = true
	return nil
}

func isS3NotFound(err error) bool {
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var notFound *types.NotFound
	return errors.As(err, &notFound)
}
