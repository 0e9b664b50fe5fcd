// Package sthree implements a read-only storage backend for AWS S3
// buckets, keyed by object key.
package sthree

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/oneconcern/refmat/pkg/storage"
	"github.com/oneconcern/refmat/pkg/storage/status"
	"go.uber.org/zap"
)

// Option is a functor to pass optional parameters to the s3 store
type Option func(*s3FS)

// Bucket specifies the bucket this store reads from
func Bucket(bucket string) Option {
	return func(fs *s3FS) {
		fs.bucket = bucket
	}
}

// AWSConfig specifies the AWS configuration for the session, e.g. to
// point at a non-AWS endpoint or pin a region
func AWSConfig(cfg *aws.Config) Option {
	return func(fs *s3FS) {
		fs.awsConfig = cfg
	}
}

// Logger specifies a logger for this store
func Logger(logger *zap.Logger) Option {
	return func(fs *s3FS) {
		if logger != nil {
			fs.l = logger
		}
	}
}

// New creates an s3 backed storage model
func New(option Option, options ...Option) storage.Store {
	fs := &s3FS{
		l: zap.NewNop(),
	}
	option(fs)
	for _, apply := range options {
		apply(fs)
	}

	fs.s3 = s3.New(session.Must(session.NewSession(fs.awsConfig)))
	return fs
}

type s3FS struct {
	bucket    string
	awsConfig *aws.Config
	s3        *s3.S3
	l         *zap.Logger
}

func (s *s3FS) Has(ctx context.Context, key string) (bool, error) {
	_, err := s.s3.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if filterErrNotExists(toSentinelErrors(err)) == nil {
			return false, nil
		}
		return false, toSentinelErrors(err)
	}
	return true, nil
}

func (s *s3FS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.l.Debug("start GET", zap.String("bucket", s.bucket), zap.String("key", key))
	obj, err := s.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, toSentinelErrors(err)
	}
	return obj.Body, nil
}

func (s *s3FS) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	eachPage := func(page *s3.ListObjectsOutput, more bool) bool {
		for _, obj := range page.Contents {
			key := aws.StringValue(obj.Key)
			if key != "" {
				keys = append(keys, key)
			}
		}
		return more
	}
	params := &s3.ListObjectsInput{Bucket: aws.String(s.bucket)}

	err := s.s3.ListObjectsPagesWithContext(ctx, params, eachPage)
	if err != nil {
		return nil, toSentinelErrors(err)
	}
	return keys, nil
}

func (s *s3FS) Put(ctx context.Context, key string, rdr io.Reader, _ bool) error {
	return status.ErrNotSupported
}

func (s *s3FS) Delete(ctx context.Context, key string) error {
	return status.ErrNotSupported
}

func (s *s3FS) Clear(ctx context.Context) error {
	return status.ErrNotSupported
}

func (s *s3FS) String() string {
	return "s3@" + s.bucket
}
