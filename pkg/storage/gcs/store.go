// Copyright © 2018 One Concern

// Package gcs implements a read-only storage backend for Google Cloud
// Storage buckets, keyed by object name.
package gcs

import (
	"context"
	"io"

	gcsStorage "cloud.google.com/go/storage"

	"github.com/oneconcern/refmat/pkg/storage"
	"github.com/oneconcern/refmat/pkg/storage/status"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type gcs struct {
	readOnlyClient *gcsStorage.Client
	bucket         string
	l              *zap.Logger
}

// New builds a gcs storage backend for a bucket.
//
// Credentials are picked up from the environment (GOOGLE_APPLICATION_CREDENTIALS)
// unless an explicit credential file is given.
func New(ctx context.Context, bucket string, credentialFile string, opts ...Option) (storage.Store, error) {
	googleStore := &gcs{
		bucket: bucket,
		l:      zap.NewNop(),
	}
	for _, apply := range opts {
		apply(googleStore)
	}

	gcsOptions := []option.ClientOption{option.WithScopes(gcsStorage.ScopeReadOnly)}
	if credentialFile != "" {
		gcsOptions = append(gcsOptions, option.WithCredentialsFile(credentialFile))
	}
	client, err := gcsStorage.NewClient(ctx, gcsOptions...)
	if err != nil {
		return nil, toSentinelErrors(err)
	}
	googleStore.readOnlyClient = client
	return googleStore, nil
}

func (g *gcs) String() string {
	return "gs://" + g.bucket
}

func (g *gcs) Has(ctx context.Context, objectName string) (bool, error) {
	_, err := g.readOnlyClient.Bucket(g.bucket).Object(objectName).Attrs(ctx)
	if err != nil {
		if err == gcsStorage.ErrObjectNotExist {
			return false, nil
		}
		return false, toSentinelErrors(err)
	}
	return true, nil
}

func (g *gcs) Get(ctx context.Context, objectName string) (io.ReadCloser, error) {
	g.l.Debug("start GET", zap.String("bucket", g.bucket), zap.String("object", objectName))
	objectReader, err := g.readOnlyClient.Bucket(g.bucket).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, toSentinelErrors(err)
	}
	return objectReader, nil
}

func (g *gcs) Keys(ctx context.Context) ([]string, error) {
	const keysPerPage = 1024
	var (
		keys      []string
		pageToken string
	)
	for {
		itr := g.readOnlyClient.Bucket(g.bucket).Objects(ctx, nil)
		var objects []*gcsStorage.ObjectAttrs
		nextPageToken, err := iterator.NewPager(itr, keysPerPage, pageToken).NextPage(&objects)
		if err != nil {
			return nil, toSentinelErrors(err)
		}
		for _, objAttrs := range objects {
			keys = append(keys, objAttrs.Name)
		}
		if nextPageToken == "" {
			break
		}
		pageToken = nextPageToken
	}
	return keys, nil
}

func (g *gcs) Put(ctx context.Context, objectName string, reader io.Reader, _ bool) error {
	return status.ErrNotSupported
}

func (g *gcs) Delete(ctx context.Context, objectName string) error {
	return status.ErrNotSupported
}

func (g *gcs) Clear(ctx context.Context) error {
	return status.ErrNotSupported
}
