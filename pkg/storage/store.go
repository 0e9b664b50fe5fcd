// Copyright © 2018 One Concern

package storage

import (
	"context"
	"io"
)

const (
	// OverWrite a key in a store when putting an object
	OverWrite = false

	// NoOverWrite a key in a store when putting an object: Put fails if the key exists
	NoOverWrite = true
)

// Store implementations know how to fetch and write entries from a K.V store.
//
// Typically this is something file system-like. Examples are S3, GCS, local FS,
// plain http file servers.
//
// Implementations of this interface are assumed to be fairly simple.
// Read-only backends answer status.ErrNotSupported on mutating calls.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(context.Context, string, io.Reader, bool) error
	Delete(context.Context, string) error
	Keys(context.Context) ([]string, error)
	Clear(context.Context) error
}

// PipeIO copies a reader out to a writer through a pipe, so flow is
// regulated between a slow producer and a slow consumer
func PipeIO(writer io.Writer, reader io.Reader) (int64, error) {
	pr, pw := io.Pipe()
	errC := make(chan error, 1)
	go func() {
		defer pw.Close()
		_, err := io.Copy(pw, reader)
		errC <- err
	}()
	written, err := io.Copy(writer, pr)
	if err != nil {
		return 0, err
	}
	if err = <-errC; err != nil {
		return 0, err
	}
	return written, nil
}
