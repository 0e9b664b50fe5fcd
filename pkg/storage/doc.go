// Copyright © 2018 One Concern

// Package storage provides an interface to handle backend storage objects.
//
// This package supports the following backends:
//   - GCS (Google)
//   - S3 (AWS)
//   - local file system
//   - plain http file servers
//
// Reference archives are fetched from any of these backends. Only the
// local file system backend accepts writes.
package storage
