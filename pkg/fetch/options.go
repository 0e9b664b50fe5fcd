// Copyright © 2019 One Concern

package fetch

import (
	"net/http"

	"github.com/oneconcern/refmat/pkg/storage"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Option is a functor to pass optional parameters to a Fetcher
type Option func(*Fetcher)

// WithFileSystem roots the download destination and the fetch transcript
// at the given file system (defaults to the OS file system)
func WithFileSystem(fs afero.Fs) Option {
	return func(f *Fetcher) {
		if fs != nil {
			f.fs = fs
		}
	}
}

// WithLogger sets a logger for the fetcher
func WithLogger(l *zap.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.l = l
		}
	}
}

// WithClient sets the http client used for http(s) sources, e.g. with
// timeouts or proxies
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithSource registers a storage backend for a URL scheme, overriding
// the default backend selection for that scheme
func WithSource(scheme string, store storage.Store) Option {
	return func(f *Fetcher) {
		if store != nil {
			f.sources[scheme] = store
		}
	}
}

// WithCredentials sets the google credentials file used for gs:// sources.
// When unset, application default credentials apply.
func WithCredentials(credFile string) Option {
	return func(f *Fetcher) {
		f.credFile = credFile
	}
}

// WithAWSConfig sets the AWS configuration used for s3:// sources
func WithAWSConfig(cfg *aws.Config) Option {
	return func(f *Fetcher) {
		f.awsConfig = cfg
	}
}

// WithMetrics toggles metrics collection for this fetcher
func WithMetrics(enabled bool) Option {
	return func(f *Fetcher) {
		f.EnableMetrics(enabled)
	}
}
