// Copyright © 2019 One Concern

// Package fetch downloads reference archives from their source URLs
// to the local file system.
//
// Sources are selected by URL scheme: http(s) URLs are retrieved over
// plain HTTP, gs:// and s3:// URLs from the matching cloud buckets, and
// file:// URLs (or bare paths) from the local file system.
//
// Every attempt is appended to a plain text transcript kept next to the
// artifact being built, so a materialized tree documents where its data
// came from.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oneconcern/refmat/pkg/fetch/status"
	"github.com/oneconcern/refmat/pkg/metrics"
	"github.com/oneconcern/refmat/pkg/storage"
	"github.com/oneconcern/refmat/pkg/storage/gcs"
	"github.com/oneconcern/refmat/pkg/storage/localfs"
	"github.com/oneconcern/refmat/pkg/storage/sthree"
	"github.com/oneconcern/refmat/pkg/storage/web"

	"github.com/aws/aws-sdk-go/aws"
	units "github.com/docker/go-units"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Fetcher resolves source URLs against storage backends and streams
// their content down to the local file system.
//
// Backends are built lazily, then cached: cloud stores are shared by
// all URLs pointing to the same bucket.
type Fetcher struct {
	fs        afero.Fs
	l         *zap.Logger
	client    *http.Client
	credFile  string
	awsConfig *aws.Config
	dest      storage.Store
	mutex     sync.Mutex
	sources   map[string]storage.Store

	metrics.Enable
	m *M
}

// New builds a Fetcher with the destination rooted at the given file system
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		fs:      afero.NewOsFs(),
		l:       zap.NewNop(),
		sources: make(map[string]storage.Store),
	}
	for _, apply := range opts {
		apply(f)
	}
	f.dest = localfs.New(f.fs)
	if f.MetricsEnabled() {
		f.m = f.EnsureMetrics("fetch", &M{}).(*M)
	}
	return f
}

// Fetch downloads a single URL into destPath, overwriting any previous
// content there. It reports the number of bytes written.
//
// The outcome of the attempt, success or failure, is appended to the
// transcript at logPath. Pass an empty logPath to skip the transcript.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, destPath, logPath string) (size int64, err error) {
	defer func(t0 time.Time) {
		if f.MetricsEnabled() {
			f.m.Volume.Archives.IORecord(t0, "Fetch")(size, err)
		}
	}(time.Now())

	f.l.Info("fetching archive",
		zap.String("url", rawURL),
		zap.String("destination", destPath),
	)
	f.transcript(logPath, fmt.Sprintf("GET %s -> %s", rawURL, destPath))

	t0 := time.Now()
	size, err = f.download(ctx, rawURL, destPath)
	if err != nil {
		f.transcript(logPath, fmt.Sprintf("failed after %v: %v", time.Since(t0).Round(time.Millisecond), err))
		return 0, err
	}

	f.transcript(logPath, fmt.Sprintf("done: %s in %v",
		units.HumanSize(float64(size)), time.Since(t0).Round(time.Millisecond)))
	return size, nil
}

func (f *Fetcher) download(ctx context.Context, rawURL, destPath string) (int64, error) {
	source, key, err := f.sourceFor(ctx, rawURL)
	if err != nil {
		return 0, err
	}

	rdr, err := source.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	defer rdr.Close()

	counter := &countingReader{rdr: rdr}
	if err := f.dest.Put(ctx, destPath, counter, storage.OverWrite); err != nil {
		return 0, err
	}
	return counter.size, nil
}

// sourceFor maps a URL to a storage backend and the key to get from it
func (f *Fetcher) sourceFor(ctx context.Context, rawURL string) (storage.Store, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", status.ErrInvalidURL.Wrap(err)
	}

	switch u.Scheme {
	case "http", "https":
		// the web store resolves full URLs as keys
		source, err := f.cachedSource(ctx, u.Scheme, "")
		return source, rawURL, err
	case "gs", "s3":
		source, err := f.cachedSource(ctx, u.Scheme, u.Host)
		return source, strings.TrimPrefix(u.Path, "/"), err
	case "file":
		source, err := f.cachedSource(ctx, "file", "")
		return source, u.Path, err
	case "":
		source, err := f.cachedSource(ctx, "file", "")
		return source, rawURL, err
	default:
		return nil, "", status.ErrScheme.WrapMessage("scheme: %v", u.Scheme)
	}
}

func (f *Fetcher) cachedSource(ctx context.Context, scheme, host string) (storage.Store, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	// sources injected with WithSource are registered by scheme alone
	if source, ok := f.sources[scheme]; ok {
		return source, nil
	}

	cacheKey := scheme
	if host != "" {
		cacheKey = scheme + "://" + host
	}
	if source, ok := f.sources[cacheKey]; ok {
		return source, nil
	}

	var (
		source storage.Store
		err    error
	)
	switch scheme {
	case "http", "https":
		source = web.New(web.Client(f.client), web.Logger(f.l))
	case "gs":
		source, err = gcs.New(ctx, host, f.credFile, gcs.Logger(f.l))
	case "s3":
		source = sthree.New(sthree.Bucket(host), sthree.AWSConfig(f.awsConfig), sthree.Logger(f.l))
	case "file":
		source = localfs.New(f.fs)
	}
	if err != nil {
		return nil, err
	}

	f.sources[cacheKey] = source
	return source, nil
}

// transcript appends one timestamped line to the fetch log.
// Transcript failures are logged but never fail the fetch itself.
func (f *Fetcher) transcript(logPath, line string) {
	if logPath == "" {
		return
	}
	if dir := filepath.Dir(logPath); dir != "" {
		_ = f.fs.MkdirAll(dir, 0700)
	}
	fh, err := f.fs.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		f.l.Warn("cannot open fetch transcript", zap.String("log", logPath), zap.Error(err))
		return
	}
	defer fh.Close()
	if _, err := fmt.Fprintf(fh, "%s %s\n", time.Now().UTC().Format(time.RFC3339), line); err != nil {
		f.l.Warn("cannot write fetch transcript", zap.String("log", logPath), zap.Error(err))
	}
}

type countingReader struct {
	rdr  io.Reader
	size int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.rdr.Read(p)
	c.size += int64(n)
	return n, err
}
