// Copyright © 2018 One Concern

// Package web implements a read-only storage backend on top of plain
// http(s) file servers, such as the public genome archive mirrors.
//
// Keys are URLs, or paths relative to a base URL when one is set.
package web

import (
	"context"
	"io"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/oneconcern/refmat/pkg/storage"
	"github.com/oneconcern/refmat/pkg/storage/status"
	"go.uber.org/zap"
)

// Option is a functor to pass optional parameters to the web store
type Option func(*webStore)

// BaseURL anchors all keys to a common URL prefix
func BaseURL(base string) Option {
	return func(w *webStore) {
		w.base = strings.TrimSuffix(base, "/")
	}
}

// Client specifies a custom http client, e.g. with timeouts or proxies
func Client(client *http.Client) Option {
	return func(w *webStore) {
		if client != nil {
			w.client = client
		}
	}
}

// Logger specifies a logger for this store
func Logger(logger *zap.Logger) Option {
	return func(w *webStore) {
		if logger != nil {
			w.l = logger
		}
	}
}

// New creates a web backed storage model
func New(opts ...Option) storage.Store {
	w := &webStore{
		client: http.DefaultClient,
		l:      zap.NewNop(),
	}
	for _, apply := range opts {
		apply(w)
	}
	return w
}

type webStore struct {
	base   string
	client *http.Client
	l      *zap.Logger
}

func (w *webStore) url(key string) string {
	if w.base == "" {
		return key
	}
	return w.base + "/" + strings.TrimPrefix(key, "/")
}

func (w *webStore) String() string {
	if w.base == "" {
		return "web"
	}
	return "web@" + w.base
}

func (w *webStore) Has(ctx context.Context, key string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, w.url(key), nil)
	if err != nil {
		return false, status.ErrInvalidResource.Wrap(err)
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return false, status.ErrStorageAPI.Wrap(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return false, nil
	case resp.StatusCode >= 400:
		return false, toSentinelErrors(resp.StatusCode, w.url(key))
	default:
		return true, nil
	}
}

func (w *webStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	w.l.Debug("start GET", zap.String("url", w.url(key)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.url(key), nil)
	if err != nil {
		return nil, status.ErrInvalidResource.Wrap(err)
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return nil, status.ErrStorageAPI.Wrap(err)
	}
	if resp.StatusCode >= 400 {
		_, _ = io.Copy(ioutil.Discard, resp.Body)
		_ = resp.Body.Close()
		return nil, toSentinelErrors(resp.StatusCode, w.url(key))
	}
	return resp.Body, nil
}

func (w *webStore) Put(ctx context.Context, key string, rdr io.Reader, _ bool) error {
	return status.ErrNotSupported
}

func (w *webStore) Delete(ctx context.Context, key string) error {
	return status.ErrNotSupported
}

func (w *webStore) Keys(ctx context.Context) ([]string, error) {
	return nil, status.ErrNotSupported
}

func (w *webStore) Clear(ctx context.Context) error {
	return status.ErrNotSupported
}
