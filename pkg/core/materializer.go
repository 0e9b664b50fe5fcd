// Copyright © 2019 One Concern

package core

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/oneconcern/refmat/pkg/core/status"
	"github.com/oneconcern/refmat/pkg/fetch"
	"github.com/oneconcern/refmat/pkg/metrics"
	"github.com/oneconcern/refmat/pkg/model"
	"github.com/oneconcern/refmat/pkg/postprocess"

	"github.com/segmentio/ksuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Downloader is the fetch collaborator contract: retrieve one URL into a
// destination file, keeping a transcript of the attempt at logPath.
type Downloader interface {
	Fetch(ctx context.Context, rawURL, destPath, logPath string) (int64, error)
}

// Materializer drives the download-then-postprocess pipeline producing one
// reference artifact per call.
type Materializer struct {
	fs       afero.Fs
	l        *zap.Logger
	registry *postprocess.Registry
	fetcher  Downloader

	metrics.Enable
	m *M
}

// NewMaterializer builds a materializer for core operations.
//
// Unless overridden by options, artifacts land on the OS file system,
// postprocess names resolve against the process-wide registry and downloads
// run through a fetcher rooted at the same file system.
func NewMaterializer(opts ...MaterializerOption) *Materializer {
	m := &Materializer{
		fs:       afero.NewOsFs(),
		l:        zap.NewNop(),
		registry: postprocess.Default(),
	}
	for _, apply := range opts {
		apply(m)
	}
	if m.fetcher == nil {
		m.fetcher = fetch.New(
			fetch.WithFileSystem(m.fs),
			fetch.WithLogger(m.l),
			fetch.WithMetrics(m.MetricsEnabled()),
		)
	}
	if m.MetricsEnabled() {
		m.m = m.EnsureMetrics("core", &M{}).(*M)
	}
	return m
}

// Materialize produces the artifact at outfile from the reference block
// declared for (assembly, tag) in the configuration.
//
// Source URLs are downloaded sequentially to temporary siblings of outfile,
// then the block's postprocess function (move, when none is declared) turns
// the downloads into the artifact. A failed download does not abort the
// pipeline: the failure is recorded in the fetch transcript at
// {outfile}.log and surfaces when postprocessing consumes the missing or
// truncated temporary.
//
// Temporary downloads are removed on every exit path. Errors from the
// postprocess function propagate unwrapped; cleanup failures never mask
// them.
func (m *Materializer) Materialize(ctx context.Context, outfile string, cfg *model.RefsConfig, assembly, tag string) (err error) {
	defer func(t0 time.Time) {
		if m.MetricsEnabled() {
			m.m.Usage.UsedAll(t0, "Materialize")(err)
		}
	}(time.Now())

	l := m.l.With(
		zap.String("run_id", ksuid.New().String()),
		zap.String("assembly", assembly),
		zap.String("tag", tag),
		zap.String("outfile", outfile),
	)

	block, err := selectBlock(cfg, assembly, tag)
	if err != nil {
		return err
	}

	fn, name, args, err := m.postprocessFunc(block)
	if err != nil {
		return err
	}

	logPath := model.GetPathToFetchLog(outfile)
	if err = m.truncateLog(logPath); err != nil {
		return err
	}

	tmpfiles := make([]string, 0, len(block.URL))
	defer func() {
		m.cleanup(tmpfiles, l)
	}()

	for i, rawURL := range block.URL {
		tmpfile := model.GetPathToTemp(outfile, i)
		tmpfiles = append(tmpfiles, tmpfile)

		if _, ferr := m.fetcher.Fetch(ctx, rawURL, tmpfile, logPath); ferr != nil {
			l.Warn("fetch failed, continuing with remaining downloads",
				zap.String("url", rawURL),
				zap.Error(ferr),
			)
		}
	}

	l.Debug("running postprocess function",
		zap.String("function", name),
		zap.Strings("args", args),
	)
	if err = fn(ctx, postprocess.Env{FS: m.fs, L: l}, tmpfiles, outfile, args...); err != nil {
		return err
	}

	if m.MetricsEnabled() {
		m.m.Volume.Artifacts.Inc("materialize")
	}
	l.Info("artifact materialized", zap.String("function", name))
	return nil
}

// selectBlock builds the (assembly, tag) lookup over all reference blocks
// and picks the one asked for.
//
// Blocks colliding on (assembly, tag) fail the whole lookup even when their
// types differ: the download side of the configuration is keyed without the
// type, so such pairs are ambiguous here while still fine to resolve paths
// for.
func selectBlock(cfg *model.RefsConfig, assembly, tag string) (*model.ReferenceBlock, error) {
	type refKey struct {
		assembly, tag string
	}
	lookup := make(map[refKey]*model.ReferenceBlock, len(cfg.References))
	for i := range cfg.References {
		block := &cfg.References[i]
		k := refKey{assembly: block.Assembly, tag: block.FillTag()}
		if _, exists := lookup[k]; exists {
			return nil, status.ErrDuplicateRef.WrapMessage("key (%s, %s) already exists", k.assembly, k.tag)
		}
		lookup[k] = block
	}

	block, ok := lookup[refKey{assembly: assembly, tag: tag}]
	if !ok {
		return nil, status.ErrRefNotFound.WrapMessage("key (%s, %s) not found", assembly, tag)
	}
	return block, nil
}

// postprocessFunc resolves the function declared by the block, or the
// builtin move when the block declares none.
func (m *Materializer) postprocessFunc(block *model.ReferenceBlock) (postprocess.Func, string, []string, error) {
	pp := block.Postprocess
	if pp == nil {
		fn, err := m.registry.Resolve(postprocess.MoveName)
		return fn, postprocess.MoveName, nil, err
	}
	fn, err := m.registry.Resolve(pp.Name)
	if err != nil {
		return nil, "", nil, err
	}
	return fn, pp.Name, pp.Args, nil
}

// truncateLog resets the fetch transcript, so the log next to an artifact
// covers only its latest materialize run.
func (m *Materializer) truncateLog(logPath string) error {
	if dir := filepath.Dir(logPath); dir != "" {
		if err := m.fs.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}
	fh, err := m.fs.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	return fh.Close()
}

// cleanup removes the temporary downloads of one materialize run.
// Best-effort: a temporary already moved into place is skipped, a failed
// removal is logged but never overrides an error already propagating.
func (m *Materializer) cleanup(tmpfiles []string, l *zap.Logger) {
	for _, tmpfile := range tmpfiles {
		exists, err := afero.Exists(m.fs, tmpfile)
		if err != nil || !exists {
			continue
		}
		if err := m.fs.Remove(tmpfile); err != nil {
			l.Warn("cannot remove temporary download",
				zap.String("tmpfile", tmpfile),
				zap.Error(err),
			)
		}
	}
}

// ResolveOutput derives the (assembly, tag, kind) coordinates of an artifact
// from its path under the configured references directory.
func ResolveOutput(cfg *model.RefsConfig, outfile string) (model.PathComponents, error) {
	dir, ok := cfg.Dir()
	if !ok {
		return model.PathComponents{}, status.ErrNoReferencesDir
	}
	pc, err := model.GetPathComponents(outfile, dir)
	if err != nil {
		return model.PathComponents{}, status.ErrInvalidPath.Wrap(err)
	}
	return pc, nil
}

// OutputFor yields the artifact path the (assembly, tag) reference block
// materializes to. Derived artifacts such as chromosome sizes or aligner
// indexes are never selected: the path returned is always the primary
// reference of the block.
func OutputFor(cfg *model.RefsConfig, assembly, tag string) (string, error) {
	dir, ok := cfg.Dir()
	if !ok {
		return "", status.ErrNoReferencesDir
	}
	block, err := selectBlock(cfg, assembly, tag)
	if err != nil {
		return "", err
	}
	return model.GetPathToReference(dir, block.Assembly, block.FillTag(), block.Type), nil
}
