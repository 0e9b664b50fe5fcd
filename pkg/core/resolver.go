// Copyright © 2019 One Concern

package core

import (
	"time"

	"github.com/oneconcern/refmat/pkg/core/status"
	"github.com/oneconcern/refmat/pkg/metrics"
	"github.com/oneconcern/refmat/pkg/model"

	"go.uber.org/zap"
)

// Resolver compiles a references configuration into the flat table of all
// artifact paths the configuration declares.
type Resolver struct {
	l *zap.Logger

	metrics.Enable
	m *M
}

// NewResolver builds a resolver for core operations
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		l: zap.NewNop(),
	}
	for _, apply := range opts {
		apply(r)
	}
	if r.MetricsEnabled() {
		r.m = r.EnsureMetrics("core", &M{}).(*M)
	}
	return r
}

// Resolve compiles the configuration into a path table.
//
// Resolution is pure: no I/O is performed and identical configurations
// always compile to identical tables. Blocks colliding on
// (assembly, tag, type) fail resolution, as do unknown index or
// conversion kinds.
func (r *Resolver) Resolve(cfg *model.RefsConfig) (table model.PathTable, err error) {
	defer func(t0 time.Time) {
		if r.MetricsEnabled() {
			r.m.Usage.UsedAll(t0, "Resolve")(err)
		}
	}(time.Now())

	dir, ok := cfg.Dir()
	if !ok {
		return nil, status.ErrNoReferencesDir
	}

	table = make(model.PathTable, len(cfg.References))
	for i := range cfg.References {
		if err = r.addBlock(table, dir, &cfg.References[i]); err != nil {
			return nil, err
		}
	}

	r.l.Debug("resolved references configuration",
		zap.String("references_dir", dir),
		zap.Int("blocks", len(cfg.References)),
	)
	return table, nil
}

// addBlock registers the paths declared by one reference block: the
// canonical reference itself, then the derived artifacts its type warrants.
// Every fasta cell gets a chromsizes entry, requested or not.
func (r *Resolver) addBlock(table model.PathTable, dir string, block *model.ReferenceBlock) error {
	assembly, tag, typ := block.Assembly, block.FillTag(), block.Type

	kinds := cell(table, assembly, tag)
	if _, exists := kinds[typ]; exists {
		return status.ErrDuplicateEntry.WrapMessage(
			"tag %s already exists for type %s in assembly %s", tag, typ, assembly)
	}
	kinds[typ] = model.GetPathToReference(dir, assembly, tag, typ)

	switch typ {
	case model.GtfType:
		for _, conversion := range block.Conversions {
			suffix, ok := model.ConversionExtension(conversion)
			if !ok {
				return status.ErrUnknownConversion.WrapMessage(
					"conversion %s requested by %s/%s, supported kinds: %v",
					conversion, assembly, tag, model.ConversionKinds())
			}
			kinds[conversion] = model.GetPathToConversion(dir, assembly, tag, typ, suffix)
		}
	case model.FastaType:
		for _, index := range block.Indexes {
			suffix, ok := model.IndexExtension(index)
			if !ok {
				return status.ErrUnknownIndex.WrapMessage(
					"index %s requested by %s/%s, supported kinds: %v",
					index, assembly, tag, model.IndexKinds())
			}
			kinds[index] = model.GetPathToIndex(dir, assembly, tag, index, suffix)
		}
		kinds[model.ChromSizesKind] = model.GetPathToChromSizes(dir, assembly, tag)
	}
	return nil
}

func cell(table model.PathTable, assembly, tag string) map[string]string {
	tags, ok := table[assembly]
	if !ok {
		tags = make(map[string]map[string]string)
		table[assembly] = tags
	}
	kinds, ok := tags[tag]
	if !ok {
		kinds = make(map[string]string)
		tags[tag] = kinds
	}
	return kinds
}
