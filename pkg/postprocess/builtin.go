// Copyright © 2019 One Concern

package postprocess

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/oneconcern/refmat/pkg/fasta"
	"github.com/oneconcern/refmat/pkg/postprocess/status"
	"github.com/oneconcern/refmat/pkg/storage"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// MoveName is the registered name of the default single-archive move
	MoveName = "postprocess.move"

	// CatName is the registered name of the multi-archive concatenation
	CatName = "postprocess.cat"

	// FilterFastasName is the registered name of the FASTA record filter
	FilterFastasName = "postprocess.filter_fastas"
)

func init() {
	Default().MustRegister(MoveName, Move)
	Default().MustRegister(CatName, Cat)
	Default().MustRegister(FilterFastasName, FilterFastas)
}

func createTarget(fs afero.Fs, outfile string) (afero.File, error) {
	if dir := filepath.Dir(outfile); dir != "" {
		if err := fs.MkdirAll(dir, 0700); err != nil {
			return nil, err
		}
	}
	return fs.Create(outfile)
}

// Move renames a single fetched archive into its final place.
//
// This is the implicit postprocess when a reference block declares none.
func Move(ctx context.Context, env Env, inputs []string, outfile string, args ...string) error {
	if len(args) != 0 {
		return status.ErrArgCount.WrapMessage("move takes no arguments, got %d", len(args))
	}
	if len(inputs) != 1 {
		return status.ErrInputCount.WrapMessage("move expects a single input, got %d", len(inputs))
	}
	fs := env.filesystem()
	if err := fs.Rename(inputs[0], outfile); err == nil {
		return nil
	}
	// rename fails across devices: copy, then drop the source
	env.logger().Debug("move falls back to copy", zap.String("input", inputs[0]), zap.String("outfile", outfile))
	in, err := fs.Open(inputs[0])
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := createTarget(fs, outfile)
	if err != nil {
		return err
	}
	if _, err = storage.PipeIO(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	return fs.Remove(inputs[0])
}

// Cat concatenates fetched archives, in order, into the final artifact.
// Gzip members concatenate into a valid gzip stream, so this works on
// compressed archives too.
func Cat(ctx context.Context, env Env, inputs []string, outfile string, args ...string) error {
	if len(args) != 0 {
		return status.ErrArgCount.WrapMessage("cat takes no arguments, got %d", len(args))
	}
	if len(inputs) == 0 {
		return status.ErrInputCount.WrapMessage("cat expects at least one input")
	}
	fs := env.filesystem()
	out, err := createTarget(fs, outfile)
	if err != nil {
		return err
	}
	for _, input := range inputs {
		select {
		case <-ctx.Done():
			_ = out.Close()
			return ctx.Err()
		default:
		}
		in, err := fs.Open(input)
		if err != nil {
			_ = out.Close()
			return err
		}
		if _, err = storage.PipeIO(out, in); err != nil {
			_ = in.Close()
			_ = out.Close()
			return err
		}
		if err = in.Close(); err != nil {
			_ = out.Close()
			return err
		}
	}
	return out.Close()
}

// FilterFastas keeps only the FASTA records whose description contains
// the given pattern.
//
// Kept records are back-transcribed to DNA and written with their header
// reduced to the bare record ID. Inputs may be gzipped; the output always
// is.
func FilterFastas(ctx context.Context, env Env, inputs []string, outfile string, args ...string) error {
	if len(args) != 1 {
		return status.ErrArgCount.WrapMessage("filter_fastas expects a single pattern, got %d arguments", len(args))
	}
	if len(inputs) == 0 {
		return status.ErrInputCount.WrapMessage("filter_fastas expects at least one input")
	}
	pattern := args[0]
	fs := env.filesystem()

	out, err := createTarget(fs, outfile)
	if err != nil {
		return err
	}
	zw := gzip.NewWriter(out)
	w := fasta.NewWriter(zw)

	keep := func(r fasta.Record) error {
		if !strings.Contains(r.Description, pattern) {
			return nil
		}
		r.Seq = fasta.BackTranscribe(r.Seq)
		r.Description = r.ID
		return w.WriteRecord(r)
	}

	filter := func() error {
		for _, input := range inputs {
			rdr, err := fasta.OpenReader(fs, input)
			if err != nil {
				return err
			}
			if err = fasta.Stream(ctx, rdr, keep); err != nil {
				_ = rdr.Close()
				return err
			}
			if err = rdr.Close(); err != nil {
				return err
			}
		}
		return nil
	}

	if err = filter(); err != nil {
		_ = zw.Close()
		_ = out.Close()
		return err
	}
	if err = w.Flush(); err != nil {
		_ = zw.Close()
		_ = out.Close()
		return err
	}
	if err = zw.Close(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
