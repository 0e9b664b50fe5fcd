// Copyright © 2019 One Concern

// Package fasta streams FASTA records in and out of sequence archives.
//
// The parser works record at a time and never holds more than one
// sequence in memory, so genome scale inputs are fine.
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/oneconcern/refmat/pkg/errors"
)

// ErrNoHeader indicates sequence data appearing before the first record header
var ErrNoHeader = errors.New("sequence data before first record header")

// Record is a single FASTA record.
//
// Description is the full header line after '>', including the leading
// identifier token. ID is that first token alone.
type Record struct {
	ID          string
	Description string
	Seq         []byte
}

const (
	initialScanBuffer = 64 * 1024
	// allow very long single-line sequences
	maxScanBuffer = 64 * 1024 * 1024
)

// Stream parses FASTA from r and calls emit once per record.
//
// The sequence slice passed to emit is owned by the callback.
// Parsing stops early when ctx is done or emit returns an error.
func Stream(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	buf := make([]byte, initialScanBuffer)
	sc.Buffer(buf, maxScanBuffer)

	var (
		header  string
		started bool
		seq     = make([]byte, 0, 1<<20)
	)

	flush := func() error {
		if !started {
			return nil
		}
		return emit(Record{
			ID:          headerID(header),
			Description: header,
			Seq:         append([]byte(nil), seq...),
		})
	}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			header = string(bytes.TrimSpace(line[1:]))
			started = true
			seq = seq[:0]
			continue
		}
		if !started {
			return ErrNoHeader
		}
		seq = append(seq, line...)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %v", err)
	}
	return flush()
}

func headerID(header string) string {
	if i := strings.IndexAny(header, " \t"); i >= 0 {
		return header[:i]
	}
	return header
}
